package docflow

import (
	"strings"

	"github.com/goliatone/go-router"
)

// Route prefixes mirror the security configuration: login is open,
// the two role areas are prefix guarded, everything else under /api
// requires an authenticated principal.
var (
	DefaultOpenRoutes      = []string{"/api/auth/login"}
	DefaultSocieteRoutes   = []string{"/api/societe"}
	DefaultComptableRoutes = []string{"/api/comptable"}
)

// AnonymousAllowedRoutes still run through the auth filter but are
// exempt from the authenticated catch-all gate. Logout must succeed
// for a caller whose token already expired, or who sends no token
// at all.
var AnonymousAllowedRoutes = []string{"/api/auth/logout"}

// MatchesPrefix reports whether the path falls under any of the given
// prefixes. A prefix matches exactly or at a path boundary, so
// /api/societe guards /api/societe/documents but not /api/societes.
func MatchesPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix {
			return true
		}
		if strings.HasPrefix(path, prefix) && len(path) > len(prefix) && path[len(prefix)] == '/' {
			return true
		}
	}
	return false
}

// Controllers groups the HTTP surface for registration
type Controllers struct {
	Auth      *AuthController
	Societe   *SocieteController
	Comptable *ComptableController
}

// RegisterRoutes mounts every endpoint on the router. The middleware
// chain (auth filter then role gates) is expected to be installed by
// the caller before this runs.
func RegisterRoutes[T any](app router.Router[T], c Controllers) {
	app.Post("/api/auth/login", c.Auth.LoginPost).SetName("auth.login")
	app.Post("/api/auth/logout", c.Auth.LogoutPost).SetName("auth.logout")
	app.Get("/api/me", c.Auth.MeGet).SetName("auth.me")

	app.Get("/api/societe/info", c.Societe.InfoGet).SetName("societe.info")
	app.Post("/api/societe/documents/upload", c.Societe.UploadPost).SetName("societe.documents.upload")
	app.Get("/api/societe/documents", c.Societe.ListGet).SetName("societe.documents.list")
	app.Get("/api/societe/documents/exercice/:exercice", c.Societe.ListByExerciceGet).SetName("societe.documents.exercice")
	app.Get("/api/societe/documents/:id", c.Societe.DetailGet).SetName("societe.documents.detail")
	app.Get("/api/societe/documents/:id/download", c.Societe.DownloadGet).SetName("societe.documents.download")

	app.Get("/api/comptable/info", c.Comptable.InfoGet).SetName("comptable.info")
	app.Get("/api/comptable/documents/pending", c.Comptable.PendingGet).SetName("comptable.documents.pending")
	app.Get("/api/comptable/documents/pending/exercice/:exercice", c.Comptable.PendingByExerciceGet).SetName("comptable.documents.pending.exercice")
	app.Get("/api/comptable/documents/societe/:societeId", c.Comptable.BySocieteGet).SetName("comptable.documents.societe")
	app.Post("/api/comptable/documents/:id/validate", c.Comptable.ValidatePost).SetName("comptable.documents.validate")
	app.Get("/api/comptable/documents/:id", c.Comptable.DetailGet).SetName("comptable.documents.detail")
	app.Get("/api/comptable/documents/:id/download", c.Comptable.DownloadGet).SetName("comptable.documents.download")
}
