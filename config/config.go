package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// BaseConfig is the root configuration document loaded by the go-config
// container from app.json plus environment overrides.
type BaseConfig struct {
	Name        string      `json:"name" koanf:"name"`
	Env         string      `json:"env" koanf:"env"`
	Debug       bool        `json:"debug" koanf:"debug"`
	Auth        Auth        `json:"auth" koanf:"auth"`
	Server      Server      `json:"server" koanf:"server"`
	Persistence Persistence `json:"persistence" koanf:"persistence"`
	Storage     Storage     `json:"storage" koanf:"storage"`
}

func (a BaseConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Auth),
		validation.Field(&a.Server),
		validation.Field(&a.Persistence),
		validation.Field(&a.Storage),
	)
}

func (a BaseConfig) GetAuth() Auth {
	return a.Auth
}

func (a BaseConfig) GetServer() Server {
	return a.Server
}

func (a BaseConfig) GetPersistence() Persistence {
	return a.Persistence
}

func (a BaseConfig) GetStorage() Storage {
	return a.Storage
}

// Auth configures token issuance and the route classification
type Auth struct {
	SigningKey      string   `json:"signing_key" koanf:"signing_key"`
	TokenExpiration int      `json:"token_expiration" koanf:"token_expiration"`
	Issuer          string   `json:"issuer" koanf:"issuer"`
	AuthScheme      string   `json:"auth_scheme" koanf:"auth_scheme"`
	OpenRoutes      []string `json:"open_routes" koanf:"open_routes"`
	SocieteRoutes   []string `json:"societe_routes" koanf:"societe_routes"`
	ComptableRoutes []string `json:"comptable_routes" koanf:"comptable_routes"`
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SigningKey, validation.Required, validation.Length(32, 0)),
		validation.Field(&a.TokenExpiration, validation.Required, validation.Min(1)),
	)
}

func (a Auth) GetSigningKey() string {
	return a.SigningKey
}

// GetTokenExpiration is the token lifetime in seconds
func (a Auth) GetTokenExpiration() int {
	if a.TokenExpiration == 0 {
		return 86400
	}
	return a.TokenExpiration
}

func (a Auth) GetIssuer() string {
	if a.Issuer == "" {
		return "docflow"
	}
	return a.Issuer
}

func (a Auth) GetAuthScheme() string {
	if a.AuthScheme == "" {
		return "Bearer"
	}
	return a.AuthScheme
}

func (a Auth) GetOpenRoutes() []string {
	if len(a.OpenRoutes) == 0 {
		return []string{"/api/auth/login"}
	}
	return a.OpenRoutes
}

func (a Auth) GetSocieteRoutes() []string {
	if len(a.SocieteRoutes) == 0 {
		return []string{"/api/societe"}
	}
	return a.SocieteRoutes
}

func (a Auth) GetComptableRoutes() []string {
	if len(a.ComptableRoutes) == 0 {
		return []string{"/api/comptable"}
	}
	return a.ComptableRoutes
}

// Server configures the HTTP listener
type Server struct {
	Address         string `json:"address" koanf:"address"`
	ShutdownTimeout string `json:"shutdown_timeout" koanf:"shutdown_timeout"`
}

func (s Server) Validate() error {
	return nil
}

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":8080"
	}
	return s.Address
}

func (s Server) GetShutdownTimeout() time.Duration {
	dur, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return dur
}

// Persistence configures the sqlite database
type Persistence struct {
	Driver string `json:"driver" koanf:"driver"`
	DSN    string `json:"dsn" koanf:"dsn"`
	Seed   bool   `json:"seed" koanf:"seed"`
	Debug  bool   `json:"debug" koanf:"debug"`
}

func (p Persistence) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.DSN, validation.Required),
	)
}

func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p Persistence) GetDSN() string {
	return p.DSN
}

func (p Persistence) GetSeed() bool {
	return p.Seed
}

func (p Persistence) GetDebug() bool {
	return p.Debug
}

// Storage configures where uploaded files live
type Storage struct {
	UploadDir string `json:"upload_dir" koanf:"upload_dir"`
}

func (s Storage) Validate() error {
	return nil
}

func (s Storage) GetUploadDir() string {
	if s.UploadDir == "" {
		return "uploads"
	}
	return s.UploadDir
}
