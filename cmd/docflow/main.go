package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	docflow "github.com/goliatone/go-docflow"
	"github.com/goliatone/go-docflow/config"
	"github.com/goliatone/go-docflow/middleware/authware"
)

// App wires configuration, persistence, auth, and the HTTP server
type App struct {
	config *gconfig.Container[*config.BaseConfig]
	logger *glog.BaseLogger
	repo   docflow.RepositoryManager
	srv    router.Server[*fiber.App]
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Debug),
		glog.WithName("docflow"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.Config().Debug {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
		fmt.Println("============")
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	go func() {
		if err := app.srv.Serve(app.Config().GetServer().GetAddress()); err != nil {
			app.GetLogger("server").Error("server stopped", "error", err)
		}
	}()

	WaitExitSignal()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config().GetServer().GetShutdownTimeout())
	defer cancel()
	if err := app.srv.Shutdown(shutdownCtx); err != nil {
		app.GetLogger("server").Error("shutdown error", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	pcfg := app.Config().GetPersistence()

	db, err := sql.Open(sqliteshim.ShimName, pcfg.GetDSN())
	if err != nil {
		return err
	}

	persistence.RegisterModel((*docflow.Societe)(nil))
	persistence.RegisterModel((*docflow.User)(nil))
	persistence.RegisterModel((*docflow.Document)(nil))

	client, err := persistence.New(pcfg, db, sqlitedialect.New())
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(docflow.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.repo = docflow.NewRepositoryManager(client.DB())

	if pcfg.GetSeed() {
		if err := docflow.SeedDemoData(ctx, app.repo, app.GetLogger("seed")); err != nil {
			return err
		}
	}

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	acfg := app.Config().GetAuth()
	scfg := app.Config().GetStorage()

	blacklist := docflow.NewTokenBlacklist()

	provider := docflow.NewUserProvider(app.repo.Users()).
		WithLogger(app.GetLogger("identity"))

	auther := docflow.NewAuthenticator(provider, blacklist, acfg).
		WithLogger(app.GetLogger("auth")).
		WithActivitySink(activityLogger(app.GetLogger("activity")))

	store := docflow.NewDiskStore(scfg.GetUploadDir(), app.GetLogger("storage"))

	service := docflow.NewDocumentService(app.repo, store).
		WithLogger(app.GetLogger("documents")).
		WithActivitySink(activityLogger(app.GetLogger("activity")))

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: app.Config().Debug,
			StrictRouting:     false,
			BodyLimit:         int(docflow.MaxUploadSize) + 1024*1024,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	srv.Router().Use(authware.New(authware.Config{
		OpenRoutes:     acfg.GetOpenRoutes(),
		AuthScheme:     acfg.GetAuthScheme(),
		TokenValidator: auther.TokenService(),
		Blacklist:      blacklist,
		Resolver:       provider,
		Logger:         app.GetLogger("authware"),
	}))

	srv.Router().Use(authware.RequireRole(
		docflow.RoleSociete,
		acfg.GetSocieteRoutes(),
		authware.WithGateLogger(app.GetLogger("gate")),
	))

	srv.Router().Use(authware.RequireRole(
		docflow.RoleComptable,
		acfg.GetComptableRoutes(),
		authware.WithGateLogger(app.GetLogger("gate")),
	))

	exempt := append(append([]string{}, acfg.GetOpenRoutes()...), docflow.AnonymousAllowedRoutes...)
	srv.Router().Use(authware.RequireAuthenticated(
		[]string{"/api"},
		exempt,
		authware.WithGateLogger(app.GetLogger("gate")),
	))

	docflow.RegisterRoutes(srv.Router(), docflow.Controllers{
		Auth:      docflow.NewAuthController(auther, docflow.WithAuthLogger(app.GetLogger("auth.http")), docflow.WithAuthDebug(app.Config().Debug)),
		Societe:   docflow.NewSocieteController(service, app.GetLogger("societe.http")),
		Comptable: docflow.NewComptableController(service, app.GetLogger("comptable.http")),
	})

	app.srv = srv

	return nil
}

func activityLogger(lgr glog.Logger) docflow.ActivitySink {
	return docflow.ActivitySinkFunc(func(ctx context.Context, event docflow.ActivityEvent) error {
		lgr.Info("activity",
			"type", string(event.EventType),
			"user_id", event.UserID,
			"email", event.Email,
			"document_id", event.DocumentID,
		)
		return nil
	})
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
