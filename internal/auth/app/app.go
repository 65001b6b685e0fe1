package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/samber/oops"

	httpapi "github.com/aussiebroadwan/sessionauth/internal/auth/http"
	"github.com/aussiebroadwan/sessionauth/internal/auth/metrics"
	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/sessionauth/pkg/cryptox"
	"github.com/aussiebroadwan/sessionauth/pkg/errutil"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	metrics *metrics.Metrics

	auth         *service.AuthManager
	housekeeping *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialized and the
// schema migrated.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service:      "auth-service",
			Version:      BuildVersion,
			Env:          cfg.Env,
			Level:        cfg.LogLevel,
			Format:       cfg.LogFormat,
			RedactFields: cfg.RedactFieldList(),
		}),
	}

	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, oops.Code("MIGRATION_UP_FAILED").Wrapf(err, "apply database migrations")
	}
	app.logger.Info("database migrations applied", "driver", cfg.DatabaseDriver)

	if err := app.initServices(); err != nil {
		_ = db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// OpenStore connects to the configured database driver without migrating it.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, postgres.ConnectOptions{
			Attempts: cfg.DatabaseConnectAttempts,
		})
		if err != nil {
			return nil, err
		}
		return db, nil
	case DriverSQLite, "":
		db, err := sqlite.NewStore(cfg.DatabaseFile)
		if err != nil {
			return nil, oops.Code("STORE_CONNECT_FAILED").With("file", cfg.DatabaseFile).Wrap(err)
		}
		return db, nil
	default:
		return nil, oops.Code("CONFIG_INVALID").Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// Handler exposes the routed HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves HTTP until ctx is cancelled or the server fails, then shuts
// down gracefully.
func (app *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		_ = app.db.Close()
		return oops.Code("LISTEN_FAILED").With("addr", app.server.Addr).Wrap(err)
	}
	return app.Serve(ctx, ln)
}

// Serve is Run on an already bound listener.
func (app *Application) Serve(ctx context.Context, ln net.Listener) error {
	app.housekeeping.Start()

	app.logger.Info("auth service starting", "addr", ln.Addr().String(), "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		app.housekeeping.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		<-serverErrors
	}

	return nil
}

// Shutdown drains in-flight requests, stops background work and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		errutil.LogError(ctx, app.logger, "graceful server shutdown failed", err)
		if err := app.server.Close(); err != nil {
			errutil.LogError(ctx, app.logger, "error closing server", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		errutil.LogError(ctx, app.logger, "error closing database", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) initServices() error {
	pepper, err := cryptox.LoadPepper(app.cfg.PepperFile)
	if err != nil {
		return oops.Code("PEPPER_UNAVAILABLE").With("path", app.cfg.PepperFile).Wrap(err)
	}

	hasher, err := cryptox.NewPasswordHasher(app.cfg.Hasher, pepper)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	app.metrics = metrics.New()
	app.auth = service.NewAuthManager(app.db, hasher, nil, app.metrics)
	app.housekeeping = service.NewHousekeepingService(
		app.db,
		app.metrics,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(app.auth, app.db, app.metrics, app.logger, httpapi.Options{
		BuildVersion:   BuildVersion,
		CookieSecure:   app.cfg.CookieSecure,
		LogoutRedirect: app.cfg.LogoutRedirect,
	})
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
