// Package runtime wires configuration, persistence and the HTTP server into
// a runnable application.
package runtime

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	app "github.com/kahit-saan/menu-service/internal/app"
	"github.com/kahit-saan/menu-service/internal/app/httpapi"
	"github.com/kahit-saan/menu-service/internal/app/storage/postgres"
	"github.com/kahit-saan/menu-service/internal/app/uploader"
	"github.com/kahit-saan/menu-service/internal/config"
	"github.com/kahit-saan/menu-service/internal/logging"
	"github.com/kahit-saan/menu-service/internal/middleware"
	"github.com/kahit-saan/menu-service/internal/platform/migrations"
)

// Application manages the full service lifecycle.
type Application struct {
	cfg        *config.Config
	log        *logging.Logger
	httpServer *http.Server
	db         *sql.DB
}

// NewApplication constructs the application with default wiring.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logging.New(cfg.Logging)

	stores, db, err := buildStores(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("configure stores: %w", err)
	}

	photoStore, err := uploader.NewLocal(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("configure uploads: %w", err)
	}

	application := app.New(stores, log, app.WithUploader(photoStore))

	if cfg.Auth.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty; admin tokens will not validate")
	}
	auth := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, log.Component("auth"))

	router := httpapi.NewHandler(application, auth, httpapi.Config{UploadsDir: cfg.Uploads.Dir})

	cors := middleware.NewCORSMiddleware(cfg.CORS.Origins())
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log.Component("ratelimit"))
	handler := cors.Handler(limiter.Handler(router))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Application{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		db:         db,
	}, nil
}

func buildStores(cfg *config.Config, log *logging.Logger) (app.Stores, *sql.DB, error) {
	if !cfg.Database.Enabled() {
		log.Warn("DB_HOST not set; using in-memory store, data will not survive restarts")
		return app.Stores{}, nil, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return app.Stores{}, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return app.Stores{}, nil, fmt.Errorf("ping database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrations.Apply(ctx, db); err != nil {
		db.Close()
		return app.Stores{}, nil, fmt.Errorf("apply migrations: %w", err)
	}

	store := postgres.New(db)
	log.Infof("connected to postgres database %s", cfg.Database.Name)
	return app.Stores{Menu: store, Users: store}, db, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.log.Infof("HTTP server listening on %s", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server and closes the database.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	err := a.httpServer.Shutdown(shutdownCtx)

	if a.db != nil {
		if closeErr := a.db.Close(); err == nil {
			err = closeErr
		}
	}
	a.log.Info("server stopped")
	return err
}
