package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/sessionauth/internal/auth/http"
	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/pkg/cryptox"
	"github.com/aussiebroadwan/sessionauth/pkg/jwtx"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	signer   *jwtx.HS512Signer
	verifier *jwtx.HS512Verifier
	hasher   *cryptox.Hasher

	// Services
	authService         *service.AuthService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()

	if err := app.initCrypto(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	app.initServices()

	if _, err := app.bootstrapService.EnsureAdmin(slogx.WithContext(ctx, app.logger)); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	app.initHTTP()

	return app, nil
}

// Handler exposes the routed HTTP handler, mainly for in-process tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initCrypto loads the pepper and the signing key.
func (app *Application) initCrypto() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewHasher(pepper)

	key, err := LoadSigningKey(app.cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to load signing key: %w", err)
	}

	app.signer, err = jwtx.NewSignerHS512(key)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}
	app.verifier = jwtx.NewVerifierHS512(key, jwtx.VerifyOptions{
		Issuer:   app.cfg.Issuer,
		Audience: app.cfg.Audience,
	})
	return nil
}

// initDatabase opens the configured store and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("store ready", "driver", app.cfg.StoreDriver)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:  app.db,
		Hasher: app.hasher,
		Tokens: &service.TokenIssuer{
			Signer:   app.signer,
			Issuer:   app.cfg.Issuer,
			Audience: app.cfg.Audience,
			TTL:      app.cfg.AccessTokenTTL,
		},
		RefreshTokens: &service.RefreshTokenManager{
			Users: app.db.Users(),
			TTL:   app.cfg.RefreshTokenTTL,
		},
		PasswordMaxAgeDays: app.cfg.PasswordMaxAgeDays,
	}

	app.bootstrapService = &service.BootstrapService{
		Auth:     app.authService,
		Username: app.cfg.AdminUsername,
		Password: app.cfg.AdminPassword,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.authService,
		app.logger,
	)
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
