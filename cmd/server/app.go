package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	apiMiddleware "github.com/phrazzld/taskprefs-api/internal/api/middleware"
	"github.com/phrazzld/taskprefs-api/internal/config"
	"github.com/phrazzld/taskprefs-api/internal/platform/postgres"
	"github.com/phrazzld/taskprefs-api/internal/redact"
	"github.com/phrazzld/taskprefs-api/internal/service"
	"github.com/phrazzld/taskprefs-api/internal/service/auth"
	"github.com/phrazzld/taskprefs-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// pinger backs the health check; it is the database pool outside tests
	pinger Pinger

	// Stores
	userStore       store.UserStore
	taskStore       store.TaskStore
	preferenceStore store.PreferenceStore

	// Authentication
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	identityVerifier apiMiddleware.IdentityVerifier

	// Service interfaces
	userService       service.UserService
	taskService       service.TaskService
	preferenceService service.PreferenceService

	metrics *apiMiddleware.Metrics
}

// newApplication creates a new application instance with all dependencies initialized.
// The configuration, logger and database connection must be established first.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		pinger: db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.identityVerifier = auth.NewTokenVerifier(app.jwtService)
	app.passwordVerifier = auth.NewBcryptVerifier(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewPostgresUserStore(db)
	app.taskStore = postgres.NewPostgresTaskStore(db)
	app.preferenceStore = postgres.NewPostgresPreferenceStore(db)

	app.userService, err = service.NewUserService(app.userStore, app.passwordVerifier, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.preferenceService, err = service.NewPreferenceService(app.preferenceStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create preference service: %w", err)
	}

	app.metrics = apiMiddleware.NewMetrics()

	return app, nil
}

// Run serves HTTP until ctx is canceled, then releases the application's resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", "error", redact.Error(err))
		return
	}
	app.logger.Info("Database connection closed")
}
