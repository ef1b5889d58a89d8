package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskprefs-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskprefs-api/internal/api/middleware"
	"github.com/phrazzld/taskprefs-api/internal/redact"
)

// healthCheckTimeout bounds the database ping made by GET /health.
const healthCheckTimeout = 2 * time.Second

// Pinger reports whether the database is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(app.metrics.Middleware)
	r.Use(apiMiddleware.CORS)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.config.Auth, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	preferenceHandler := api.NewPreferenceHandler(app.preferenceService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.identityVerifier)

	r.Get("/health", healthHandler(app.pinger, app.logger))
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	// Authentication endpoints (public)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/refresh", authHandler.RefreshToken)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Put("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)

		r.Get("/preferences", preferenceHandler.GetPreferences)
		r.Post("/preferences", preferenceHandler.SetPreferences)
	})

	return r
}

// healthHandler answers 200 "OK" while the database responds to a ping and
// 503 otherwise.
func healthHandler(pinger Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		status, body := http.StatusOK, "OK"
		if err := pinger.PingContext(ctx); err != nil {
			logger.Warn("Health check failed", "error", redact.Error(err))
			status, body = http.StatusServiceUnavailable, "Service Unavailable"
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			logger.Error("Failed to write health check response", "error", err)
		}
	}
}
