package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasks-api/internal/api"
	"github.com/phrazzld/tasks-api/internal/api/middleware"
)

// setupRouter creates and configures the HTTP router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewTraceMiddleware(app.logger))
	if app.metrics != nil {
		r.Use(app.metrics.Middleware)
	}
	r.Use(chimiddleware.Recoverer)

	// A nil *sql.DB must not become a non-nil Pinger.
	var pinger api.Pinger
	if app.db != nil {
		pinger = app.db
	}
	r.Get("/health", api.NewHealthHandler(pinger))

	if app.metrics != nil {
		r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	}

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	r.Route("/api", taskHandler.RegisterRoutes)

	return r
}
