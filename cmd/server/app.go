package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/service"
)

// appDependencies holds all the dependencies needed by the application.
// Tests build it directly with in-memory or stubbed components.
type appDependencies struct {
	Config      *config.Config
	Logger      *slog.Logger
	DB          *sql.DB
	TaskService service.TaskService
	Metrics     *middleware.Metrics
}

// application represents the core application state.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	taskService service.TaskService
	metrics     *middleware.Metrics
}

// newApplication wires the store, service and metrics on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	taskService, err := service.NewTaskService(taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics, err = middleware.NewMetrics(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
	}

	return newApplicationFromDeps(appDependencies{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		TaskService: taskService,
		Metrics:     metrics,
	}), nil
}

func newApplicationFromDeps(deps appDependencies) *application {
	return &application{
		config:      deps.Config,
		logger:      deps.Logger,
		db:          deps.DB,
		taskService: deps.TaskService,
		metrics:     deps.Metrics,
	}
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
		return
	}
	app.logger.Info("database connection closed")
}
