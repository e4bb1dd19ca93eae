package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/platform/postgres/migrations"
	"github.com/phrazzld/tasks-api/internal/redact"
)

// ServeCmd runs the HTTP server.
type ServeCmd struct {
	Migrate bool `help:"Apply pending migrations before serving"`
}

// MigrateCmd runs a goose migration command against the configured database.
type MigrateCmd struct {
	Command string `arg:"" optional:"" default:"up" enum:"up,down,status,version,reset" help:"Migration command (${enum})"`
}

// loadRuntime loads the optional dotenv file and configuration, then sets up logging.
func loadRuntime(cli *CLI) (*config.Config, *slog.Logger, error) {
	if err := config.LoadEnvFile(cli.EnvFile); err != nil {
		return nil, nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"metrics_enabled", cfg.Metrics.Enabled)
	return cfg, log, nil
}

// Run implements the serve command.
func (c *ServeCmd) Run(cli *CLI) error {
	cfg, log, err := loadRuntime(cli)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		log.Error("database setup failed", "error", redact.Error(err))
		return err
	}

	if c.Migrate {
		if err := migrations.Run(ctx, db, migrations.CommandUp, &slogGooseLogger{logger: log}); err != nil {
			_ = db.Close()
			log.Error("migrations failed", "error", redact.Error(err))
			return err
		}
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer app.cleanup()

	return app.startHTTPServer(ctx, app.setupRouter())
}

// Run implements the migrate command.
func (c *MigrateCmd) Run(cli *CLI) error {
	cfg, log, err := loadRuntime(cli)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		log.Error("database setup failed", "error", redact.Error(err))
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	log.Info("executing migrations", "command", c.Command)
	if err := migrations.Run(ctx, db, c.Command, &slogGooseLogger{logger: log}); err != nil {
		log.Error("migration failed", "command", c.Command, "error", redact.Error(err))
		return err
	}
	log.Info("migrations completed", "command", c.Command)
	return nil
}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger by forwarding messages to Info.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...), "component", "goose")
}

// Fatalf implements goose.Logger by forwarding messages to Error.
// It does NOT exit; the error is returned to the command instead.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "goose")
}
