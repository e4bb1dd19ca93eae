// Package migrations embeds the goose SQL migrations that create the
// database schema and runs them. The server binary and the tests apply
// exactly the same files without depending on the working directory.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

// FS holds every *.sql migration at its root.
//
//go:embed *.sql
var FS embed.FS

// TableName is the goose version table.
const TableName = "schema_migrations"

// Supported commands
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
	CommandReset   = "reset"
)

// Commands lists every command Run accepts.
var Commands = []string{CommandUp, CommandDown, CommandStatus, CommandVersion, CommandReset}

// gooseMu serializes access to goose's package-level configuration.
var gooseMu sync.Mutex

// IsValidCommand reports whether Run accepts command.
func IsValidCommand(command string) bool {
	for _, c := range Commands {
		if c == command {
			return true
		}
	}
	return false
}

// Run executes a goose command against db using the embedded migrations.
// A nil logger silences goose output.
func Run(ctx context.Context, db *sql.DB, command string, logger goose.Logger) error {
	if !IsValidCommand(command) {
		return fmt.Errorf("unknown migration command %q", command)
	}
	if db == nil {
		return fmt.Errorf("migration %s: database connection is nil", command)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if logger == nil {
		logger = goose.NopLogger()
	}
	goose.SetLogger(logger)
	goose.SetBaseFS(FS)
	goose.SetTableName(TableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	var err error
	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db, ".")
	case CommandDown:
		err = goose.DownContext(ctx, db, ".")
	case CommandStatus:
		err = goose.StatusContext(ctx, db, ".")
	case CommandVersion:
		err = goose.VersionContext(ctx, db, ".")
	case CommandReset:
		err = goose.ResetContext(ctx, db, ".")
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
