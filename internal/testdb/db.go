package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/tasks-api/internal/platform/postgres/migrations"
	"github.com/phrazzld/tasks-api/internal/redact"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// Timeout bounds connection checks and test transactions.
const Timeout = 5 * time.Second

// migrateTimeout bounds applying the embedded migrations.
const migrateTimeout = 30 * time.Second

// URLVars lists the environment variables consulted for the test database,
// in order of precedence.
var URLVars = []string{"DATABASE_URL", "TASKS_TEST_DB_URL"}

// URL returns the first non-empty test database URL from URLVars.
func URL() string {
	for _, name := range URLVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Available reports whether a test database is configured.
func Available() bool {
	return URL() != ""
}

// Open connects to the test database and applies the migrations. The test is
// skipped when no database is configured; the pool closes on cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn := URL()
	if dsn == "" {
		t.Skipf("none of %s set; skipping database test", strings.Join(URLVars, ", "))
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err, "open test database")
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("close test database: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping %s: %s", redact.String(dsn), redact.Error(err))
	}

	require.NoError(t, Migrate(db, testLogger{t}), "apply migrations")
	return db
}

// Migrate applies every pending embedded migration. A nil logger silences goose.
func Migrate(db *sql.DB, logger goose.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	return migrations.Run(ctx, db, migrations.CommandUp, logger)
}

// InTx runs fn inside a transaction that is always rolled back, so tests
// leave no rows behind.
func InTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "begin test transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// testLogger sends goose output to the test log.
type testLogger struct {
	t *testing.T
}

func (l testLogger) Printf(format string, v ...interface{}) {
	l.t.Logf("goose: %s", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l testLogger) Fatalf(format string, v ...interface{}) {
	l.t.Fatalf("goose: %s", strings.TrimSpace(fmt.Sprintf(format, v...)))
}
