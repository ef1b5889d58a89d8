package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/taskprefs-api/internal/ciutil"
	"github.com/phrazzld/taskprefs-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds container startup and schema setup.
const TestTimeout = 60 * time.Second

// Open returns a connection to a migrated test database. The connection and
// any container started for it are released by t.Cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	dsn := ciutil.DatabaseURL(nil)
	if dsn == "" {
		container, err := StartPostgres(ctx)
		require.NoError(t, err, "Failed to start PostgreSQL container")
		t.Cleanup(func() {
			if err := container.Terminate(context.Background()); err != nil {
				t.Logf("Warning: failed to terminate container: %v", err)
			}
		})
		dsn = container.DSN()
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() { _ = db.Close() })

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	require.NoError(t, db.PingContext(ctx), "Failed to ping database")
	require.NoError(t, postgres.MigrateUp(ctx, db, &testGooseLogger{t: t}), "Failed to run migrations")

	return db
}

// Reset removes every row from the application tables.
func Reset(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec("TRUNCATE TABLE preferences, tasks, users CASCADE")
	require.NoError(t, err, "Failed to truncate tables")
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// testGooseLogger routes goose output to the test log.
type testGooseLogger struct {
	t *testing.T
}

func (l *testGooseLogger) Printf(format string, v ...interface{}) {
	l.t.Logf(format, v...)
}

func (l *testGooseLogger) Fatalf(format string, v ...interface{}) {
	l.t.Fatalf(format, v...)
}
