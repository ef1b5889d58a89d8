package postgres

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	expectedTables := []string{"users", "tasks", "preferences"}
	for i, entry := range entries {
		content, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+entry.Name())
		require.NoError(t, err)

		sql := string(content)
		assert.Contains(t, sql, "-- +goose Up", entry.Name())
		assert.Contains(t, sql, "-- +goose Down", entry.Name())
		assert.Contains(t, sql, "CREATE TABLE "+expectedTables[i], entry.Name())
	}
}

func TestMigrate_UnknownCommand(t *testing.T) {
	err := Migrate(context.Background(), nil, "sideways", nil)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "unknown migration command"))
}
