package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskprefs-api/internal/domain"
	"github.com/phrazzld/taskprefs-api/internal/platform/logger"
	"github.com/phrazzld/taskprefs-api/internal/redact"
	"github.com/phrazzld/taskprefs-api/internal/store"
)

// PostgresPreferenceStore implements the store.PreferenceStore interface using PostgreSQL.
type PostgresPreferenceStore struct {
	db store.DBTX
}

// NewPostgresPreferenceStore creates a new PostgresPreferenceStore
func NewPostgresPreferenceStore(db store.DBTX) *PostgresPreferenceStore {
	return &PostgresPreferenceStore{db: db}
}

var _ store.PreferenceStore = (*PostgresPreferenceStore)(nil)

// WithTx implements store.PreferenceStore.WithTx
func (s *PostgresPreferenceStore) WithTx(tx *sql.Tx) store.PreferenceStore {
	return &PostgresPreferenceStore{db: tx}
}

// GetAll implements store.PreferenceStore.GetAll
func (s *PostgresPreferenceStore) GetAll(
	ctx context.Context,
	userID uuid.UUID,
) (map[string]json.RawMessage, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT key, value
		FROM preferences
		WHERE user_id = $1
		ORDER BY key
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query preferences",
			slog.String("user_id", userID.String()),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("preference", "get", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	prefs := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, store.NewStoreError("preference", "get", "scan failed", err)
		}
		prefs[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("preference", "get", "row iteration failed", MapError(err))
	}

	return prefs, nil
}

// Upsert implements store.PreferenceStore.Upsert
func (s *PostgresPreferenceStore) Upsert(ctx context.Context, pref *domain.Preference) error {
	query := `
		INSERT INTO preferences (user_id, key, value, updated_at)
		VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (user_id, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		pref.UserID,
		pref.Key,
		string(pref.Value),
		pref.UpdatedAt,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to upsert preference",
			slog.String("user_id", pref.UserID.String()),
			slog.String("key", pref.Key),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("preference", "upsert", "upsert failed", MapError(err))
	}
	return nil
}
