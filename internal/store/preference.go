package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/phrazzld/taskprefs-api/internal/domain"
)

// PreferenceStore defines the interface for preference persistence.
type PreferenceStore interface {
	// GetAll returns every preference of the user as a key to JSON value map.
	// A user without preferences gets an empty, non-nil map.
	GetAll(ctx context.Context, userID uuid.UUID) (map[string]json.RawMessage, error)

	// Upsert inserts the preference or replaces the value stored under the
	// same (user, key) pair.
	Upsert(ctx context.Context, pref *domain.Preference) error

	// WithTx returns a PreferenceStore that runs its queries on tx.
	WithTx(tx *sql.Tx) PreferenceStore
}
