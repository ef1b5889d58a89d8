package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskprefs-api/internal/domain"
	"github.com/phrazzld/taskprefs-api/internal/platform/logger"
	"github.com/phrazzld/taskprefs-api/internal/redact"
	"github.com/phrazzld/taskprefs-api/internal/store"
)

// PreferenceService reads and writes the preferences of the calling user.
type PreferenceService interface {
	// GetPreferences returns every preference of the caller.
	GetPreferences(ctx context.Context, userID uuid.UUID) (map[string]json.RawMessage, error)

	// SetPreferences upserts every pair of values. Either all pairs are
	// stored or none are.
	SetPreferences(ctx context.Context, userID uuid.UUID, values map[string]json.RawMessage) error
}

type preferenceServiceImpl struct {
	prefStore store.PreferenceStore
	db        *sql.DB
	logger    *slog.Logger
	timeFunc  func() time.Time
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(
	prefStore store.PreferenceStore,
	db *sql.DB,
	logger *slog.Logger,
) (PreferenceService, error) {
	if prefStore == nil {
		return nil, domain.NewValidationError("prefStore", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &preferenceServiceImpl{
		prefStore: prefStore,
		db:        db,
		logger:    logger.With(slog.String("component", "preference_service")),
		timeFunc:  time.Now,
	}, nil
}

// GetPreferences implements PreferenceService.GetPreferences
func (s *preferenceServiceImpl) GetPreferences(
	ctx context.Context,
	userID uuid.UUID,
) (map[string]json.RawMessage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	prefs, err := s.prefStore.GetAll(ctx, userID)
	if err != nil {
		log.Error("failed to load preferences",
			slog.String("user_id", userID.String()),
			slog.String("error", redact.Error(err)))
		return nil, NewServiceError("preference", "get", "failed to load preferences", err)
	}
	return prefs, nil
}

// SetPreferences implements PreferenceService.SetPreferences
// The whole batch is validated before the transaction starts, and pairs are
// written in key order.
func (s *preferenceServiceImpl) SetPreferences(
	ctx context.Context,
	userID uuid.UUID,
	values map[string]json.RawMessage,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePreferenceBatch(values); err != nil {
		log.Debug("invalid preference batch", slog.String("error", redact.Error(err)))
		return err
	}

	now := s.timeFunc().UTC()
	prefs := make([]*domain.Preference, 0, len(values))
	for _, key := range domain.SortedPreferenceKeys(values) {
		pref, err := domain.NewPreference(userID, key, values[key])
		if err != nil {
			return err
		}
		pref.UpdatedAt = now
		prefs = append(prefs, pref)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.prefStore.WithTx(tx)
		for _, pref := range prefs {
			if err := txStore.Upsert(ctx, pref); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save preferences",
			slog.String("user_id", userID.String()),
			slog.Int("count", len(prefs)),
			slog.String("error", redact.Error(err)))
		return NewServiceError("preference", "set", "failed to save preferences", err)
	}

	log.Info("preferences updated",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(prefs)))
	return nil
}
