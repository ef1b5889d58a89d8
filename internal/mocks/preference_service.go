package mocks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/phrazzld/taskprefs-api/internal/service"
)

// MockPreferenceService implements service.PreferenceService for testing
type MockPreferenceService struct {
	GetPreferencesFn func(ctx context.Context, userID uuid.UUID) (map[string]json.RawMessage, error)
	SetPreferencesFn func(ctx context.Context, userID uuid.UUID, values map[string]json.RawMessage) error

	// Default return values
	Preferences  map[string]json.RawMessage
	DefaultError error
}

var _ service.PreferenceService = (*MockPreferenceService)(nil)

// GetPreferences implements the PreferenceService.GetPreferences method
func (m *MockPreferenceService) GetPreferences(
	ctx context.Context,
	userID uuid.UUID,
) (map[string]json.RawMessage, error) {
	if m.GetPreferencesFn != nil {
		return m.GetPreferencesFn(ctx, userID)
	}
	return m.Preferences, m.DefaultError
}

// SetPreferences implements the PreferenceService.SetPreferences method
func (m *MockPreferenceService) SetPreferences(
	ctx context.Context,
	userID uuid.UUID,
	values map[string]json.RawMessage,
) error {
	if m.SetPreferencesFn != nil {
		return m.SetPreferencesFn(ctx, userID, values)
	}
	return m.DefaultError
}
