package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Preference limits.
const (
	MaxPreferenceKeyLength  = 128
	MaxPreferenceValueBytes = 4096
	MaxPreferencesPerBatch  = 100
)

// Preference validation errors
var (
	ErrEmptyPreferenceUserID = errors.New("preference user ID cannot be empty")
	ErrEmptyPreferenceKey    = errors.New("preference key cannot be empty")
	ErrInvalidPreferenceKey  = errors.New("invalid preference key")
	ErrInvalidPreferenceVal  = errors.New("invalid preference value")
	ErrEmptyPreferenceBatch  = errors.New("preference batch cannot be empty")
	ErrPreferenceBatchTooBig = errors.New("preference batch is too large")
)

// Preference is a single key/value setting owned by a user. Value holds the
// JSON encoding of a scalar: a string, number or boolean.
type Preference struct {
	UserID    uuid.UUID       `json:"user_id"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewPreference creates a validated Preference for userID.
func NewPreference(userID uuid.UUID, key string, value json.RawMessage) (*Preference, error) {
	pref := &Preference{
		UserID:    userID,
		Key:       key,
		Value:     compactJSON(value),
		UpdatedAt: time.Now().UTC(),
	}

	if err := pref.Validate(); err != nil {
		return nil, err
	}

	return pref, nil
}

// Validate checks if the Preference has valid data.
func (p *Preference) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyPreferenceUserID
	}
	if err := ValidatePreferenceKey(p.Key); err != nil {
		return err
	}
	return ValidatePreferenceValue(p.Key, p.Value)
}

// ValidatePreferenceKey checks the constraints on a preference key.
func ValidatePreferenceKey(key string) error {
	if key == "" {
		return NewValidationError("key", "cannot be empty", ErrEmptyPreferenceKey)
	}
	if strings.TrimSpace(key) != key {
		return NewValidationError("key", "must not have leading or trailing whitespace", ErrInvalidPreferenceKey)
	}
	if utf8.RuneCountInString(key) > MaxPreferenceKeyLength {
		return NewValidationError("key", "must be at most 128 characters", ErrInvalidPreferenceKey)
	}
	if !isStorableText(key) {
		return NewValidationError("key", "contains invalid characters", ErrInvalidPreferenceKey)
	}
	return nil
}

// ValidatePreferenceValue checks that value is a JSON scalar within the size
// limit. key is used only to name the offending entry.
func ValidatePreferenceValue(key string, value json.RawMessage) error {
	field := fmt.Sprintf("value for %q", key)
	if len(value) > MaxPreferenceValueBytes {
		return NewValidationError(field, "must be at most 4096 bytes", ErrInvalidPreferenceVal)
	}
	if !isJSONScalar(value) {
		return NewValidationError(field, "must be a string, number or boolean", ErrInvalidPreferenceVal)
	}
	if !isStorableJSON(value) {
		return NewValidationError(field, "contains invalid characters", ErrInvalidPreferenceVal)
	}
	return nil
}

// ValidatePreferenceBatch validates every entry of a batch before anything is
// written. The first error, in key order, is returned.
func ValidatePreferenceBatch(values map[string]json.RawMessage) error {
	if len(values) == 0 {
		return NewValidationError("preferences", "must contain at least one entry", ErrEmptyPreferenceBatch)
	}
	if len(values) > MaxPreferencesPerBatch {
		return NewValidationError("preferences", "must contain at most 100 entries", ErrPreferenceBatchTooBig)
	}

	for _, key := range SortedPreferenceKeys(values) {
		if err := ValidatePreferenceKey(key); err != nil {
			return err
		}
		if err := ValidatePreferenceValue(key, compactJSON(values[key])); err != nil {
			return err
		}
	}
	return nil
}

// SortedPreferenceKeys returns the keys of values in ascending order.
func SortedPreferenceKeys(values map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isJSONScalar reports whether raw is a valid JSON string, number or boolean.
func isJSONScalar(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return false
	}
	switch trimmed[0] {
	case '{', '[', 'n':
		return false
	}
	return true
}

// isStorableJSON reports whether a scalar can be stored in a jsonb column,
// which rejects invalid UTF-8 and the \u0000 escape in strings.
func isStorableJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if !utf8.Valid(trimmed) {
		return false
	}
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return true
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return false
	}
	return !strings.ContainsRune(s, 0)
}

func compactJSON(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return json.RawMessage(buf.Bytes())
}
