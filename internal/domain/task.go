package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxDescriptionLength is the maximum number of characters in a task description.
const MaxDescriptionLength = 1000

// Task validation errors
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID    = errors.New("task user ID cannot be empty")
	ErrEmptyDescription   = errors.New("task description cannot be empty")
	ErrDescriptionTooLong = errors.New("task description is too long")
	ErrInvalidDescription = errors.New("task description contains invalid characters")
)

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskUpdate is a partial update of a task. A nil field is absent and leaves
// the stored value untouched.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the update carries no fields.
func (u TaskUpdate) IsEmpty() bool {
	return u.Description == nil && u.Completed == nil
}

// NewTask creates a new, not yet completed Task for userID. The description
// is trimmed of surrounding whitespace before validation.
func NewTask(userID uuid.UUID, description string) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Description: strings.TrimSpace(description),
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	return validateDescription(t.Description)
}

// Apply copies the fields present in u onto the task and re-validates it.
// The task is left unchanged when the update is invalid.
func (t *Task) Apply(u TaskUpdate) error {
	updated := *t

	if u.Description != nil {
		updated.Description = strings.TrimSpace(*u.Description)
	}
	if u.Completed != nil {
		updated.Completed = *u.Completed
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	*t = updated
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return NewValidationError("description", "cannot be empty", ErrEmptyDescription)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return NewValidationError("description", "must be at most 1000 characters", ErrDescriptionTooLong)
	}
	if !isStorableText(description) {
		return NewValidationError("description", "contains invalid characters", ErrInvalidDescription)
	}
	return nil
}

// isStorableText reports whether s can be stored in a PostgreSQL text column:
// valid UTF-8 without NUL characters.
func isStorableText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}
