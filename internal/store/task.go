package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskprefs-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Every method that
// takes a task ID also takes the owner's ID, and a task owned by another user
// is indistinguishable from one that does not exist.
type TaskStore interface {
	// ListByUser returns the user's tasks ordered by creation time, oldest
	// first. A user without tasks gets an empty, non-nil slice.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Create inserts a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetForUpdate loads a task and locks its row for the rest of the
	// enclosing transaction. Returns ErrTaskNotFound when no task with id is
	// owned by userID.
	GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// Update writes the task's description and completion flag.
	// Returns ErrTaskNotFound when no row matched.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task. Returns ErrTaskNotFound when no task with id
	// is owned by userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a TaskStore that runs its queries on tx.
	WithTx(tx *sql.Tx) TaskStore
}
