package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskprefs-api/internal/domain"
	"github.com/phrazzld/taskprefs-api/internal/platform/logger"
	"github.com/phrazzld/taskprefs-api/internal/redact"
	"github.com/phrazzld/taskprefs-api/internal/store"
)

// TaskService manages the tasks of the calling user.
type TaskService interface {
	// ListTasks returns the caller's tasks, oldest first.
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// CreateTask creates a new, not yet completed task.
	CreateTask(ctx context.Context, userID uuid.UUID, description string) (*domain.Task, error)

	// UpdateTask applies the fields present in update and returns the result.
	UpdateTask(
		ctx context.Context,
		userID, taskID uuid.UUID,
		update domain.TaskUpdate,
	) (*domain.Task, error)

	// DeleteTask removes the task.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type taskServiceImpl struct {
	taskStore store.TaskStore
	db        *sql.DB
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService. db is used to open the
// transaction that wraps task updates.
func NewTaskService(taskStore store.TaskStore, db *sql.DB, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		db:        db,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.taskStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("user_id", userID.String()),
			slog.String("error", redact.Error(err)))
		return nil, NewServiceError("task", "list", "failed to list tasks", err)
	}

	log.Debug("listed tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	description string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, description)
	if err != nil {
		log.Debug("invalid task", slog.String("error", redact.Error(err)))
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("user_id", userID.String()),
			slog.String("error", redact.Error(err)))
		return nil, NewServiceError("task", "create", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", userID.String()))
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
// The row is locked for the duration of the read-modify-write. An update
// without fields returns the owned task unchanged.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetForUpdate(ctx, userID, taskID)
		if err != nil {
			return err
		}

		updated = task
		if update.IsEmpty() {
			return nil
		}

		if err := task.Apply(update); err != nil {
			return err
		}

		return txStore.Update(ctx, task)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTaskNotFound):
			log.Debug("task not found for update",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return nil, NewServiceError("task", "update", "task not found", store.ErrTaskNotFound)
		case errors.Is(err, domain.ErrValidation):
			return nil, err
		}
		log.Error("failed to update task",
			slog.String("task_id", taskID.String()),
			slog.String("error", redact.Error(err)))
		return nil, NewServiceError("task", "update", "failed to update task", err)
	}

	log.Info("task updated",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for delete",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return NewServiceError("task", "delete", "task not found", store.ErrTaskNotFound)
		}
		log.Error("failed to delete task",
			slog.String("task_id", taskID.String()),
			slog.String("error", redact.Error(err)))
		return NewServiceError("task", "delete", "failed to delete task", err)
	}

	log.Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}
