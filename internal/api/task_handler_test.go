package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskprefs-api/internal/api/shared"
	"github.com/phrazzld/taskprefs-api/internal/domain"
	"github.com/phrazzld/taskprefs-api/internal/mocks"
	"github.com/phrazzld/taskprefs-api/internal/service"
	"github.com/phrazzld/taskprefs-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notFoundErr(op string) error {
	return service.NewServiceError("task", op, "task not found", store.ErrTaskNotFound)
}

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("empty list is an empty array", func(t *testing.T) {
		t.Parallel()
		h := NewTaskHandler(&mocks.MockTaskService{}, nil)

		rec := doRequest(t, newTaskRouter(h, userID), http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("returns caller tasks in service order", func(t *testing.T) {
		t.Parallel()
		first := testTask(userID, "first")
		second := testTask(userID, "second")
		second.Completed = true

		var gotUser uuid.UUID
		svc := &mocks.MockTaskService{
			ListTasksFn: func(ctx context.Context, uid uuid.UUID) ([]*domain.Task, error) {
				gotUser = uid
				return []*domain.Task{first, second}, nil
			},
		}
		h := NewTaskHandler(svc, nil)

		rec := doRequest(t, newTaskRouter(h, userID), http.MethodGet, "/tasks", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotUser)

		var resp []TaskResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 2)
		assert.Equal(t, first.ID, resp[0].ID)
		assert.Equal(t, "first", resp[0].Description)
		assert.False(t, resp[0].Completed)
		assert.Equal(t, second.ID, resp[1].ID)
		assert.True(t, resp[1].Completed)
	})

	t.Run("response omits owner", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockTaskService{Tasks: []*domain.Task{testTask(userID, "x")}}
		h := NewTaskHandler(svc, nil)

		rec := doRequest(t, newTaskRouter(h, userID), http.MethodGet, "/tasks", "")

		var raw []map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
		require.Len(t, raw, 1)
		assert.NotContains(t, raw[0], "user_id")
		assert.Equal(t, "2025-03-01T12:00:00Z", raw[0]["created_at"])
	})

	t.Run("missing identity", func(t *testing.T) {
		t.Parallel()
		h := NewTaskHandler(&mocks.MockTaskService{}, nil)

		rec := doRequest(t, newTaskRouter(h, uuid.Nil), http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockTaskService{
			DefaultError: errors.New("pq: relation tasks does not exist at postgres://admin:pw@db/x"),
		}
		h := NewTaskHandler(svc, nil)

		rec := doRequest(t, newTaskRouter(h, userID), http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to list tasks", decodeError(t, rec).Error)
		assert.NotContains(t, rec.Body.String(), "postgres")
	})
}

func TestTaskHandler_CreateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates task", func(t *testing.T) {
		t.Parallel()
		var gotDescription string
		svc := &mocks.MockTaskService{
			CreateTaskFn: func(ctx context.Context, uid uuid.UUID, description string) (*domain.Task, error) {
				gotDescription = description
				return testTask(uid, description), nil
			},
		}
		h := NewTaskHandler(svc, nil)

		rec := doRequest(t, newTaskRouter(h, userID), http.MethodPost, "/tasks", `{"description":"buy milk"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "buy milk", gotDescription)

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Equal(t, "buy milk", resp.Description)
		assert.False(t, resp.Completed)
	})

	tests := []struct {
		name        string
		body        string
		serviceErr  error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing description",
			body:        `{}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid description: required field",
		},
		{
			name:        "unknown field",
			body:        `{"description":"x","priority":1}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request format",
		},
		{
			name:        "malformed json",
			body:        `{"description":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request format",
		},
		{
			name:        "wrong type",
			body:        `{"description":42}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request format",
		},
		{
			name:        "whitespace description rejected by domain",
			body:        `{"description":"   "}`,
			serviceErr:  domain.NewValidationError("description", "cannot be empty", domain.ErrEmptyDescription),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid description: cannot be empty",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var called bool
			svc := &mocks.MockTaskService{
				CreateTaskFn: func(ctx context.Context, uid uuid.UUID, description string) (*domain.Task, error) {
					called = true
					return nil, tc.serviceErr
				},
			}
			h := NewTaskHandler(svc, nil)

			rec := doRequest(t, newTaskRouter(h, userID), http.MethodPost, "/tasks", tc.body)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantMessage, decodeError(t, rec).Error)
			assert.Equal(t, tc.serviceErr != nil, called)
		})
	}
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	t.Run("partial update passes only present fields", func(t *testing.T) {
		t.Parallel()
		var got domain.TaskUpdate
		var gotTaskID uuid.UUID
		svc := &mocks.MockTaskService{
			UpdateTaskFn: func(ctx context.Context, uid, tid uuid.UUID, u domain.TaskUpdate) (*domain.Task, error) {
				got = u
				gotTaskID = tid
				task := testTask(uid, "unchanged")
				task.ID = tid
				task.Completed = true
				return task, nil
			},
		}
		h := NewTaskHandler(svc, nil)

		rec := doRequest(t, newTaskRouter(h, userID), http.MethodPut, "/tasks/"+taskID.String(), `{"completed":true}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, taskID, gotTaskID)
		assert.Nil(t, got.Description)
		require.NotNil(t, got.Completed)
		assert.True(t, *got.Completed)

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "unchanged", resp.Description)
		assert.True(t, resp.Completed)
	})

	t.Run("null counts as absent", func(t *testing.T) {
		t.Parallel()
		var got domain.TaskUpdate
		svc := &mocks.MockTaskService{
			UpdateTaskFn: func(ctx context.Context, uid, tid uuid.UUID, u domain.TaskUpdate) (*domain.Task, error) {
				got = u
				return testTask(uid, "new"), nil
			},
		}
		h := NewTaskHandler(svc, nil)

		rec := doRequest(t, newTaskRouter(h, userID), http.MethodPut, "/tasks/"+taskID.String(),
			`{"description":"new","completed":null}`)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got.Description)
		assert.Equal(t, "new", *got.Description)
		assert.Nil(t, got.Completed)
	})

	tests := []struct {
		name        string
		path        string
		body        string
		serviceErr  error
		wantCalled  bool
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing or foreign task",
			path:        "/tasks/" + taskID.String(),
			body:        `{"completed":true}`,
			serviceErr:  notFoundErr("update"),
			wantCalled:  true,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Task not found",
		},
		{
			name:        "malformed id",
			path:        "/tasks/not-a-uuid",
			body:        `{"completed":true}`,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Task not found",
		},
		{
			name:        "empty description",
			path:        "/tasks/" + taskID.String(),
			body:        `{"description":""}`,
			serviceErr:  domain.NewValidationError("description", "cannot be empty", domain.ErrEmptyDescription),
			wantCalled:  true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid description: cannot be empty",
		},
		{
			name:        "empty body for missing task",
			path:        "/tasks/" + taskID.String(),
			body:        `{}`,
			serviceErr:  notFoundErr("update"),
			wantCalled:  true,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Task not found",
		},
		{
			name:        "unknown field",
			path:        "/tasks/" + taskID.String(),
			body:        `{"done":true}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request format",
		},
		{
			name:        "wrong type",
			path:        "/tasks/" + taskID.String(),
			body:        `{"completed":"yes"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request format",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var called bool
			svc := &mocks.MockTaskService{
				UpdateTaskFn: func(ctx context.Context, uid, tid uuid.UUID, u domain.TaskUpdate) (*domain.Task, error) {
					called = true
					return nil, tc.serviceErr
				},
			}
			h := NewTaskHandler(svc, nil)

			rec := doRequest(t, newTaskRouter(h, userID), http.MethodPut, tc.path, tc.body)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantMessage, decodeError(t, rec).Error)
			assert.Equal(t, tc.wantCalled, called)
		})
	}
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	t.Run("deletes task", func(t *testing.T) {
		t.Parallel()
		var gotUser, gotTask uuid.UUID
		svc := &mocks.MockTaskService{
			DeleteTaskFn: func(ctx context.Context, uid, tid uuid.UUID) error {
				gotUser, gotTask = uid, tid
				return nil
			},
		}
		h := NewTaskHandler(svc, nil)

		rec := doRequest(t, newTaskRouter(h, userID), http.MethodDelete, "/tasks/"+taskID.String(), "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Task deleted"}`, rec.Body.String())
		assert.Equal(t, userID, gotUser)
		assert.Equal(t, taskID, gotTask)
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockTaskService{DefaultError: notFoundErr("delete")}
		h := NewTaskHandler(svc, nil)

		rec := doRequest(t, newTaskRouter(h, userID), http.MethodDelete, "/tasks/"+taskID.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Task not found", resp.Error)
		assert.False(t, strings.Contains(rec.Body.String(), "task service"))
	})

	t.Run("missing identity", func(t *testing.T) {
		t.Parallel()
		h := NewTaskHandler(&mocks.MockTaskService{}, nil)

		rec := doRequest(t, newTaskRouter(h, uuid.Nil), http.MethodDelete, "/tasks/"+taskID.String(), "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.IsType(t, shared.ErrorResponse{}, decodeError(t, rec))
	})
}

func TestNewTaskHandler_PanicsWithoutService(t *testing.T) {
	assert.Panics(t, func() { NewTaskHandler(nil, nil) })
}
