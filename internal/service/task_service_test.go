package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(uuid.New(), domain.TaskFields{
		Title:       "Buy milk",
		Description: "Two litres",
		Priority:    domain.PriorityLow,
		Status:      domain.StatusPending,
		DueDate:     domain.NewDate(2025, time.June, 1),
	}, time.Now())
	require.NoError(t, err)
	return task
}

func newService(t *testing.T) (TaskService, *MockTaskStore) {
	t.Helper()
	mockStore := new(MockTaskStore)
	svc, err := NewTaskService(mockStore, nil)
	require.NoError(t, err)
	return svc, mockStore
}

func TestNewTaskService(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		svc, err := NewTaskService(nil, nil)
		assert.Nil(t, svc)
		var serviceErr *TaskServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "create_service", serviceErr.Operation)
	})

	t.Run("valid dependencies", func(t *testing.T) {
		svc, err := NewTaskService(new(MockTaskStore), nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, mockStore := newService(t)
		task := newTestTask(t)
		fields := domain.TaskFields{Title: task.Title}
		mockStore.On("Create", ctx, fields).Return(task, nil)

		got, err := svc.CreateTask(ctx, fields)
		require.NoError(t, err)
		assert.Equal(t, task, got)
		mockStore.AssertExpectations(t)
	})

	t.Run("validation error keeps its identity", func(t *testing.T) {
		svc, mockStore := newService(t)
		mockStore.On("Create", ctx, mock.Anything).Return(nil, domain.ErrEmptyTaskTitle)

		got, err := svc.CreateTask(ctx, domain.TaskFields{})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)

		var serviceErr *TaskServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "create_task", serviceErr.Operation)
	})
}

func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("returns store order", func(t *testing.T) {
		svc, mockStore := newService(t)
		first, second := newTestTask(t), newTestTask(t)
		mockStore.On("FindAll", ctx).Return([]*domain.Task{first, second}, nil)

		got, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []*domain.Task{first, second}, got)
	})

	t.Run("nil from store becomes empty slice", func(t *testing.T) {
		svc, mockStore := newService(t)
		mockStore.On("FindAll", ctx).Return(nil, nil)

		got, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		svc, mockStore := newService(t)
		mockStore.On("FindAll", ctx).Return(nil, assert.AnError)

		_, err := svc.ListTasks(ctx)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestTaskService_NotFoundMapping(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	wrapped := fmt.Errorf("lookup: %w", store.ErrTaskNotFound)

	t.Run("get", func(t *testing.T) {
		svc, mockStore := newService(t)
		mockStore.On("FindByID", ctx, id).Return(nil, wrapped)

		_, err := svc.GetTask(ctx, id)
		assert.Same(t, ErrTaskNotFound, err)
	})

	t.Run("update", func(t *testing.T) {
		svc, mockStore := newService(t)
		mockStore.On("Update", ctx, id, domain.TaskUpdate{}).Return(nil, store.ErrTaskNotFound)

		_, err := svc.UpdateTask(ctx, id, domain.TaskUpdate{})
		assert.Same(t, ErrTaskNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		svc, mockStore := newService(t)
		mockStore.On("Delete", ctx, id).Return(nil, store.ErrTaskNotFound)

		_, err := svc.DeleteTask(ctx, id)
		assert.Same(t, ErrTaskNotFound, err)
	})
}

func TestTaskService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	task := newTestTask(t)

	t.Run("update passes the partial update through", func(t *testing.T) {
		svc, mockStore := newService(t)
		status := domain.StatusDone
		update := domain.TaskUpdate{Status: &status}
		mockStore.On("Update", ctx, task.ID, update).Return(task, nil)

		got, err := svc.UpdateTask(ctx, task.ID, update)
		require.NoError(t, err)
		assert.Equal(t, task, got)
		mockStore.AssertExpectations(t)
	})

	t.Run("delete returns the removed task", func(t *testing.T) {
		svc, mockStore := newService(t)
		mockStore.On("Delete", ctx, task.ID).Return(task, nil)

		got, err := svc.DeleteTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
	})
}

func TestNewTaskServiceError(t *testing.T) {
	assert.NoError(t, NewTaskServiceError("op", "msg", nil))
	assert.Same(t, ErrTaskNotFound, NewTaskServiceError("op", "msg", ErrTaskNotFound))

	err := NewTaskServiceError("get_task", "boom", errors.New("db down"))
	assert.EqualError(t, err, "task service get_task failed: boom: db down")

	bare := &TaskServiceError{Operation: "x", Message: "y"}
	assert.EqualError(t, bare, "task service x failed: y")
	assert.Nil(t, bare.Unwrap())
}

func TestTaskService_RequestLoggerCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	scoped := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With(slog.String("trace_id", "t-1"))
	ctx := logger.WithLogger(context.Background(), scoped)
	id := uuid.New()

	svc, mockStore := newService(t)
	mockStore.On("FindByID", ctx, id).Return(nil, errors.New("connection reset"))

	_, err := svc.GetTask(ctx, id)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"component":"task_service"`)
	assert.Contains(t, out, `"trace_id":"t-1"`)
	assert.Contains(t, out, `"msg":"failed to get task"`)
	mockStore.AssertExpectations(t)
}
