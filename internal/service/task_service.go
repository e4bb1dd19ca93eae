package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskService provides task-related operations.
type TaskService interface {
	// CreateTask stores a new task built from fields.
	CreateTask(ctx context.Context, fields domain.TaskFields) (*domain.Task, error)

	// ListTasks returns every task in insertion order.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// UpdateTask applies a partial update to an existing task.
	UpdateTask(ctx context.Context, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task and returns the removed record.
	DeleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

// serviceComponent tags every log line from this component.
const serviceComponent = "task_service"

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if the store is nil.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		logger: logger.With("component", serviceComponent),
	}, nil
}

// logFailure logs err at a level matching how expected it is.
func logFailure(log *slog.Logger, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)
	switch {
	case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, domain.ErrValidation):
		log.Debug(msg, attrs...)
	default:
		log.Error(msg, attrs...)
	}
}

// CreateTask implements TaskService.CreateTask.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	fields domain.TaskFields,
) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, serviceComponent)

	task, err := s.tasks.Create(ctx, fields)
	if err != nil {
		logFailure(log, "failed to create task", err)
		return nil, NewTaskServiceError("create_task", "failed to create task", err)
	}

	log.Debug("task created", "task_id", task.ID)
	return task, nil
}

// ListTasks implements TaskService.ListTasks.
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, serviceComponent)

	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		logFailure(log, "failed to list tasks", err)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask.
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, serviceComponent)

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		logFailure(log, "failed to get task", err, "task_id", id)
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, serviceComponent)

	task, err := s.tasks.Update(ctx, id, update)
	if err != nil {
		logFailure(log, "failed to update task", err, "task_id", id)
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	log.Debug("task updated", "task_id", task.ID)
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, serviceComponent)

	task, err := s.tasks.Delete(ctx, id)
	if err != nil {
		logFailure(log, "failed to delete task", err, "task_id", id)
		return nil, NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Debug("task deleted", "task_id", task.ID)
	return task, nil
}
