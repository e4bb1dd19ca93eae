package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// It is the only component allowed to issue persistence operations for tasks.
type TaskStore interface {
	// Create builds a new task from fields, assigning its ID and timestamps,
	// saves it and returns the stored record.
	// Returns validation errors if the fields are invalid.
	Create(ctx context.Context, fields domain.TaskFields) (*domain.Task, error)

	// FindAll returns every task in insertion order.
	// Returns an empty slice when there are no tasks.
	FindAll(ctx context.Context) ([]*domain.Task, error)

	// FindByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update merges the supplied fields of update onto an existing task and
	// returns the updated record. An empty update returns the task unchanged.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)

	// Delete removes a task and returns the removed record.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}
