package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority represents how urgent a task is.
type Priority string

// Possible priority values
const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists every valid priority in ascending order of urgency.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValid reports whether p is one of the defined priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Status represents the progress state of a task.
type Status string

// Possible status values
const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

// IsValid reports whether s is one of the defined statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Validation errors for Task. All of them wrap ErrValidation.
var (
	ErrEmptyTaskID          = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskTitle       = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrEmptyTaskDescription = fmt.Errorf("%w: task description cannot be empty", ErrValidation)
	ErrInvalidTaskPriority  = fmt.Errorf("%w: invalid task priority", ErrValidation)
	ErrInvalidTaskStatus    = fmt.Errorf("%w: invalid task status", ErrValidation)
	ErrEmptyTaskDueDate     = fmt.Errorf("%w: task due date cannot be empty", ErrValidation)
)

// IDFactory produces identifiers for new tasks.
type IDFactory func() uuid.UUID

// DefaultIDFactory generates random (version 4) UUIDs.
func DefaultIDFactory() uuid.UUID {
	return uuid.New()
}

// Task is a single unit of work tracked by the API.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	DueDate     Date      `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskFields holds the client-supplied values of a new task.
type TaskFields struct {
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     Date
}

// NewTask creates a Task with the given identifier and fields, stamping
// both timestamps with now (in UTC).
// Returns an error if validation fails.
func NewTask(id uuid.UUID, fields TaskFields, now time.Time) (*Task, error) {
	now = now.UTC()
	task := &Task{
		ID:          id,
		Title:       fields.Title,
		Description: fields.Description,
		Priority:    fields.Priority,
		Status:      fields.Status,
		DueDate:     fields.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyTaskDescription
	}

	if !t.Priority.IsValid() {
		return ErrInvalidTaskPriority
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	if t.DueDate.IsZero() {
		return ErrEmptyTaskDueDate
	}

	return nil
}

// TaskUpdate is a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
	DueDate     *Date
}

// IsEmpty reports whether the update carries no fields at all.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil &&
		u.Description == nil &&
		u.Priority == nil &&
		u.Status == nil &&
		u.DueDate == nil
}

// Apply merges the supplied fields of u onto the task and bumps UpdatedAt.
// The result is validated; on error the task is left unchanged.
func (t *Task) Apply(u TaskUpdate, now time.Time) error {
	merged := *t
	if u.Title != nil {
		merged.Title = *u.Title
	}
	if u.Description != nil {
		merged.Description = *u.Description
	}
	if u.Priority != nil {
		merged.Priority = *u.Priority
	}
	if u.Status != nil {
		merged.Status = *u.Status
	}
	if u.DueDate != nil {
		merged.DueDate = *u.DueDate
	}
	merged.UpdatedAt = now.UTC()

	if err := merged.Validate(); err != nil {
		return err
	}

	*t = merged
	return nil
}
