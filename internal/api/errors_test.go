package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"service not found", service.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
		{"store not found", fmt.Errorf("x: %w", store.ErrTaskNotFound), http.StatusNotFound, "Task not found"},
		{"malformed id", fmt.Errorf("%w: id", domain.ErrInvalidID), http.StatusNotFound, "Task not found"},
		{"duplicate", store.ErrDuplicate, http.StatusConflict, "Task already exists"},
		{
			"validation error",
			&ValidationError{},
			http.StatusBadRequest,
			"Validation failed",
		},
		{"malformed request", ErrMalformedRequest, http.StatusBadRequest, "Invalid request format"},
		{"domain validation", domain.ErrEmptyTaskTitle, http.StatusBadRequest, "Invalid task data"},
		{
			"invalid entity from the store",
			&service.TaskServiceError{Operation: "create_task", Err: store.ErrInvalidEntity},
			http.StatusBadRequest,
			"Invalid task data",
		},
		{"unknown error", errors.New("connection refused"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantStatus, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.wantMsg, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestGetSafeErrorMessage_NeverLeaksDetails(t *testing.T) {
	err := &service.TaskServiceError{
		Operation: "list_tasks",
		Message:   "failed to list tasks",
		Err:       errors.New(`pq: relation "tasks" does not exist at postgres://admin:pw@db/tasks`),
	}
	msg := GetSafeErrorMessage(err)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
