package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Client-facing error messages
const (
	msgTaskNotFound      = "Task not found"
	msgInvalidFormat     = "Invalid request format"
	msgValidationFailed  = shared.MsgValidationFailed
	msgInvalidTaskData   = "Invalid task data"
	msgTaskExists        = "Task already exists"
	msgUnexpectedError   = "An unexpected error occurred"
	msgTaskDeleted       = "Task deleted successfully"
	msgServiceNotHealthy = "Service unavailable"
)

// errorClass ties a kind of error to the status and message clients see.
type errorClass struct {
	match   func(error) bool
	status  int
	message string
}

func isAny(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

func isValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// errorClasses is checked in order; the first match wins. A malformed ID can
// never name an existing task, so it reads as not found.
var errorClasses = []errorClass{
	{isAny(service.ErrTaskNotFound, store.ErrNotFound, domain.ErrInvalidID), http.StatusNotFound, msgTaskNotFound},
	{isAny(store.ErrDuplicate), http.StatusConflict, msgTaskExists},
	{isValidationError, http.StatusBadRequest, msgValidationFailed},
	{isAny(domain.ErrInvalidFormat), http.StatusBadRequest, msgInvalidFormat},
	{isAny(domain.ErrValidation, store.ErrInvalidEntity), http.StatusBadRequest, msgInvalidTaskData},
}

func classifyError(err error) errorClass {
	if err != nil {
		for _, c := range errorClasses {
			if c.match(err) {
				return c
			}
		}
	}
	return errorClass{status: http.StatusInternalServerError, message: msgUnexpectedError}
}

// MapErrorToStatusCode returns the HTTP status for err. Unknown errors are 500.
func MapErrorToStatusCode(err error) int {
	return classifyError(err).status
}

// GetSafeErrorMessage returns the client-facing message for err. It never
// includes text from err itself.
func GetSafeErrorMessage(err error) string {
	return classifyError(err).message
}
