package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/redact"
)

// MsgValidationFailed is the message of every field-level validation response.
const MsgValidationFailed = "Validation failed"

// FieldError describes one field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Code    int          `json:"-"` // log only
	TraceID string       `json:"trace_id,omitempty"`
}

// MessageResponse is a body carrying only a human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ResponseOption adjusts how RespondWithErrorAndLog logs.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevated bool
}

// WithElevatedLogLevel logs a 4xx response at WARN instead of DEBUG.
func WithElevatedLogLevel() ResponseOption {
	return func(o *responseOptions) { o.elevated = true }
}

func requestLogger(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), slog.Default())
}

func newErrorResponse(r *http.Request, status int, message string, fields []FieldError) ErrorResponse {
	return ErrorResponse{
		Message: message,
		Errors:  fields,
		Code:    status,
		TraceID: GetTraceID(r.Context()),
	}
}

// errorLogLevel picks the level for an error response: 5xx is ERROR, 429 and
// elevated 4xx are WARN, everything else is DEBUG.
func errorLogLevel(status int, elevated bool) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status == http.StatusTooManyRequests:
		return slog.LevelWarn
	case elevated && status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// RespondWithJSON writes data as a JSON body with the given status.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		requestLogger(r).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes an ErrorResponse carrying message and the request's trace ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	requestLogger(r).Debug("error response",
		"status_code", status, "message", message, "method", r.Method, "path", r.URL.Path)
	RespondWithJSON(w, r, status, newErrorResponse(r, status, message, nil))
}

// RespondWithValidationErrors writes a 400 response listing the offending fields.
func RespondWithValidationErrors(w http.ResponseWriter, r *http.Request, fields []FieldError) {
	requestLogger(r).Debug("request failed validation",
		"fields", len(fields), "method", r.Method, "path", r.URL.Path)
	RespondWithJSON(w, r, http.StatusBadRequest,
		newErrorResponse(r, http.StatusBadRequest, MsgValidationFailed, fields))
}

// RespondWithErrorAndLog writes an ErrorResponse with userMessage and logs err.
// err never reaches the client and is redacted before it is logged.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	var o responseOptions
	for _, opt := range opts {
		opt(&o)
	}

	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}
	requestLogger(r).LogAttrs(r.Context(), errorLogLevel(status, o.elevated), "error response", attrs...)

	RespondWithJSON(w, r, status, newErrorResponse(r, status, userMessage, nil))
}
