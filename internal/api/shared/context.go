package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type traceIDKey struct{}

// MaxTraceIDLength bounds trace IDs accepted from clients.
const MaxTraceIDLength = 64

// NewTraceID returns a random 32-character lowercase hex trace ID.
func NewTraceID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// IsValidTraceID reports whether s can be echoed back as a trace ID:
// non-empty, at most MaxTraceIDLength characters, and limited to ASCII
// letters, digits, '-' and '_'.
func IsValidTraceID(s string) bool {
	if s == "" || len(s) > MaxTraceIDLength {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// GetTraceID returns the trace ID stored in ctx, or "" if there is none.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}
