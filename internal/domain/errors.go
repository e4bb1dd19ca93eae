package domain

import "errors"

// Error classes. Every error the domain returns wraps exactly one of them.
var (
	ErrValidation    = errors.New("validation failed") // entity invariants
	ErrInvalidFormat = errors.New("invalid format")    // unparseable input
	ErrInvalidID     = errors.New("invalid ID")        // malformed identifier
)
