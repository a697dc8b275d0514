package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the operation taxonomy. Layers wrap these with
// fmt.Errorf("...: %w", err) and the HTTP boundary maps them to codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation error")
	ErrRender       = errors.New("render error")
	ErrConflict     = errors.New("conflict")
)

// ErrorCode returns the wire code for an error chain, or "INTERNAL_ERROR"
// for anything outside the taxonomy.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrRender):
		return "RENDER_ERROR"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}

// NotFoundf builds a NotFound error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidStatef builds an InvalidState error with a formatted message.
func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidState)...)
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
