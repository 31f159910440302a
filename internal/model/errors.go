package model

import (
	"errors"
	"fmt"
)

// ErrGenerationFailed is wrapped by every GenerationError
var ErrGenerationFailed = errors.New("puzzle generation failed")

// ErrNoEligibleCombination means a tier offers no (mode, player-count) pair
var ErrNoEligibleCombination = errors.New("no eligible puzzle combination")

// ErrNotFound is returned by stores for unknown puzzle or player IDs
var ErrNotFound = errors.New("not found")

// GenerationError reports an exhausted retry ceiling
type GenerationError struct {
	Mode     Mode
	Players  int
	Attempts int
	Last     error // cause of the final failed attempt
}

func (e *GenerationError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("%s: %s puzzle with %d players after %d attempts", ErrGenerationFailed, e.Mode, e.Players, e.Attempts)
	}
	return fmt.Sprintf("%s: %s puzzle with %d players after %d attempts: %v", ErrGenerationFailed, e.Mode, e.Players, e.Attempts, e.Last)
}

// Unwrap lets errors.Is match both ErrGenerationFailed and the last cause
func (e *GenerationError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrGenerationFailed}
	}
	return []error{ErrGenerationFailed, e.Last}
}

// ValidationError rejects structurally invalid caller data before any solver call
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
