// Package solver answers satisfiability questions about logic.ConstraintSets.
// Backends are pluggable; callers depend only on ConstraintSolver.
package solver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/logic"
	"github.com/ppiankov/veritas/internal/model"
)

// ErrUnsatisfiable is the solver's "no assignment exists" verdict
var ErrUnsatisfiable = errors.New("constraints not satisfiable")

// ErrIndeterminate is returned when a backend gives up without a verdict
var ErrIndeterminate = errors.New("solver returned no verdict")

// ConstraintSolver finds a role assignment satisfying every constraint.
// Implementations must be side-effect free: each call builds a fresh session.
type ConstraintSolver interface {
	Solve(ctx context.Context, cs *logic.ConstraintSet) (model.Assignment, error)
}

// Counter is implemented by backends that can count distinct role assignments
type Counter interface {
	// Count returns the number of satisfying assignments, stopping at limit
	Count(ctx context.Context, cs *logic.ConstraintSet, limit int) (int, error)
}

// Backend names accepted by New
const (
	BackendGini       = "gini"
	BackendExhaustive = "exhaustive"
)

// New returns the named backend
func New(backend string) (ConstraintSolver, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendGini:
		return NewGini(), nil
	case BackendExhaustive:
		return NewExhaustive(DefaultExhaustiveLimit), nil
	}
	return nil, fmt.Errorf("unknown solver backend %q", backend)
}

// IsUnique reports whether cs has exactly one solution. ok is false when the
// backend cannot count.
func IsUnique(ctx context.Context, s ConstraintSolver, cs *logic.ConstraintSet) (unique bool, ok bool, err error) {
	counter, can := s.(Counter)
	if !can {
		return false, false, nil
	}
	n, err := counter.Count(ctx, cs, 2)
	if err != nil {
		return false, true, err
	}
	return n == 1, true, nil
}
