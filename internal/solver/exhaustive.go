package solver

import (
	"context"
	"fmt"

	"github.com/ppiankov/veritas/internal/logic"
	"github.com/ppiankov/veritas/internal/model"
)

// DefaultExhaustiveLimit bounds the person count the exhaustive backend accepts
const DefaultExhaustiveLimit = 20

// Exhaustive enumerates every role assignment in a fixed order and evaluates
// the constraints directly. Used as a reference oracle for small puzzles.
type Exhaustive struct {
	maxPersons int
}

// NewExhaustive creates an enumerating solver for at most maxPersons people
func NewExhaustive(maxPersons int) *Exhaustive {
	if maxPersons <= 0 || maxPersons > 30 {
		maxPersons = DefaultExhaustiveLimit
	}
	return &Exhaustive{maxPersons: maxPersons}
}

// Solve returns the first satisfying assignment in enumeration order
func (s *Exhaustive) Solve(ctx context.Context, cs *logic.ConstraintSet) (model.Assignment, error) {
	var found model.Assignment
	err := s.enumerate(ctx, cs, func(a model.Assignment) bool {
		found = a.Clone()
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrUnsatisfiable
	}
	return found, nil
}

// Count returns the number of satisfying assignments, stopping at limit
func (s *Exhaustive) Count(ctx context.Context, cs *logic.ConstraintSet, limit int) (int, error) {
	count := 0
	err := s.enumerate(ctx, cs, func(model.Assignment) bool {
		count++
		return limit <= 0 || count < limit
	})
	return count, err
}

// enumerate calls visit for each satisfying assignment until visit returns false
func (s *Exhaustive) enumerate(ctx context.Context, cs *logic.ConstraintSet, visit func(model.Assignment) bool) error {
	n := len(cs.Persons)
	if n > s.maxPersons {
		return fmt.Errorf("exhaustive solver: %d persons exceeds limit of %d", n, s.maxPersons)
	}

	a := make(model.Assignment, n)
	total := uint64(1) << uint(n)
	for bits := uint64(0); bits < total; bits++ {
		if bits&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for i, p := range cs.Persons {
			a[p] = bits&(1<<uint(i)) != 0
		}
		if cs.Satisfied(a) && !visit(a) {
			return nil
		}
	}
	return nil
}
