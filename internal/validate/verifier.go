package validate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ppiankov/veritas/internal/logic"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/solver"
)

// Submission is a player's guess against a puzzle's statements
type Submission struct {
	People       []model.Person   `json:"people,omitempty"` // defaults to the speakers
	Statements   model.Statements `json:"statement_data"`
	TruthTellers int              `json:"num_truth_tellers"`
	Guess        model.Guess      `json:"guess"`
}

// Result is the verdict for one submission
type Result struct {
	Valid    bool   `json:"valid"`
	Complete bool   `json:"complete"` // the guess names every person
	Error    string `json:"error,omitempty"`
}

// Verifier checks guesses by asking the solver whether the puzzle's
// constraints plus the guessed roles are still satisfiable
type Verifier struct {
	solver     solver.ConstraintSolver
	builder    *logic.Builder
	maxWorkers int
}

// NewVerifier creates a new verifier
func NewVerifier(s solver.ConstraintSolver, maxWorkers int) *Verifier {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &Verifier{
		solver:     s,
		builder:    logic.NewBuilder(),
		maxWorkers: maxWorkers,
	}
}

// Verify reports whether the guess is consistent with the statements.
// Malformed submissions return a *model.ValidationError before any solver call.
func (v *Verifier) Verify(ctx context.Context, sub Submission) (Result, error) {
	people, err := Check(sub)
	if err != nil {
		return Result{}, err
	}

	cs, err := v.builder.Build(people, sub.Statements, sub.TruthTellers)
	if err != nil {
		return Result{}, fmt.Errorf("build constraints: %w", err)
	}

	_, err = v.solver.Solve(ctx, cs.WithPins(sub.Guess))
	switch {
	case err == nil:
		return Result{Valid: true, Complete: len(sub.Guess) == len(people)}, nil
	case errors.Is(err, solver.ErrUnsatisfiable):
		return Result{Valid: false, Complete: len(sub.Guess) == len(people)}, nil
	default:
		return Result{}, fmt.Errorf("solve: %w", err)
	}
}

// VerifyPuzzle verifies a guess against a generated puzzle
func (v *Verifier) VerifyPuzzle(ctx context.Context, p *model.Puzzle, guess model.Guess) (Result, error) {
	if p == nil {
		return Result{}, model.Invalid("puzzle", "missing")
	}
	return v.Verify(ctx, Submission{
		People:       p.People,
		Statements:   p.Statements,
		TruthTellers: p.TruthTellers,
		Guess:        guess,
	})
}

// VerifyAll verifies submissions concurrently; per-submission failures are
// reported in Result.Error
func (v *Verifier) VerifyAll(ctx context.Context, subs []Submission) []Result {
	results := make([]Result, len(subs))
	if len(subs) == 0 {
		return results
	}

	var wg sync.WaitGroup

	// Limit concurrent solver sessions
	semaphore := make(chan struct{}, v.maxWorkers)

	for i, sub := range subs {
		wg.Add(1)
		go func(idx int, s Submission) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = Result{Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			res, err := v.Verify(ctx, s)
			if err != nil {
				res = Result{Error: err.Error()}
			}
			results[idx] = res
		}(i, sub)
	}

	wg.Wait()
	return results
}
