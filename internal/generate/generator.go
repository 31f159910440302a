package generate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/logic"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/solver"
)

// DefaultMaxAttempts is the retry ceiling when none is configured
const DefaultMaxAttempts = 10

// errNotUnique rejects an attempt when unique puzzles are required
var errNotUnique = errors.New("puzzle has more than one solution")

// phase names the step of an attempt
type phase int

const (
	phaseAssignRoles phase = iota
	phaseStatements
	phaseConstraints
	phaseSolve
	phaseUnique
)

func (p phase) String() string {
	switch p {
	case phaseAssignRoles:
		return "assign_roles"
	case phaseStatements:
		return "generate_statements"
	case phaseConstraints:
		return "build_constraints"
	case phaseSolve:
		return "solve"
	case phaseUnique:
		return "check_unique"
	default:
		return "unknown"
	}
}

type attemptError struct {
	phase phase
	err   error
}

func (e *attemptError) Error() string { return e.phase.String() + ": " + e.err.Error() }
func (e *attemptError) Unwrap() error { return e.err }

// Generator produces puzzles through a bounded retry loop
type Generator struct {
	solver     solver.ConstraintSolver
	statements *StatementGenerator
	builder    *logic.Builder
	cfg        model.GenerationConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewGenerator creates a generator backed by the given solver
func NewGenerator(s solver.ConstraintSolver, cfg model.GenerationConfig, logger *zap.Logger) *Generator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		solver:     s,
		statements: NewStatementGenerator(),
		builder:    logic.NewBuilder(),
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Generate builds a puzzle for mode with the given number of players.
// rng drives every random choice; nil seeds one from the clock.
func (g *Generator) Generate(ctx context.Context, rng *rand.Rand, mode model.Mode, players int) (*model.Puzzle, error) {
	if !mode.Valid() {
		return nil, model.Invalid("mode", "unknown mode %q", mode)
	}
	if players < 1 {
		return nil, model.Invalid("players", "must be positive, got %d", players)
	}
	if g.cfg.MaxPlayers > 0 && players > g.cfg.MaxPlayers {
		return nil, model.Invalid("players", "at most %d supported, got %d", g.cfg.MaxPlayers, players)
	}
	if rng == nil {
		seed := uint64(g.now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	people := model.Labels(players)
	var last error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		puzzle, err := g.attempt(ctx, rng, mode, people)
		if err == nil {
			puzzle.Attempts = attempt
			g.logger.Debug("puzzle generated",
				zap.String("id", puzzle.ID),
				zap.String("mode", string(mode)),
				zap.Int("players", players),
				zap.Int("attempt", attempt),
				zap.Bool("unique", puzzle.Unique))
			return puzzle, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		last = err
		g.logger.Debug("generation attempt failed",
			zap.String("mode", string(mode)),
			zap.Int("players", players),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	genErr := &model.GenerationError{
		Mode:     mode,
		Players:  players,
		Attempts: g.cfg.MaxAttempts,
		Last:     last,
	}
	g.logger.Warn("puzzle generation failed",
		zap.String("mode", string(mode)),
		zap.Int("players", players),
		zap.Int("attempts", g.cfg.MaxAttempts),
		zap.Error(last))
	return nil, genErr
}

// attempt runs one pass of the state machine; panics become errors
func (g *Generator) attempt(ctx context.Context, rng *rand.Rand, mode model.Mode, people []model.Person) (puzzle *model.Puzzle, err error) {
	current := phaseAssignRoles
	defer func() {
		if r := recover(); r != nil {
			puzzle = nil
			err = &attemptError{phase: current, err: fmt.Errorf("panic: %v", r)}
		}
	}()

	// 1. Assign roles
	roles, k, err := AssignRoles(rng, people)
	if err != nil {
		return nil, &attemptError{phase: current, err: err}
	}

	// 2. Generate statements
	current = phaseStatements
	statements, err := g.statements.Generate(rng, mode, people, roles)
	if err != nil {
		return nil, &attemptError{phase: current, err: err}
	}

	// 3. Build constraints
	current = phaseConstraints
	cs, err := g.builder.Build(people, statements, k)
	if err != nil {
		return nil, &attemptError{phase: current, err: err}
	}

	// 4. Solve with the assigned roles pinned
	current = phaseSolve
	solution, err := g.solver.Solve(ctx, cs.WithPins(roles))
	if err != nil {
		return nil, &attemptError{phase: current, err: err}
	}

	// 5. Uniqueness
	current = phaseUnique
	unique, counted, err := solver.IsUnique(ctx, g.solver, cs)
	if err != nil {
		return nil, &attemptError{phase: current, err: err}
	}
	if g.cfg.RequireUnique {
		if !counted {
			return nil, &attemptError{phase: current, err: fmt.Errorf("solver %T cannot count solutions", g.solver)}
		}
		if !unique {
			return nil, &attemptError{phase: current, err: errNotUnique}
		}
	}

	texts := make(map[model.Person]string, len(statements))
	for speaker, c := range statements {
		texts[speaker] = SpeakerText(speaker, c)
	}

	return &model.Puzzle{
		ID:           uuid.NewString(),
		Mode:         mode,
		Players:      len(people),
		TruthTellers: k,
		People:       people,
		Texts:        texts,
		Statements:   statements,
		Solution:     solution,
		Unique:       unique,
		CreatedAt:    g.now().UTC(),
	}, nil
}
