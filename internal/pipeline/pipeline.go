// Package pipeline exposes the puzzle engine and rating flows behind one type.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/generate"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/score"
	"github.com/ppiankov/veritas/internal/solver"
	"github.com/ppiankov/veritas/internal/store"
	"github.com/ppiankov/veritas/internal/validate"
	"github.com/ppiankov/veritas/internal/worker"
)

// Pipeline wires the generator, verifier and rating engine to the puzzle and
// profile stores
type Pipeline struct {
	generator *generate.Generator
	verifier  *validate.Verifier
	engine    *score.Engine
	puzzles   *store.PuzzleStore
	profiles  *store.ProfileStore
	limiter   *worker.Limiter
	config    *model.Config
	logger    *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := solver.New(cfg.Solver.Backend)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	var catalog *score.Catalog
	if cfg.Rating.TiersFile != "" {
		catalog, err = score.LoadCatalog(cfg.Rating.TiersFile)
		if err != nil {
			return nil, fmt.Errorf("tiers: %w", err)
		}
	}

	c := cache.New(cfg.Cache)

	seed := uint64(cfg.Generation.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	logger.Debug("pipeline ready",
		zap.String("solver", cfg.Solver.Backend),
		zap.Bool("require_unique", cfg.Generation.RequireUnique),
		zap.String("cache_dir", cfg.Cache.Dir))

	return &Pipeline{
		generator: generate.NewGenerator(s, cfg.Generation, logger.Named("generate")),
		verifier:  validate.NewVerifier(s, cfg.Concurrency.Workers),
		engine:    score.NewEngine(catalog, cfg.Rating.Placement),
		puzzles:   store.NewPuzzleStore(c, 0),
		profiles:  store.NewProfileStore(c, cache.NoExpiration, cfg.Rating.Placement.DefaultHidden),
		limiter:   worker.NewLimiter(cfg.Limits.RequestsPerSecond, cfg.Limits.Burst),
		config:    cfg,
		logger:    logger,
		rng:       rand.New(rand.NewPCG(seed, seed>>1)),
	}, nil
}

// nextRand derives an independent stream for one request
func (p *Pipeline) nextRand() *rand.Rand {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return rand.New(rand.NewPCG(p.rng.Uint64(), p.rng.Uint64()))
}

// Engine returns the rating engine
func (p *Pipeline) Engine() *score.Engine {
	return p.engine
}

// Batch returns a batch generator sharing this pipeline's generator
func (p *Pipeline) Batch() *worker.BatchGenerator {
	return worker.NewBatchGenerator(p.generator, p.config.Concurrency.Workers,
		uint64(p.config.Generation.Seed), p.logger.Named("batch"))
}

// GeneratePuzzle generates a puzzle and keeps it for later verification
func (p *Pipeline) GeneratePuzzle(ctx context.Context, mode model.Mode, players int) (*model.Puzzle, error) {
	puzzle, err := p.generator.Generate(ctx, p.nextRand(), mode, players)
	if err != nil {
		return nil, err
	}
	if err := p.puzzles.Put(ctx, puzzle); err != nil {
		return nil, err
	}
	return puzzle, nil
}

// GeneratePractice generates a practice puzzle in a mode the player has unlocked
func (p *Pipeline) GeneratePractice(ctx context.Context, playerID string, mode model.Mode, players int) (*model.Puzzle, error) {
	profile, err := p.profiles.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !mode.Valid() {
		return nil, model.Invalid("mode", "unknown mode %q", mode)
	}
	if !score.IsUnlocked(profile.Practice, mode) {
		return nil, model.Invalid("mode", "%s is locked", mode)
	}
	return p.GeneratePuzzle(ctx, mode, players)
}

// VerifyGuess checks a guess against caller-supplied statements
func (p *Pipeline) VerifyGuess(ctx context.Context, sub validate.Submission) (validate.Result, error) {
	return p.verifier.Verify(ctx, sub)
}

// VerifyBatch checks many guesses concurrently. Results follow input order;
// a malformed submission is reported in its Result.Error.
func (p *Pipeline) VerifyBatch(ctx context.Context, subs []validate.Submission) []validate.Result {
	return p.verifier.VerifyAll(ctx, subs)
}

// VerifyStored checks a guess against a previously generated puzzle
func (p *Pipeline) VerifyStored(ctx context.Context, puzzleID string, guess model.Guess) (validate.Result, error) {
	puzzle, err := p.puzzles.Get(ctx, puzzleID)
	if err != nil {
		return validate.Result{}, err
	}
	return p.verifier.VerifyPuzzle(ctx, puzzle, guess)
}

// ScoreOutcome computes a ranked rating change without touching any profile
func (p *Pipeline) ScoreOutcome(rating int, mode model.Mode, players int, elapsed time.Duration, outcome model.Outcome) model.RatingChange {
	return p.engine.Score(rating, mode, players, elapsed, outcome)
}

// SelectTierPuzzle picks a (mode, players) pair legal for the rating's tier
func (p *Pipeline) SelectTierPuzzle(rating int) (model.Mode, int, error) {
	combo, _, err := p.engine.SelectTierPuzzle(p.nextRand(), rating)
	if err != nil {
		return "", 0, err
	}
	return combo.Mode, combo.Players, nil
}

// Profile returns the player's rating profile
func (p *Pipeline) Profile(ctx context.Context, playerID string) (model.RatingProfile, error) {
	return p.profiles.Get(ctx, playerID)
}

// GenerateRanked serves a rated puzzle shaped by the player's tier. Requests
// are rate-limited per player.
func (p *Pipeline) GenerateRanked(ctx context.Context, playerID string) (*model.Puzzle, error) {
	if err := p.limiter.Wait(ctx, playerID); err != nil {
		return nil, err
	}

	profile, err := p.profiles.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}

	combo, tier, err := p.engine.SelectForProfile(p.nextRand(), profile)
	if err != nil {
		return nil, err
	}
	rule, _ := tier.Allows(combo.Mode, combo.Players)

	puzzle, err := p.generator.Generate(ctx, p.nextRand(), combo.Mode, combo.Players)
	if err != nil {
		return nil, err
	}

	info := &model.RankedInfo{
		PlayerID:             playerID,
		Tier:                 tier.Label,
		TimeLimit:            rule.TimeLimit,
		DynamicTimeLimit:     score.DynamicTimeLimit(combo.Mode, combo.Players),
		DifficultyMultiplier: float64(rule.DifficultyPercent) / 100,
	}
	if p.engine.IsPlacement(profile) {
		info.IsPlacement = true
		info.PlacementMatchNumber = profile.PlacementMatches + 1
	}
	puzzle.Ranked = info

	if err := p.puzzles.Put(ctx, puzzle); err != nil {
		return nil, err
	}

	p.logger.Info("ranked puzzle served",
		zap.String("player", playerID),
		zap.String("puzzle", puzzle.ID),
		zap.String("tier", tier.Label),
		zap.String("mode", string(combo.Mode)),
		zap.Int("players", combo.Players),
		zap.Bool("placement", info.IsPlacement))
	return puzzle, nil
}

// RankedResult is the verdict and rating effect of a ranked submission
type RankedResult struct {
	Verdict validate.Result     `json:"verdict"`
	Outcome model.Outcome       `json:"outcome"`
	Change  model.RatingChange  `json:"change"`
	Profile model.RatingProfile `json:"profile"`
}

// SubmitRanked verifies a guess for a ranked puzzle and records the outcome.
// A ranked puzzle is scored once; it is removed after the submission.
func (p *Pipeline) SubmitRanked(ctx context.Context, playerID, puzzleID string, guess model.Guess, elapsed time.Duration) (RankedResult, error) {
	puzzle, err := p.rankedPuzzle(ctx, playerID, puzzleID, elapsed)
	if err != nil {
		return RankedResult{}, err
	}

	verdict, err := p.verifier.VerifyPuzzle(ctx, puzzle, guess)
	if err != nil {
		return RankedResult{}, err
	}
	outcome := model.OutcomeIncorrect
	if verdict.Valid && verdict.Complete {
		outcome = model.OutcomeSolved
	}

	res, err := p.record(ctx, playerID, puzzleID, elapsed, outcome)
	if err != nil {
		return RankedResult{}, err
	}
	res.Verdict = verdict
	return res, nil
}

// Forfeit records a gave-up or abandoned ranked puzzle
func (p *Pipeline) Forfeit(ctx context.Context, playerID, puzzleID string, elapsed time.Duration, outcome model.Outcome) (RankedResult, error) {
	if outcome != model.OutcomeGaveUp && outcome != model.OutcomeAbandoned {
		return RankedResult{}, model.Invalid("outcome", "forfeit must be %s or %s, got %q",
			model.OutcomeGaveUp, model.OutcomeAbandoned, outcome)
	}
	if _, err := p.rankedPuzzle(ctx, playerID, puzzleID, elapsed); err != nil {
		return RankedResult{}, err
	}
	return p.record(ctx, playerID, puzzleID, elapsed, outcome)
}

func (p *Pipeline) rankedPuzzle(ctx context.Context, playerID, puzzleID string, elapsed time.Duration) (*model.Puzzle, error) {
	if elapsed < 0 {
		return nil, model.Invalid("elapsed", "negative duration %s", elapsed)
	}
	puzzle, err := p.puzzles.Get(ctx, puzzleID)
	if err != nil {
		return nil, err
	}
	if puzzle.Ranked == nil || puzzle.Ranked.PlayerID != playerID {
		return nil, model.Invalid("puzzle_id", "%s is not a ranked puzzle for player %q", puzzleID, playerID)
	}
	return puzzle, nil
}

// record claims the puzzle and applies the outcome under the player's profile
// lock, so a puzzle submitted twice concurrently is scored only once
func (p *Pipeline) record(ctx context.Context, playerID, puzzleID string, elapsed time.Duration, outcome model.Outcome) (RankedResult, error) {
	var (
		change model.RatingChange
		puzzle *model.Puzzle
	)
	profile, err := p.profiles.Update(ctx, playerID, func(rp *model.RatingProfile) error {
		var err error
		puzzle, err = p.rankedPuzzle(ctx, playerID, puzzleID, elapsed)
		if err != nil {
			return err
		}
		if err := p.puzzles.Delete(ctx, puzzleID); err != nil {
			return fmt.Errorf("claim puzzle %s: %w", puzzleID, err)
		}
		*rp, change = p.engine.Record(*rp, puzzle.Mode, puzzle.Players, elapsed, outcome)
		return nil
	})
	if err != nil {
		if model.IsValidation(err) || errors.Is(err, model.ErrNotFound) {
			return RankedResult{}, err
		}
		return RankedResult{}, fmt.Errorf("record outcome: %w", err)
	}

	p.logger.Info("ranked outcome recorded",
		zap.String("player", playerID),
		zap.String("puzzle", puzzleID),
		zap.String("outcome", string(outcome)),
		zap.Int("old_rating", change.OldRating),
		zap.Int("new_rating", change.NewRating),
		zap.Bool("placement", change.Placement))

	return RankedResult{Outcome: outcome, Change: change, Profile: profile}, nil
}

// PracticeOutcome is the verdict and progress effect of a practice submission
type PracticeOutcome struct {
	Verdict  validate.Result      `json:"verdict"`
	Practice score.PracticeResult `json:"practice"`
}

// SubmitPractice verifies a guess for a practice puzzle. First-try correct
// solves advance the player's practice progress; the puzzle stays available
// for further tries.
func (p *Pipeline) SubmitPractice(ctx context.Context, playerID, puzzleID string, guess model.Guess, firstTry bool) (PracticeOutcome, error) {
	puzzle, err := p.puzzles.Get(ctx, puzzleID)
	if err != nil {
		return PracticeOutcome{}, err
	}

	verdict, err := p.verifier.VerifyPuzzle(ctx, puzzle, guess)
	if err != nil {
		return PracticeOutcome{}, err
	}
	outcome := model.OutcomeIncorrect
	if verdict.Valid && verdict.Complete {
		outcome = model.OutcomeSolved
	}

	var res score.PracticeResult
	_, err = p.profiles.Update(ctx, playerID, func(rp *model.RatingProfile) error {
		var err error
		rp.Practice, res, err = score.RecordPractice(rp.Practice, puzzle.Mode, outcome, firstTry)
		return err
	})
	if err != nil {
		if model.IsValidation(err) {
			return PracticeOutcome{}, err
		}
		return PracticeOutcome{}, fmt.Errorf("record practice: %w", err)
	}

	if res.Unlocked != "" {
		p.logger.Info("practice mode unlocked",
			zap.String("player", playerID),
			zap.String("mode", string(res.Unlocked)))
	}
	return PracticeOutcome{Verdict: verdict, Practice: res}, nil
}
