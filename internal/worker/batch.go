package worker

import (
	"bufio"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/model"
)

// PuzzleGenerator is the part of generate.Generator a batch needs
type PuzzleGenerator interface {
	Generate(ctx context.Context, rng *rand.Rand, mode model.Mode, players int) (*model.Puzzle, error)
}

// Request asks for one puzzle
type Request struct {
	Mode    model.Mode `json:"mode"`
	Players int        `json:"players"`
}

// GenerateJob generates one puzzle with its own random stream
type GenerateJob struct {
	Index     int
	Request   Request
	Seed      uint64
	Generator PuzzleGenerator
}

// Execute runs the generator. The stream depends only on (Seed, Index), so a
// batch is reproducible regardless of worker scheduling.
func (j *GenerateJob) Execute(ctx context.Context) Result {
	rng := rand.New(rand.NewPCG(j.Seed, uint64(j.Index)))
	puzzle, err := j.Generator.Generate(ctx, rng, j.Request.Mode, j.Request.Players)
	return &GenerateResult{
		Index:   j.Index,
		Request: j.Request,
		Puzzle:  puzzle,
		Error:   err,
	}
}

// GenerateResult is the outcome of one GenerateJob
type GenerateResult struct {
	Index   int
	Request Request
	Puzzle  *model.Puzzle
	Error   error
}

// GetError returns the generation error, if any
func (r *GenerateResult) GetError() error {
	return r.Error
}

// BatchGenerator generates many puzzles concurrently
type BatchGenerator struct {
	generator   PuzzleGenerator
	concurrency int
	seed        uint64
	logger      *zap.Logger
}

// NewBatchGenerator creates a batch generator. A zero seed draws one at random.
func NewBatchGenerator(g PuzzleGenerator, concurrency int, seed uint64, logger *zap.Logger) *BatchGenerator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchGenerator{
		generator:   g,
		concurrency: concurrency,
		seed:        seed,
		logger:      logger,
	}
}

// Seed returns the batch seed, for reproducing a run
func (b *BatchGenerator) Seed() uint64 {
	return b.seed
}

// GenerateAll generates one puzzle per request; results follow request order
func (b *BatchGenerator) GenerateAll(ctx context.Context, requests []Request) []*GenerateResult {
	if len(requests) == 0 {
		return []*GenerateResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, req := range requests {
		job := &GenerateJob{
			Index:     i,
			Request:   req,
			Seed:      b.seed,
			Generator: b.generator,
		}
		if err := pool.Submit(job); err != nil {
			b.logger.Warn("batch cancelled", zap.Int("submitted", i), zap.Error(err))
			break
		}
	}

	results := pool.Wait()

	out := make([]*GenerateResult, len(results))
	failed := 0
	for i, result := range results {
		out[i] = result.(*GenerateResult)
		if out[i].Error != nil {
			failed++
		}
	}

	b.logger.Info("batch complete",
		zap.Int("requested", len(requests)),
		zap.Int("generated", len(out)-failed),
		zap.Int("failed", failed),
		zap.Uint64("seed", b.seed))

	return out
}

// GenerateFile reads requests from a file and generates them
func (b *BatchGenerator) GenerateFile(ctx context.Context, filePath string) ([]*GenerateResult, error) {
	requests, err := ReadRequestsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}

	return b.GenerateAll(ctx, requests), nil
}

// ReadRequestsFromFile reads "<mode> <players> [count]" lines. Blank lines and
// lines starting with # are skipped.
func ReadRequestsFromFile(filePath string) ([]Request, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var requests []Request

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		reqs, err := parseRequestLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		requests = append(requests, reqs...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return requests, nil
}

func parseRequestLine(line string) ([]Request, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return nil, fmt.Errorf("expected '<mode> <players> [count]', got %q", line)
	}

	mode, err := model.ParseMode(fields[0])
	if err != nil {
		return nil, err
	}
	players, err := strconv.Atoi(fields[1])
	if err != nil || players < 1 {
		return nil, fmt.Errorf("invalid player count %q", fields[1])
	}

	count := 1
	if len(fields) == 3 {
		count, err = strconv.Atoi(fields[2])
		if err != nil || count < 1 {
			return nil, fmt.Errorf("invalid count %q", fields[2])
		}
	}

	reqs := make([]Request, count)
	for i := range reqs {
		reqs[i] = Request{Mode: mode, Players: players}
	}
	return reqs, nil
}
