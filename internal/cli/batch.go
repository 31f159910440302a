package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchUnique  bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Generate many puzzles in parallel",
	Long: `Batch generates puzzles concurrently from a request file:
- one request per line: <mode> <players> [count]
- blank lines and lines starting with # are ignored
- each puzzle is written to its own JSON file

The batch seed is printed so a run can be reproduced with --seed.

Example:
  veritas batch requests.txt
  veritas batch requests.txt --concurrency 8 --output-dir ./puzzles --unique`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./veritas-puzzles", "output directory for puzzles")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch generation")
	batchCmd.Flags().BoolVar(&batchUnique, "unique", false, "only accept puzzles with exactly one solution")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	p, logger, err := newPipeline(func(cfg *model.Config) {
		cfg.Concurrency.Workers = concurrency
		if batchUnique {
			cfg.Generation.RequireUnique = true
		}
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	batch := p.Batch()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Veritas Batch Generation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Seed:         %d\n", batch.Seed())
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	results, err := batch.GenerateFile(ctx, file)
	if err != nil {
		return fmt.Errorf("generate batch: %w", err)
	}

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ #%d %s/%d: %v\n", result.Index+1, result.Request.Mode, result.Request.Players, result.Error)
			continue
		}

		path := filepath.Join(outputDir, puzzleFilename(result))
		if err := writePuzzleFile(path, result.Puzzle); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ #%d: %v\n", result.Index+1, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ #%d %s/%d → %s (attempts: %d)\n",
			result.Index+1, result.Request.Mode, result.Request.Players, path, result.Puzzle.Attempts)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d puzzles\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d puzzles failed", failureCount)
	}
	return nil
}

// puzzleFilename names a result by position and shape, e.g. 003-expert-6.json
func puzzleFilename(r *worker.GenerateResult) string {
	return fmt.Sprintf("%03d-%s-%d.json", r.Index+1, r.Request.Mode, r.Request.Players)
}

func writePuzzleFile(path string, p *model.Puzzle) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal puzzle: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write puzzle: %w", err)
	}
	return nil
}
