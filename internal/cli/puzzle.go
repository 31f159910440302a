package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/validate"
)

var (
	genMode         string
	genPlayers      int
	genUnique       bool
	genJSON         bool
	genShowSolution bool
	genTimeout      time.Duration
	verifyJSON      bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a truth-teller/liar puzzle",
	Long: `Generate a puzzle for a mode and player count:
- basic: direct statements only
- intermediate: adds AND / OR
- advanced: adds IF ... THEN
- expert: adds XOR, IFF, nested conditionals, self-reference and group counts

Example:
  veritas generate --mode expert --players 6
  veritas generate --mode hard --players 5 --unique --json`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Verify a guess against puzzle statements",
	Long: `Verify reads a JSON submission from a file (or stdin when omitted or "-"):

  {
    "statement_data": {"A": {"kind": "DIRECT", "target": "B", "claim": true}, ...},
    "num_truth_tellers": 3,
    "guess": {"A": true, "D": false}
  }

A guess is valid when at least one role assignment agrees with it and with
every statement. A generated puzzle's JSON output is accepted as-is once a
"guess" is added.

A JSON array of submissions is verified concurrently, one verdict per entry.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(verifyCmd)

	generateCmd.Flags().StringVar(&genMode, "mode", "basic", "puzzle mode (basic, intermediate, advanced, expert)")
	generateCmd.Flags().IntVarP(&genPlayers, "players", "n", 4, "number of people in the puzzle")
	generateCmd.Flags().BoolVar(&genUnique, "unique", false, "only accept puzzles with exactly one solution")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "print the puzzle as JSON")
	generateCmd.Flags().BoolVar(&genShowSolution, "solution", false, "print the solution")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 30*time.Second, "generation timeout")

	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "print the verdict as JSON")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mode, err := model.ParseMode(genMode)
	if err != nil {
		return err
	}

	p, logger, err := newPipeline(func(cfg *model.Config) {
		if genUnique {
			cfg.Generation.RequireUnique = true
		}
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
	defer cancel()

	puzzle, err := p.GeneratePuzzle(ctx, mode, genPlayers)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if genJSON {
		return writeJSON(out, puzzle)
	}
	renderPuzzle(out, puzzle, genShowSolution)
	return nil
}

// renderPuzzle prints a puzzle for a human reader
func renderPuzzle(w io.Writer, p *model.Puzzle, showSolution bool) {
	fmt.Fprintf(w, "Puzzle %s\n", p.ID)
	fmt.Fprintf(w, "  Mode: %s   People: %d   Truth-Tellers: %d\n\n", p.Mode, p.Players, p.TruthTellers)

	for _, person := range p.People {
		fmt.Fprintf(w, "  %s: \"%s\"\n", person, p.Texts[person])
	}
	fmt.Fprintln(w)

	if p.Unique {
		fmt.Fprintln(w, "  Exactly one assignment of roles fits.")
	} else {
		fmt.Fprintln(w, "  More than one assignment of roles may fit.")
	}

	if showSolution {
		parts := make([]string, 0, len(p.People))
		for _, person := range p.People {
			parts = append(parts, fmt.Sprintf("%s=%s", person, model.RoleName(p.Solution[person])))
		}
		fmt.Fprintf(w, "  Solution: %s\n", strings.Join(parts, ", "))
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open submission: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read submission: %w", err)
	}
	subs, batch, err := decodeSubmissions(data)
	if err != nil {
		return err
	}

	p, logger, err := newPipeline(nil)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	out := cmd.OutOrStdout()
	if batch {
		results := p.VerifyBatch(context.Background(), subs)
		if verifyJSON {
			return writeJSON(out, results)
		}
		for i, res := range results {
			fmt.Fprintf(out, "#%d ", i+1)
			renderVerdict(out, res)
		}
		return nil
	}

	res, err := p.VerifyGuess(context.Background(), subs[0])
	if err != nil {
		return err
	}
	if verifyJSON {
		return writeJSON(out, res)
	}
	renderVerdict(out, res)
	return nil
}

// decodeSubmissions accepts one submission object or an array of them
func decodeSubmissions(data []byte) ([]validate.Submission, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var subs []validate.Submission
		if err := json.Unmarshal(trimmed, &subs); err != nil {
			return nil, true, fmt.Errorf("decode submissions: %w", err)
		}
		return subs, true, nil
	}

	var sub validate.Submission
	if err := json.Unmarshal(trimmed, &sub); err != nil {
		return nil, false, fmt.Errorf("decode submission: %w", err)
	}
	return []validate.Submission{sub}, false, nil
}

func renderVerdict(w io.Writer, res validate.Result) {
	switch {
	case res.Error != "":
		fmt.Fprintf(w, "✗ Error: %s\n", res.Error)
	case res.Valid && res.Complete:
		fmt.Fprintln(w, "✓ Valid: the guess fits every statement")
	case res.Valid:
		fmt.Fprintln(w, "✓ Valid so far: the partial guess fits every statement")
	default:
		fmt.Fprintln(w, "✗ Invalid: no assignment of roles agrees with this guess")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
