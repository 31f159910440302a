package cli

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/score"
)

var (
	scoreRating  int
	scoreMode    string
	scorePlayers int
	scoreElapsed time.Duration
	scoreOutcome string
	scoreJSON    bool

	tiersRating int

	limitMode    string
	limitPlayers int
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the rating change for a ranked outcome",
	Long: `Score computes the ELO change for one ranked puzzle outcome.

Solving within the tier's time limit earns the full reward, solving within
twice the limit earns half, anything slower counts as a loss.

Example:
  veritas score --rating 1000 --mode advanced --players 4 --elapsed 3m --outcome solved`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

// tiersCmd represents the tiers command
var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Show the tier catalog",
	Long: `Print the tier catalog as YAML, or with --rating the tier containing a
rating and a puzzle shape drawn from it.`,
	Args: cobra.NoArgs,
	RunE: runTiers,
}

// timelimitCmd represents the timelimit command
var timelimitCmd = &cobra.Command{
	Use:   "timelimit",
	Short: "Show the player-count scaled time limit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := model.ParseMode(limitMode)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%ds\n", score.DynamicTimeLimit(mode, limitPlayers))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(timelimitCmd)

	scoreCmd.Flags().IntVar(&scoreRating, "rating", 1000, "current rating")
	scoreCmd.Flags().StringVar(&scoreMode, "mode", "basic", "puzzle mode")
	scoreCmd.Flags().IntVarP(&scorePlayers, "players", "n", 4, "number of people in the puzzle")
	scoreCmd.Flags().DurationVar(&scoreElapsed, "elapsed", time.Minute, "time taken")
	scoreCmd.Flags().StringVar(&scoreOutcome, "outcome", "solved", "outcome (solved, incorrect, gave_up, abandoned)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the change as JSON")

	tiersCmd.Flags().IntVar(&tiersRating, "rating", -1, "show the tier for this rating")

	timelimitCmd.Flags().StringVar(&limitMode, "mode", "basic", "puzzle mode")
	timelimitCmd.Flags().IntVarP(&limitPlayers, "players", "n", 5, "number of people in the puzzle")
}

func runScore(cmd *cobra.Command, args []string) error {
	mode, err := model.ParseMode(scoreMode)
	if err != nil {
		return err
	}
	outcome, err := model.ParseOutcome(scoreOutcome)
	if err != nil {
		return err
	}
	if scoreRating < 0 {
		return model.Invalid("rating", "must not be negative")
	}

	p, logger, err := newPipeline(nil)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	change := p.ScoreOutcome(scoreRating, mode, scorePlayers, scoreElapsed, outcome)

	out := cmd.OutOrStdout()
	if scoreJSON {
		return writeJSON(out, change)
	}
	fmt.Fprintln(out, change.Message)
	fmt.Fprintf(out, "%d → %d (%+d)  [%s]\n", change.OldRating, change.NewRating, change.Delta, change.Tier)
	return nil
}

func runTiers(cmd *cobra.Command, args []string) error {
	p, logger, err := newPipeline(nil)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	catalog := p.Engine().Catalog()
	out := cmd.OutOrStdout()

	if tiersRating < 0 {
		data, err := yaml.Marshal(catalog)
		if err != nil {
			return fmt.Errorf("error marshaling tiers: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	combo, tier, err := p.Engine().SelectTierPuzzle(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), tiersRating)
	if err != nil {
		return err
	}
	renderTierPick(out, tier, combo, p.Engine().PlacementMatches())
	return nil
}

func renderTierPick(w io.Writer, tier score.Tier, combo score.Combo, placementMatches int) {
	rule, _ := tier.Allows(combo.Mode, combo.Players)

	fmt.Fprintf(w, "Tier: %s\n", tier.Label)
	fmt.Fprintf(w, "Combinations: %d\n", len(tier.Combos()))
	fmt.Fprintf(w, "Next puzzle: %s with %d players (limit %ds, difficulty %d%%)\n",
		combo.Mode, combo.Players, rule.TimeLimit, rule.DifficultyPercent)
	fmt.Fprintf(w, "New players are placed after %d ranked matches\n", placementMatches)
}
