package score

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/ppiankov/veritas/internal/model"
)

// Engine computes rating changes against a tier catalog
type Engine struct {
	catalog   *Catalog
	placement model.PlacementConfig
}

// NewEngine creates a rating engine; a nil catalog uses DefaultCatalog
func NewEngine(catalog *Catalog, placement model.PlacementConfig) *Engine {
	if catalog == nil || len(catalog.Tiers) == 0 {
		catalog = DefaultCatalog()
	}
	if placement.Matches <= 0 {
		placement = model.DefaultConfig().Rating.Placement
	}
	return &Engine{catalog: catalog, placement: placement}
}

// Catalog returns the engine's tier catalog
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// PlacementMatches returns the number of placement matches before a rating is revealed
func (e *Engine) PlacementMatches() int {
	return e.placement.Matches
}

// Score computes the ranked rating change for one outcome. It is a pure
// function of its arguments.
func (e *Engine) Score(rating int, mode model.Mode, players int, elapsed time.Duration, outcome model.Outcome) model.RatingChange {
	tier := e.catalog.Lookup(rating)
	change := model.RatingChange{
		OldRating: rating,
		NewRating: rating,
		Tier:      tier.Label,
	}

	rule, ok := tier.Allows(mode, players)
	if !ok {
		change.Message = fmt.Sprintf("📉 No ELO change — %s with %d players is not valid for tier '%s'.",
			title(mode), players, tier.Label)
		return change
	}
	change.Eligible = true

	limit := time.Duration(rule.TimeLimit) * time.Second
	secs := elapsed.Seconds()
	var delta int

	switch outcome {
	case model.OutcomeSolved:
		switch {
		case elapsed <= limit:
			delta = tier.WinK * rule.DifficultyPercent / 100
			change.Message = fmt.Sprintf("✅ +%d ELO for solving a %s puzzle in %.0fs!", delta, title(mode), secs)
		case elapsed <= 2*limit:
			delta = tier.WinK * rule.DifficultyPercent / 200
			change.Message = fmt.Sprintf("⚠️ +%d ELO for solving %s puzzle, but you were slow. (%.0fs > %ds)",
				delta, title(mode), secs, rule.TimeLimit)
		default:
			delta = -tier.FullLossK
			change.Message = fmt.Sprintf("⚠️ Too slow (>%ds) for your tier (%s). −%d ELO.",
				2*rule.TimeLimit, tier.Label, tier.FullLossK)
		}
	case model.OutcomeAbandoned:
		delta = -tier.FullLossK
		change.Message = fmt.Sprintf("🚪 Abandoned puzzle — −%d ELO.", tier.FullLossK)
	case model.OutcomeGaveUp:
		delta = -tier.PartialLossK
		change.Message = fmt.Sprintf("🧹 You gave up — −%d ELO.", tier.PartialLossK)
	default:
		delta = -tier.FullLossK
		change.Message = fmt.Sprintf("❌ Incorrect — −%d ELO.", tier.FullLossK)
	}

	change.NewRating = max(0, rating+delta)
	change.Delta = change.NewRating - rating
	return change
}

// IsPlacement reports whether the profile's next rated match is a placement match
func (e *Engine) IsPlacement(p model.RatingProfile) bool {
	return !p.IsRanked && p.PlacementMatches < e.placement.Matches
}

// Placement applies one placement-match outcome. Time and tier eligibility
// do not matter during placement. The final match reveals the rating.
func (e *Engine) Placement(p model.RatingProfile, outcome model.Outcome) (model.RatingProfile, model.RatingChange) {
	hidden := e.placement.DefaultHidden
	if p.HiddenRating != nil {
		hidden = *p.HiddenRating
	}
	match := p.PlacementMatches + 1
	prefix := fmt.Sprintf("Placement Match %d/%d", match, e.placement.Matches)

	var delta int
	var msg string
	switch outcome {
	case model.OutcomeSolved:
		delta = e.placement.Win
		msg = fmt.Sprintf("🏆 %s: +%d ELO for solving!", prefix, delta)
	case model.OutcomeAbandoned:
		delta = -e.placement.FullLoss
		msg = fmt.Sprintf("🚪 %s: Abandoned — -%d ELO", prefix, e.placement.FullLoss)
	case model.OutcomeGaveUp:
		delta = -e.placement.PartialLoss
		msg = fmt.Sprintf("🧹 %s: Gave up — -%d ELO", prefix, e.placement.PartialLoss)
	default:
		delta = -e.placement.FullLoss
		msg = fmt.Sprintf("❌ %s: Incorrect — -%d ELO", prefix, e.placement.FullLoss)
	}

	newHidden := max(0, hidden+delta)
	change := model.RatingChange{
		OldRating:      hidden,
		NewRating:      newHidden,
		Delta:          newHidden - hidden,
		Message:        msg,
		Tier:           e.catalog.Lookup(newHidden).Label,
		Eligible:       true,
		Placement:      true,
		PlacementMatch: match,
	}

	p.PlacementMatches = match
	if match < e.placement.Matches {
		p.HiddenRating = &newHidden
		return p, change
	}

	// Reveal
	revealed := min(max(newHidden, e.placement.RevealMin), e.placement.RevealMax)
	p.Rating = &revealed
	p.HiddenRating = nil
	p.IsRanked = true

	change.NewRating = revealed
	change.Delta = revealed - hidden
	change.Tier = e.catalog.Lookup(revealed).Label
	change.PlacementRevealed = true
	change.Message = fmt.Sprintf("%s Placement complete: your rating is %d (%s).", msg, revealed, change.Tier)
	return p, change
}

// Record applies an outcome to a profile, routing to placement or ranked scoring
func (e *Engine) Record(p model.RatingProfile, mode model.Mode, players int, elapsed time.Duration, outcome model.Outcome) (model.RatingProfile, model.RatingChange) {
	if e.IsPlacement(p) {
		return e.Placement(p, outcome)
	}

	change := e.Score(p.EffectiveRating(e.placement.DefaultHidden), mode, players, elapsed, outcome)
	rating := change.NewRating
	p.Rating = &rating
	p.HiddenRating = nil
	p.IsRanked = true
	return p, change
}

// SelectTierPuzzle picks a (mode, players) pair uniformly from the tier containing rating
func (e *Engine) SelectTierPuzzle(rng *rand.Rand, rating int) (Combo, Tier, error) {
	tier := e.catalog.Lookup(rating)
	combos := tier.Combos()
	if len(combos) == 0 {
		return Combo{}, tier, fmt.Errorf("tier %q: %w", tier.Label, model.ErrNoEligibleCombination)
	}
	return combos[rng.IntN(len(combos))], tier, nil
}

// SelectForProfile picks a puzzle shape for a player, using the hidden rating during placement
func (e *Engine) SelectForProfile(rng *rand.Rand, p model.RatingProfile) (Combo, Tier, error) {
	return e.SelectTierPuzzle(rng, p.EffectiveRating(e.placement.DefaultHidden))
}

func title(m model.Mode) string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
