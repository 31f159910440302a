// Package score rates players: tier lookup, ranked and placement rating
// changes, dynamic time limits and practice unlocks.
package score

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/veritas/internal/model"
)

// Unbounded marks a tier without an upper rating bound
const Unbounded = -1

// ModeRule is one (mode, player counts) combination a tier allows
type ModeRule struct {
	Mode              model.Mode `yaml:"mode" json:"mode"`
	Players           []int      `yaml:"players" json:"players"`
	TimeLimit         int        `yaml:"time_limit" json:"time_limit"`                 // seconds
	DifficultyPercent int        `yaml:"difficulty_percent" json:"difficulty_percent"` // 100 = 1.0x
}

// Tier is a rating band with its allowed puzzles and K factors
type Tier struct {
	Label        string     `yaml:"label" json:"label"`
	Min          int        `yaml:"min" json:"min"`
	Max          int        `yaml:"max" json:"max"` // Unbounded on the last tier
	Modes        []ModeRule `yaml:"modes" json:"modes"`
	WinK         int        `yaml:"win_k" json:"win_k"`
	FullLossK    int        `yaml:"full_loss_k" json:"full_loss_k"`
	PartialLossK int        `yaml:"partial_loss_k" json:"partial_loss_k"`
}

// Combo is a concrete puzzle shape
type Combo struct {
	Mode    model.Mode `json:"mode"`
	Players int        `json:"players"`
}

// Contains reports whether rating falls inside the tier
func (t Tier) Contains(rating int) bool {
	return rating >= t.Min && (t.Max == Unbounded || rating <= t.Max)
}

// Allows returns the rule covering mode with the given player count
func (t Tier) Allows(mode model.Mode, players int) (ModeRule, bool) {
	for _, rule := range t.Modes {
		if rule.Mode != mode {
			continue
		}
		for _, n := range rule.Players {
			if n == players {
				return rule, true
			}
		}
	}
	return ModeRule{}, false
}

// Combos flattens the tier's rules in declaration order
func (t Tier) Combos() []Combo {
	var combos []Combo
	for _, rule := range t.Modes {
		for _, n := range rule.Players {
			combos = append(combos, Combo{Mode: rule.Mode, Players: n})
		}
	}
	return combos
}

// Catalog is the ordered list of tiers
type Catalog struct {
	Tiers []Tier `yaml:"tiers" json:"tiers"`
}

// DefaultCatalog returns the built-in tier table
func DefaultCatalog() *Catalog {
	return &Catalog{Tiers: []Tier{
		{
			Label: "Beginner Thinker", Min: 0, Max: 499,
			Modes: []ModeRule{
				{Mode: model.ModeBasic, Players: []int{3, 4}, TimeLimit: 60, DifficultyPercent: 100},
			},
			WinK: 36, FullLossK: 18, PartialLossK: 9,
		},
		{
			Label: "Intermediate Thinker", Min: 500, Max: 999,
			Modes: []ModeRule{
				{Mode: model.ModeBasic, Players: []int{4, 5}, TimeLimit: 40, DifficultyPercent: 100},
				{Mode: model.ModeIntermediate, Players: []int{4, 5}, TimeLimit: 120, DifficultyPercent: 130},
			},
			WinK: 30, FullLossK: 24, PartialLossK: 15,
		},
		{
			Label: "Advanced Thinker", Min: 1000, Max: 1499,
			Modes: []ModeRule{
				{Mode: model.ModeIntermediate, Players: []int{5, 6}, TimeLimit: 100, DifficultyPercent: 130},
				{Mode: model.ModeAdvanced, Players: []int{4, 5}, TimeLimit: 180, DifficultyPercent: 160},
			},
			WinK: 24, FullLossK: 30, PartialLossK: 21,
		},
		{
			Label: "Critical Thinker", Min: 1500, Max: 1999,
			Modes: []ModeRule{
				{Mode: model.ModeAdvanced, Players: []int{5, 6, 7}, TimeLimit: 180, DifficultyPercent: 160},
			},
			WinK: 18, FullLossK: 36, PartialLossK: 27,
		},
		{
			Label: "Grandmaster Thinker", Min: 2000, Max: Unbounded,
			Modes: []ModeRule{
				{Mode: model.ModeAdvanced, Players: []int{6, 7, 8}, TimeLimit: 240, DifficultyPercent: 160},
				{Mode: model.ModeExpert, Players: []int{6, 7, 8}, TimeLimit: 300, DifficultyPercent: 200},
			},
			WinK: 12, FullLossK: 45, PartialLossK: 30,
		},
	}}
}

// Lookup returns the first tier containing rating. Ratings below the first
// tier map to it; the last tier is unbounded so every other rating matches.
func (c *Catalog) Lookup(rating int) Tier {
	if rating < c.Tiers[0].Min {
		return c.Tiers[0]
	}
	for _, t := range c.Tiers {
		if t.Contains(rating) {
			return t
		}
	}
	return c.Tiers[len(c.Tiers)-1]
}

// Validate checks the catalog covers [0, ∞) without gaps or overlaps
func (c *Catalog) Validate() error {
	if len(c.Tiers) == 0 {
		return errors.New("tier catalog is empty")
	}
	if c.Tiers[0].Min != 0 {
		return fmt.Errorf("first tier %q must start at 0, starts at %d", c.Tiers[0].Label, c.Tiers[0].Min)
	}

	labels := make(map[string]bool, len(c.Tiers))
	for i, t := range c.Tiers {
		if t.Label == "" {
			return fmt.Errorf("tier %d has no label", i)
		}
		if labels[t.Label] {
			return fmt.Errorf("duplicate tier label %q", t.Label)
		}
		labels[t.Label] = true

		last := i == len(c.Tiers)-1
		if last && t.Max != Unbounded {
			return fmt.Errorf("last tier %q must be unbounded", t.Label)
		}
		if !last {
			if t.Max == Unbounded || t.Max < t.Min {
				return fmt.Errorf("tier %q has invalid range [%d, %d]", t.Label, t.Min, t.Max)
			}
			if next := c.Tiers[i+1]; next.Min != t.Max+1 {
				return fmt.Errorf("tier %q starts at %d, expected %d", next.Label, next.Min, t.Max+1)
			}
		}

		if t.WinK <= 0 || t.FullLossK <= 0 || t.PartialLossK <= 0 {
			return fmt.Errorf("tier %q: K factors must be positive", t.Label)
		}
		if len(t.Modes) == 0 {
			return fmt.Errorf("tier %q allows no modes", t.Label)
		}
		for _, rule := range t.Modes {
			if err := rule.validate(); err != nil {
				return fmt.Errorf("tier %q: %w", t.Label, err)
			}
		}
	}
	return nil
}

func (r ModeRule) validate() error {
	if !r.Mode.Valid() {
		return fmt.Errorf("unknown mode %q", r.Mode)
	}
	if len(r.Players) == 0 {
		return fmt.Errorf("mode %s lists no player counts", r.Mode)
	}
	for _, n := range r.Players {
		if n < 2 {
			return fmt.Errorf("mode %s: player count %d below 2", r.Mode, n)
		}
	}
	if r.TimeLimit <= 0 {
		return fmt.Errorf("mode %s: time limit must be positive", r.Mode)
	}
	if r.DifficultyPercent <= 0 {
		return fmt.Errorf("mode %s: difficulty must be positive", r.Mode)
	}
	return nil
}

// LoadCatalog reads and validates a YAML tier catalog
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tiers: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse tiers: %w", err)
	}
	for i := range c.Tiers {
		for j := range c.Tiers[i].Modes {
			mode, err := model.ParseMode(string(c.Tiers[i].Modes[j].Mode))
			if err != nil {
				return nil, fmt.Errorf("tier %q: %w", c.Tiers[i].Label, err)
			}
			c.Tiers[i].Modes[j].Mode = mode
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tiers %s: %w", path, err)
	}
	return &c, nil
}
