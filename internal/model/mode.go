package model

import (
	"fmt"
	"strings"
)

// Mode is a puzzle difficulty; each mode's vocabulary is a superset of the previous one
type Mode string

const (
	ModeBasic        Mode = "basic"        // direct references only
	ModeIntermediate Mode = "intermediate" // + conjunction, disjunction
	ModeAdvanced     Mode = "advanced"     // + conditional
	ModeExpert       Mode = "expert"       // + xor, iff, nested conditional, self-reference, group count
)

// Modes lists every mode from easiest to hardest
var Modes = []Mode{ModeBasic, ModeIntermediate, ModeAdvanced, ModeExpert}

var legacyModeNames = map[string]Mode{
	"easy":    ModeBasic,
	"medium":  ModeIntermediate,
	"hard":    ModeAdvanced,
	"extreme": ModeExpert,
}

// ParseMode accepts canonical names and the legacy easy/medium/hard/extreme names
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes {
		if string(m) == name {
			return m, nil
		}
	}
	if m, ok := legacyModeNames[name]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Rank returns the mode's position on the difficulty ladder, or -1 if unknown
func (m Mode) Rank() int {
	for i, candidate := range Modes {
		if candidate == m {
			return i
		}
	}
	return -1
}

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m.Rank() >= 0
}

// Next returns the mode unlocked after m, if any
func (m Mode) Next() (Mode, bool) {
	r := m.Rank()
	if r < 0 || r+1 >= len(Modes) {
		return "", false
	}
	return Modes[r+1], true
}

// Outcome is how a timed puzzle attempt ended
type Outcome string

const (
	OutcomeSolved    Outcome = "solved"
	OutcomeGaveUp    Outcome = "gave_up"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeAbandoned Outcome = "abandoned"
)

// ParseOutcome validates an outcome name
func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(strings.ToLower(strings.TrimSpace(s))); o {
	case OutcomeSolved, OutcomeGaveUp, OutcomeIncorrect, OutcomeAbandoned:
		return o, nil
	case "gaveup", "give_up", "give-up", "gave-up":
		return OutcomeGaveUp, nil
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}
