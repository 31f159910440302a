package score

import (
	"fmt"

	"github.com/ppiankov/veritas/internal/model"
)

// PracticeUnlockThreshold is the first-try solves in a mode needed to unlock the next one
const PracticeUnlockThreshold = 10

var unlockMessages = map[model.Mode]string{
	model.ModeBasic:        "🎉 Intermediate mode unlocked! You've mastered the basics!",
	model.ModeIntermediate: "🎉 Advanced mode unlocked! Ready for complex logic puzzles!",
	model.ModeAdvanced:     "🎉 Expert mode unlocked! Prepare for the ultimate challenge!",
	model.ModeExpert:       "🏆 Congratulations! You've completed all practice modes!",
}

// PracticeResult describes the effect of one practice solve
type PracticeResult struct {
	Mode          model.Mode `json:"mode"`
	Counted       bool       `json:"counted"`
	Progress      int        `json:"progress"`
	Threshold     int        `json:"threshold"`
	Unlocked      model.Mode `json:"unlocked,omitempty"` // mode unlocked by this solve
	UnlockMessage string     `json:"unlock_message,omitempty"`
}

// IsUnlocked reports whether mode is available in practice. Basic is always
// unlocked; each later mode needs the previous one completed.
func IsUnlocked(p model.PracticeProgress, mode model.Mode) bool {
	r := mode.Rank()
	if r < 0 {
		return false
	}
	if r == 0 {
		return true
	}
	return p.Count(model.Modes[r-1]) >= PracticeUnlockThreshold
}

// UnlockedModes lists the unlocked practice modes, easiest first
func UnlockedModes(p model.PracticeProgress) []model.Mode {
	var modes []model.Mode
	for _, m := range model.Modes {
		if IsUnlocked(p, m) {
			modes = append(modes, m)
		}
	}
	return modes
}

// RecordPractice counts a first-try solve. Other outcomes, repeat tries and
// modes already at the threshold leave progress unchanged.
func RecordPractice(p model.PracticeProgress, mode model.Mode, outcome model.Outcome, firstTry bool) (model.PracticeProgress, PracticeResult, error) {
	if !mode.Valid() {
		return p, PracticeResult{}, model.Invalid("mode", "unknown mode %q", mode)
	}
	if !IsUnlocked(p, mode) {
		return p, PracticeResult{}, model.Invalid("mode", "%s is locked", mode)
	}

	res := PracticeResult{
		Mode:      mode,
		Progress:  p.Count(mode),
		Threshold: PracticeUnlockThreshold,
	}
	if outcome != model.OutcomeSolved || !firstTry || res.Progress >= PracticeUnlockThreshold {
		return p, res, nil
	}

	solved := make(map[model.Mode]int, len(p.Solved)+1)
	for m, n := range p.Solved {
		solved[m] = n
	}
	solved[mode]++
	p.Solved = solved

	res.Counted = true
	res.Progress = solved[mode]
	if res.Progress == PracticeUnlockThreshold {
		if next, ok := mode.Next(); ok {
			res.Unlocked = next
		}
		res.UnlockMessage = unlockMessages[mode]
	}
	return p, res, nil
}

// String renders progress as "basic 3/10"
func (r PracticeResult) String() string {
	return fmt.Sprintf("%s %d/%d", r.Mode, r.Progress, r.Threshold)
}
