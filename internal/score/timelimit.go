package score

import "github.com/ppiankov/veritas/internal/model"

const (
	basePlayers          = 5  // player count the base limits are tuned for
	secondsPerExtra      = 15 // added per player above basePlayers
	secondsPerMissing    = 10 // removed per player below basePlayers
	minTimeLimitSeconds  = 20
	unknownModeTimeLimit = 60
)

var baseTimeLimits = map[model.Mode]int{
	model.ModeBasic:        45,
	model.ModeIntermediate: 75,
	model.ModeAdvanced:     120,
	model.ModeExpert:       180,
}

// DynamicTimeLimit returns the display time limit in seconds for a puzzle shape
func DynamicTimeLimit(mode model.Mode, players int) int {
	base, ok := baseTimeLimits[mode]
	if !ok {
		base = unknownModeTimeLimit
	}

	switch {
	case players > basePlayers:
		return base + (players-basePlayers)*secondsPerExtra
	case players < basePlayers:
		return max(minTimeLimitSeconds, base-(basePlayers-players)*secondsPerMissing)
	default:
		return base
	}
}
