package model

import "time"

// Puzzle is a generated, solved truth-teller/liar puzzle.
// Its JSON matches the game's existing field names (num_players, statement_data, ...).
type Puzzle struct {
	ID           string            `json:"puzzle_id"`
	Mode         Mode              `json:"mode"`
	Players      int               `json:"num_players"`
	TruthTellers int               `json:"num_truth_tellers"`
	People       []Person          `json:"people"`
	Texts        map[Person]string `json:"statements"`     // display strings
	Statements   Statements        `json:"statement_data"` // structured claims, the verification contract
	Solution     Assignment        `json:"solution"`
	Unique       bool              `json:"unique"`   // exactly one role assignment satisfies the puzzle
	Attempts     int               `json:"attempts"` // generation attempts consumed
	CreatedAt    time.Time         `json:"created_at"`

	Ranked *RankedInfo `json:"ranked,omitempty"`
}

// RankedInfo decorates a puzzle served to a rated player
type RankedInfo struct {
	PlayerID             string  `json:"player_id"`
	Tier                 string  `json:"tier"`
	TimeLimit            int     `json:"time_limit"`         // tier limit in seconds, used for scoring
	DynamicTimeLimit     int     `json:"dynamic_time_limit"` // player-count scaled limit, for display
	DifficultyMultiplier float64 `json:"difficulty_mult"`
	IsPlacement          bool    `json:"is_placement_match"`
	PlacementMatchNumber int     `json:"placement_match_number,omitempty"`
}
