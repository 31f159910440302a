package model

// RatingProfile is a player's rating state.
// During placement Rating is nil and HiddenRating carries the working value;
// once placement completes HiddenRating is cleared and IsRanked is set.
type RatingProfile struct {
	PlayerID         string           `json:"player_id"`
	Rating           *int             `json:"elo,omitempty"`
	HiddenRating     *int             `json:"hidden_elo,omitempty"`
	PlacementMatches int              `json:"placement_matches_completed"`
	IsRanked         bool             `json:"is_ranked"`
	Practice         PracticeProgress `json:"practice"`
}

// NewProfile starts an unranked player at the given hidden rating
func NewProfile(playerID string, hiddenRating int) RatingProfile {
	hidden := max(hiddenRating, 0)
	return RatingProfile{
		PlayerID:     playerID,
		HiddenRating: &hidden,
		Practice:     PracticeProgress{},
	}
}

// EffectiveRating is the rating used for tier selection: the public rating
// when ranked, otherwise the hidden one (or fallback when neither is set)
func (p RatingProfile) EffectiveRating(fallback int) int {
	if p.IsRanked && p.Rating != nil {
		return *p.Rating
	}
	if p.HiddenRating != nil {
		return *p.HiddenRating
	}
	if p.Rating != nil {
		return *p.Rating
	}
	return fallback
}

// RatingChange is the result of scoring one outcome
type RatingChange struct {
	OldRating int    `json:"old_rating"`
	NewRating int    `json:"new_rating"`
	Delta     int    `json:"delta"`
	Message   string `json:"message"`
	Tier      string `json:"tier,omitempty"`
	Eligible  bool   `json:"eligible"` // false when the (mode, players) pair is not legal for the tier

	Placement         bool `json:"placement,omitempty"`
	PlacementMatch    int  `json:"placement_match,omitempty"`
	PlacementRevealed bool `json:"placement_revealed,omitempty"`
}

// PracticeProgress counts first-try practice solves per mode
type PracticeProgress struct {
	Solved map[Mode]int `json:"solved,omitempty"`
}

// Count returns the solves recorded for mode
func (p PracticeProgress) Count(m Mode) int {
	if p.Solved == nil {
		return 0
	}
	return p.Solved[m]
}
