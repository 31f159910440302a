// Package store keeps generated puzzles and rating profiles in a cache.Cache.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/model"
)

// PuzzleStore keeps served puzzles so later guesses can be checked against them
type PuzzleStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewPuzzleStore creates a puzzle store; ttl 0 uses the cache default
func NewPuzzleStore(c cache.Cache, ttl time.Duration) *PuzzleStore {
	return &PuzzleStore{cache: c, ttl: ttl}
}

// Put stores a puzzle under its ID
func (s *PuzzleStore) Put(ctx context.Context, p *model.Puzzle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal puzzle %s: %w", p.ID, err)
	}
	if err := s.cache.Set(cache.PuzzleKey(p.ID), data, s.ttl); err != nil {
		return fmt.Errorf("store puzzle %s: %w", p.ID, err)
	}
	return nil
}

// Get returns the puzzle or model.ErrNotFound
func (s *PuzzleStore) Get(ctx context.Context, id string) (*model.Puzzle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := s.cache.Get(cache.PuzzleKey(id))
	if !ok {
		return nil, fmt.Errorf("puzzle %s: %w", id, model.ErrNotFound)
	}
	var p model.Puzzle
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode puzzle %s: %w", id, err)
	}
	return &p, nil
}

// Delete removes a puzzle
func (s *PuzzleStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.cache.Delete(cache.PuzzleKey(id))
}

// ProfileStore keeps rating profiles. Update serializes read-modify-write per
// player so concurrent outcomes for one player are applied one at a time.
type ProfileStore struct {
	cache         cache.Cache
	ttl           time.Duration
	defaultHidden int

	locks sync.Map // player ID -> *sync.Mutex
}

// NewProfileStore creates a profile store; unknown players start at defaultHidden
func NewProfileStore(c cache.Cache, ttl time.Duration, defaultHidden int) *ProfileStore {
	return &ProfileStore{cache: c, ttl: ttl, defaultHidden: defaultHidden}
}

// Get returns the stored profile, or a fresh unranked one for a new player
func (s *ProfileStore) Get(ctx context.Context, playerID string) (model.RatingProfile, error) {
	if err := ctx.Err(); err != nil {
		return model.RatingProfile{}, err
	}
	if playerID == "" {
		return model.RatingProfile{}, model.Invalid("player_id", "empty")
	}
	return s.load(playerID)
}

// Update applies fn to the player's profile and stores the result. If fn
// returns an error nothing is written.
func (s *ProfileStore) Update(ctx context.Context, playerID string, fn func(*model.RatingProfile) error) (model.RatingProfile, error) {
	if playerID == "" {
		return model.RatingProfile{}, model.Invalid("player_id", "empty")
	}

	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.RatingProfile{}, err
	}

	p, err := s.load(playerID)
	if err != nil {
		return model.RatingProfile{}, err
	}
	if err := fn(&p); err != nil {
		return model.RatingProfile{}, err
	}
	p.PlayerID = playerID

	data, err := json.Marshal(p)
	if err != nil {
		return model.RatingProfile{}, fmt.Errorf("marshal profile %s: %w", playerID, err)
	}
	if err := s.cache.Set(cache.ProfileKey(playerID), data, s.ttl); err != nil {
		return model.RatingProfile{}, fmt.Errorf("store profile %s: %w", playerID, err)
	}
	return p, nil
}

func (s *ProfileStore) load(playerID string) (model.RatingProfile, error) {
	data, ok := s.cache.Get(cache.ProfileKey(playerID))
	if !ok {
		return model.NewProfile(playerID, s.defaultHidden), nil
	}
	var p model.RatingProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return model.RatingProfile{}, fmt.Errorf("decode profile %s: %w", playerID, err)
	}
	return p, nil
}

func (s *ProfileStore) lock(playerID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(playerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
