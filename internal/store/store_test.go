package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/model"
)

func testPuzzle() *model.Puzzle {
	return &model.Puzzle{
		ID:           "p-1",
		Mode:         model.ModeExpert,
		Players:      3,
		TruthTellers: 2,
		People:       []model.Person{"A", "B", "C"},
		Texts: map[model.Person]string{
			"A": "B is a Truth-Teller.",
			"B": "Exactly 1 of A and C are Truth-Tellers.",
			"C": "If A is a Liar, then B is a Liar.",
		},
		Statements: model.Statements{
			"A": model.Direct{Target: "B", Value: true},
			"B": model.Group{Members: []model.Person{"A", "C"}, Exactly: 1},
			"C": model.If{Cond: "A", CondVal: false, Result: "B", ResultVal: false},
		},
		Solution:  model.Assignment{"A": true, "B": true, "C": false},
		Unique:    true,
		Attempts:  1,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Ranked:    &model.RankedInfo{PlayerID: "alice", Tier: "Beginner Thinker", TimeLimit: 60},
	}
}

func TestPuzzleStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewPuzzleStore(cache.NewMemoryCache(time.Minute, time.Minute), 0)

	want := testPuzzle()
	if err := s.Put(ctx, want); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := s.Get(ctx, "p-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("puzzle mismatch (-want +got):\n%s", diff)
	}

	if err := s.Delete(ctx, "p-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "p-1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPuzzleStore_Disk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	if err := NewPuzzleStore(cache.NewDiskCache(dir, time.Hour), 0).Put(ctx, testPuzzle()); err != nil {
		t.Fatal(err)
	}

	// a new process reading the same directory
	got, err := NewPuzzleStore(cache.NewLayeredCache(time.Minute, dir, time.Hour), 0).Get(ctx, "p-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Statements["B"].Kind() != model.KindGroup {
		t.Errorf("expected GROUP claim, got %s", got.Statements["B"].Kind())
	}
}

func TestProfileStore_GetNew(t *testing.T) {
	s := NewProfileStore(cache.NewMemoryCache(time.Minute, time.Minute), 0, 750)

	p, err := s.Get(context.Background(), "bob")
	if err != nil {
		t.Fatal(err)
	}
	if p.IsRanked || p.HiddenRating == nil || *p.HiddenRating != 750 {
		t.Errorf("expected fresh unranked profile at 750, got %+v", p)
	}

	if _, err := s.Get(context.Background(), ""); !model.IsValidation(err) {
		t.Errorf("expected validation error for empty id, got %v", err)
	}
}

func TestProfileStore_Update_Serialized(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore(cache.NewMemoryCache(time.Minute, time.Minute), 0, 750)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "carol", func(p *model.RatingProfile) error {
				p.PlacementMatches++
				return nil
			})
			if err != nil {
				t.Errorf("update failed: %v", err)
			}
		}()
	}
	wg.Wait()

	p, err := s.Get(ctx, "carol")
	if err != nil {
		t.Fatal(err)
	}
	if p.PlacementMatches != workers {
		t.Errorf("expected %d updates applied, got %d", workers, p.PlacementMatches)
	}
}

func TestProfileStore_Update_ErrorDiscards(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore(cache.NewMemoryCache(time.Minute, time.Minute), 0, 750)

	boom := errors.New("boom")
	_, err := s.Update(ctx, "dave", func(p *model.RatingProfile) error {
		p.PlacementMatches = 3
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	p, _ := s.Get(ctx, "dave")
	if p.PlacementMatches != 0 {
		t.Errorf("expected failed update discarded, got %d", p.PlacementMatches)
	}
}
