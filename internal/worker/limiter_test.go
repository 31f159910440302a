package worker

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/veritas/internal/model"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.burst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.burst)
	}

	l2 := NewLimiter(10, -1)
	if l2.burst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.burst)
	}

	if l3 := NewLimiter(0, 1); l3.limit != rate.Inf {
		t.Errorf("expected unlimited rate for zero input, got %v", l3.limit)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "alice"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "bob"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, ""); !model.IsValidation(err) {
		t.Errorf("expected validation error for empty player, got %v", err)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := limiter.Wait(ctx, "alice"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	cancel()
	if err := limiter.Wait(ctx, "alice"); err == nil {
		t.Error("expected error once the context is cancelled")
	}
}

func TestLimiter_PerPlayer(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "alice"); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}
	// the next token is 10s away, past the deadline
	if err := limiter.Wait(ctx, "alice"); err == nil {
		t.Error("expected second request to be limited")
	}
	if err := limiter.Wait(ctx, "bob"); err != nil {
		t.Errorf("expected other player to be unaffected: %v", err)
	}
}

func TestLimiter_EvictsIdlePlayers(t *testing.T) {
	limiter := newLimiter(rate.Limit(100), 1, 20*time.Millisecond)
	ctx := context.Background()

	for _, id := range []string{"alice", "bob", "carol"} {
		if err := limiter.Wait(ctx, id); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}
	if n := limiter.players.ItemCount(); n != 3 {
		t.Fatalf("expected 3 tracked players, got %d", n)
	}

	time.Sleep(100 * time.Millisecond)

	if n := limiter.players.ItemCount(); n != 0 {
		t.Errorf("expected idle players evicted, %d remain", n)
	}
	if err := limiter.Wait(ctx, "alice"); err != nil {
		t.Errorf("wait after eviction failed: %v", err)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 100; i++ {
		if err := limiter.Wait(ctx, "alice"); err != nil {
			t.Fatalf("request %d limited with limiting disabled: %v", i, err)
		}
	}
}
