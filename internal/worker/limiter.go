package worker

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/ppiankov/veritas/internal/model"
)

// minLimiterIdle is the shortest time an unused player limiter is kept
const minLimiterIdle = 10 * time.Minute

// Limiter rate-limits requests per player. A player's limiter is dropped once
// it has been idle long enough to refill its burst, so evicting it loses no
// state.
type Limiter struct {
	players *gocache.Cache
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
}

// NewLimiter creates a limiter; a non-positive rate disables limiting
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	idle := minLimiterIdle
	if limit != rate.Inf {
		if refill := time.Duration(float64(burst) / float64(limit) * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return newLimiter(limit, burst, idle)
}

func newLimiter(limit rate.Limit, burst int, idle time.Duration) *Limiter {
	return &Limiter{
		players: gocache.New(idle, idle),
		limit:   limit,
		burst:   burst,
	}
}

// Wait blocks until the player may make another request
func (l *Limiter) Wait(ctx context.Context, playerID string) error {
	if playerID == "" {
		return model.Invalid("player_id", "empty")
	}
	return l.getLimiter(playerID).Wait(ctx)
}

// getLimiter returns the player's limiter and restarts its idle timer
func (l *Limiter) getLimiter(playerID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if v, found := l.players.Get(playerID); found {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	l.players.SetDefault(playerID, limiter)

	return limiter
}
