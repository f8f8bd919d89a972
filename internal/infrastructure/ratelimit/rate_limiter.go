package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"chatmarket/pkg/logger"
)

// Action names a class of requests that share a budget.
type Action string

const (
	ActionRequest     Action = "request"
	ActionSendMessage Action = "send_message"
	ActionPayment     Action = "payment"
)

// Policy is a token bucket: Limit tokens per second, up to Burst at once.
type Policy struct {
	Limit rate.Limit
	Burst int
}

// PerMinute builds a policy allowing n actions per minute with a burst of n.
func PerMinute(n int) Policy {
	return Policy{Limit: rate.Limit(float64(n) / 60), Burst: n}
}

type bucket struct {
	limiter  *rate.Limiter
	interval time.Duration
	lastSeen time.Time
}

// RateLimiter keeps one bucket per key and action.
type RateLimiter struct {
	fallback Policy
	policies map[Action]Policy
	buckets  map[string]*bucket
	mutex    sync.Mutex
	now      func() time.Time
}

func NewRateLimiter(fallback Policy) *RateLimiter {
	return &RateLimiter{
		fallback: fallback,
		policies: make(map[Action]Policy),
		buckets:  make(map[string]*bucket),
		now:      time.Now,
	}
}

// WithPolicy overrides the budget for one action.
func (rl *RateLimiter) WithPolicy(action Action, p Policy) *RateLimiter {
	rl.policies[action] = p
	return rl
}

func (rl *RateLimiter) policy(action Action) Policy {
	if p, ok := rl.policies[action]; ok {
		return p
	}
	return rl.fallback
}

// Allow consumes a token for key and action. When refused it also returns
// roughly how long until the next token.
func (rl *RateLimiter) Allow(key string, action Action) (bool, time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	id := key + ":" + string(action)

	b, ok := rl.buckets[id]
	if !ok {
		p := rl.policy(action)
		interval := time.Second
		if p.Limit > 0 && p.Limit != rate.Inf {
			interval = time.Duration(math.Round(float64(time.Second) / float64(p.Limit)))
		}
		b = &bucket{limiter: rate.NewLimiter(p.Limit, p.Burst), interval: interval}
		rl.buckets[id] = b
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		return true, 0
	}
	return false, b.interval
}

// Cleanup drops buckets idle for longer than idle.
func (rl *RateLimiter) Cleanup(idle time.Duration) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	removed := 0
	for id, b := range rl.buckets {
		if now.Sub(b.lastSeen) > idle {
			delete(rl.buckets, id)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval, idle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := rl.Cleanup(idle); n > 0 {
					logger.Debug("Rate limiter dropped %d idle buckets", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
