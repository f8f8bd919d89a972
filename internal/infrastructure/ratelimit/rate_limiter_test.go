package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newTestLimiter(fallback Policy) (*RateLimiter, *time.Time) {
	clock := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(fallback)
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	rl, clock := newTestLimiter(Policy{Limit: 1, Burst: 2})

	ok, _ := rl.Allow("1.2.3.4", ActionRequest)
	assert.True(t, ok)
	ok, _ = rl.Allow("1.2.3.4", ActionRequest)
	assert.True(t, ok)

	ok, wait := rl.Allow("1.2.3.4", ActionRequest)
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	*clock = clock.Add(time.Second)
	ok, _ = rl.Allow("1.2.3.4", ActionRequest)
	assert.True(t, ok)
}

func TestRateLimiter_KeysAndActionsAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(Policy{Limit: 1, Burst: 1})
	rl.WithPolicy(ActionSendMessage, PerMinute(3))

	ok, _ := rl.Allow("buyer-001", ActionRequest)
	assert.True(t, ok)
	ok, _ = rl.Allow("buyer-001", ActionRequest)
	assert.False(t, ok)

	ok, _ = rl.Allow("seller-001", ActionRequest)
	assert.True(t, ok)

	for i := 0; i < 3; i++ {
		ok, _ = rl.Allow("buyer-001", ActionSendMessage)
		assert.True(t, ok)
	}
	ok, wait := rl.Allow("buyer-001", ActionSendMessage)
	assert.False(t, ok)
	assert.Equal(t, 20*time.Second, wait)
}

func TestRateLimiter_Unlimited(t *testing.T) {
	rl, _ := newTestLimiter(Policy{Limit: rate.Inf})

	for i := 0; i < 100; i++ {
		ok, _ := rl.Allow("k", ActionRequest)
		assert.True(t, ok)
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, clock := newTestLimiter(Policy{Limit: 1, Burst: 1})

	rl.Allow("old", ActionRequest)
	*clock = clock.Add(2 * time.Hour)
	rl.Allow("fresh", ActionRequest)

	assert.Equal(t, 1, rl.Cleanup(time.Hour))
	assert.Len(t, rl.buckets, 1)

	ok, _ := rl.Allow("old", ActionRequest)
	assert.True(t, ok)
}
