package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
)

const sweepEvery = 1024

// MemoryLimiter keeps request timestamps in process. Limits are per instance.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	windows map[string]time.Duration
	calls   int
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string][]time.Time),
		windows: make(map[string]time.Duration),
		now:     time.Now,
	}
}

// SetClock overrides the time source.
func (l *MemoryLimiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

func (l *MemoryLimiter) Allow(_ context.Context, userID uuid.UUID, rule Rule) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := bucketKey(userID, rule.Scope)
	l.windows[key] = rule.Window

	requests := prune(l.buckets[key], now.Add(-rule.Window))
	decision := Decision{Limit: rule.Limit}
	if len(requests) < rule.Limit {
		requests = append(requests, now)
		decision.Allowed = true
	}
	decision.Remaining = max(rule.Limit-len(requests), 0)
	decision.ResetAt = now.Add(rule.Window)
	if len(requests) > 0 {
		decision.ResetAt = requests[0].Add(rule.Window)
	}
	l.buckets[key] = requests

	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(now)
	}
	return decision, nil
}

// prune drops timestamps at or before cutoff. requests is in arrival order.
func prune(requests []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(requests) && !requests[i].After(cutoff) {
		i++
	}
	return requests[i:]
}

func (l *MemoryLimiter) sweep(now time.Time) {
	for key, requests := range l.buckets {
		if len(prune(requests, now.Add(-l.windows[key]))) == 0 {
			delete(l.buckets, key)
			delete(l.windows, key)
		}
	}
}
