// Package rate enforces per-route request budgets with in-memory,
// process-local token buckets. Limits are not shared across instances.
package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limit describes a per-route budget.
type Limit struct {
	PerMinute int
	Burst     int
}

// PerMinute builds a Limit allowing n requests per minute with an equal
// burst.
func PerMinute(n int) Limit {
	return Limit{PerMinute: n, Burst: n}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter keeps one token bucket per key (user id or client IP).
// The guarded map is the only in-process shared state of the service.
type KeyedLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets map[string]*bucket

	// Buckets idle longer than ttl are dropped during the periodic sweep.
	ttl       time.Duration
	lastSweep time.Time
}

// NewKeyedLimiter builds a limiter for one route from its Limit
// descriptor.
func NewKeyedLimiter(l Limit) *KeyedLimiter {
	burst := l.Burst
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		limit:     rate.Limit(float64(l.PerMinute) / 60.0),
		burst:     burst,
		buckets:   make(map[string]*bucket),
		ttl:       10 * time.Minute,
		lastSweep: time.Now(),
	}
}

// Allow reports whether the request identified by key is within budget.
func (k *KeyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := time.Now()
	k.sweep(now)

	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.lastSeen = now

	return b.limiter.Allow()
}

// sweep drops buckets that have been idle past their ttl. Called with the
// mutex held.
func (k *KeyedLimiter) sweep(now time.Time) {
	if now.Sub(k.lastSweep) < k.ttl {
		return
	}
	for key, b := range k.buckets {
		if now.Sub(b.lastSeen) > k.ttl {
			delete(k.buckets, key)
		}
	}
	k.lastSweep = now
}
