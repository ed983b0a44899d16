package ratelimiter

import (
	"sync"
	"time"
)

// bucket is a token bucket for a single identity.
type bucket struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	key        string
	parent     *UserRateLimiter
}

// UserRateLimiter keeps one bucket per identity (email, IP, user id).
// Idle buckets are dropped after expirationTime.
type UserRateLimiter struct {
	buckets        map[string]*bucket
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

// New creates a limiter refilling rate tokens per second up to capacity.
func New(rate float64, capacity float64, expirationTime time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		buckets:        make(map[string]*bucket),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

func OnceInSecond() *UserRateLimiter { return New(1, 1, time.Hour) }
func Rps100() *UserRateLimiter       { return New(100, 100, time.Hour) }

func (l *UserRateLimiter) remove(key string) {
	l.mu.Lock()
	delete(l.buckets, key)
	l.mu.Unlock()
}

func (b *bucket) resetTimer() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.parent.expirationTime, func() {
		b.parent.remove(b.key)
	})
}

func (l *UserRateLimiter) bucketFor(key string) *bucket {
	l.mu.RLock()
	b, exists := l.buckets[key]
	l.mu.RUnlock()
	if exists {
		b.mu.Lock()
		b.resetTimer()
		b.mu.Unlock()
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// someone may have created it while we waited for the write lock
	if b, exists = l.buckets[key]; exists {
		b.mu.Lock()
		b.resetTimer()
		b.mu.Unlock()
		return b
	}

	b = &bucket{
		tokens:     l.capacity,
		capacity:   l.capacity,
		rate:       l.rate,
		lastRefill: time.Now(),
		key:        key,
		parent:     l,
	}
	l.buckets[key] = b
	b.resetTimer()
	return b
}

func (b *bucket) allow(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.lastRefill).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Allow reports whether a request for key may proceed and consumes a token if so.
func (l *UserRateLimiter) Allow(key string) bool {
	return l.bucketFor(key).allow(time.Now())
}

// Stop cancels all pending expiration timers.
func (l *UserRateLimiter) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.buckets {
		b.mu.Lock()
		if b.timer != nil {
			b.timer.Stop()
		}
		b.mu.Unlock()
	}
}
