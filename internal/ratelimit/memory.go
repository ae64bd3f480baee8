package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Sweep cadence and idle cutoff for the eviction loop. A client that has not
// asked a question within evictAfter is forgotten entirely, so the bucket
// map stays proportional to the recently active client set rather than every
// IP ever seen.
const (
	sweepInterval = time.Minute
	evictAfter    = 10 * time.Minute
)

// clientBucket tracks the remaining allowance for one client key.
type clientBucket struct {
	tokens   float64
	lastSeen time.Time
}

// MemoryLimiter is a token-bucket Limiter keyed per client, held entirely in
// process memory. Each key accrues rate tokens per second up to burst, and
// every allowed question spends one.
type MemoryLimiter struct {
	rate  float64
	burst float64

	mu      sync.Mutex
	clients map[string]*clientBucket

	stop sync.Once
	done chan struct{}
}

// NewMemoryLimiter returns a limiter allowing rate questions per second per
// client with bursts of up to burst. It spawns the eviction goroutine; call
// Close on server shutdown.
func NewMemoryLimiter(rate float64, burst int) *MemoryLimiter {
	l := &MemoryLimiter{
		rate:    rate,
		burst:   float64(burst),
		clients: make(map[string]*clientBucket),
		done:    make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Allow spends one token for key, first refilling the bucket for the time
// elapsed since the client was last seen. A key never seen before starts
// with a full bucket.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.clients[key]
	if !ok {
		l.clients[key] = &clientBucket{tokens: l.burst - 1, lastSeen: now}
		return true, nil
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * l.rate
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

// Close stops the eviction goroutine. Idempotent.
func (l *MemoryLimiter) Close() error {
	l.stop.Do(func() { close(l.done) })
	return nil
}

func (l *MemoryLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *MemoryLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-evictAfter)
	for key, b := range l.clients {
		if b.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}
