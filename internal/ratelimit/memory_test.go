package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, rate float64, burst int) *MemoryLimiter {
	t.Helper()
	l := NewMemoryLimiter(rate, burst)
	t.Cleanup(func() { require.NoError(t, l.Close()) })
	return l
}

func TestMemoryLimiter_BurstOfQuestions(t *testing.T) {
	l := newLimiter(t, 10, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "query:198.51.100.7")
		require.NoError(t, err)
		assert.True(t, ok, "question %d is within burst", i+1)
	}

	ok, err := l.Allow(ctx, "query:198.51.100.7")
	require.NoError(t, err)
	assert.False(t, ok, "question past the burst must be throttled")
}

func TestMemoryLimiter_RefillAfterWaiting(t *testing.T) {
	// 1000 tokens/s means ~1 per millisecond; drain the burst, wait, ask again.
	l := newLimiter(t, 1000, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _ = l.Allow(ctx, "query:198.51.100.7")
	}
	ok, err := l.Allow(ctx, "query:198.51.100.7")
	require.NoError(t, err)
	require.False(t, ok, "drained client must be throttled immediately")

	time.Sleep(5 * time.Millisecond)

	ok, err = l.Allow(ctx, "query:198.51.100.7")
	require.NoError(t, err)
	assert.True(t, ok, "tokens must accrue while the client waits")
}

func TestMemoryLimiter_ClientsThrottledIndependently(t *testing.T) {
	l := newLimiter(t, 10, 1)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "query:198.51.100.7")
	require.True(t, ok)
	ok, _ = l.Allow(ctx, "query:198.51.100.7")
	require.False(t, ok, "second question from the same client exceeds burst")

	ok, _ = l.Allow(ctx, "query:203.0.113.42")
	assert.True(t, ok, "throttling one client must not touch another")
}

func TestMemoryLimiter_IdleTokensCapAtBurst(t *testing.T) {
	l := newLimiter(t, 1000, 3)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "query:198.51.100.7")

	// Backdate the client so the refill computes a huge credit.
	l.mu.Lock()
	l.clients["query:198.51.100.7"].lastSeen = time.Now().Add(-time.Hour)
	l.mu.Unlock()

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow(ctx, "query:198.51.100.7")
		require.True(t, ok, "question %d after a long idle", i+1)
	}
	ok, _ := l.Allow(ctx, "query:198.51.100.7")
	assert.False(t, ok, "idle time must never grant more than burst")
}

func TestMemoryLimiter_ConcurrentClients(t *testing.T) {
	l := newLimiter(t, 100, 50)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				ok, err := l.Allow(ctx, "query:shared")
				if err != nil {
					t.Errorf("Allow: %v", err)
					return
				}
				if ok {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	// 100 questions inside a single burst window of 50.
	assert.GreaterOrEqual(t, allowed, 1)
	assert.LessOrEqual(t, allowed, 50)
}

func TestMemoryLimiter_SweepForgetsIdleClients(t *testing.T) {
	l := newLimiter(t, 10, 5)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "query:idle")
	_, _ = l.Allow(ctx, "query:active")

	l.mu.Lock()
	l.clients["query:idle"].lastSeen = time.Now().Add(-evictAfter - time.Minute)
	l.mu.Unlock()

	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "query:idle")
	assert.Contains(t, l.clients, "query:active")
}

func TestMemoryLimiter_CloseIdempotent(t *testing.T) {
	l := NewMemoryLimiter(10, 5)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}

func TestNoopLimiter(t *testing.T) {
	var l NoopLimiter
	for i := 0; i < 100; i++ {
		ok, err := l.Allow(context.Background(), "query:198.51.100.7")
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.NoError(t, l.Close())
}
