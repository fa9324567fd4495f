package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(cfg Config) (*HostLimiter, *[]time.Duration) {
	l := New(cfg)
	slept := &[]time.Duration{}
	l.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return l, slept
}

func TestAcquire_PacesRequestsWithinWindow(t *testing.T) {
	// 3 per 300ms means one slot every 100ms.
	l, _ := newTestLimiter(Config{RequestsPerWindow: 3, Window: 300 * time.Millisecond})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(ctx, "www.trendyol.com"))
	}
	elapsed := time.Since(start)

	// First slot is immediate, the next two wait ~100ms each. No
	// request is ever dropped, only delayed.
	assert.GreaterOrEqual(t, elapsed, 180*time.Millisecond)
}

func TestAcquire_HostsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(Config{RequestsPerWindow: 1, Window: time.Minute})
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.Acquire(ctx, "www.trendyol.com"))
	require.NoError(t, l.Acquire(ctx, "www.hepsiburada.com"))
	require.NoError(t, l.Acquire(ctx, "www.n11.com"))

	// Each host gets its own bucket, so three first requests to three
	// hosts all pass without waiting out the window.
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestAcquire_AppliesJitterAfterSlot(t *testing.T) {
	l, slept := newTestLimiter(Config{
		RequestsPerWindow: 10,
		Window:            time.Second,
		Jitter:            2 * time.Second,
	})
	l.jitter = func(max time.Duration) time.Duration { return max / 2 }
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx, "www.trendyol.com"))

	require.Len(t, *slept, 1)
	assert.Equal(t, time.Second, (*slept)[0])
}

func TestAcquire_NoJitterConfigured(t *testing.T) {
	l, slept := newTestLimiter(Config{RequestsPerWindow: 10, Window: time.Second})
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx, "www.trendyol.com"))

	assert.Empty(t, *slept)
}

func TestAcquire_CancelledWhileWaiting(t *testing.T) {
	l, _ := newTestLimiter(Config{RequestsPerWindow: 1, Window: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, l.Acquire(ctx, "www.trendyol.com"))

	done := make(chan error, 1)
	go func() {
		done <- l.Acquire(ctx, "www.trendyol.com")
	}()

	cancel()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after context cancellation")
	}
}
