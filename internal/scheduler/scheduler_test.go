package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

type fakePoller struct {
	cycles int64
	err    error
}

func (p *fakePoller) RunCycle(_ context.Context) (*domain.CycleStats, error) {
	atomic.AddInt64(&p.cycles, 1)
	if p.err != nil {
		return nil, p.err
	}
	return &domain.CycleStats{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScheduler_RunsImmediatelyThenOnTicks(t *testing.T) {
	poller := &fakePoller{}
	sched := NewScheduler(poller, 30*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := sched.Start(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// One immediate cycle plus at least two ticks in 100ms.
	assert.GreaterOrEqual(t, atomic.LoadInt64(&poller.cycles), int64(3))
}

func TestScheduler_StopsOnCancel(t *testing.T) {
	poller := &fakePoller{}
	sched := NewScheduler(poller, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- sched.Start(ctx)
	}()

	// Give the immediate cycle time to run, then shut down.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(&poller.cycles))
}

func TestScheduler_CycleErrorDoesNotStopScheduling(t *testing.T) {
	poller := &fakePoller{err: errors.New("db gone")}
	sched := NewScheduler(poller, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	err := sched.Start(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, atomic.LoadInt64(&poller.cycles), int64(2))
}
