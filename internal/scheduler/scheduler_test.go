package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type countingSweeper struct {
	calls atomic.Int32
	err   error
	grace time.Duration
}

func (s *countingSweeper) SweepExpiredPending(ctx context.Context, grace time.Duration) (int, error) {
	s.grace = grace
	s.calls.Add(1)
	if s.err != nil {
		return 0, s.err
	}
	return 1, nil
}

func TestRun_SweepsImmediatelyAndPeriodically(t *testing.T) {
	sweeper := &countingSweeper{}
	sched := New(sweeper, 10*time.Millisecond, 15*time.Minute, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, 15*time.Minute, sweeper.grace)
}

func TestRun_KeepsGoingAfterSweepError(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db down")}
	sched := New(sweeper, 10*time.Millisecond, time.Minute, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
