package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsJobsOnInterval(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduler_FailingJobKeepsRunning(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("flaky", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})

	s.Start(context.Background())
	defer s.Stop()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopsWithParentContext(t *testing.T) {
	s := NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	s.AddJob("wait", time.Hour, func(ctx context.Context) error { return nil })
	s.Start(ctx)
	cancel()

	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("jobs did not stop with their parent context")
	}
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s := NewScheduler()
	s.AddJob("bad", 0, func(ctx context.Context) error { return nil })
	assert.Empty(t, s.jobs)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.AddJob("a", time.Hour, func(ctx context.Context) error { order = append(order, "a"); return nil })
	s.AddJob("b", time.Hour, func(ctx context.Context) error { order = append(order, "b"); return errors.New("boom") })

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := NewScheduler()
	s.Stop()
}
