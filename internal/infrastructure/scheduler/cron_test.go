package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestCronSchedulerFiresJob(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("@every 50ms", time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan time.Time, 1)
	err := s.Start(ctx, func(at time.Time) {
		select {
		case fired <- at:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("job never fired")
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestCronSchedulerRejectsInvalidSpec(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("not a cron spec", time.UTC)
	if err := s.Start(context.Background(), func(time.Time) {}); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
}

func TestCronSchedulerStopWithoutStart(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("@every 1h", time.UTC)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop before Start must be a no-op: %v", err)
	}
}

func TestCronSchedulerSkipsAfterCancellation(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("@every 25ms", time.UTC)
	ctx, cancel := context.WithCancel(context.Background())

	fired := make(chan struct{}, 16)
	if err := s.Start(ctx, func(time.Time) { fired <- struct{}{} }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	cancel()
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// Drain anything fired before cancellation, then verify silence.
	for {
		select {
		case <-fired:
			continue
		case <-time.After(100 * time.Millisecond):
			return
		}
	}
}
