package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestFirstCallNeverWaits(t *testing.T) {
	t.Parallel()

	l := New(time.Second)

	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("first call waited %v", elapsed)
	}
}

func TestSecondCallIsSpaced(t *testing.T) {
	t.Parallel()

	interval := 50 * time.Millisecond
	l := New(interval)
	ctx := context.Background()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	start := time.Now()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < interval-5*time.Millisecond {
		t.Fatalf("second call returned after %v, want at least %v", elapsed, interval)
	}
}

func TestZeroIntervalDisablesWaiting(t *testing.T) {
	t.Parallel()

	l := New(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("disabled limiter waited %v", elapsed)
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	t.Parallel()

	l := New(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- l.Wait(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Wait did not return after cancellation")
	}
}
