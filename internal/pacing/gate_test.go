package pacing

import (
	"context"
	"math/rand"
	"testing"
	"time"
)

func TestGateDelaysStayWithinRange(t *testing.T) {
	var delays []time.Duration
	record := func(_ context.Context, d time.Duration) {
		delays = append(delays, d)
	}
	g := New(10*time.Millisecond, 30*time.Millisecond,
		WithPause(record),
		WithRand(rand.New(rand.NewSource(1))),
	)

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		g.Wait(ctx)
	}

	if len(delays) != 100 {
		t.Fatalf("expected 100 recorded delays, got %d", len(delays))
	}
	for _, d := range delays {
		if d < 10*time.Millisecond || d > 30*time.Millisecond {
			t.Fatalf("delay %v outside [10ms, 30ms]", d)
		}
	}
}

func TestGateFixedRange(t *testing.T) {
	var got time.Duration
	g := New(5*time.Millisecond, 5*time.Millisecond, WithPause(func(_ context.Context, d time.Duration) {
		got = d
	}))
	g.Wait(context.Background())
	if got != 5*time.Millisecond {
		t.Fatalf("expected fixed 5ms delay, got %v", got)
	}
}

func TestGateClampsInvalidRange(t *testing.T) {
	var got time.Duration
	g := New(-time.Second, -2*time.Second, WithPause(func(_ context.Context, d time.Duration) {
		got = d
	}))
	g.Wait(context.Background())
	if got != 0 {
		t.Fatalf("expected zero delay for negative range, got %v", got)
	}
}

func TestGateHonorsContextCancellation(t *testing.T) {
	g := New(time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		g.Wait(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after context cancellation")
	}
}
