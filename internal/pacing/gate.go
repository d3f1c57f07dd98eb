// Package pacing implements the randomized delay gate inserted between
// successive outbound calls of the same kind. A bounded random interval
// keeps the request cadence polite and avoids a uniform, detectable
// rhythm.
package pacing

import (
	"context"
	"math/rand"
	"time"
)

// PauseFunc blocks for the given delay or until ctx is done.
type PauseFunc func(ctx context.Context, delay time.Duration)

// Gate waits a random duration within [min, max] each time Wait is
// called. The zero range (min == max) degenerates to a fixed delay.
type Gate struct {
	min   time.Duration
	max   time.Duration
	rng   *rand.Rand
	pause PauseFunc
}

// Option customises a Gate.
type Option func(*Gate)

// WithPause replaces the timer-based pause, letting tests observe the
// chosen delays without sleeping.
func WithPause(p PauseFunc) Option {
	return func(g *Gate) { g.pause = p }
}

// WithRand replaces the random source for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(g *Gate) { g.rng = rng }
}

// New creates a Gate over [min, max]. Negative bounds are clamped to
// zero and an inverted range collapses to min.
func New(min, max time.Duration, opts ...Option) *Gate {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	g := &Gate{
		min:   min,
		max:   max,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		pause: timerPause,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Wait blocks for a random duration within the configured range. It
// returns early when the context is canceled.
func (g *Gate) Wait(ctx context.Context) {
	g.pause(ctx, g.next())
}

func (g *Gate) next() time.Duration {
	span := g.max - g.min
	if span <= 0 {
		return g.min
	}
	return g.min + time.Duration(g.rng.Int63n(int64(span)+1))
}

func timerPause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
