package engine

import (
	"context"
	"time"
)

// YieldFunc suspends the engine so the host can render intermediate state
// and stay responsive. The run stops with an interrupted outcome when it
// returns an error (typically the context's).
//
// A nil YieldFunc disables yielding entirely, which keeps tests and batch
// runs deterministic and fast; cancellation is still honored.
type YieldFunc func(ctx context.Context) error

const (
	// maxStepsPerYield caps the batch between suspension points: even
	// unthrottled runs hand control back every few thousand steps so the
	// host environment is never starved.
	maxStepsPerYield = 4096

	// minYieldInterval throttles how often the engine actually suspends
	// when batches are small: suspending more often than roughly a frame
	// buys no smoothness. Measured on the injected monotonic clock, which
	// is only ever used for this throttling, never for correctness.
	minYieldInterval = 10 * time.Millisecond
)

// pacer decides when the engines suspend. The batch of steps between yields
// grows with the active frontier (when the frontier is small each step is
// rarer and worth showing) and with the configured speed multiplier.
type pacer struct {
	yield YieldFunc
	now   func() time.Time
	speed int

	steps     int
	lastYield time.Time
}

func newPacer(yield YieldFunc, clock func() time.Time, speed int) *pacer {
	p := &pacer{yield: yield, now: clock, speed: speed}
	if p.now == nil {
		p.now = time.Now
	}
	if p.speed < 1 {
		p.speed = 1
	}
	p.lastYield = p.now()
	return p
}

// tick is called once per engine step with the current frontier size. It
// returns a non-nil error exactly when the run should stop as interrupted.
func (p *pacer) tick(ctx context.Context, frontier int) error {
	p.steps++
	batch := min(max(frontier/2, 1)*p.speed, maxStepsPerYield)
	if p.steps%batch != 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.yield == nil {
		return nil
	}
	now := p.now()
	if batch < maxStepsPerYield && now.Sub(p.lastYield) < minYieldInterval {
		return nil
	}
	p.lastYield = now
	return p.yield(ctx)
}
