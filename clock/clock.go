// Package clock implements the periodic cycle-token producer
// spec.md §5 describes as its own thread: it only sleeps and emits
// tokens, leaving every decision about whether and how to consume
// them to the emulator thread. The ticker-driven shape follows the
// same pattern other 6502 emulators in the corpus use to pace a step
// loop off a time.Ticker, except here the ticker is decoupled from
// execution entirely.
package clock

import (
	"context"
	"log"
	"time"
)

// Clock emits a unit token on Tokens once per emulated cycle at the
// configured frequency.
type Clock struct {
	period time.Duration
	ch     chan struct{}
}

// New constructs a Clock for the given frequency in kHz. The period
// is 1e9 / freqKHz / 1000 nanoseconds, per spec.md §5.
func New(freqKHz int) *Clock {
	periodNanos := 1e9 / float64(freqKHz) / 1000
	return &Clock{
		period: time.Duration(periodNanos * float64(time.Nanosecond)),
		ch:     make(chan struct{}, 1<<16),
	}
}

// NewRedrawTicker constructs a Clock-shaped ticker for the
// display-refresh thread spec.md §5 describes separately from the
// CPU clock: a fixed 1ms period, independent of --freq-khz.
func NewRedrawTicker() *Clock {
	return &Clock{
		period: time.Millisecond,
		ch:     make(chan struct{}, 1<<16),
	}
}

// Tokens returns the channel cycle tokens are delivered on.
func (c *Clock) Tokens() <-chan struct{} {
	return c.ch
}

// Run ticks at the configured period, posting one token per tick,
// until ctx is cancelled. The send never blocks: if the emulator
// thread has fallen behind and the buffer is full, the tick is
// logged and dropped rather than stalling the clock — cycle tokens
// piling up, not deadlock, is the documented degradation mode.
func (c *Clock) Run(ctx context.Context) {
	t := time.NewTicker(c.period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			select {
			case c.ch <- struct{}{}:
			default:
				log.Printf("clock: token buffer full, dropping tick")
			}
		}
	}
}
