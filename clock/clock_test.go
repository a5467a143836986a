package clock

import (
	"context"
	"testing"
	"time"
)

func TestRunEmitsTokensUntilCancelled(t *testing.T) {
	c := New(1_000_000) // fast enough to get several ticks quickly
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	count := 0
	timeout := time.After(500 * time.Millisecond)
loop:
	for count < 3 {
		select {
		case <-c.Tokens():
			count++
		case <-timeout:
			t.Fatalf("only received %d tokens before timeout", count)
			break loop
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRedrawTickerPeriod(t *testing.T) {
	c := NewRedrawTicker()
	if c.period != time.Millisecond {
		t.Errorf("redraw ticker period = %v, want 1ms", c.period)
	}
}
