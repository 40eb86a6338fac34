package offer

import (
	"context"
	"time"
)

// Countdown reports the remaining seconds of an offer once per interval.
// It runs on its own goroutine until it reaches zero, is stopped, or its
// context is cancelled.
type Countdown struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartCountdown calls onTick with seconds, seconds-1, ... 1 and finally 0,
// one interval apart. The first tick is reported immediately. A countdown
// started with seconds <= 0 finishes without ticking.
func StartCountdown(ctx context.Context, seconds int, interval time.Duration, onTick func(remaining int)) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	cd := &Countdown{cancel: cancel, done: make(chan struct{})}
	go cd.run(ctx, seconds, interval, onTick)
	return cd
}

func (cd *Countdown) run(ctx context.Context, seconds int, interval time.Duration, onTick func(int)) {
	defer close(cd.done)
	defer cd.cancel()

	if seconds <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := seconds; n >= 0; n-- {
		if n < seconds {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
		if ctx.Err() != nil {
			return
		}
		onTick(n)
	}
}

// Stop cancels the countdown. It does not wait for the goroutine to exit
// and is safe to call more than once, including from onTick.
func (cd *Countdown) Stop() {
	cd.cancel()
}

// Done is closed once the countdown goroutine has exited.
func (cd *Countdown) Done() <-chan struct{} {
	return cd.done
}

// Wait blocks until the countdown has exited or ctx is done.
func (cd *Countdown) Wait(ctx context.Context) error {
	select {
	case <-cd.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
