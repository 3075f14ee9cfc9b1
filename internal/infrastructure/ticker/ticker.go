// Package ticker runs a callback on a fixed interval until stopped. It drives
// the simulated live prices of the dashboard and analytics streams.
package ticker

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the refresh period of the live views.
const DefaultInterval = 1500 * time.Millisecond

// Handle controls a running ticker.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start calls fn every interval until ctx is done or Stop is called. fn runs
// on the ticker goroutine; a slow fn delays the next tick rather than
// overlapping with it. A non-positive interval uses DefaultInterval.
func Start(ctx context.Context, interval time.Duration, fn func(time.Time)) *Handle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				// Stop may race with a pending tick.
				if ctx.Err() != nil {
					return
				}
				fn(now)
			}
		}
	}()

	return h
}

// Stop halts the ticker and waits for the loop to exit. No fn call starts
// after Stop returns. Safe to call more than once.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
