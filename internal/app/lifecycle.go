package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// Lifecycle holds the cancel functions of an exploration context.
type Lifecycle struct {
	cancelTimeout context.CancelFunc
	stopSignals   context.CancelFunc
}

// SetupLifecycle derives a context that ends when timeout elapses or when
// SIGINT or SIGTERM arrives, whichever comes first. A timeout yields
// context.DeadlineExceeded and a signal yields context.Canceled, which map
// to exit codes 2 and 130.
func SetupLifecycle(ctx context.Context, timeout time.Duration) (context.Context, *Lifecycle) {
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, &Lifecycle{cancelTimeout: cancelTimeout, stopSignals: stopSignals}
}

// Cleanup stops signal delivery and releases the timer. Safe to call on a
// nil Lifecycle.
func (l *Lifecycle) Cleanup() {
	if l == nil {
		return
	}
	l.stopSignals()
	l.cancelTimeout()
}
