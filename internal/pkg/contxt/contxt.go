package contxt

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// NewContext returns a context cancelled on SIGINT or SIGTERM and, when
// timeout is positive, once timeout has passed.
func NewContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
