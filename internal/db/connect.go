package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ConnectOptions controls the startup handshake with a store: up to Attempts pings,
// the n-th retry waiting n*Backoff.
type ConnectOptions struct {
	Attempts int
	Backoff  time.Duration
}

func (o ConnectOptions) attempts() int {
	if o.Attempts < 1 {
		return 1
	}
	return o.Attempts
}

// waitReady pings until the store answers, attempts run out or ctx ends.
func waitReady(ctx context.Context, store string, opts ConnectOptions, ping func(context.Context) error, log *zap.Logger) error {
	n := opts.attempts()
	var err error
	for attempt := 1; attempt <= n; attempt++ {
		if err = ping(ctx); err == nil {
			return nil
		}
		if attempt == n {
			break
		}
		log.Warn("store not ready", zap.String("store", store), zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", store, ctx.Err())
		case <-time.After(time.Duration(attempt) * opts.Backoff):
		}
	}
	return fmt.Errorf("%s unreachable after %d attempts: %w", store, n, err)
}
