// Package retry implements the bounded exponential backoff used around the
// warehouse connection and batch flushes. The accounting core itself never
// retries; a failure there aborts the event instead.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy bounds how a failing operation is retried. Attempts counts every
// try including the first; Jitter is the fraction of each wait that is
// randomized symmetrically around it.
type Policy struct {
	Attempts int
	Base     time.Duration
	Cap      time.Duration
	Jitter   float64
}

// SinkPolicy is tuned for ClickHouse outages: the warehouse is usually back
// within a minute, and snapshot rows stay buffered while we wait.
func SinkPolicy() Policy {
	return Policy{
		Attempts: 10,
		Base:     2 * time.Second,
		Cap:      60 * time.Second,
		Jitter:   0.3,
	}
}

// Do runs fn until it succeeds, the policy is exhausted, or ctx ends. Waits
// between tries double from Base up to Cap.
func (p Policy) Do(ctx context.Context, logger *zap.Logger, op string, fn func() error) error {
	var err error
	for try := 1; ; try++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: retry aborted: %w", op, ctx.Err())
		}

		if err = fn(); err == nil {
			if try > 1 {
				logger.Info("Operation recovered",
					zap.String("op", op),
					zap.Int("tries", try))
			}
			return nil
		}
		if try >= p.Attempts {
			return fmt.Errorf("%s: gave up after %d tries: %w", op, try, err)
		}

		wait := p.wait(try)
		logger.Warn("Operation failed, will retry",
			zap.String("op", op),
			zap.Int("try", try),
			zap.Duration("wait", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: retry aborted: %w", op, ctx.Err())
		case <-time.After(wait):
		}
	}
}

// wait returns the delay after the given failed try (1-based): Base doubled
// per failure, capped, then jittered so parallel clients spread out.
func (p Policy) wait(try int) time.Duration {
	d := p.Base
	for i := 1; i < try && d < p.Cap; i++ {
		d *= 2
	}
	if d > p.Cap {
		d = p.Cap
	}
	if p.Jitter > 0 {
		spread := p.Jitter * float64(d)
		d = time.Duration(float64(d) + (rand.Float64()-0.5)*spread)
	}
	return d
}
