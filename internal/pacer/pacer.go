// Package pacer throttles sequential batch work against a remote quota.
package pacer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ItemFunc processes a single work item.
type ItemFunc func(ctx context.Context, item string) error

// Options tune batch pacing behaviour.
type Options struct {
	// BatchSize is the number of items processed before a pause is considered.
	BatchSize int
	// BatchWait is the minimum elapsed time per batch.
	BatchWait time.Duration
}

// Pacer executes items strictly in order, pausing between batches so that no
// batch starts sooner than BatchWait after the previous batch began. Batch
// timing relies on time.Since, which reads the monotonic clock.
type Pacer struct {
	opts   Options
	logger zerolog.Logger
}

// New constructs a Pacer instance.
func New(opts Options, logger zerolog.Logger) *Pacer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.BatchWait <= 0 {
		opts.BatchWait = time.Second
	}
	return &Pacer{opts: opts, logger: logger.With().Str("component", "pacer").Logger()}
}

// Run processes every item in input order. The first item error aborts the
// run; pacing pauses are interruptible via ctx.
func (p *Pacer) Run(ctx context.Context, items []string, fn ItemFunc) error {
	batchStart := time.Now()
	batchIndex := 0

	for _, item := range items {
		if batchIndex >= p.opts.BatchSize {
			if remaining := p.opts.BatchWait - time.Since(batchStart); remaining > 0 {
				p.logger.Debug().Dur("pause", remaining).Msg("batch quota reached; pausing")
				if err := sleep(ctx, remaining); err != nil {
					return err
				}
			}
			batchStart = time.Now()
			batchIndex = 0
		}

		if err := fn(ctx, item); err != nil {
			return err
		}
		batchIndex++
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
