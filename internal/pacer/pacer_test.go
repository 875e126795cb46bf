package pacer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunPreservesOrder(t *testing.T) {
	p := New(Options{BatchSize: 2, BatchWait: time.Millisecond}, zerolog.Nop())

	items := []string{"A", "B", "C", "D", "E"}
	var seen []string
	err := p.Run(context.Background(), items, func(ctx context.Context, item string) error {
		seen = append(seen, item)
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(seen) != len(items) {
		t.Fatalf("processed %d items, expected %d", len(seen), len(items))
	}
	for i, item := range items {
		if seen[i] != item {
			t.Fatalf("item %d = %q, expected %q", i, seen[i], item)
		}
	}
}

func TestRunPausesBetweenBatches(t *testing.T) {
	wait := 50 * time.Millisecond
	p := New(Options{BatchSize: 2, BatchWait: wait}, zerolog.Nop())

	start := time.Now()
	err := p.Run(context.Background(), []string{"A", "B", "C", "D", "E"}, func(ctx context.Context, item string) error {
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Five near-instant items with batch size two force pauses after the
	// second and fourth item.
	if elapsed := time.Since(start); elapsed < 2*wait {
		t.Fatalf("elapsed %v, expected at least %v", elapsed, 2*wait)
	}
}

func TestRunSkipsPauseForSlowBatches(t *testing.T) {
	wait := 20 * time.Millisecond
	p := New(Options{BatchSize: 1, BatchWait: wait}, zerolog.Nop())

	start := time.Now()
	err := p.Run(context.Background(), []string{"A", "B"}, func(ctx context.Context, item string) error {
		time.Sleep(2 * wait)
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Each item already exceeds the batch budget, so no extra pause applies.
	if elapsed := time.Since(start); elapsed > 5*wait {
		t.Fatalf("elapsed %v, expected no pacing pause on top of slow items", elapsed)
	}
}

func TestRunStopsOnItemError(t *testing.T) {
	p := New(Options{BatchSize: 10, BatchWait: time.Millisecond}, zerolog.Nop())

	boom := errors.New("boom")
	var calls int
	err := p.Run(context.Background(), []string{"A", "B", "C"}, func(ctx context.Context, item string) error {
		calls++
		if item == "B" {
			return boom
		}
		return nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected item error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("processed %d items before aborting, expected 2", calls)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	p := New(Options{BatchSize: 1, BatchWait: time.Minute}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	err := p.Run(ctx, []string{"A", "B"}, func(ctx context.Context, item string) error {
		cancel()
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
