package worker

import (
	"context"
	"time"
)

// CostFunc models the CPU-bound cost of processing a payload. It must be
// deterministic for a given input length so tests can reason about it, and
// its result must stay below the processing deadline for any input.
type CostFunc func(text string) time.Duration

// NewSimulatorCost builds the production cost function:
//
//	cost(text) = min(maxTotalDelay, delayPerChar * len(text))
//
// The cap keeps the worker inside its execution deadline regardless of
// payload size.
func NewSimulatorCost(delayPerChar, maxTotalDelay time.Duration) CostFunc {
	return func(text string) time.Duration {
		cost := time.Duration(len(text)) * delayPerChar
		if cost > maxTotalDelay {
			cost = maxTotalDelay
		}
		return cost
	}
}

// ZeroCost is a test substitute that skips the simulated workload entirely.
func ZeroCost(string) time.Duration { return 0 }

// simulateWork blocks for cost(text), or returns early with the context's
// error if the worker is shutting down.
func simulateWork(ctx context.Context, cost CostFunc, text string) error {
	d := cost(text)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
