package parallel

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Experiment is one timed unit of work at a given worker count. The value
// it returns is recorded next to the timing, so correctness stays visible
// in the sweep output.
type Experiment func(workers int) (value float64, err error)

// Result contains measurements from a single worker count.
type Result struct {
	Workers int           // Number of workers
	Value   float64       // Value the experiment computed
	Elapsed time.Duration // Wall-clock time (mean across repeats)
	Sigma   time.Duration // Standard deviation across repeats (0 when Repeat <= 1)
	Speedup float64       // Single-worker elapsed / this elapsed
}

// Throughput returns runs per second at this worker count.
func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return 1 / r.Elapsed.Seconds()
}

// SweepConfig controls a worker-count sweep.
type SweepConfig struct {
	MaxWorkers int          // Highest worker count to measure (default: GOMAXPROCS)
	Repeat     int          // Timed runs per worker count (default: 1)
	OnResult   func(Result) // Called with each row as it is produced (may be nil)
}

// DefaultSweepConfig returns sensible defaults.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		MaxWorkers: runtime.GOMAXPROCS(0),
		Repeat:     1,
	}
}

// Sweep measures the experiment at every worker count from 1 to MaxWorkers,
// in that order. The single-worker run comes first and its elapsed time is
// the fixed denominator for every Speedup, so the first row reports exactly
// 1. Workers are forked and joined inside each experiment call; nothing is
// pooled across rows.
//
// The context is honored between runs. A run that has started always
// completes, so a cancelled sweep never reports a partially measured row.
// Any experiment failure aborts the sweep.
func Sweep(ctx context.Context, exp Experiment, cfg SweepConfig) ([]Result, error) {
	if cfg.MaxWorkers < 1 {
		return nil, fmt.Errorf("max workers must be >= 1, got %d", cfg.MaxWorkers)
	}
	repeat := cfg.Repeat
	if repeat < 1 {
		repeat = 1
	}

	results := make([]Result, 0, cfg.MaxWorkers)
	var baseline time.Duration

	for n := 1; n <= cfg.MaxWorkers; n++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sweep stopped before N=%d: %w", n, err)
		}

		r, err := runTimed(exp, n, repeat)
		if err != nil {
			return nil, fmt.Errorf("failed at N=%d: %w", n, err)
		}

		if n == 1 {
			baseline = r.Elapsed
			r.Speedup = 1
		} else {
			r.Speedup = baseline.Seconds() / r.Elapsed.Seconds()
		}

		results = append(results, r)
		if cfg.OnResult != nil {
			cfg.OnResult(r)
		}
	}

	return results, nil
}

// runTimed times repeat executions of the experiment at n workers.
func runTimed(exp Experiment, n, repeat int) (Result, error) {
	elapsed := make([]float64, repeat)
	var value float64

	for i := 0; i < repeat; i++ {
		start := time.Now()
		v, err := exp(n)
		if err != nil {
			return Result{}, err
		}
		elapsed[i] = time.Since(start).Seconds()
		value = v
	}

	var sigma float64
	if repeat > 1 {
		sigma = stat.StdDev(elapsed, nil)
	}

	return Result{
		Workers: n,
		Value:   value,
		Elapsed: time.Duration(stat.Mean(elapsed, nil) * float64(time.Second)),
		Sigma:   time.Duration(sigma * float64(time.Second)),
	}, nil
}
