package parallel

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func sweepJob() Job {
	return Job{Lower: -1, Upper: 1, F: square, Samples: 20_000}
}

// TestSweep_Shape verifies row ordering, the exact baseline, and the
// recorded values.
func TestSweep_Shape(t *testing.T) {
	s, err := StrategyByName("slots-padded")
	if err != nil {
		t.Fatal(err)
	}

	results, err := Sweep(context.Background(), s.Experiment(sweepJob()), SweepConfig{MaxWorkers: 4})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}

	AssertBaseline(t, results)

	want, err := IntegrateSerial(sweepJob())
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if math.Abs(r.Value-want) > 1e-9 {
			t.Errorf("N=%d: value %v, want %v", r.Workers, r.Value, want)
		}
		if r.Elapsed <= 0 {
			t.Errorf("N=%d: non-positive elapsed %v", r.Workers, r.Elapsed)
		}
		if r.Sigma != 0 {
			t.Errorf("N=%d: sigma %v without repeats", r.Workers, r.Sigma)
		}
	}
}

// TestSweep_OnResult verifies rows are streamed in sweep order as they are
// produced.
func TestSweep_OnResult(t *testing.T) {
	var seen []int
	cfg := SweepConfig{
		MaxWorkers: 3,
		OnResult:   func(r Result) { seen = append(seen, r.Workers) },
	}

	exp := func(workers int) (float64, error) { return float64(workers), nil }
	results, err := Sweep(context.Background(), exp, cfg)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if len(seen) != len(results) {
		t.Fatalf("OnResult saw %d rows, Sweep returned %d", len(seen), len(results))
	}
	for i, n := range seen {
		if n != i+1 {
			t.Errorf("OnResult row %d has N=%d, want %d", i, n, i+1)
		}
	}
}

// TestSweep_RejectsBadConfig verifies the worker bound is validated before
// anything runs.
func TestSweep_RejectsBadConfig(t *testing.T) {
	exp := func(workers int) (float64, error) {
		t.Error("Experiment ran despite invalid config")
		return 0, nil
	}

	for _, max := range []int{0, -2} {
		if _, err := Sweep(context.Background(), exp, SweepConfig{MaxWorkers: max}); err == nil {
			t.Errorf("MaxWorkers=%d: expected an error", max)
		}
	}
}

// TestSweep_PropagatesFailure verifies a failing run aborts the sweep with
// the worker count in the error.
func TestSweep_PropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	exp := func(workers int) (float64, error) {
		if workers == 3 {
			return 0, boom
		}
		return 1, nil
	}

	results, err := Sweep(context.Background(), exp, SweepConfig{MaxWorkers: 8})
	if err == nil {
		t.Fatal("Expected the sweep to fail")
	}
	if results != nil {
		t.Errorf("Expected no results on failure, got %d rows", len(results))
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected the cause to be wrapped, got: %v", err)
	}
	if !strings.Contains(err.Error(), "N=3") {
		t.Errorf("Error should name the failing worker count: %v", err)
	}
}

// TestSweep_ContextCancelled verifies an already-cancelled context stops
// the sweep before the first run.
func TestSweep_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp := func(workers int) (float64, error) {
		t.Error("Experiment ran on a cancelled context")
		return 0, nil
	}

	_, err := Sweep(ctx, exp, SweepConfig{MaxWorkers: 4})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got: %v", err)
	}
}

// TestSweep_CancelBetweenRuns verifies a started run completes and the
// sweep stops before the next one.
func TestSweep_CancelBetweenRuns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := 0
	exp := func(workers int) (float64, error) {
		runs++
		if workers == 2 {
			cancel()
		}
		return 1, nil
	}

	_, err := Sweep(ctx, exp, SweepConfig{MaxWorkers: 8})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got: %v", err)
	}
	if runs != 2 {
		t.Errorf("Expected 2 completed runs before cancellation, got %d", runs)
	}
}

// TestSweep_Repeat verifies repeated timing: every repeat runs, the value
// is recorded, and sigma stays zero only for single runs.
func TestSweep_Repeat(t *testing.T) {
	calls := 0
	exp := func(workers int) (float64, error) {
		calls++
		time.Sleep(100 * time.Microsecond)
		return 42, nil
	}

	results, err := Sweep(context.Background(), exp, SweepConfig{MaxWorkers: 2, Repeat: 3})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if calls != 6 {
		t.Errorf("Expected 6 experiment calls (2 rows x 3 repeats), got %d", calls)
	}
	for _, r := range results {
		if r.Value != 42 {
			t.Errorf("N=%d: value %v, want 42", r.Workers, r.Value)
		}
		if r.Sigma < 0 {
			t.Errorf("N=%d: negative sigma %v", r.Workers, r.Sigma)
		}
		if r.Elapsed < 50*time.Microsecond {
			t.Errorf("N=%d: implausibly small elapsed %v", r.Workers, r.Elapsed)
		}
	}
}

// TestSweep_AnalysisReport runs a real sweep and logs the fitted models.
// The numbers vary with the machine, so this only checks the pipeline and
// leaves the scaling judgements to the log.
func TestSweep_AnalysisReport(t *testing.T) {
	job := Job{Lower: -1, Upper: 1, F: square, Samples: 200_000}

	s, err := StrategyByName("slots-padded")
	if err != nil {
		t.Fatal(err)
	}

	results, err := Sweep(context.Background(), s.Experiment(job), SweepConfig{MaxWorkers: 4, Repeat: 3})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	AssertBaseline(t, results)
	PrintAnalysis(t, results)
}
