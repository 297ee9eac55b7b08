package parallel

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

// AssertionConfig contains tolerances for correctness and scalability
// assertions.
type AssertionConfig struct {
	// Relative tolerance for strategy agreement
	RelTol float64

	// Absolute floor for agreement on near-zero integrals
	AbsTol float64

	// Highest worker count the agreement helpers exercise
	MaxWorkers int

	// Minimum R² for model fit quality
	MinRSquared float64
}

// DefaultAssertionConfig returns conservative thresholds.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		RelTol:      1e-9,  // Strategies differ only in summation order
		AbsTol:      1e-12, // For integrals that cancel to ~0
		MaxWorkers:  8,
		MinRSquared: 0.95, // 95% model fit
	}
}

// AssertStrategiesAgree verifies that every registered strategy matches the
// serial reference within tolerance, at every worker count from 1 to
// cfg.MaxWorkers.
func AssertStrategiesAgree(t *testing.T, j Job, cfg AssertionConfig) {
	t.Helper()

	want, err := IntegrateSerial(j)
	if err != nil {
		t.Fatalf("Serial reference failed: %v", err)
	}

	for _, s := range Strategies() {
		for n := 1; n <= cfg.MaxWorkers; n++ {
			j := j
			j.Workers = n

			got, err := s.Integrate(j)
			if err != nil {
				t.Errorf("%s with %d workers: %v", s.Name, n, err)
				continue
			}
			if !scalar.EqualWithinAbsOrRel(got, want, cfg.AbsTol, cfg.RelTol) {
				t.Errorf("%s with %d workers: got %.15g, want %.15g (rel tol %g)",
					s.Name, n, got, want, cfg.RelTol)
			}
		}
	}

	t.Logf("✓ All strategies agree with serial within %g for 1..%d workers", cfg.RelTol, cfg.MaxWorkers)
}

// AssertBaseline verifies the sweep shape: the first row ran with a single
// worker and reports a speedup of exactly 1, and worker counts are
// consecutive from there.
func AssertBaseline(t *testing.T, results []Result) {
	t.Helper()

	if len(results) == 0 {
		t.Fatal("No sweep results")
	}

	if results[0].Workers != 1 {
		t.Errorf("First row ran with %d workers, want 1", results[0].Workers)
	}
	if results[0].Speedup != 1.0 {
		t.Errorf("Baseline speedup = %v, want exactly 1.0", results[0].Speedup)
	}

	for i, r := range results {
		if r.Workers != i+1 {
			t.Errorf("Row %d ran with %d workers, want %d", i, r.Workers, i+1)
		}
	}
}

// AssertNoRetrograde verifies fitted throughput never decreases as workers
// are added, up to cfg.MaxWorkers.
//
// Retrograde scaling means C(N+1) < C(N): adding a worker costs more in
// coordination than it contributes in compute.
func AssertNoRetrograde(t *testing.T, results []Result, cfg AssertionConfig) {
	t.Helper()

	coeffs, err := FitUSL(results)
	if err != nil {
		t.Fatalf("Failed to fit USL model: %v", err)
	}

	var failures []string
	for i := 1; i < len(results); i++ {
		if results[i].Workers > cfg.MaxWorkers {
			break
		}

		prev := coeffs.PredictThroughput(results[i-1].Workers)
		curr := coeffs.PredictThroughput(results[i].Workers)

		if curr < prev {
			failures = append(failures, fmt.Sprintf(
				"  N=%d→%d: %.2f → %.2f runs/sec (retrograde!)",
				results[i-1].Workers, results[i].Workers, prev, curr))
		}
	}

	if len(failures) > 0 {
		t.Errorf("Retrograde scaling detected:\n%s\nα=%.6f, β=%.6f",
			strings.Join(failures, "\n"), coeffs.Alpha, coeffs.Beta)
	}

	t.Logf("✓ No retrograde: throughput increases monotonically up to N=%d", cfg.MaxWorkers)
	t.Logf("  α=%.6f, β=%.6f, R²=%.4f", coeffs.Alpha, coeffs.Beta, coeffs.RSquared)
}

// AssertModelFit verifies the USL model explains the measured sweep.
func AssertModelFit(t *testing.T, results []Result, cfg AssertionConfig) {
	t.Helper()

	coeffs, err := FitUSL(results)
	if err != nil {
		t.Fatalf("Failed to fit USL model: %v", err)
	}

	if coeffs.RSquared < cfg.MinRSquared {
		t.Errorf("Poor model fit: R² = %.4f (min: %.4f)\n"+
			"USL model doesn't explain the data. Check for measurement noise.",
			coeffs.RSquared, cfg.MinRSquared)
	}

	t.Logf("✓ Model fit: R² = %.4f", coeffs.RSquared)
}

// AssertScalability runs the sweep-shape and scaling assertions with
// default thresholds.
func AssertScalability(t *testing.T, results []Result) {
	t.Helper()

	cfg := DefaultAssertionConfig()

	t.Run("Baseline", func(t *testing.T) {
		AssertBaseline(t, results)
	})

	t.Run("ModelFit", func(t *testing.T) {
		AssertModelFit(t, results, cfg)
	})

	t.Run("NoRetrograde", func(t *testing.T) {
		AssertNoRetrograde(t, results, cfg)
	})
}

// PrintAnalysis outputs the sweep table and fitted scalability models to
// the test log.
func PrintAnalysis(t *testing.T, results []Result) {
	t.Helper()

	coeffs, err := FitUSL(results)
	if err != nil {
		t.Fatalf("Failed to fit USL model: %v", err)
	}

	t.Logf("\n=== Scalability Analysis ===")
	t.Logf("  N    Elapsed        Speedup   Measured      Predicted     Efficiency")
	t.Logf("  --   ------------   -------   -----------   -----------   ----------")
	for _, r := range results {
		t.Logf("  %-4d %12v   %7.2f   %11.2f   %11.2f   %8.1f%%",
			r.Workers, r.Elapsed.Round(time.Microsecond), r.Speedup,
			r.Throughput(), coeffs.PredictThroughput(r.Workers),
			coeffs.Efficiency(r.Workers)*100)
	}

	t.Logf("\nUSL coefficients:")
	t.Logf("  λ (lambda)  = %.2f runs/sec (serial performance)", coeffs.Lambda)
	t.Logf("  α (alpha)   = %.6f (contention)", coeffs.Alpha)
	t.Logf("  β (beta)    = %.6f (coordination)", coeffs.Beta)
	t.Logf("  R²          = %.4f (goodness of fit)", coeffs.RSquared)

	if peak := coeffs.PeakWorkers(); math.IsInf(peak, 1) {
		t.Logf("  no throughput peak (β = 0)")
	} else {
		t.Logf("  peak capacity at N ≈ %.1f workers", peak)
	}

	if law, err := FitAmdahl(results); err == nil {
		t.Logf("Amdahl: parallel fraction p = %.4f (R² = %.4f)", law.Parallel, law.RSquared)
	}

	t.Logf("\nInterpretation:")
	if coeffs.Alpha < 0.01 {
		t.Logf("  ✓ Excellent contention (α < 0.01) - lock-free or efficient locks")
	} else if coeffs.Alpha < 0.05 {
		t.Logf("  ⚠ Moderate contention (α < 0.05) - some lock waiting")
	} else {
		t.Logf("  ✗ High contention (α ≥ 0.05) - significant serialized combine")
	}

	if coeffs.Beta < 0.01 {
		t.Logf("  ✓ Excellent coordination (β < 0.01) - minimal cache coherency traffic")
	} else if coeffs.Beta < 0.05 {
		t.Logf("  ⚠ Moderate coordination (β < 0.05) - some cache-line sharing")
	} else {
		t.Logf("  ✗ High coordination (β ≥ 0.05) - severe cache-line ping-pong")
	}
}
