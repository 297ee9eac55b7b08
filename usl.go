package parallel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// USLCoefficients contains the Universal Scalability Law parameters.
type USLCoefficients struct {
	Lambda   float64 // λ: Serial throughput (runs/sec at N=1)
	Alpha    float64 // α: Contention coefficient
	Beta     float64 // β: Coordination coefficient
	RSquared float64 // R²: Goodness of fit (1.0 = perfect)
}

// FitUSL fits sweep results to the Universal Scalability Law:
//
//	C(N) = λN / (1 + α(N-1) + βN(N-1))
//
// The USL linearizes to N/C(N) = b0 + b1·(N-1) + b2·N(N-1), which is
// solved by QR least squares; then λ = 1/b0, α = b1/b0, β = b2/b0.
//
// β < 0 is a linearization artifact in all but superlinear workloads, so
// when it shows up together with positive contention the fit falls back to
// the two-parameter contention-only model (β clamped to 0).
//
// Returns coefficients and R² goodness of fit against measured throughput.
func FitUSL(results []Result) (USLCoefficients, error) {
	rows := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Throughput() > 0 {
			rows = append(rows, r)
		}
	}
	if len(rows) < 3 {
		return USLCoefficients{}, fmt.Errorf("need at least 3 data points, got %d", len(rows))
	}

	b, err := solveLinearizedUSL(rows, 3)
	if err != nil {
		// Degenerate design matrix (typically duplicated worker counts):
		// fall back to a heuristic estimate rather than failing the sweep.
		return USLCoefficients{Lambda: rows[0].Throughput(), Alpha: 0.01}, nil
	}

	lambda := 1 / b[0]
	alpha := b[1] / b[0]
	beta := b[2] / b[0]

	if beta < 0 && alpha > 0 {
		if b2, err := solveLinearizedUSL(rows, 2); err == nil {
			lambda = 1 / b2[0]
			alpha = b2[1] / b2[0]
			beta = 0
		}
	}

	coeffs := USLCoefficients{Lambda: lambda, Alpha: alpha, Beta: beta}
	coeffs.RSquared = rSquaredThroughput(rows, coeffs)

	return coeffs, nil
}

// solveLinearizedUSL solves the least-squares system of the linearized USL
// with the given number of terms: 3 for the full model, 2 for the
// contention-only model.
func solveLinearizedUSL(rows []Result, terms int) ([]float64, error) {
	design := mat.NewDense(len(rows), terms, nil)
	rhs := mat.NewVecDense(len(rows), nil)

	for i, r := range rows {
		n := float64(r.Workers)
		design.Set(i, 0, 1)
		design.Set(i, 1, n-1)
		if terms > 2 {
			design.Set(i, 2, n*(n-1))
		}
		rhs.SetVec(i, n/r.Throughput())
	}

	var qr mat.QR
	qr.Factorize(design)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, rhs); err != nil {
		return nil, fmt.Errorf("singular design matrix: %w", err)
	}

	b := make([]float64, terms)
	for i := range b {
		b[i] = sol.AtVec(i)
	}
	return b, nil
}

// rSquaredThroughput computes R² of predicted against measured throughput.
func rSquaredThroughput(results []Result, c USLCoefficients) float64 {
	measured := make([]float64, len(results))
	predicted := make([]float64, len(results))
	for i, r := range results {
		measured[i] = r.Throughput()
		predicted[i] = c.PredictThroughput(r.Workers)
	}
	return stat.RSquaredFrom(predicted, measured, nil)
}

// uslModel calculates predicted throughput using the USL formula.
func uslModel(n, lambda, alpha, beta float64) float64 {
	return (lambda * n) / (1 + alpha*(n-1) + beta*n*(n-1))
}

// PredictThroughput estimates throughput at a given worker count.
func (c USLCoefficients) PredictThroughput(n int) float64 {
	return uslModel(float64(n), c.Lambda, c.Alpha, c.Beta)
}

// PredictSpeedup estimates speedup over a single worker at a given worker
// count.
func (c USLCoefficients) PredictSpeedup(n int) float64 {
	if c.Lambda == 0 {
		return 0
	}
	return c.PredictThroughput(n) / c.Lambda
}

// Efficiency returns the ratio of predicted to ideal throughput.
// 1.0 = perfect linear scaling, <1.0 = contention/coordination overhead.
func (c USLCoefficients) Efficiency(n int) float64 {
	ideal := c.Lambda * float64(n)
	if ideal == 0 {
		return 0
	}
	return c.PredictThroughput(n) / ideal
}

// PeakWorkers returns the worker count where fitted throughput tops out.
// Past it, coordination overhead (β) makes every added worker retrograde.
//
// Formula: N_peak = sqrt((1-α)/β)
//
// With β = 0 there is no peak and the result is +Inf. With α >= 1 the
// system cannot scale at all and the result is 0.
func (c USLCoefficients) PeakWorkers() float64 {
	if c.Beta <= 0 {
		return math.Inf(1)
	}
	if c.Alpha >= 1 {
		return 0
	}
	return math.Sqrt((1 - c.Alpha) / c.Beta)
}

// AmdahlLaw is the single-parameter reading of a speedup curve:
//
//	S(N) = 1 / ((1-p) + p/N)
//
// where p is the fraction of the workload that parallelizes. It is the
// β = 0, α = 1-p corner of the USL, fitted directly against measured
// speedup instead of throughput.
type AmdahlLaw struct {
	Parallel float64 // p: Parallel fraction of the workload
	RSquared float64 // R²: Goodness of fit (1.0 = perfect)
}

// FitAmdahl fits measured speedups to Amdahl's law. The law linearizes to
// 1/S(N) - 1 = p·(1/N - 1), a one-parameter regression through the origin
// with the closed-form solution p = Σuz / Σu².
func FitAmdahl(results []Result) (AmdahlLaw, error) {
	var uz, uu float64
	points := 0

	for _, r := range results {
		if r.Workers < 1 || r.Speedup <= 0 {
			continue
		}
		points++

		u := 1/float64(r.Workers) - 1
		z := 1/r.Speedup - 1
		uz += u * z
		uu += u * u
	}

	if points < 3 {
		return AmdahlLaw{}, fmt.Errorf("need at least 3 data points, got %d", points)
	}
	if uu == 0 {
		return AmdahlLaw{}, fmt.Errorf("every row ran with one worker, nothing to fit")
	}

	law := AmdahlLaw{Parallel: uz / uu}

	measured := make([]float64, 0, len(results))
	predicted := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Workers < 1 || r.Speedup <= 0 {
			continue
		}
		measured = append(measured, r.Speedup)
		predicted = append(predicted, law.PredictSpeedup(r.Workers))
	}
	law.RSquared = stat.RSquaredFrom(predicted, measured, nil)

	return law, nil
}

// PredictSpeedup estimates speedup over a single worker at a given worker
// count.
func (a AmdahlLaw) PredictSpeedup(n int) float64 {
	if n < 1 {
		return 0
	}
	return 1 / ((1 - a.Parallel) + a.Parallel/float64(n))
}
