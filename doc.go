// Package parallel measures how partial-sum accumulation strategies scale.
//
// # Overview
//
// The workload is deliberately simple: a Riemann sum of a fixed integrand,
// split across T workers with a strided partition. Every strategy evaluates
// exactly the same samples; they differ only in how per-worker contributions
// reach the final total. That difference is where lock contention and
// cache-line traffic live, so sweeping T from 1 to the core count turns the
// accumulation strategy itself into the measured variable.
//
// # Strategies
//
// Five strategies share one contract (same Job in, same sum out):
//
//   - mutex        - private sums, combined under a single sync.Mutex
//   - atomic       - private sums, combined with a lock-free CAS add
//   - slots        - per-sample writes into adjacent slots (false sharing)
//   - slots-padded - per-sample writes into cache-line-aligned slots
//   - channel      - private sums folded from a buffered channel
//
// IntegrateSerial is the single-goroutine reference they all must agree with.
//
// # Quick Start
//
// Sweep a strategy across worker counts and fit the scalability laws:
//
//	job := parallel.Job{Lower: -1, Upper: 1, F: func(x float64) float64 { return x * x }, Samples: 100_000_000}
//
//	exp := func(workers int) (float64, error) {
//	    job := job
//	    job.Workers = workers
//	    return parallel.IntegrateSlotsPadded(job)
//	}
//
//	results, err := parallel.Sweep(ctx, exp, parallel.DefaultSweepConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	usl, err := parallel.FitUSL(results)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Contention (α): %.4f\n", usl.Alpha)
//	fmt.Printf("Coordination (β): %.4f\n", usl.Beta)
//	fmt.Printf("Peak at N ≈ %.1f workers\n", usl.PeakWorkers())
//
// # The sweep
//
// Sweep runs the experiment at every worker count from 1 to MaxWorkers, in
// order. The single-worker run comes first and its elapsed time is the fixed
// denominator for every speedup, so the first row reports exactly 1.0.
// Workers are forked and joined inside every run; nothing is pooled between
// rows, so each row measures cold fork-join cost too.
//
// # False sharing
//
// The slots strategy is the control experiment: T workers each add into
// their own float64 of one shared slice, every sample. The slots are
// disjoint, the program is race-free, and it still scales badly, because
// eight slots share each 64-byte cache line and every write invalidates the
// neighbors' copies. slots-padded is the same loop with each slot widened to
// CacheLineSize and the buffer aligned, which removes the sharing without
// touching the algorithm. Comparing the two sweeps isolates the cost of
// cache-line ping-pong from the cost of the arithmetic.
//
// # Scalability laws
//
// FitUSL fits sweep throughput to the Universal Scalability Law:
//
//	C(N) = λN / (1 + α(N-1) + βN(N-1))
//
// Where:
//   - λ (lambda): Serial throughput (runs/sec at N=1)
//   - α (alpha): Contention coefficient (lock waiting)
//   - β (beta): Coordination coefficient (cache coherency, communication)
//   - N: Number of workers
//
// FitAmdahl fits measured speedup to Amdahl's law, S(N) = 1/((1-p) + p/N),
// recovering the parallel fraction p. USLCoefficients.PeakWorkers gives the
// worker count beyond which more workers reduce throughput.
//
// # Sibling experiments
//
// Two further workloads exercise the same sweep machinery:
//
//   - FibonacciExperiment: task-recursive Fibonacci with a token bound on
//     forked subtrees, the classic fork-join stress test.
//   - RandomizeExperiment: a leapfrog linear congruential generator whose
//     strided writers reproduce the serial stream bit for bit while writing
//     into deliberately false-sharing-prone array positions.
//
// # Testing
//
// Use the assertion helpers to validate correctness and scaling properties:
//
//	func TestPaddedSlots(t *testing.T) {
//	    parallel.AssertStrategiesAgree(t, job, parallel.DefaultAssertionConfig())
//
//	    results, _ := parallel.Sweep(ctx, exp, parallel.DefaultSweepConfig())
//	    parallel.AssertBaseline(t, results)
//	    parallel.AssertNoRetrograde(t, results, parallel.DefaultAssertionConfig())
//	    parallel.PrintAnalysis(t, results)
//	}
//
// # See Also
//
//   - examples/integrate/ - integral sweep across all strategies
//   - examples/experiments/ - Fibonacci and randomizer sweeps
package parallel
