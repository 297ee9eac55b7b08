// Package parallel benchmarks partial-sum accumulation strategies under
// real concurrency.
//
// The workload is a Riemann sum: Samples evaluations of a shared integrand,
// dealt to Workers goroutines with a strided partition (worker t owns the
// indices i ≡ t mod Workers). Every strategy computes the same sum; they
// differ only in how per-worker contributions reach the final total.
package parallel

import (
	"fmt"
	"strings"
)

// Integrand is evaluated once per sample. Implementations must be pure and
// safe for concurrent use; x is the only input.
type Integrand func(x float64) float64

// Job describes one integration run.
type Job struct {
	Lower   float64   // Interval start
	Upper   float64   // Interval end
	F       Integrand // Function to integrate
	Samples int       // Number of left-rectangle samples
	Workers int       // Number of workers sharing the samples
}

// Validate rejects a Job no strategy would accept. It runs before any
// goroutine is forked, so an invalid Job never spawns workers.
func (j Job) Validate() error {
	if j.F == nil {
		return fmt.Errorf("integrand must not be nil")
	}
	if j.Samples < 1 {
		return fmt.Errorf("samples must be >= 1, got %d", j.Samples)
	}
	if j.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", j.Workers)
	}
	return nil
}

// width returns the rectangle width dx.
func (j Job) width() float64 {
	return (j.Upper - j.Lower) / float64(j.Samples)
}

// IntegrateSerial computes the sum on the calling goroutine, ignoring
// j.Workers. It is the reference every strategy must agree with.
func IntegrateSerial(j Job) (float64, error) {
	j.Workers = 1
	if err := j.Validate(); err != nil {
		return 0, err
	}

	dx := j.width()
	var sum float64
	for i := 0; i < j.Samples; i++ {
		sum += j.F(float64(i)*dx + j.Lower)
	}

	return sum * dx, nil
}

// Strategy is one way of combining per-worker partial sums into a total.
type Strategy struct {
	Name      string
	Integrate func(Job) (float64, error)
}

// Strategies returns the accumulation strategies in sweep order.
func Strategies() []Strategy {
	return []Strategy{
		{Name: "mutex", Integrate: IntegrateMutex},
		{Name: "atomic", Integrate: IntegrateAtomic},
		{Name: "slots", Integrate: IntegrateSlots},
		{Name: "slots-padded", Integrate: IntegrateSlotsPadded},
		{Name: "channel", Integrate: IntegrateChannel},
	}
}

// StrategyByName returns the named strategy.
func StrategyByName(name string) (Strategy, error) {
	all := Strategies()
	names := make([]string, 0, len(all))
	for _, s := range all {
		if s.Name == name {
			return s, nil
		}
		names = append(names, s.Name)
	}
	return Strategy{}, fmt.Errorf("unknown strategy %q (valid: %s)", name, strings.Join(names, ", "))
}

// Experiment adapts one strategy applied to one Job into a sweepable
// experiment: the returned function runs the strategy at the requested
// worker count, leaving the rest of the Job fixed.
func (s Strategy) Experiment(j Job) Experiment {
	return func(workers int) (float64, error) {
		j := j
		j.Workers = workers
		return s.Integrate(j)
	}
}
