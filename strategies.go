package parallel

import (
	"math"
	"sync"
	"sync/atomic"
)

// IntegrateMutex keeps a private sum per worker and folds each one into the
// shared total under a mutex. The lock is taken once per worker, not once
// per sample, so what the sweep measures is the cost of the serialized
// combine plus the lock's cache traffic.
func IntegrateMutex(j Job) (float64, error) {
	if err := j.Validate(); err != nil {
		return 0, err
	}

	dx := j.width()
	var (
		mu    sync.Mutex
		total float64
	)

	forkJoin(j.Workers, func(t int) {
		var sum float64
		for i := t; i < j.Samples; i += j.Workers {
			sum += j.F(float64(i)*dx + j.Lower)
		}

		mu.Lock()
		total += sum
		mu.Unlock()
	})

	return total * dx, nil
}

// atomicAddFloat64 adds delta to the float64 stored in bits with a
// compare-and-swap loop. The loop retries only when another worker's add
// landed between the load and the swap.
func atomicAddFloat64(bits *atomic.Uint64, delta float64) {
	for {
		old := bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// IntegrateAtomic is IntegrateMutex with the combine done lock-free: each
// worker's private sum enters the shared total through a single CAS add.
func IntegrateAtomic(j Job) (float64, error) {
	if err := j.Validate(); err != nil {
		return 0, err
	}

	dx := j.width()
	var bits atomic.Uint64

	forkJoin(j.Workers, func(t int) {
		var sum float64
		for i := t; i < j.Samples; i += j.Workers {
			sum += j.F(float64(i)*dx + j.Lower)
		}

		atomicAddFloat64(&bits, sum)
	})

	return math.Float64frombits(bits.Load()) * dx, nil
}

// IntegrateChannel delegates the combine to the runtime: workers send their
// private sums on a buffered channel and the caller folds them after the
// join. No lock or atomic appears in user code.
func IntegrateChannel(j Job) (float64, error) {
	if err := j.Validate(); err != nil {
		return 0, err
	}

	dx := j.width()
	parts := make(chan float64, j.Workers)

	forkJoin(j.Workers, func(t int) {
		var sum float64
		for i := t; i < j.Samples; i += j.Workers {
			sum += j.F(float64(i)*dx + j.Lower)
		}

		parts <- sum
	})

	var total float64
	for t := 0; t < j.Workers; t++ {
		total += <-parts
	}

	return total * dx, nil
}
