package parallel

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Linear congruential generator x' = a·x + b over uint64, with Knuth's
// MMIX multiplier. Generated array values are mapped into
// [randMin, randMax].
const (
	lcgMultiplier uint64 = 6364136223846793005
	lcgIncrement  uint64 = 1

	randMin = 1
	randMax = 300
)

// DefaultSeed is the seed the randomizer experiments start from.
const DefaultSeed uint64 = 100

// lcgValue maps a generator state to an array value in [randMin, randMax].
func lcgValue(x uint64) uint32 {
	return uint32(x%(randMax-randMin+1)) + randMin
}

// lcgCoeffs returns (A, B) such that x' = A·x + B·b jumps the generator k
// steps at once: A = a^k and B = Σ a^j for j < k. Both wrap mod 2^64,
// matching the generator itself.
func lcgCoeffs(k int) (mul, add uint64) {
	mul = 1
	for j := 0; j < k; j++ {
		add += mul
		mul *= lcgMultiplier
	}
	return mul, add
}

// RandomizeSerial fills v from the seed in sequence order and returns the
// mean of the produced values.
func RandomizeSerial(v []uint32, seed uint64) float64 {
	x := seed
	var sum float64

	for i := range v {
		x = lcgMultiplier*x + lcgIncrement
		v[i] = lcgValue(x)
		sum += float64(v[i])
	}

	if len(v) == 0 {
		return 0
	}
	return sum / float64(len(v))
}

// RandomizeLeapfrog fills v with the serial sequence using strided writers:
// worker t jumps the generator t+1 steps from the seed for its first
// element, then workers steps per stride, so the output is bitwise
// identical to RandomizeSerial at every worker count. The interleaved
// writes into v are the false-sharing surface this experiment measures.
// Returns the mean of the produced values.
func RandomizeLeapfrog(v []uint32, seed uint64, workers int) (float64, error) {
	if workers < 1 {
		return 0, fmt.Errorf("workers must be >= 1, got %d", workers)
	}

	strideMul, strideAdd := lcgCoeffs(workers)
	sums := make([]float64, workers)

	forkJoin(workers, func(t int) {
		mul, add := lcgCoeffs(t + 1)
		x := mul*seed + add*lcgIncrement

		var sum float64
		for i := t; i < len(v); i += workers {
			v[i] = lcgValue(x)
			sum += float64(v[i])
			x = strideMul*x + strideAdd*lcgIncrement
		}
		sums[t] = sum
	})

	if len(v) == 0 {
		return 0, nil
	}
	return floats.Sum(sums) / float64(len(v)), nil
}

// RandomizeExperiment returns an Experiment that fills a fresh n-element
// array from the seed and reports the mean value. Every worker count
// produces the identical array, so only the write pattern varies across
// the sweep.
func RandomizeExperiment(n int, seed uint64) Experiment {
	return func(workers int) (float64, error) {
		v := make([]uint32, n)
		return RandomizeLeapfrog(v, seed, workers)
	}
}
