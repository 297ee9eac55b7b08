package parallel

import "fmt"

// fibCutoff is the subtree size below which forking stops paying for
// itself; smaller subproblems always run inline.
const fibCutoff = 20

// Fibonacci computes the nth Fibonacci number by naive double recursion,
// with Fibonacci(1) = Fibonacci(2) = 1. The exponential cost is the point:
// it is the task tree the parallel version is measured against.
func Fibonacci(n int) uint64 {
	if n <= 2 {
		return 1
	}
	return Fibonacci(n-1) + Fibonacci(n-2)
}

// FibonacciParallel computes the same value with fork-join task recursion.
// A token channel bounds forked subtrees to workers-1, so at most workers
// goroutines compute at once; a single worker degenerates to the plain
// recursion. The result is identical to Fibonacci(n) for every worker
// count.
func FibonacciParallel(n, workers int) (uint64, error) {
	if n < 1 {
		return 0, fmt.Errorf("n must be >= 1, got %d", n)
	}
	if workers < 1 {
		return 0, fmt.Errorf("workers must be >= 1, got %d", workers)
	}

	tokens := make(chan struct{}, workers-1)
	return fibTask(n, tokens), nil
}

// fibTask forks the larger subtree when a token is free and recurses inline
// otherwise. Tokens return to the pool before the forked goroutine signals
// completion, so a waiting parent never holds up an idle worker.
func fibTask(n int, tokens chan struct{}) uint64 {
	if n <= fibCutoff {
		return Fibonacci(n)
	}

	select {
	case tokens <- struct{}{}:
		var left uint64
		done := make(chan struct{})
		go func() {
			left = fibTask(n-1, tokens)
			<-tokens
			close(done)
		}()

		right := fibTask(n-2, tokens)
		<-done
		return left + right

	default:
		return fibTask(n-1, tokens) + fibTask(n-2, tokens)
	}
}

// FibonacciExperiment returns an Experiment computing Fibonacci(n). The
// value lands in the sweep table as a float, so a wrong parallel result is
// visible right next to its timing.
func FibonacciExperiment(n int) Experiment {
	return func(workers int) (float64, error) {
		v, err := FibonacciParallel(n, workers)
		return float64(v), err
	}
}
