package parallel

import "sync"

// forkJoin runs body(t) for every t in [0, workers), with worker 0 on the
// calling goroutine, and returns only after the last body has finished.
// The join gives callers the usual guarantees: no body is still running
// after forkJoin returns, and every write a body made is visible to the
// caller.
func forkJoin(workers int, body func(t int)) {
	var wg sync.WaitGroup

	for t := 1; t < workers; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			body(t)
		}(t)
	}

	body(0)
	wg.Wait()
}
