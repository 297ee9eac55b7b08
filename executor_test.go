package parallel

import (
	"sync/atomic"
	"testing"
	"time"
)

// TestForkJoin_RunsEveryWorker verifies each worker id runs exactly once
// and its writes are visible after the join.
func TestForkJoin_RunsEveryWorker(t *testing.T) {
	for _, workers := range []int{1, 2, 5, 16} {
		ran := make([]int, workers)
		forkJoin(workers, func(tid int) {
			ran[tid]++
		})

		for tid, n := range ran {
			if n != 1 {
				t.Errorf("workers=%d: body(%d) ran %d times", workers, tid, n)
			}
		}
	}
}

// TestForkJoin_Joins verifies no body is still running when forkJoin
// returns.
func TestForkJoin_Joins(t *testing.T) {
	var running atomic.Int32

	forkJoin(8, func(int) {
		running.Add(1)
		time.Sleep(time.Millisecond)
		running.Add(-1)
	})

	if n := running.Load(); n != 0 {
		t.Errorf("%d bodies still running after forkJoin returned", n)
	}
}
