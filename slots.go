package parallel

import (
	"unsafe"

	"gonum.org/v1/gonum/floats"
)

// CacheLineSize is the coherency granularity the padded strategy sizes and
// aligns its slots to. Tests verify the resulting sizes and addresses
// instead of trusting the allocator.
const CacheLineSize = 64

// paddedSum occupies a full cache line, so neighboring slots can never be
// invalidated by each other's writes.
type paddedSum struct {
	val float64
	_   [CacheLineSize - 8]byte
}

// alignedSlots allocates workers zeroed slots with the first one on a
// cache-line boundary. A plain make gives word alignment at best, and a
// misaligned base shifts every 64-byte slot off its line by the same
// amount, so the buffer is over-allocated in bytes and the base rounded up
// to the next boundary.
func alignedSlots(workers int) []paddedSum {
	buf := make([]byte, workers*CacheLineSize+CacheLineSize-1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	aligned := (base + CacheLineSize - 1) &^ uintptr(CacheLineSize-1)

	first := (*paddedSum)(unsafe.Pointer(unsafe.SliceData(buf[aligned-base:])))
	return unsafe.Slice(first, workers)
}

// IntegrateSlots gives every worker one float64 in a shared slice and has
// it accumulate there on every sample. The slots are disjoint and the
// strategy is race-free, but eight of them share each cache line: this is
// the false-sharing baseline the padded variant is compared against.
func IntegrateSlots(j Job) (float64, error) {
	if err := j.Validate(); err != nil {
		return 0, err
	}

	dx := j.width()
	accum := make([]float64, j.Workers)

	forkJoin(j.Workers, func(t int) {
		for i := t; i < j.Samples; i += j.Workers {
			accum[t] += j.F(float64(i)*dx + j.Lower)
		}
	})

	return floats.Sum(accum) * dx, nil
}

// IntegrateSlotsPadded runs the same per-sample slot loop as IntegrateSlots
// with each slot widened to CacheLineSize and the buffer aligned, so every
// worker's writes stay on a line it owns alone.
func IntegrateSlotsPadded(j Job) (float64, error) {
	if err := j.Validate(); err != nil {
		return 0, err
	}

	dx := j.width()
	slots := alignedSlots(j.Workers)

	forkJoin(j.Workers, func(t int) {
		for i := t; i < j.Samples; i += j.Workers {
			slots[t].val += j.F(float64(i)*dx + j.Lower)
		}
	})

	var sum float64
	for t := range slots {
		sum += slots[t].val
	}

	return sum * dx, nil
}
