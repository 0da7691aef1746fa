package pool

import "sync"

// Scratch slices for snapshot encoding and decoding. A column is widened to int64 or
// float64 before encoding and decoded into one before it is narrowed back.
var (
	int64Slices   sync.Pool
	float64Slices sync.Pool
)

// GetInt64Slice returns a scratch slice of length size and a release func that hands
// it back to the pool. The contents are not zeroed.
//
//	xs, release := pool.GetInt64Slice(rows)
//	defer release()
func GetInt64Slice(size int) ([]int64, func()) {
	return getSlice[int64](&int64Slices, size)
}

// GetFloat64Slice is GetInt64Slice for float64.
func GetFloat64Slice(size int) ([]float64, func()) {
	return getSlice[float64](&float64Slices, size)
}

func getSlice[T any](p *sync.Pool, size int) ([]T, func()) {
	ptr, ok := p.Get().(*[]T)
	if !ok {
		ptr = new([]T)
	}

	if cap(*ptr) < size {
		*ptr = make([]T, size)
	} else {
		*ptr = (*ptr)[:size]
	}

	return *ptr, func() { p.Put(ptr) }
}
