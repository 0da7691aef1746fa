package series

import (
	"sync"

	"github.com/arloliu/chartdata/numeric"
)

// coalescer buffers single-row appends until the owning series flushes them as one
// batch. Its lock only guards the pending rows, so appends never wait on the series
// lock.
//
// Lock order: a series holding its own lock may take the coalescer lock, never the
// reverse.
type coalescer[TX, TY numeric.Number] struct {
	mu     sync.Mutex
	stride int
	xs     []TX
	ys     []TY // row-major, stride values per row
}

func newCoalescer[TX, TY numeric.Number](stride int) *coalescer[TX, TY] {
	return &coalescer[TX, TY]{stride: stride}
}

// add buffers one row. len(ys) must equal the stride.
func (c *coalescer[TX, TY]) add(x TX, ys []TY) {
	c.mu.Lock()
	c.xs = append(c.xs, x)
	c.ys = append(c.ys, ys...)
	c.mu.Unlock()
}

// take swaps the pending rows for an empty buffer and returns them.
func (c *coalescer[TX, TY]) take() (batch[TX, TY], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.xs) == 0 {
		return batch[TX, TY]{}, false
	}

	b := batch[TX, TY]{xs: c.xs, ys: c.ys, stride: c.stride}
	c.xs = make([]TX, 0, len(b.xs))
	c.ys = make([]TY, 0, len(b.ys))

	return b, true
}

// discard drops the pending rows without applying them and returns how many there were.
func (c *coalescer[TX, TY]) discard() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.xs)
	clear(c.xs)
	clear(c.ys)
	c.xs = c.xs[:0]
	c.ys = c.ys[:0]

	return n
}

func (c *coalescer[TX, TY]) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.xs)
}

// batch is a swapped-out set of pending rows.
type batch[TX, TY numeric.Number] struct {
	xs     []TX
	ys     []TY
	stride int
}

func (b batch[TX, TY]) len() int { return len(b.xs) }

// column returns the values of Y column c as a random-access list.
func (b batch[TX, TY]) column(c int) strided[TY] {
	return strided[TY]{data: b.ys, stride: b.stride, offset: c, n: len(b.xs)}
}

// strided reads every stride-th value of data starting at offset.
type strided[T any] struct {
	data   []T
	stride int
	offset int
	n      int
}

func (s strided[T]) Len() int   { return s.n }
func (s strided[T]) At(i int) T { return s.data[i*s.stride+s.offset] }
