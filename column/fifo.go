package column

import (
	"fmt"
	"iter"

	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/numeric"
	"github.com/arloliu/chartdata/ring"
)

// Fifo is a fixed-capacity column backed by a circular buffer.
type Fifo[T numeric.Number] struct {
	buf *ring.Buffer[T]
}

var _ Column[float64] = (*Fifo[float64])(nil)

// NewFifo creates an empty fifo column holding at most capacity rows.
//
// Returns errs.ErrInvalidCapacity if capacity is not positive.
func NewFifo[T numeric.Number](capacity int) (*Fifo[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidCapacity, capacity)
	}

	return newFifo[T](capacity), nil
}

func newFifo[T numeric.Number](capacity int) *Fifo[T] {
	return &Fifo[T]{buf: ring.New[T](capacity)}
}

// Accessors delegate to the ring buffer; At and Set panic outside [0, Len).
func (c *Fifo[T]) Len() int        { return c.buf.Len() }
func (c *Fifo[T]) HasValues() bool { return c.buf.Len() > 0 }
func (c *Fifo[T]) IsFifo() bool    { return true }
func (c *Fifo[T]) Capacity() int   { return c.buf.Size() }
func (c *Fifo[T]) At(i int) T      { return c.buf.At(i) }
func (c *Fifo[T]) Set(i int, v T)  { c.buf.Set(i, v) }
func (c *Fifo[T]) Add(v T)         { c.buf.Append(v) }
func (c *Fifo[T]) Minimum() T      { return c.buf.Minimum() }
func (c *Fifo[T]) Maximum() T      { return c.buf.Maximum() }
func (c *Fifo[T]) Values() []T     { return c.buf.Values() }

// AddRange appends values; when len(values) >= Capacity only the last Capacity remain.
func (c *Fifo[T]) AddRange(values []T) {
	c.buf.AddRange(values)
}

// AddList appends a random-access list; only the rows that survive eviction are read.
func (c *Fifo[T]) AddList(list List[T]) {
	c.buf.AddList(list)
}

// AddSeq appends an arbitrary sequence.
func (c *Fifo[T]) AddSeq(seq iter.Seq[T]) {
	c.buf.AddSeq(seq)
}

// Insert always fails with errs.ErrNotSupportedOnFifo.
func (c *Fifo[T]) Insert(index int, v T) error {
	return c.buf.Insert(index, v)
}

// InsertRange always fails with errs.ErrNotSupportedOnFifo.
func (c *Fifo[T]) InsertRange(index int, values []T) error {
	return c.buf.InsertRange(index, values)
}

// RemoveAt removes row index in place; later rows keep their order.
func (c *Fifo[T]) RemoveAt(index int) error {
	if index < 0 || index >= c.buf.Len() {
		return fmt.Errorf("%w: remove at %d, length %d", errs.ErrIndexOutOfRange, index, c.buf.Len())
	}

	c.buf.RemoveAt(index)

	return nil
}

// RemoveRange always fails with errs.ErrNotSupportedOnFifo.
func (c *Fifo[T]) RemoveRange(index, count int) error {
	return c.buf.RemoveRange(index, count)
}

// Unchecked exposes the live prefix of the ring; rows wrap at len(Data).
func (c *Fifo[T]) Unchecked() View[T] {
	items, first := c.buf.Raw()

	return View[T]{
		Data:  items,
		First: first,
		Count: len(items),
	}
}

// All iterates rows oldest first.
func (c *Fifo[T]) All() iter.Seq2[int, T] {
	return c.buf.All()
}

// Clone returns a deep copy with the same capacity.
func (c *Fifo[T]) Clone() Column[T] {
	return &Fifo[T]{buf: c.buf.Clone()}
}

// Clear removes every row; the capacity is kept.
func (c *Fifo[T]) Clear() {
	c.buf.Clear()
}
