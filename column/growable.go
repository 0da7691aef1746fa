package column

import (
	"fmt"
	"iter"
	"slices"

	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/numeric"
)

// Growable is a resizable column backed by a Go slice.
type Growable[T numeric.Number] struct {
	values []T
	ops    numeric.Ops[T]
}

var _ Column[float64] = (*Growable[float64])(nil)

// NewGrowable creates an empty growable column with room for capacityHint rows.
func NewGrowable[T numeric.Number](capacityHint int) *Growable[T] {
	return &Growable[T]{
		values: make([]T, 0, max(capacityHint, 0)),
		ops:    numeric.For[T](),
	}
}

// Len, HasValues, IsFifo and Capacity implement Column; a growable column has no
// fixed capacity.
func (c *Growable[T]) Len() int        { return len(c.values) }
func (c *Growable[T]) HasValues() bool { return len(c.values) > 0 }
func (c *Growable[T]) IsFifo() bool    { return false }
func (c *Growable[T]) Capacity() int   { return 0 }

// At returns row i. It panics with errs.ErrIndexOutOfRange outside [0, Len).
func (c *Growable[T]) At(i int) T {
	c.check(i)
	return c.values[i]
}

// Set overwrites row i. It panics like At.
func (c *Growable[T]) Set(i int, v T) {
	c.check(i)
	c.values[i] = v
}

func (c *Growable[T]) check(i int) {
	if i < 0 || i >= len(c.values) {
		panic(fmt.Errorf("column: %w: index %d, length %d", errs.ErrIndexOutOfRange, i, len(c.values)))
	}
}

// Add appends v.
func (c *Growable[T]) Add(v T) {
	c.values = append(c.values, v)
}

// AddRange appends values in order.
func (c *Growable[T]) AddRange(values []T) {
	c.values = append(c.values, values...)
}

// AddList appends a random-access list, growing the slice once.
func (c *Growable[T]) AddList(list List[T]) {
	n := list.Len()
	c.values = slices.Grow(c.values, n)
	for i := range n {
		c.values = append(c.values, list.At(i))
	}
}

// AddSeq appends every value of seq.
func (c *Growable[T]) AddSeq(seq iter.Seq[T]) {
	c.values = slices.AppendSeq(c.values, seq)
}

// Insert inserts v before row index; index == Len() appends.
func (c *Growable[T]) Insert(index int, v T) error {
	if index < 0 || index > len(c.values) {
		return fmt.Errorf("%w: insert at %d, length %d", errs.ErrIndexOutOfRange, index, len(c.values))
	}

	c.values = slices.Insert(c.values, index, v)

	return nil
}

// InsertRange inserts values before row index.
func (c *Growable[T]) InsertRange(index int, values []T) error {
	if index < 0 || index > len(c.values) {
		return fmt.Errorf("%w: insert at %d, length %d", errs.ErrIndexOutOfRange, index, len(c.values))
	}

	c.values = slices.Insert(c.values, index, values...)

	return nil
}

// RemoveAt removes row index, shifting later rows down.
func (c *Growable[T]) RemoveAt(index int) error {
	if index < 0 || index >= len(c.values) {
		return fmt.Errorf("%w: remove at %d, length %d", errs.ErrIndexOutOfRange, index, len(c.values))
	}

	c.values = slices.Delete(c.values, index, index+1)

	return nil
}

// RemoveRange removes count rows starting at index.
func (c *Growable[T]) RemoveRange(index, count int) error {
	if index < 0 || count < 0 || index+count > len(c.values) {
		return fmt.Errorf("%w: remove %d rows at %d, length %d", errs.ErrIndexOutOfRange, count, index, len(c.values))
	}

	c.values = slices.Delete(c.values, index, index+count)

	return nil
}

// Minimum returns the smallest value, ignoring NaN, or zero when empty.
func (c *Growable[T]) Minimum() T {
	if len(c.values) == 0 {
		return c.ops.Zero()
	}

	minimum := c.values[0]
	for _, v := range c.values[1:] {
		minimum = c.ops.Min(minimum, v)
	}

	return minimum
}

// Maximum returns the largest value, ignoring NaN, or zero when empty.
func (c *Growable[T]) Maximum() T {
	if len(c.values) == 0 {
		return c.ops.Zero()
	}

	maximum := c.values[0]
	for _, v := range c.values[1:] {
		maximum = c.ops.Max(maximum, v)
	}

	return maximum
}

// Unchecked exposes the backing slice including spare capacity.
func (c *Growable[T]) Unchecked() View[T] {
	return View[T]{
		Data:  c.values[:cap(c.values)],
		First: 0,
		Count: len(c.values),
	}
}

// Values returns a copy of the rows.
func (c *Growable[T]) Values() []T {
	return slices.Clone(c.values)
}

// All iterates rows in order.
func (c *Growable[T]) All() iter.Seq2[int, T] {
	return slices.All(c.values)
}

// Clone returns a deep copy with the same capacity.
func (c *Growable[T]) Clone() Column[T] {
	values := make([]T, len(c.values), cap(c.values))
	copy(values, c.values)

	return &Growable[T]{values: values, ops: c.ops}
}

// Clear removes every row and keeps the backing array.
func (c *Growable[T]) Clear() {
	clear(c.values)
	c.values = c.values[:0]
}
