// Package column provides the row-indexed value sequences owned by a data series.
//
// Two backings share the Column contract:
//
//   - Growable: an append-optimized resizable slice that also supports insertion and
//     removal at arbitrary rows (O(n) shift).
//   - Fifo: a fixed-capacity circular buffer (see package ring). Appends beyond the
//     capacity overwrite the oldest row. Insert, InsertRange and RemoveRange fail with
//     errs.ErrNotSupportedOnFifo; single-row RemoveAt is supported.
//
// # Unchecked Views
//
// Unchecked returns a View over the raw backing array so that bulk readers (resamplers,
// renderers) can read without copying. The view's Data may be longer than Count;
// readers must honor Count. A view aliases the column: it must not be modified and
// must not be retained across a later mutation of the column.
package column

import (
	"iter"

	"github.com/arloliu/chartdata/numeric"
	"github.com/arloliu/chartdata/ring"
)

// List is a random-access sequence accepted by AddList.
type List[T any] = ring.List[T]

// Column is an ordered, row-indexed sequence of T.
//
// At and Set panic with an error wrapping errs.ErrIndexOutOfRange for rows outside
// [0, Len). Structural edits report invalid rows as errors instead.
type Column[T numeric.Number] interface {
	// Len returns the number of rows.
	Len() int
	// HasValues reports whether Len() > 0.
	HasValues() bool
	// At returns the value at row i.
	At(i int) T
	// Set overwrites the value at row i.
	Set(i int, v T)
	// Add appends one value.
	Add(v T)
	// AddRange appends values in order.
	AddRange(values []T)
	// AddList appends a random-access list in order without copying it first.
	AddList(list List[T])
	// AddSeq appends an arbitrary sequence in order.
	AddSeq(seq iter.Seq[T])
	// Insert inserts v before row index; index == Len() appends.
	Insert(index int, v T) error
	// InsertRange inserts values before row index; index == Len() appends.
	InsertRange(index int, values []T) error
	// RemoveAt removes row index.
	RemoveAt(index int) error
	// RemoveRange removes count rows starting at index.
	RemoveRange(index, count int) error
	// Minimum returns the smallest non-NaN value, or zero when empty.
	Minimum() T
	// Maximum returns the largest non-NaN value, or zero when empty.
	Maximum() T
	// Unchecked returns a zero-copy view over the backing array.
	Unchecked() View[T]
	// Values returns a copy of all rows in order.
	Values() []T
	// All iterates rows in order.
	All() iter.Seq2[int, T]
	// Clone returns an independent deep copy with the same backing strategy.
	Clone() Column[T]
	// Clear removes every row.
	Clear()
	// IsFifo reports whether the column is backed by a circular buffer.
	IsFifo() bool
	// Capacity returns the fifo capacity, or 0 for a growable column.
	Capacity() int
}

// New returns a fifo column when fifoCapacity > 0 and a growable column otherwise.
func New[T numeric.Number](fifoCapacity int) Column[T] {
	if fifoCapacity > 0 {
		return newFifo[T](fifoCapacity)
	}

	return NewGrowable[T](0)
}
