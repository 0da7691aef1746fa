// Package ring implements the fixed-capacity circular buffer that backs fifo columns.
//
// A Buffer keeps its items in a physical array of length Size. Logical index 0 is the
// oldest live item; once the buffer is full every append overwrites the oldest item
// and advances the ring.
//
// # Index Resolution
//
// The buffer tracks StartIndex, the physical slot of the most recently written item
// once the ring has started rotating, or -1 while it is still filling linearly. A
// logical index i resolves to the physical slot
//
//	(StartIndex + 1 + i) mod UsedSize
//
// Because items are only ever overwritten in place, all live items are held in the
// physical prefix [0, UsedSize), which lets Minimum and Maximum scan that prefix directly.
//
// # Structural Edits
//
// Only append, overwrite and point removal are supported. Insert, InsertRange and
// RemoveRange return errs.ErrNotSupportedOnFifo.
//
// # Thread Safety
//
// Buffer is not safe for concurrent use; the owning series serializes access.
package ring

import (
	"fmt"
	"iter"

	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/numeric"
)

// List is a random-access sequence accepted by AddList.
type List[T any] interface {
	Len() int
	At(i int) T
}

// Buffer is a fixed-capacity circular buffer.
type Buffer[T numeric.Number] struct {
	items []T
	start int // physical slot of the newest item once rotating, -1 otherwise
	used  int
	ops   numeric.Ops[T]
}

// New creates an empty buffer holding at most size items.
//
// Panics if size is not positive; capacities are validated by callers.
func New[T numeric.Number](size int) *Buffer[T] {
	if size <= 0 {
		panic(fmt.Sprintf("ring: %v: %d", errs.ErrInvalidCapacity, size))
	}

	return &Buffer[T]{
		items: make([]T, size),
		start: -1,
		ops:   numeric.For[T](),
	}
}

// Size returns the physical capacity.
func (b *Buffer[T]) Size() int { return len(b.items) }

// Len returns the number of live items (UsedSize).
func (b *Buffer[T]) Len() int { return b.used }

// StartIndex returns the physical slot of the newest item, or -1 while the buffer
// has not started rotating.
func (b *Buffer[T]) StartIndex() int { return b.start }

// IsFull reports whether the buffer holds Size items.
func (b *Buffer[T]) IsFull() bool { return b.used == len(b.items) }

// Append writes item at the next slot, overwriting the oldest item when full.
func (b *Buffer[T]) Append(item T) T {
	idx := b.nextIndex()
	b.items[idx] = item

	if b.used < len(b.items) {
		b.used++
	}

	return item
}

// nextIndex returns the physical slot for the next write. Once rotating it advances
// StartIndex; while filling it returns UsedSize.
func (b *Buffer[T]) nextIndex() int {
	if b.start >= 0 || b.used == len(b.items) {
		b.start = (b.start + 1) % b.used

		return b.start
	}

	return b.used
}

// AddRange appends items in order.
//
// If len(items) >= Size the buffer is replaced by the last Size items and the ring
// restarts from physical slot 0. Otherwise items are copied in one contiguous block
// when they fit before the end of the physical array, or in two blocks wrapping to
// the front.
func (b *Buffer[T]) AddRange(items []T) {
	n := len(items)
	if n == 0 {
		return
	}

	size := len(b.items)
	if n >= size {
		copy(b.items, items[n-size:])
		b.used = size
		b.start = -1

		return
	}

	if b.used < size {
		// still filling: start is -1 and the write position is used
		free := size - b.used
		if n <= free {
			copy(b.items[b.used:], items)
			b.used += n

			return
		}

		copy(b.items[b.used:], items[:free])
		rest := n - free
		copy(b.items, items[free:])
		b.used = size
		b.start = rest - 1

		return
	}

	pos := (b.start + 1) % size
	tail := size - pos
	if n <= tail {
		copy(b.items[pos:], items)
		b.start = pos + n - 1

		return
	}

	copy(b.items[pos:], items[:tail])
	copy(b.items, items[tail:])
	b.start = n - tail - 1
}

// AddList appends the items of a random-access list.
func (b *Buffer[T]) AddList(list List[T]) {
	n := list.Len()
	if n == 0 {
		return
	}

	// only the tail that survives the overwrite needs to be materialized
	from := 0
	if n > len(b.items) {
		from = n - len(b.items)
	}

	tmp := make([]T, n-from)
	for i := range tmp {
		tmp[i] = list.At(from + i)
	}

	b.AddRange(tmp)
}

// AddSeq appends the items of an arbitrary sequence.
func (b *Buffer[T]) AddSeq(seq iter.Seq[T]) {
	var tmp []T
	for v := range seq {
		tmp = append(tmp, v)
	}

	b.AddRange(tmp)
}

// At returns the item at logical index i (0 = oldest).
//
// Panics with an error wrapping errs.ErrIndexOutOfRange if i is not in [0, Len).
func (b *Buffer[T]) At(i int) T {
	return b.items[b.physical(i)]
}

// Set overwrites the item at logical index i.
//
// Panics with an error wrapping errs.ErrIndexOutOfRange if i is not in [0, Len).
func (b *Buffer[T]) Set(i int, v T) {
	b.items[b.physical(i)] = v
}

func (b *Buffer[T]) physical(i int) int {
	if i < 0 || i >= b.used {
		panic(fmt.Errorf("ring: %w: index %d, length %d", errs.ErrIndexOutOfRange, i, b.used))
	}

	return (b.start + 1 + i) % b.used
}

// logical maps a physical slot back to its logical index.
func (b *Buffer[T]) logical(p int) int {
	return (p - (b.start + 1) + b.used) % b.used
}

// IndexOf returns the logical index of the oldest item equal to item, or -1.
func (b *Buffer[T]) IndexOf(item T) int {
	best := -1
	for p := range b.used {
		if b.items[p] != item {
			continue
		}

		l := b.logical(p)
		if best < 0 || l < best {
			best = l
		}
	}

	return best
}

// Remove removes the oldest item equal to item and reports whether one was found.
func (b *Buffer[T]) Remove(item T) bool {
	idx := b.IndexOf(item)
	if idx < 0 {
		return false
	}

	b.RemoveAt(idx)

	return true
}

// RemoveAt removes the item at logical index i, shifting newer items down.
// The ring is linearized so the buffer stops rotating until it fills again.
//
// Panics with an error wrapping errs.ErrIndexOutOfRange if i is not in [0, Len).
func (b *Buffer[T]) RemoveAt(i int) {
	if i < 0 || i >= b.used {
		panic(fmt.Errorf("ring: %w: index %d, length %d", errs.ErrIndexOutOfRange, i, b.used))
	}

	values := b.Values()
	copy(values[i:], values[i+1:])
	copy(b.items, values[:b.used-1])

	var zero T
	b.items[b.used-1] = zero
	b.used--
	b.start = -1
}

// Insert is not supported on a circular buffer.
func (b *Buffer[T]) Insert(int, T) error {
	return fmt.Errorf("%w: insert", errs.ErrNotSupportedOnFifo)
}

// InsertRange is not supported on a circular buffer.
func (b *Buffer[T]) InsertRange(int, []T) error {
	return fmt.Errorf("%w: insert range", errs.ErrNotSupportedOnFifo)
}

// RemoveRange is not supported on a circular buffer.
func (b *Buffer[T]) RemoveRange(int, int) error {
	return fmt.Errorf("%w: remove range", errs.ErrNotSupportedOnFifo)
}

// Minimum returns the smallest non-NaN item, or zero when empty.
func (b *Buffer[T]) Minimum() T {
	if b.used == 0 {
		return b.ops.Zero()
	}

	minimum := b.items[0]
	for _, v := range b.items[1:b.used] {
		minimum = b.ops.Min(minimum, v)
	}

	return minimum
}

// Maximum returns the largest non-NaN item, or zero when empty.
func (b *Buffer[T]) Maximum() T {
	if b.used == 0 {
		return b.ops.Zero()
	}

	maximum := b.items[0]
	for _, v := range b.items[1:b.used] {
		maximum = b.ops.Max(maximum, v)
	}

	return maximum
}

// All returns an iterator over logical index and item, oldest first.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if b.used == 0 {
			return
		}

		p := (b.start + 1) % b.used
		for i := range b.used {
			if !yield(i, b.items[p]) {
				return
			}

			p++
			if p == b.used {
				p = 0
			}
		}
	}
}

// Values returns a copy of the live items in logical order.
func (b *Buffer[T]) Values() []T {
	out := make([]T, b.used)
	if b.used == 0 {
		return out
	}

	first := (b.start + 1) % b.used
	n := copy(out, b.items[first:b.used])
	copy(out[n:], b.items[:first])

	return out
}

// Raw exposes the physical backing array trimmed to the live prefix together with the
// physical slot of logical index 0.
//
// The returned slice aliases the buffer: callers must not modify it and must not keep
// it across a later mutation.
func (b *Buffer[T]) Raw() (items []T, first int) {
	if b.used == 0 {
		return b.items[:0], 0
	}

	return b.items[:b.used], (b.start + 1) % b.used
}

// Clear drops every item while keeping the backing array.
func (b *Buffer[T]) Clear() {
	clear(b.items)
	b.used = 0
	b.start = -1
}

// Clone returns an independent copy with its own backing array.
func (b *Buffer[T]) Clone() *Buffer[T] {
	items := make([]T, len(b.items))
	copy(items, b.items)

	return &Buffer[T]{
		items: items,
		start: b.start,
		used:  b.used,
		ops:   b.ops,
	}
}
