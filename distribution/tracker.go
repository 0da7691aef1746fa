// Package distribution incrementally tracks whether a series' X column is sorted
// ascending and evenly spaced.
//
// Both flags start true and only ever move to false; Reset is the single way back to
// true. Every update inspects only the rows touched by a mutation (plus their immediate
// neighbors), never the whole column, which keeps streaming appends O(1) per row.
//
// The spacing between the first two observed adjacent values becomes the reference
// spacing. Later spacings must match it exactly for integer types, or within
// reference/8000 for floating types (see numeric.Ops.Tolerance).
package distribution

import (
	"iter"

	"github.com/arloliu/chartdata/numeric"
)

// Flags is a point-in-time copy of the tracked distribution.
type Flags struct {
	SortedAscending bool
	EvenlySpaced    bool
}

// List is a random-access sequence of values.
type List[T any] interface {
	Len() int
	At(i int) T
}

// Tracker maintains Flags for one X column.
//
// Append updates use the last value the tracker observed, so callers must report every
// append (including those that evict rows from a fifo column) in order. Insert and
// remove updates read neighbors from the column after it has been mutated.
//
// Tracker is not safe for concurrent use.
type Tracker[T numeric.Number] struct {
	ops        numeric.Ops[T]
	sorted     bool
	evenly     bool
	hasSpacing bool
	spacing    T
	tolerance  T
	hasLast    bool
	last       T
}

// New creates a tracker using the default numeric operations for T.
func New[T numeric.Number]() *Tracker[T] {
	return NewWithOps(numeric.For[T]())
}

// NewWithOps creates a tracker using ops for spacing comparisons.
func NewWithOps[T numeric.Number](ops numeric.Ops[T]) *Tracker[T] {
	t := &Tracker[T]{ops: ops}
	t.Reset()

	return t
}

// Reset sets both flags back to true and forgets the reference spacing.
func (t *Tracker[T]) Reset() {
	var zero T

	t.sorted = true
	t.evenly = true
	t.hasSpacing = false
	t.spacing = zero
	t.tolerance = zero
	t.hasLast = false
	t.last = zero
}

// Flags returns the current flags.
func (t *Tracker[T]) Flags() Flags {
	return Flags{SortedAscending: t.sorted, EvenlySpaced: t.evenly}
}

// IsSorted reports whether every observed adjacent pair was ascending.
func (t *Tracker[T]) IsSorted() bool { return t.sorted }

// IsEvenlySpaced reports whether every observed spacing matched the reference spacing.
func (t *Tracker[T]) IsEvenlySpaced() bool { return t.evenly }

// Spacing returns the reference spacing, if one has been observed.
func (t *Tracker[T]) Spacing() (T, bool) { return t.spacing, t.hasSpacing }

// observe checks one adjacent pair.
func (t *Tracker[T]) observe(prev, next T) {
	if !t.sorted {
		return
	}

	if next < prev {
		t.sorted = false
		t.evenly = false

		return
	}

	if !t.evenly {
		return
	}

	s := next - prev
	if !t.hasSpacing {
		t.spacing = s
		t.tolerance = t.ops.Tolerance(s)
		t.hasSpacing = true

		return
	}

	if !t.ops.SpacingEqual(s, t.spacing, t.tolerance) {
		t.evenly = false
	}
}

// OnAppendOne records one appended value.
func (t *Tracker[T]) OnAppendOne(v T) {
	if t.hasLast {
		t.observe(t.last, v)
	}

	t.last = v
	t.hasLast = true
}

// OnAppendSlice records a batch of appended values held in a contiguous slice.
func (t *Tracker[T]) OnAppendSlice(values []T) {
	n := len(values)
	if n == 0 {
		return
	}

	if t.sorted {
		prev, hasPrev := t.last, t.hasLast
		for _, v := range values {
			if hasPrev {
				t.observe(prev, v)
				if !t.sorted {
					break
				}
			}
			prev, hasPrev = v, true
		}
	}

	t.last = values[n-1]
	t.hasLast = true
}

// OnAppendList records a batch of appended values held in a random-access list.
func (t *Tracker[T]) OnAppendList(list List[T]) {
	n := list.Len()
	if n == 0 {
		return
	}

	if t.sorted {
		prev, hasPrev := t.last, t.hasLast
		for i := range n {
			v := list.At(i)
			if hasPrev {
				t.observe(prev, v)
				if !t.sorted {
					break
				}
			}
			prev, hasPrev = v, true
		}
	}

	t.last = list.At(n - 1)
	t.hasLast = true
}

// OnAppendSeq records a batch of appended values produced by an arbitrary sequence.
// The sequence is consumed exactly once.
func (t *Tracker[T]) OnAppendSeq(seq iter.Seq[T]) {
	for v := range seq {
		if t.hasLast && t.sorted {
			t.observe(t.last, v)
		}

		t.last = v
		t.hasLast = true
	}
}

// OnInsertOne records a value inserted at row index of col. col already contains it.
//
// Inserting at the end behaves like an append. Inserting at row 0 keeps EvenlySpaced
// when the new first spacing matches the reference. Inserting in the middle always
// clears EvenlySpaced and re-checks order against the two neighbors only.
func (t *Tracker[T]) OnInsertOne(col List[T], index int) {
	t.OnInsertMany(col, index, 1)
}

// OnInsertMany records count values inserted at row index of col. col already
// contains them.
func (t *Tracker[T]) OnInsertMany(col List[T], index, count int) {
	if count <= 0 {
		return
	}

	n := col.Len()

	switch {
	case index+count == n:
		for i := index; i < n; i++ {
			t.OnAppendOne(col.At(i))
		}

	case index == 0:
		// the inserted span plus the boundary pair into the previous first row
		for i := 0; i < count && t.sorted; i++ {
			t.observe(col.At(i), col.At(i+1))
		}

	default:
		t.evenly = false
		for i := index - 1; i < index+count && t.sorted; i++ {
			if col.At(i+1) < col.At(i) {
				t.sorted = false
			}
		}
	}
}

// OnRemove records the removal of one or more rows from col. col no longer contains
// them. EvenlySpaced is cleared; SortedAscending is unaffected.
func (t *Tracker[T]) OnRemove(col List[T]) {
	t.evenly = false

	if n := col.Len(); n > 0 {
		t.last = col.At(n - 1)
		t.hasLast = true
	} else {
		var zero T
		t.last = zero
		t.hasLast = false
	}
}

// Demote clears every flag that is false in f. It never sets a flag to true.
func (t *Tracker[T]) Demote(f Flags) {
	if !f.SortedAscending {
		t.sorted = false
		t.evenly = false
	}

	if !f.EvenlySpaced {
		t.evenly = false
	}
}

// Clone returns an independent copy of the tracker state.
func (t *Tracker[T]) Clone() *Tracker[T] {
	c := *t
	return &c
}
