package series

import (
	"math"

	"github.com/arloliu/chartdata/numeric"
)

// IndexRange is an inclusive interval of row indices.
type IndexRange struct {
	Min int
	Max int
}

// UndefinedIndexRange is returned by queries on an empty series.
var UndefinedIndexRange = IndexRange{Min: -1, Max: -1}

// IsDefined reports whether r holds at least one row.
func (r IndexRange) IsDefined() bool {
	return r.Min >= 0 && r.Max >= r.Min
}

// Count returns the number of rows in r.
func (r IndexRange) Count() int {
	if !r.IsDefined() {
		return 0
	}

	return r.Max - r.Min + 1
}

// clamp restricts r to [0, count-1]. An inverted interval, one that ends before row 0
// or an empty series yields UndefinedIndexRange.
func (r IndexRange) clamp(count int) IndexRange {
	if count == 0 || r.Max < r.Min || r.Max < 0 {
		return UndefinedIndexRange
	}

	lo := min(max(r.Min, 0), count-1)
	hi := min(max(r.Max, 0), count-1)
	if hi < lo {
		return UndefinedIndexRange
	}

	return IndexRange{Min: lo, Max: hi}
}

// Range is an inclusive value interval on a column.
type Range[T numeric.Number] struct {
	Min T
	Max T
}

// normalized returns r with Min <= Max.
func (r Range[T]) normalized() Range[T] {
	if r.Max < r.Min {
		return Range[T]{Min: r.Max, Max: r.Min}
	}

	return r
}

// DoubleRange is a value interval in float64, used for Y ranges that span several
// columns.
type DoubleRange struct {
	Min float64
	Max float64
}

// UndefinedDoubleRange is the sentinel for an empty Y range: [+Inf, -Inf].
var UndefinedDoubleRange = DoubleRange{Min: math.Inf(1), Max: math.Inf(-1)}

// IsDefined reports whether r was widened by at least one value.
func (r DoubleRange) IsDefined() bool {
	return r.Min <= r.Max
}

// include widens r to contain v.
func (r *DoubleRange) include(v float64) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}
