package column

import (
	"math"

	"github.com/arloliu/chartdata/numeric"
)

// SearchMode selects how FindIndex resolves a value that is not present exactly.
type SearchMode uint8

const (
	// SearchExact returns the row holding exactly the value, or -1.
	SearchExact SearchMode = iota
	// SearchRoundDown returns the row holding the largest value <= the query, or -1.
	SearchRoundDown
	// SearchRoundUp returns the row holding the smallest value >= the query, or -1.
	SearchRoundUp
	// SearchNearest returns the row whose value is closest to the query, or -1 when empty.
	SearchNearest
)

func (m SearchMode) String() string {
	switch m {
	case SearchExact:
		return "Exact"
	case SearchRoundDown:
		return "RoundDown"
	case SearchRoundUp:
		return "RoundUp"
	case SearchNearest:
		return "Nearest"
	default:
		return "Unknown"
	}
}

// Reader is the read-only subset of Column used by searches.
type Reader[T any] interface {
	Len() int
	At(i int) T
}

// FindIndex locates value in col.
//
// When sorted is true col must be ascending and a binary search is used; otherwise the
// column is scanned linearly. Among duplicates, Exact and RoundDown return the first
// row of the matched value and RoundUp returns the last, so that [RoundDown(a),
// RoundUp(b)] covers every row with a value in [a, b]. Nearest prefers the lower row
// on ties.
//
// Returns -1 when no row satisfies the mode; never fails.
func FindIndex[T numeric.Number](col Reader[T], value T, sorted bool, mode SearchMode) int {
	if col.Len() == 0 {
		return -1
	}

	if sorted {
		return binaryFind(col, value, mode)
	}

	return linearFind(col, value, mode)
}

// lowerBound returns the first row with a value >= v.
func lowerBound[T numeric.Number](col Reader[T], v T) int {
	lo, hi := 0, col.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if col.At(mid) < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo
}

// upperBound returns the first row with a value > v.
func upperBound[T numeric.Number](col Reader[T], v T) int {
	lo, hi := 0, col.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if col.At(mid) <= v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo
}

func binaryFind[T numeric.Number](col Reader[T], value T, mode SearchMode) int {
	n := col.Len()

	switch mode {
	case SearchExact:
		lb := lowerBound(col, value)
		if lb < n && col.At(lb) == value {
			return lb
		}

		return -1

	case SearchRoundDown:
		ub := upperBound(col, value)
		if ub == 0 {
			return -1
		}

		return lowerBound(col, col.At(ub-1))

	case SearchRoundUp:
		lb := lowerBound(col, value)
		if lb == n {
			return -1
		}

		return upperBound(col, col.At(lb)) - 1

	case SearchNearest:
		lb := lowerBound(col, value)
		if lb == 0 {
			return 0
		}
		if lb == n {
			return n - 1
		}

		below := distance(col.At(lb-1), value)
		above := distance(col.At(lb), value)
		if below <= above {
			return lowerBound(col, col.At(lb-1))
		}

		return lb

	default:
		return -1
	}
}

func linearFind[T numeric.Number](col Reader[T], value T, mode SearchMode) int {
	n := col.Len()
	best := -1

	switch mode {
	case SearchExact:
		for i := range n {
			if col.At(i) == value {
				return i
			}
		}

	case SearchRoundDown:
		for i := range n {
			v := col.At(i)
			if v <= value && (best < 0 || v > col.At(best)) {
				best = i
			}
		}

	case SearchRoundUp:
		for i := range n {
			v := col.At(i)
			if v >= value && (best < 0 || v < col.At(best)) {
				best = i
			}
		}

	case SearchNearest:
		bestDist := math.Inf(1)
		for i := range n {
			d := distance(col.At(i), value)
			if d < bestDist {
				best, bestDist = i, d
			}
		}
	}

	return best
}

func distance[T numeric.Number](a, b T) float64 {
	return math.Abs(float64(a) - float64(b))
}
