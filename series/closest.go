package series

import (
	"math"
	"time"

	"github.com/arloliu/chartdata/column"
)

// FindClosestPoint returns the row nearest to the query point (x, y), or -1.
//
// Distances are measured as hypot((xi-x)*xyScale, yi-y), so xyScale converts X units
// into Y units (typically the ratio of the axes' pixel densities). Only rows within
// radius are considered; a non-positive or NaN radius means unbounded, and a
// non-positive or NaN xyScale is treated as 1. On a sorted series the candidate rows
// are narrowed by binary search to the X window [x - radius/xyScale, x + radius/xyScale].
// Rows whose primary Y value is NaN are skipped.
//
// Returns -1 when the series is empty, x or y is NaN, or no row lies within radius.
func (s *Series[TX, TY]) FindClosestPoint(x, y, xyScale, radius float64) int {
	start := time.Now()
	fx := s.lock()
	idx := s.closestPointLocked(x, y, xyScale, radius)
	s.unlock(fx)

	s.cfg.metrics.RecordQuery("closest_point", time.Since(start))

	return idx
}

// FindClosestLine returns the row i whose segment (i, i+1) passes closest to the
// query point (x, y), or -1. Distances are perpendicular distances in the same scaled
// space as FindClosestPoint. A series with a single row is treated as one point.
//
// Returns -1 when the series is empty, x or y is NaN, or no segment lies within radius.
func (s *Series[TX, TY]) FindClosestLine(x, y, xyScale, radius float64) int {
	start := time.Now()
	fx := s.lock()
	idx := s.closestLineLocked(x, y, xyScale, radius)
	s.unlock(fx)

	s.cfg.metrics.RecordQuery("closest_line", time.Since(start))

	return idx
}

func normalizeSearch(xyScale, radius float64) (float64, float64) {
	if !(xyScale > 0) || math.IsInf(xyScale, 0) {
		xyScale = 1
	}
	if !(radius > 0) {
		radius = math.Inf(1)
	}

	return xyScale, radius
}

// candidatesLocked returns the rows whose X lies within window of x on a sorted
// series, widened by one row on both sides; every row otherwise.
func (s *Series[TX, TY]) candidatesLocked(x, window float64) IndexRange {
	n := s.x.Len()
	all := IndexRange{Min: 0, Max: n - 1}
	if !s.tracker.IsSorted() || math.IsInf(window, 1) {
		return all
	}

	first := s.xops.ToFloat64(s.x.At(0))
	last := s.xops.ToFloat64(s.x.At(n - 1))
	lo, hi := x-window, x+window

	// bounds outside the column are resolved without converting them to TX, which
	// could overflow an integer type
	var out IndexRange
	switch {
	case lo <= first:
		out.Min = 0
	case lo > last:
		out.Min = n - 1
	default:
		out.Min = max(column.FindIndex[TX](s.x, s.toX(lo, math.Floor), true, column.SearchRoundDown), 0)
	}

	switch {
	case hi >= last:
		out.Max = n - 1
	case hi < first:
		out.Max = 0
	default:
		out.Max = column.FindIndex[TX](s.x, s.toX(hi, math.Ceil), true, column.SearchRoundUp)
		if out.Max < 0 {
			out.Max = n - 1
		}
	}

	out.Min = max(out.Min-1, 0)
	out.Max = min(out.Max+1, n-1)

	return out
}

// toX converts f to TX, rounding with round for integer types.
func (s *Series[TX, TY]) toX(f float64, round func(float64) float64) TX {
	if s.xops.Floating() {
		return s.xops.FromFloat64(f)
	}

	return s.xops.FromFloat64(round(f))
}

func (s *Series[TX, TY]) closestPointLocked(x, y, xyScale, radius float64) int {
	n := s.x.Len()
	if n == 0 || math.IsNaN(x) || math.IsNaN(y) {
		return -1
	}

	xyScale, radius = normalizeSearch(xyScale, radius)
	rows := s.candidatesLocked(x, radius/xyScale)

	xs := s.x.Unchecked()
	ys := s.ys[s.layout.y].Unchecked()

	best, bestDist := -1, radius
	for i := rows.Min; i <= rows.Max; i++ {
		yi := s.yops.ToFloat64(ys.At(i))
		if math.IsNaN(yi) {
			continue
		}

		d := math.Hypot((s.xops.ToFloat64(xs.At(i))-x)*xyScale, yi-y)
		if d < bestDist || (best < 0 && d <= bestDist) {
			best, bestDist = i, d
		}
	}

	return best
}

func (s *Series[TX, TY]) closestLineLocked(x, y, xyScale, radius float64) int {
	n := s.x.Len()
	if n == 0 || math.IsNaN(x) || math.IsNaN(y) {
		return -1
	}
	if n == 1 {
		return s.closestPointLocked(x, y, xyScale, radius)
	}

	xyScale, radius = normalizeSearch(xyScale, radius)
	rows := s.candidatesLocked(x, radius/xyScale)

	xs := s.x.Unchecked()
	ys := s.ys[s.layout.y].Unchecked()

	// coordinates relative to the query point, X scaled into Y units
	point := func(i int) (float64, float64) {
		return (s.xops.ToFloat64(xs.At(i)) - x) * xyScale, s.yops.ToFloat64(ys.At(i)) - y
	}

	best, bestDist := -1, radius
	for i := rows.Min; i < rows.Max; i++ {
		ax, ay := point(i)
		bx, by := point(i + 1)
		if math.IsNaN(ay) || math.IsNaN(by) {
			continue
		}

		d := segmentDistance(ax, ay, bx, by)
		if d < bestDist || (best < 0 && d <= bestDist) {
			best, bestDist = i, d
		}
	}

	return best
}

// segmentDistance returns the distance from the origin to the segment (a, b).
func segmentDistance(ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return math.Hypot(ax, ay)
	}

	t := -(ax*dx + ay*dy) / lengthSq
	t = min(max(t, 0), 1)

	return math.Hypot(ax+t*dx, ay+t*dy)
}
