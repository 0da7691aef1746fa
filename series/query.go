package series

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/chartdata/column"
	"github.com/arloliu/chartdata/errs"
)

// FindIndex returns the row of x according to mode, or -1. A sorted series is
// searched in O(log n), an unsorted one linearly.
func (s *Series[TX, TY]) FindIndex(x TX, mode column.SearchMode) int {
	fx := s.lock()
	defer s.unlock(fx)

	return column.FindIndex[TX](s.x, x, s.tracker.IsSorted(), mode)
}

// GetIndicesRange returns the rows covering the X interval r, widened outward to the
// nearest existing rows (RoundDown for r.Min, RoundUp for r.Max).
//
// An unsorted series cannot be narrowed and returns every row. An empty series returns
// UndefinedIndexRange.
func (s *Series[TX, TY]) GetIndicesRange(r Range[TX]) IndexRange {
	return s.GetIndicesRangeMode(r, column.SearchRoundDown, column.SearchRoundUp)
}

// GetIndicesRangeMode is GetIndicesRange with explicit search modes for both bounds.
//
// When the lower bound finds no row, RoundUp means the interval lies above every row
// and yields UndefinedIndexRange; any other mode falls back to row 0. The upper bound
// mirrors this with RoundDown and the last row.
func (s *Series[TX, TY]) GetIndicesRangeMode(r Range[TX], lowMode, highMode column.SearchMode) IndexRange {
	start := time.Now()
	fx := s.lock()
	out := s.indicesRangeLocked(r, lowMode, highMode)
	s.unlock(fx)

	s.cfg.metrics.RecordQuery("indices_range", time.Since(start))

	return out
}

func (s *Series[TX, TY]) indicesRangeLocked(r Range[TX], lowMode, highMode column.SearchMode) IndexRange {
	n := s.x.Len()
	if n == 0 {
		return UndefinedIndexRange
	}
	if !s.tracker.IsSorted() {
		return IndexRange{Min: 0, Max: n - 1}
	}

	r = r.normalized()

	lo := column.FindIndex[TX](s.x, r.Min, true, lowMode)
	if lo < 0 {
		if lowMode == column.SearchRoundUp {
			return UndefinedIndexRange
		}
		lo = 0
	}

	hi := column.FindIndex[TX](s.x, r.Max, true, highMode)
	if hi < 0 {
		if highMode == column.SearchRoundDown {
			return UndefinedIndexRange
		}
		hi = n - 1
	}

	return IndexRange{Min: lo, Max: hi}.clamp(n)
}

// GetWindowedYRange returns the min/max over the rows of rows, across the columns
// that bound the series type (High/Low for OHLC, Minimum/Maximum for Box, ...).
// NaN values are skipped, and with positiveOnly so are values <= 0.
//
// Returns UndefinedDoubleRange for an undefined or empty interval.
func (s *Series[TX, TY]) GetWindowedYRange(rows IndexRange, positiveOnly bool) DoubleRange {
	start := time.Now()
	fx := s.lock()
	out := s.windowedYRangeLocked(rows, positiveOnly)
	s.unlock(fx)

	s.cfg.metrics.RecordQuery("windowed_y_range", time.Since(start))

	return out
}

// GetWindowedYRangeByX is GetWindowedYRange over the rows covering the X interval r.
func (s *Series[TX, TY]) GetWindowedYRangeByX(r Range[TX], positiveOnly bool) DoubleRange {
	start := time.Now()
	fx := s.lock()
	rows := s.indicesRangeLocked(r, column.SearchRoundDown, column.SearchRoundUp)
	out := s.windowedYRangeLocked(rows, positiveOnly)
	s.unlock(fx)

	s.cfg.metrics.RecordQuery("windowed_y_range", time.Since(start))

	return out
}

func (s *Series[TX, TY]) windowedYRangeLocked(rows IndexRange, positiveOnly bool) DoubleRange {
	out := UndefinedDoubleRange
	rows = rows.clamp(s.x.Len())
	if !rows.IsDefined() {
		return out
	}

	for _, c := range s.layout.ranged {
		view := s.ys[c].Unchecked()
		for i := rows.Min; i <= rows.Max; i++ {
			v := s.yops.ToFloat64(view.At(i))
			if math.IsNaN(v) || (positiveOnly && v <= 0) {
				continue
			}
			out.include(v)
		}
	}

	return out
}

// XRange returns the smallest and largest X values. ok is false for an empty series.
func (s *Series[TX, TY]) XRange() (r Range[TX], ok bool) {
	fx := s.lock()
	defer s.unlock(fx)

	n := s.x.Len()
	if n == 0 {
		return Range[TX]{}, false
	}

	if s.tracker.IsSorted() {
		return Range[TX]{Min: s.x.At(0), Max: s.x.At(n - 1)}, true
	}

	return Range[TX]{Min: s.x.Minimum(), Max: s.x.Maximum()}, true
}

// YRange is GetWindowedYRange over every row.
func (s *Series[TX, TY]) YRange(positiveOnly bool) DoubleRange {
	fx := s.lock()
	defer s.unlock(fx)

	return s.windowedYRangeLocked(IndexRange{Min: 0, Max: s.x.Len() - 1}, positiveOnly)
}

// LatestX returns the X value of the last row. ok is false for an empty series.
func (s *Series[TX, TY]) LatestX() (x TX, ok bool) {
	fx := s.lock()
	defer s.unlock(fx)

	n := s.x.Len()
	if n == 0 {
		return x, false
	}

	return s.x.At(n - 1), true
}

// XValues returns a copy of the X column in row order.
func (s *Series[TX, TY]) XValues() []TX {
	fx := s.lock()
	defer s.unlock(fx)

	return s.x.Values()
}

// YValues returns a copy of Y-role column col in row order.
//
// Returns errs.ErrInvalidColumnIndex if the series type has no such column.
func (s *Series[TX, TY]) YValues(col int) ([]TY, error) {
	fx := s.lock()
	defer s.unlock(fx)

	if col < 0 || col >= len(s.ys) {
		return nil, fmt.Errorf("%w: %d for %s series", errs.ErrInvalidColumnIndex, col, s.kind)
	}

	return s.ys[col].Values(), nil
}

// ValuesOf returns a copy of the column holding role.
//
// Returns errs.ErrInvalidColumnIndex if the series type has no such column.
func (s *Series[TX, TY]) ValuesOf(role ColumnRole) ([]TY, error) {
	col := s.layout.indexOf(role)
	if col < 0 {
		return nil, fmt.Errorf("%w: %s for %s series", errs.ErrInvalidColumnIndex, role, s.kind)
	}

	return s.YValues(col)
}

// RowAt returns the role-aware values of row index, or EmptyPointInfo and false when
// index is out of range.
func (s *Series[TX, TY]) RowAt(index int) (PointInfo[TX, TY], bool) {
	fx := s.lock()
	defer s.unlock(fx)

	if index < 0 || index >= s.x.Len() {
		return EmptyPointInfo[TX, TY](), false
	}

	return s.rowLocked(index), true
}

func (s *Series[TX, TY]) rowLocked(index int) PointInfo[TX, TY] {
	p := PointInfo[TX, TY]{
		Kind:   s.kind,
		Index:  index,
		X:      s.x.At(index),
		Roles:  append([]ColumnRole(nil), s.layout.roles...),
		Values: make([]TY, len(s.ys)),
	}
	for i, col := range s.ys {
		p.Values[i] = col.At(index)
	}
	p.Y = p.Values[s.layout.y]

	return p
}
