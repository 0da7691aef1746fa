// Package chartdata provides an in-memory, columnar data engine for chart series.
//
// A series stores one X column and one or more Y columns whose meaning depends on the
// series type (XY, XYY, XYZ, HLC, OHLC, Box). Columns are backed either by growable
// storage or by a fixed-capacity circular buffer that discards the oldest rows
// (fifo series). Every series tracks whether its X values are sorted ascending and
// evenly spaced, and uses that knowledge to answer windowed queries with binary
// search instead of linear scans.
//
// # Core Features
//
//   - Generic X and Y element types (any integer or floating type)
//   - Fifo series for streaming data with a fixed memory footprint
//   - Coalesced single-row appends for high-frequency feeds
//   - Index-range, windowed Y-range and nearest point/line queries
//   - Change events, structured logging and pluggable metrics
//   - Compressed, checksummed snapshots (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
//	s, _ := chartdata.NewXY[int64, float64](series.WithName("cpu"))
//	for i := range 100 {
//	    s.Append(int64(i)*1000, float64(i%10))
//	}
//
//	rows := s.GetIndicesRange(series.Range[int64]{Min: 20_000, Max: 40_000})
//	yr := s.GetWindowedYRange(rows, false)
//	fmt.Printf("rows %d..%d, y %.1f..%.1f\n", rows.Min, rows.Max, yr.Min, yr.Max)
//
// # Package Structure
//
// This package provides convenience constructors around the series package. For the
// full API, use series directly.
package chartdata

import (
	"fmt"

	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/format"
	"github.com/arloliu/chartdata/numeric"
	"github.com/arloliu/chartdata/series"
)

// NewSeries creates a generic series of the given type.
//
// Parameters:
//   - kind: Series type, which fixes the number and roles of the Y columns
//   - opts: Optional configuration functions (see series.Option)
//
// Returns:
//   - *series.Series[TX, TY]: The created series
//   - error: An error if kind is unknown or an option is invalid
//
// Example:
//
//	s, err := chartdata.NewSeries[float64, float64](format.SeriesXYY,
//	    series.WithFifoCapacity(1000),
//	)
func NewSeries[TX numeric.Number, TY numeric.Number](kind format.SeriesType, opts ...series.Option) (*series.Series[TX, TY], error) {
	return series.New[TX, TY](kind, opts...)
}

// NewXY creates a series with a single Y column.
func NewXY[TX numeric.Number, TY numeric.Number](opts ...series.Option) (*series.XYSeries[TX, TY], error) {
	return series.NewXY[TX, TY](opts...)
}

// NewXYY creates a series with Y and Y1 columns, typically drawn as a band.
func NewXYY[TX numeric.Number, TY numeric.Number](opts ...series.Option) (*series.XyySeries[TX, TY], error) {
	return series.NewXYY[TX, TY](opts...)
}

// NewXYZ creates a series with Y and Z columns, typically drawn as a bubble chart.
func NewXYZ[TX numeric.Number, TY numeric.Number](opts ...series.Option) (*series.XyzSeries[TX, TY], error) {
	return series.NewXYZ[TX, TY](opts...)
}

// NewHLC creates a high/low/close series.
func NewHLC[TX numeric.Number, TY numeric.Number](opts ...series.Option) (*series.HlcSeries[TX, TY], error) {
	return series.NewHLC[TX, TY](opts...)
}

// NewOHLC creates an open/high/low/close series.
//
// OHLC series coalesce single-row appends by default; pass
// series.WithCoalescing(false) to apply every append immediately.
func NewOHLC[TX numeric.Number, TY numeric.Number](opts ...series.Option) (*series.OhlcSeries[TX, TY], error) {
	return series.NewOHLC[TX, TY](opts...)
}

// NewBox creates a box-plot series with median, minimum, quartile and maximum columns.
func NewBox[TX numeric.Number, TY numeric.Number](opts ...series.Option) (*series.BoxSeries[TX, TY], error) {
	return series.NewBox[TX, TY](opts...)
}

// NewStreamingXY creates an XY fifo series that keeps the latest capacity rows.
//
// Parameters:
//   - capacity: Maximum number of rows kept; must be positive
//   - opts: Additional configuration functions, applied after the capacity
//
// Returns:
//   - *series.XYSeries[TX, TY]: The created series
//   - error: An error if capacity is not positive or an option is invalid
func NewStreamingXY[TX numeric.Number, TY numeric.Number](capacity int, opts ...series.Option) (*series.XYSeries[TX, TY], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: streaming capacity %d", errs.ErrInvalidCapacity, capacity)
	}

	return series.NewXY[TX, TY](append([]series.Option{series.WithFifoCapacity(capacity)}, opts...)...)
}

// Restore decodes a snapshot produced by Series.Snapshot. See series.Restore.
func Restore[TX numeric.Number, TY numeric.Number](data []byte, opts ...series.Option) (*series.Series[TX, TY], error) {
	return series.Restore[TX, TY](data, opts...)
}
