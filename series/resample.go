package series

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/chartdata/column"
	"github.com/arloliu/chartdata/distribution"
	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/numeric"
)

// Point is one resampled output point.
type Point struct {
	Index int
	X     float64
	Y     float64
}

// ResampleRequest is the input handed to a Resampler.
//
// X and Y alias the series' backing arrays and are only valid during the Resample
// call; they must not be modified or retained. Flags are consistent with the column
// contents for the duration of the call.
type ResampleRequest[TX numeric.Number, TY numeric.Number] struct {
	X      column.View[TX]
	Y      column.View[TY]
	Flags  distribution.Flags
	Rows   IndexRange
	Budget int
}

// Resampler decimates a column pair into at most roughly Budget screen points.
type Resampler[TX numeric.Number, TY numeric.Number] interface {
	Resample(req ResampleRequest[TX, TY]) ([]Point, error)
}

// Read calls fn with zero-copy views of the X column and Y-role column yCol plus the
// current distribution flags, while holding the series lock. The views are only valid
// inside fn, and fn must not call back into the series.
//
// Returns errs.ErrNilArgument or errs.ErrInvalidColumnIndex.
func (s *Series[TX, TY]) Read(yCol int, fn func(x column.View[TX], y column.View[TY], flags distribution.Flags)) error {
	if fn == nil {
		return fmt.Errorf("%w: read callback", errs.ErrNilArgument)
	}

	fx := s.lock()
	defer s.unlock(fx)

	if yCol < 0 || yCol >= len(s.ys) {
		return fmt.Errorf("%w: %d for %s series", errs.ErrInvalidColumnIndex, yCol, s.kind)
	}

	fn(s.x.Unchecked(), s.ys[yCol].Unchecked(), s.tracker.Flags())

	return nil
}

// Resample runs r over rows of the X column and Y-role column yCol. rows is clamped
// to the series; an undefined interval yields no points.
//
// Returns errs.ErrNilArgument, errs.ErrInvalidColumnIndex, or the resampler's error.
func (s *Series[TX, TY]) Resample(r Resampler[TX, TY], yCol int, rows IndexRange, budget int) ([]Point, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: resampler", errs.ErrNilArgument)
	}

	start := time.Now()
	fx := s.lock()

	if yCol < 0 || yCol >= len(s.ys) {
		s.unlock(fx)
		return nil, fmt.Errorf("%w: %d for %s series", errs.ErrInvalidColumnIndex, yCol, s.kind)
	}

	var (
		points []Point
		err    error
	)
	if rows = rows.clamp(s.x.Len()); rows.IsDefined() {
		points, err = r.Resample(ResampleRequest[TX, TY]{
			X:      s.x.Unchecked(),
			Y:      s.ys[yCol].Unchecked(),
			Flags:  s.tracker.Flags(),
			Rows:   rows,
			Budget: budget,
		})
	}
	s.unlock(fx)

	s.cfg.metrics.RecordQuery("resample", time.Since(start))

	return points, err
}

// MinMaxResampler keeps the minimum and maximum Y of each of Budget/2 equal-width row
// buckets, in row order. Requests with at most Budget rows, or a non-positive Budget,
// are returned in full. NaN values are dropped.
type MinMaxResampler[TX numeric.Number, TY numeric.Number] struct{}

var _ Resampler[float64, float64] = MinMaxResampler[float64, float64]{}

// Resample implements Resampler.
func (MinMaxResampler[TX, TY]) Resample(req ResampleRequest[TX, TY]) ([]Point, error) {
	xops, yops := numeric.For[TX](), numeric.For[TY]()
	point := func(i int) Point {
		return Point{Index: i, X: xops.ToFloat64(req.X.At(i)), Y: yops.ToFloat64(req.Y.At(i))}
	}

	count := req.Rows.Count()
	if req.Budget <= 0 || count <= req.Budget {
		out := make([]Point, 0, count)
		for i := req.Rows.Min; i <= req.Rows.Max; i++ {
			if p := point(i); !math.IsNaN(p.Y) {
				out = append(out, p)
			}
		}

		return out, nil
	}

	buckets := max(req.Budget/2, 1)
	out := make([]Point, 0, buckets*2)
	for b := range buckets {
		lo := req.Rows.Min + b*count/buckets
		hi := req.Rows.Min + (b+1)*count/buckets

		minIdx, maxIdx := -1, -1
		for i := lo; i < hi; i++ {
			y := yops.ToFloat64(req.Y.At(i))
			if math.IsNaN(y) {
				continue
			}
			if minIdx < 0 || y < yops.ToFloat64(req.Y.At(minIdx)) {
				minIdx = i
			}
			if maxIdx < 0 || y > yops.ToFloat64(req.Y.At(maxIdx)) {
				maxIdx = i
			}
		}

		switch {
		case minIdx < 0:
		case minIdx == maxIdx:
			out = append(out, point(minIdx))
		case minIdx < maxIdx:
			out = append(out, point(minIdx), point(maxIdx))
		default:
			out = append(out, point(maxIdx), point(minIdx))
		}
	}

	return out, nil
}
