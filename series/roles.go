package series

import (
	"github.com/arloliu/chartdata/format"
	"github.com/arloliu/chartdata/numeric"
)

// The role series below wrap Series with fixed-arity signatures. Their Append, Insert
// and Update methods cannot fail with errs.ErrYValueCount.

// columnCopy returns a copy of Y-role column i, which the caller knows exists.
func (s *Series[TX, TY]) columnCopy(i int) []TY {
	values, _ := s.YValues(i)
	return values
}

// XYSeries holds one Y value per X.
type XYSeries[TX numeric.Number, TY numeric.Number] struct {
	*Series[TX, TY]
}

// NewXY creates an empty XY series. XY series write appends immediately by default.
func NewXY[TX numeric.Number, TY numeric.Number](opts ...Option) (*XYSeries[TX, TY], error) {
	s, err := New[TX, TY](format.SeriesXY, opts...)
	if err != nil {
		return nil, err
	}

	return &XYSeries[TX, TY]{s}, nil
}

// Append appends one row.
func (s *XYSeries[TX, TY]) Append(x TX, y TY) { _ = s.AppendRow(x, y) }

// AppendRange appends a batch of rows; xs and ys must have the same length.
func (s *XYSeries[TX, TY]) AppendRange(xs []TX, ys []TY) error { return s.AppendRows(xs, ys) }

// Insert inserts one row before row index. See Series.InsertRow.
func (s *XYSeries[TX, TY]) Insert(index int, x TX, y TY) error { return s.InsertRow(index, x, y) }

// InsertRange inserts a batch of rows before row index. See Series.InsertRows.
func (s *XYSeries[TX, TY]) InsertRange(index int, xs []TX, ys []TY) error {
	return s.InsertRows(index, xs, ys)
}

// Update overwrites the Y value at x and reports whether x was found.
func (s *XYSeries[TX, TY]) Update(x TX, y TY) bool {
	ok, _ := s.UpdateRow(x, y)
	return ok
}

// Ys returns a copy of the Y column.
func (s *XYSeries[TX, TY]) Ys() []TY { return s.columnCopy(0) }

// Clone returns a deep, independent copy.
func (s *XYSeries[TX, TY]) Clone() *XYSeries[TX, TY] {
	return &XYSeries[TX, TY]{s.Series.Clone()}
}

// XyySeries holds two Y values per X, typically drawn as a band between them.
type XyySeries[TX numeric.Number, TY numeric.Number] struct {
	*Series[TX, TY]
}

// NewXYY creates an empty XYY series. Appends are coalesced by default.
func NewXYY[TX numeric.Number, TY numeric.Number](opts ...Option) (*XyySeries[TX, TY], error) {
	s, err := New[TX, TY](format.SeriesXYY, opts...)
	if err != nil {
		return nil, err
	}

	return &XyySeries[TX, TY]{s}, nil
}

// Append appends one row.
func (s *XyySeries[TX, TY]) Append(x TX, y, y1 TY) { _ = s.AppendRow(x, y, y1) }

// AppendRange appends a batch of rows given column-wise.
func (s *XyySeries[TX, TY]) AppendRange(xs []TX, ys, y1s []TY) error {
	return s.AppendRows(xs, ys, y1s)
}

// Insert inserts one row before row index.
func (s *XyySeries[TX, TY]) Insert(index int, x TX, y, y1 TY) error {
	return s.InsertRow(index, x, y, y1)
}

// InsertRange inserts a batch of rows before row index.
func (s *XyySeries[TX, TY]) InsertRange(index int, xs []TX, ys, y1s []TY) error {
	return s.InsertRows(index, xs, ys, y1s)
}

// Update overwrites both Y values at x and reports whether x was found.
func (s *XyySeries[TX, TY]) Update(x TX, y, y1 TY) bool {
	ok, _ := s.UpdateRow(x, y, y1)
	return ok
}

// Ys returns a copy of the Y column.
func (s *XyySeries[TX, TY]) Ys() []TY { return s.columnCopy(0) }

// Y1s returns a copy of the Y1 column.
func (s *XyySeries[TX, TY]) Y1s() []TY { return s.columnCopy(1) }

// Clone returns a deep, independent copy.
func (s *XyySeries[TX, TY]) Clone() *XyySeries[TX, TY] {
	return &XyySeries[TX, TY]{s.Series.Clone()}
}

// XyzSeries holds a Y value and a Z value (bubble size, heat) per X.
type XyzSeries[TX numeric.Number, TY numeric.Number] struct {
	*Series[TX, TY]
}

// NewXYZ creates an empty XYZ series. Appends are coalesced by default.
func NewXYZ[TX numeric.Number, TY numeric.Number](opts ...Option) (*XyzSeries[TX, TY], error) {
	s, err := New[TX, TY](format.SeriesXYZ, opts...)
	if err != nil {
		return nil, err
	}

	return &XyzSeries[TX, TY]{s}, nil
}

// Append appends one row.
func (s *XyzSeries[TX, TY]) Append(x TX, y, z TY) { _ = s.AppendRow(x, y, z) }

// AppendRange appends a batch of rows given column-wise.
func (s *XyzSeries[TX, TY]) AppendRange(xs []TX, ys, zs []TY) error {
	return s.AppendRows(xs, ys, zs)
}

// Insert inserts one row before row index.
func (s *XyzSeries[TX, TY]) Insert(index int, x TX, y, z TY) error {
	return s.InsertRow(index, x, y, z)
}

// InsertRange inserts a batch of rows before row index.
func (s *XyzSeries[TX, TY]) InsertRange(index int, xs []TX, ys, zs []TY) error {
	return s.InsertRows(index, xs, ys, zs)
}

// Update overwrites Y and Z at x and reports whether x was found.
func (s *XyzSeries[TX, TY]) Update(x TX, y, z TY) bool {
	ok, _ := s.UpdateRow(x, y, z)
	return ok
}

// Ys returns a copy of the Y column.
func (s *XyzSeries[TX, TY]) Ys() []TY { return s.columnCopy(0) }

// Zs returns a copy of the Z column.
func (s *XyzSeries[TX, TY]) Zs() []TY { return s.columnCopy(1) }

// Clone returns a deep, independent copy.
func (s *XyzSeries[TX, TY]) Clone() *XyzSeries[TX, TY] {
	return &XyzSeries[TX, TY]{s.Series.Clone()}
}

// HlcSeries holds High, Low and Close per X. Y queries use Close; windowed Y ranges
// span High and Low.
type HlcSeries[TX numeric.Number, TY numeric.Number] struct {
	*Series[TX, TY]
}

// NewHLC creates an empty HLC series. Appends are coalesced by default.
func NewHLC[TX numeric.Number, TY numeric.Number](opts ...Option) (*HlcSeries[TX, TY], error) {
	s, err := New[TX, TY](format.SeriesHLC, opts...)
	if err != nil {
		return nil, err
	}

	return &HlcSeries[TX, TY]{s}, nil
}

// Append appends one bar.
func (s *HlcSeries[TX, TY]) Append(x TX, high, low, closeValue TY) {
	_ = s.AppendRow(x, high, low, closeValue)
}

// AppendRange appends a batch of bars given column-wise.
func (s *HlcSeries[TX, TY]) AppendRange(xs []TX, highs, lows, closes []TY) error {
	return s.AppendRows(xs, highs, lows, closes)
}

// Insert inserts one bar before row index.
func (s *HlcSeries[TX, TY]) Insert(index int, x TX, high, low, closeValue TY) error {
	return s.InsertRow(index, x, high, low, closeValue)
}

// InsertRange inserts a batch of bars before row index.
func (s *HlcSeries[TX, TY]) InsertRange(index int, xs []TX, highs, lows, closes []TY) error {
	return s.InsertRows(index, xs, highs, lows, closes)
}

// Update overwrites the bar at x and reports whether x was found.
func (s *HlcSeries[TX, TY]) Update(x TX, high, low, closeValue TY) bool {
	ok, _ := s.UpdateRow(x, high, low, closeValue)
	return ok
}

// Highs returns a copy of the High column.
func (s *HlcSeries[TX, TY]) Highs() []TY { return s.columnCopy(0) }

// Lows returns a copy of the Low column.
func (s *HlcSeries[TX, TY]) Lows() []TY { return s.columnCopy(1) }

// Closes returns a copy of the Close column.
func (s *HlcSeries[TX, TY]) Closes() []TY { return s.columnCopy(2) }

// Clone returns a deep, independent copy.
func (s *HlcSeries[TX, TY]) Clone() *HlcSeries[TX, TY] {
	return &HlcSeries[TX, TY]{s.Series.Clone()}
}

// OhlcSeries holds Open, High, Low and Close per X. Y queries use Close; windowed Y
// ranges span High and Low.
type OhlcSeries[TX numeric.Number, TY numeric.Number] struct {
	*Series[TX, TY]
}

// NewOHLC creates an empty OHLC series. Appends are coalesced by default.
func NewOHLC[TX numeric.Number, TY numeric.Number](opts ...Option) (*OhlcSeries[TX, TY], error) {
	s, err := New[TX, TY](format.SeriesOHLC, opts...)
	if err != nil {
		return nil, err
	}

	return &OhlcSeries[TX, TY]{s}, nil
}

// Append appends one candle.
func (s *OhlcSeries[TX, TY]) Append(x TX, open, high, low, closeValue TY) {
	_ = s.AppendRow(x, open, high, low, closeValue)
}

// AppendRange appends a batch of candles given column-wise.
func (s *OhlcSeries[TX, TY]) AppendRange(xs []TX, opens, highs, lows, closes []TY) error {
	return s.AppendRows(xs, opens, highs, lows, closes)
}

// Insert inserts one candle before row index.
func (s *OhlcSeries[TX, TY]) Insert(index int, x TX, open, high, low, closeValue TY) error {
	return s.InsertRow(index, x, open, high, low, closeValue)
}

// InsertRange inserts a batch of candles before row index.
func (s *OhlcSeries[TX, TY]) InsertRange(index int, xs []TX, opens, highs, lows, closes []TY) error {
	return s.InsertRows(index, xs, opens, highs, lows, closes)
}

// Update overwrites the candle at x and reports whether x was found.
func (s *OhlcSeries[TX, TY]) Update(x TX, open, high, low, closeValue TY) bool {
	ok, _ := s.UpdateRow(x, open, high, low, closeValue)
	return ok
}

// Opens returns a copy of the Open column.
func (s *OhlcSeries[TX, TY]) Opens() []TY { return s.columnCopy(0) }

// Highs returns a copy of the High column.
func (s *OhlcSeries[TX, TY]) Highs() []TY { return s.columnCopy(1) }

// Lows returns a copy of the Low column.
func (s *OhlcSeries[TX, TY]) Lows() []TY { return s.columnCopy(2) }

// Closes returns a copy of the Close column.
func (s *OhlcSeries[TX, TY]) Closes() []TY { return s.columnCopy(3) }

// Clone returns a deep, independent copy.
func (s *OhlcSeries[TX, TY]) Clone() *OhlcSeries[TX, TY] {
	return &OhlcSeries[TX, TY]{s.Series.Clone()}
}

// BoxSeries holds the five-number summary of a box plot per X. Y queries use Median;
// windowed Y ranges span Minimum and Maximum.
type BoxSeries[TX numeric.Number, TY numeric.Number] struct {
	*Series[TX, TY]
}

// BoxValues is one box-plot row.
type BoxValues[T numeric.Number] struct {
	Median        T
	Minimum       T
	LowerQuartile T
	UpperQuartile T
	Maximum       T
}

// NewBox creates an empty box-plot series.
func NewBox[TX numeric.Number, TY numeric.Number](opts ...Option) (*BoxSeries[TX, TY], error) {
	s, err := New[TX, TY](format.SeriesBox, opts...)
	if err != nil {
		return nil, err
	}

	return &BoxSeries[TX, TY]{s}, nil
}

func (v BoxValues[T]) row() []T {
	return []T{v.Median, v.Minimum, v.LowerQuartile, v.UpperQuartile, v.Maximum}
}

// Append appends one box.
func (s *BoxSeries[TX, TY]) Append(x TX, v BoxValues[TY]) { _ = s.AppendRow(x, v.row()...) }

// AppendRange appends a batch of boxes given column-wise.
func (s *BoxSeries[TX, TY]) AppendRange(xs []TX, medians, minimums, lowerQuartiles, upperQuartiles, maximums []TY) error {
	return s.AppendRows(xs, medians, minimums, lowerQuartiles, upperQuartiles, maximums)
}

// Insert inserts one box before row index.
func (s *BoxSeries[TX, TY]) Insert(index int, x TX, v BoxValues[TY]) error {
	return s.InsertRow(index, x, v.row()...)
}

// InsertRange inserts a batch of boxes, given column-wise, before row index.
func (s *BoxSeries[TX, TY]) InsertRange(index int, xs []TX, medians, minimums, lowerQuartiles, upperQuartiles, maximums []TY) error {
	return s.InsertRows(index, xs, medians, minimums, lowerQuartiles, upperQuartiles, maximums)
}

// Update overwrites the box at x and reports whether x was found.
func (s *BoxSeries[TX, TY]) Update(x TX, v BoxValues[TY]) bool {
	ok, _ := s.UpdateRow(x, v.row()...)
	return ok
}

// At returns the box values of row index, or false when index is out of range.
func (s *BoxSeries[TX, TY]) At(index int) (x TX, v BoxValues[TY], ok bool) {
	p, ok := s.RowAt(index)
	if !ok {
		return x, v, false
	}

	return p.X, BoxValues[TY]{
		Median:        p.Values[0],
		Minimum:       p.Values[1],
		LowerQuartile: p.Values[2],
		UpperQuartile: p.Values[3],
		Maximum:       p.Values[4],
	}, true
}

// Medians returns a copy of the Median column.
func (s *BoxSeries[TX, TY]) Medians() []TY { return s.columnCopy(0) }

// Minimums returns a copy of the Minimum column.
func (s *BoxSeries[TX, TY]) Minimums() []TY { return s.columnCopy(1) }

// LowerQuartiles returns a copy of the LowerQuartile column.
func (s *BoxSeries[TX, TY]) LowerQuartiles() []TY { return s.columnCopy(2) }

// UpperQuartiles returns a copy of the UpperQuartile column.
func (s *BoxSeries[TX, TY]) UpperQuartiles() []TY { return s.columnCopy(3) }

// Maximums returns a copy of the Maximum column.
func (s *BoxSeries[TX, TY]) Maximums() []TY { return s.columnCopy(4) }

// Clone returns a deep, independent copy.
func (s *BoxSeries[TX, TY]) Clone() *BoxSeries[TX, TY] {
	return &BoxSeries[TX, TY]{s.Series.Clone()}
}
