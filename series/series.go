package series

import (
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/arloliu/chartdata/column"
	"github.com/arloliu/chartdata/distribution"
	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/format"
	"github.com/arloliu/chartdata/numeric"
)

// Series is a set of parallel columns sharing one row index: an X column plus the
// Y-role columns of its series type.
//
// All methods are safe for concurrent use. Every mutating or reading method takes the
// series lock for its duration and first flushes any coalesced rows, so readers always
// see the columns and distribution flags in a consistent state. Change events and
// metrics are delivered after the lock is released.
type Series[TX numeric.Number, TY numeric.Number] struct {
	mu     sync.Mutex
	kind   format.SeriesType
	layout layout
	cfg    Config
	logger *slog.Logger
	xops   numeric.Ops[TX]
	yops   numeric.Ops[TY]

	x       column.Column[TX]
	ys      []column.Column[TY]
	tracker *distribution.Tracker[TX]
	pending *coalescer[TX, TY] // nil when appends are written immediately

	observers      observers
	warnedUnsorted bool
}

// New creates an empty series of the given type.
//
// Parameters:
//   - kind: Series type selecting the Y-role columns
//   - opts: Optional configuration (name, fifo capacity, logger, metrics, ...)
//
// Returns:
//   - *Series: The new series
//   - error: errs.ErrInvalidSeriesType for an unknown kind, or an option error
func New[TX numeric.Number, TY numeric.Number](kind format.SeriesType, opts ...Option) (*Series[TX, TY], error) {
	l, err := layoutFor(kind)
	if err != nil {
		return nil, err
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	s := &Series[TX, TY]{
		kind:    kind,
		layout:  l,
		cfg:     *cfg,
		xops:    numeric.For[TX](),
		yops:    numeric.For[TY](),
		tracker: distribution.New[TX](),
	}
	s.logger = cfg.logger.With("series", cfg.name, "type", kind.String())

	coalesce := l.coalesce
	if cfg.coalescing != nil {
		coalesce = *cfg.coalescing
	}
	if coalesce {
		s.pending = newCoalescer[TX, TY](len(l.roles))
	}

	s.resetLocked()

	return s, nil
}

// effects are the side effects of a locked section, delivered once the lock is released.
type effects struct {
	reason      Reason
	flushedRows int
	flushTime   time.Duration
}

func (fx *effects) changed() {
	if fx.reason == 0 {
		fx.reason = ReasonDataChanged
	}
}

// lock takes the series lock and flushes coalesced rows.
func (s *Series[TX, TY]) lock() effects {
	s.mu.Lock()
	return s.flushLocked()
}

// unlock releases the series lock and then raises at most one event.
func (s *Series[TX, TY]) unlock(fx effects) {
	s.mu.Unlock()

	if fx.flushedRows > 0 {
		s.cfg.metrics.RecordFlush(fx.flushedRows, fx.flushTime)
	}
	if fx.reason != 0 {
		s.observers.emit(Event{Reason: fx.reason, Series: s.cfg.name})
	}
}

func (s *Series[TX, TY]) flushLocked() effects {
	if s.pending == nil {
		return effects{}
	}

	b, ok := s.pending.take()
	if !ok {
		return effects{}
	}

	start := time.Now()
	s.x.AddRange(b.xs)
	for i, col := range s.ys {
		col.AddList(b.column(i))
	}
	s.tracker.OnAppendSlice(b.xs)
	s.checkSortedLocked()

	s.logger.Debug("flushed coalesced rows", "rows", b.len())

	return effects{reason: ReasonDataChanged, flushedRows: b.len(), flushTime: time.Since(start)}
}

// resetLocked rebuilds every column per the current fifo policy and resets the tracker.
func (s *Series[TX, TY]) resetLocked() {
	s.x = column.New[TX](s.cfg.fifoCapacity)
	s.ys = make([]column.Column[TY], len(s.layout.roles))
	for i := range s.ys {
		s.ys[i] = column.New[TY](s.cfg.fifoCapacity)
	}
	s.tracker.Reset()
	s.warnedUnsorted = false
}

func (s *Series[TX, TY]) checkSortedLocked() {
	if s.cfg.acceptsUnsortedData || s.warnedUnsorted || s.tracker.IsSorted() {
		return
	}

	s.warnedUnsorted = true
	s.logger.Warn("x values are no longer sorted ascending", "rows", s.x.Len())
}

func (s *Series[TX, TY]) checkArity(n int) error {
	if want := len(s.layout.roles); n != want {
		return fmt.Errorf("%w: %s series takes %d, got %d", errs.ErrYValueCount, s.kind, want, n)
	}

	return nil
}

// Kind returns the series type.
func (s *Series[TX, TY]) Kind() format.SeriesType { return s.kind }

// Name returns the name given with WithName.
func (s *Series[TX, TY]) Name() string { return s.cfg.name }

// Roles returns the Y-role columns in column order.
func (s *Series[TX, TY]) Roles() []ColumnRole {
	return append([]ColumnRole(nil), s.layout.roles...)
}

// Parent returns the opaque handle given with WithParent, or nil.
func (s *Series[TX, TY]) Parent() any { return s.cfg.parent }

// AcceptsUnsortedData reports whether the series expects unsorted X values.
func (s *Series[TX, TY]) AcceptsUnsortedData() bool { return s.cfg.acceptsUnsortedData }

// IsCoalescing reports whether single-row appends are buffered until the next flush.
func (s *Series[TX, TY]) IsCoalescing() bool { return s.pending != nil }

// Pending returns the number of coalesced rows not yet written to the columns.
func (s *Series[TX, TY]) Pending() int {
	if s.pending == nil {
		return 0
	}

	return s.pending.pending()
}

// Subscribe registers fn to be called after every change. Callbacks run synchronously
// on the mutating goroutine, after the series lock has been released.
//
// Returns a function that removes the subscription; calling it more than once is safe.
func (s *Series[TX, TY]) Subscribe(fn func(Event)) (unsubscribe func()) {
	return s.observers.add(fn)
}

// AppendRow appends one row. ys holds one value per Y-role column, in column order.
//
// On a coalescing series the row is buffered and written on the next flush.
//
// Returns errs.ErrYValueCount if len(ys) does not match the series type.
func (s *Series[TX, TY]) AppendRow(x TX, ys ...TY) error {
	if err := s.checkArity(len(ys)); err != nil {
		return err
	}

	if s.pending != nil {
		s.pending.add(x, ys)
		s.cfg.metrics.RecordAppend(1)

		return nil
	}

	s.mu.Lock()
	s.x.Add(x)
	for i, col := range s.ys {
		col.Add(ys[i])
	}
	s.tracker.OnAppendOne(x)
	s.checkSortedLocked()
	s.unlock(effects{reason: ReasonDataChanged})

	s.cfg.metrics.RecordAppend(1)

	return nil
}

// AppendRows appends a batch of rows given column-wise: xs plus one slice per Y-role
// column, all of the same length. The batch is written at once and raises one event.
//
// Returns errs.ErrYValueCount or errs.ErrColumnLengthMismatch for malformed input.
func (s *Series[TX, TY]) AppendRows(xs []TX, ys ...[]TY) error {
	if err := s.checkColumns(xs, ys); err != nil {
		return err
	}
	if len(xs) == 0 {
		return nil
	}

	fx := s.lock()
	s.x.AddRange(xs)
	for i, col := range s.ys {
		col.AddRange(ys[i])
	}
	s.tracker.OnAppendSlice(xs)
	s.checkSortedLocked()
	fx.changed()
	s.unlock(fx)

	s.cfg.metrics.RecordAppend(len(xs))

	return nil
}

func (s *Series[TX, TY]) checkColumns(xs []TX, ys [][]TY) error {
	if err := s.checkArity(len(ys)); err != nil {
		return err
	}

	for i, col := range ys {
		if len(col) != len(xs) {
			return fmt.Errorf("%w: %d x values, %d %s values",
				errs.ErrColumnLengthMismatch, len(xs), len(col), s.layout.roles[i])
		}
	}

	return nil
}

// AppendRowsList is AppendRows for random-access lists. The lists are read in place
// without an intermediate copy.
//
// Returns errs.ErrNilArgument for a nil list, errs.ErrYValueCount or
// errs.ErrColumnLengthMismatch for malformed input.
func (s *Series[TX, TY]) AppendRowsList(xs column.List[TX], ys ...column.List[TY]) error {
	if xs == nil {
		return fmt.Errorf("%w: x list", errs.ErrNilArgument)
	}
	if err := s.checkArity(len(ys)); err != nil {
		return err
	}

	n := xs.Len()
	for i, col := range ys {
		if col == nil {
			return fmt.Errorf("%w: %s list", errs.ErrNilArgument, s.layout.roles[i])
		}
		if col.Len() != n {
			return fmt.Errorf("%w: %d x values, %d %s values",
				errs.ErrColumnLengthMismatch, n, col.Len(), s.layout.roles[i])
		}
	}
	if n == 0 {
		return nil
	}

	fx := s.lock()
	s.x.AddList(xs)
	for i, col := range s.ys {
		col.AddList(ys[i])
	}
	s.tracker.OnAppendList(xs)
	s.checkSortedLocked()
	fx.changed()
	s.unlock(fx)

	s.cfg.metrics.RecordAppend(n)

	return nil
}

// AppendRowsSeq appends the rows produced by rows, each an X value and its Y values in
// column order. The sequence is consumed once, in a single pass over the X column and
// the distribution tracker, and the whole batch raises one event.
//
// A row with the wrong number of Y values stops the append: the rows before it are
// kept and errs.ErrYValueCount is returned.
func (s *Series[TX, TY]) AppendRowsSeq(rows iter.Seq2[TX, []TY]) error {
	if rows == nil {
		return fmt.Errorf("%w: row sequence", errs.ErrNilArgument)
	}

	var (
		n   int
		err error
	)

	fx := s.lock()
	// one pass feeds the X column and the tracker; Y values follow their X
	s.x.AddSeq(func(addX func(TX) bool) {
		s.tracker.OnAppendSeq(func(track func(TX) bool) {
			for x, ys := range rows {
				if err = s.checkArity(len(ys)); err != nil {
					err = fmt.Errorf("row %d: %w", n, err)
					return
				}
				if !addX(x) || !track(x) {
					return
				}
				for i, col := range s.ys {
					col.Add(ys[i])
				}
				n++
			}
		})
	})
	if n > 0 {
		s.checkSortedLocked()
		fx.changed()
	}
	s.unlock(fx)

	if n > 0 {
		s.cfg.metrics.RecordAppend(n)
	}

	return err
}

// InsertRow inserts one row before row index; index == Count appends.
//
// Returns errs.ErrYValueCount for the wrong number of Y values,
// errs.ErrNotSupportedOnFifo on a fifo series, or errs.ErrIndexOutOfRange.
func (s *Series[TX, TY]) InsertRow(index int, x TX, ys ...TY) error {
	if err := s.checkArity(len(ys)); err != nil {
		return err
	}

	fx := s.lock()
	if err := s.checkInsertLocked(index); err != nil {
		s.unlock(fx)
		return err
	}

	_ = s.x.Insert(index, x)
	for i, col := range s.ys {
		_ = col.Insert(index, ys[i])
	}
	s.tracker.OnInsertOne(s.x, index)
	s.checkSortedLocked()
	fx.changed()
	s.unlock(fx)

	return nil
}

// InsertRows inserts a batch of rows, given column-wise, before row index.
//
// Returns the errors of InsertRow plus errs.ErrColumnLengthMismatch.
func (s *Series[TX, TY]) InsertRows(index int, xs []TX, ys ...[]TY) error {
	if err := s.checkColumns(xs, ys); err != nil {
		return err
	}

	fx := s.lock()
	if err := s.checkInsertLocked(index); err != nil {
		s.unlock(fx)
		return err
	}

	if len(xs) > 0 {
		_ = s.x.InsertRange(index, xs)
		for i, col := range s.ys {
			_ = col.InsertRange(index, ys[i])
		}
		s.tracker.OnInsertMany(s.x, index, len(xs))
		s.checkSortedLocked()
		fx.changed()
	}
	s.unlock(fx)

	return nil
}

func (s *Series[TX, TY]) checkInsertLocked(index int) error {
	if s.x.IsFifo() {
		return fmt.Errorf("%w: insert", errs.ErrNotSupportedOnFifo)
	}
	if n := s.x.Len(); index < 0 || index > n {
		return fmt.Errorf("%w: insert at %d, count %d", errs.ErrIndexOutOfRange, index, n)
	}

	return nil
}

// UpdateRow overwrites the Y values of the first row whose X equals x exactly.
//
// A missing x is not an error: UpdateRow reports false and changes nothing.
func (s *Series[TX, TY]) UpdateRow(x TX, ys ...TY) (bool, error) {
	if err := s.checkArity(len(ys)); err != nil {
		return false, err
	}

	fx := s.lock()
	idx := column.FindIndex[TX](s.x, x, s.tracker.IsSorted(), column.SearchExact)
	if idx < 0 {
		s.unlock(fx)
		return false, nil
	}

	for i, col := range s.ys {
		col.Set(idx, ys[i])
	}
	fx.changed()
	s.unlock(fx)

	return true, nil
}

// RemoveAt removes row index from every column. Supported on fifo series.
//
// Returns errs.ErrIndexOutOfRange if index is not in [0, Count).
func (s *Series[TX, TY]) RemoveAt(index int) error {
	fx := s.lock()
	if n := s.x.Len(); index < 0 || index >= n {
		s.unlock(fx)
		return fmt.Errorf("%w: remove at %d, count %d", errs.ErrIndexOutOfRange, index, n)
	}

	s.removeAtLocked(index)
	fx.changed()
	s.unlock(fx)

	s.cfg.metrics.RecordRemove(1)

	return nil
}

func (s *Series[TX, TY]) removeAtLocked(index int) {
	_ = s.x.RemoveAt(index)
	for _, col := range s.ys {
		_ = col.RemoveAt(index)
	}
	s.tracker.OnRemove(s.x)
}

// RemoveRange removes count rows starting at index from every column.
//
// Returns errs.ErrNotSupportedOnFifo on a fifo series, or errs.ErrIndexOutOfRange.
func (s *Series[TX, TY]) RemoveRange(index, count int) error {
	fx := s.lock()
	if s.x.IsFifo() {
		s.unlock(fx)
		return fmt.Errorf("%w: remove range", errs.ErrNotSupportedOnFifo)
	}
	if n := s.x.Len(); index < 0 || count < 0 || index+count > n {
		s.unlock(fx)
		return fmt.Errorf("%w: remove %d rows at %d, count %d", errs.ErrIndexOutOfRange, count, index, n)
	}

	if count > 0 {
		_ = s.x.RemoveRange(index, count)
		for _, col := range s.ys {
			_ = col.RemoveRange(index, count)
		}
		s.tracker.OnRemove(s.x)
		fx.changed()
	}
	s.unlock(fx)

	if count > 0 {
		s.cfg.metrics.RecordRemove(count)
	}

	return nil
}

// Remove removes the first row whose X equals x exactly and reports whether one was
// found.
func (s *Series[TX, TY]) Remove(x TX) bool {
	fx := s.lock()
	idx := column.FindIndex[TX](s.x, x, s.tracker.IsSorted(), column.SearchExact)
	if idx < 0 {
		s.unlock(fx)
		return false
	}

	s.removeAtLocked(idx)
	fx.changed()
	s.unlock(fx)

	s.cfg.metrics.RecordRemove(1)

	return true
}

// Clear drops every row, including coalesced rows that were never flushed, and
// resets the distribution flags.
func (s *Series[TX, TY]) Clear() {
	s.mu.Lock()
	dropped := s.discardPendingLocked()
	s.resetLocked()
	s.logger.Debug("series cleared", "droppedPending", dropped)
	s.unlock(effects{reason: ReasonCleared})

	s.cfg.metrics.RecordClear()
}

func (s *Series[TX, TY]) discardPendingLocked() int {
	if s.pending == nil {
		return 0
	}

	return s.pending.discard()
}

// FifoCapacity returns the fifo capacity, or 0 for a growable series.
func (s *Series[TX, TY]) FifoCapacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.fifoCapacity
}

// SetFifoCapacity switches the storage policy: capacity > 0 makes the series a fifo
// series of that capacity, 0 makes it growable. Changing the capacity clears the
// series; setting the current value does nothing.
//
// Returns errs.ErrInvalidCapacity for a negative capacity.
func (s *Series[TX, TY]) SetFifoCapacity(capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidCapacity, capacity)
	}

	s.mu.Lock()
	if capacity == s.cfg.fifoCapacity {
		s.mu.Unlock()
		return nil
	}

	previous := s.cfg.fifoCapacity
	s.cfg.fifoCapacity = capacity
	dropped := s.discardPendingLocked()
	s.resetLocked()
	s.logger.Debug("fifo capacity changed", "from", previous, "to", capacity, "droppedPending", dropped)
	s.unlock(effects{reason: ReasonCleared})

	s.cfg.metrics.RecordClear()

	return nil
}

// Flush writes coalesced rows to the columns as one batch and raises one event.
// It is a no-op when nothing is pending.
func (s *Series[TX, TY]) Flush() {
	fx := s.lock()
	s.unlock(fx)
}

// BeginRenderPass is called by a redraw pipeline before it reads the series.
// It flushes coalesced rows.
func (s *Series[TX, TY]) BeginRenderPass() {
	s.Flush()
}

// Clone returns a deep, independent copy with the same type, name, fifo capacity,
// sortedness acceptance and distribution flags. Subscribers are not copied.
func (s *Series[TX, TY]) Clone() *Series[TX, TY] {
	fx := s.lock()
	defer s.unlock(fx)

	c := &Series[TX, TY]{
		kind:           s.kind,
		layout:         s.layout,
		cfg:            s.cfg,
		logger:         s.logger,
		xops:           s.xops,
		yops:           s.yops,
		x:              s.x.Clone(),
		ys:             make([]column.Column[TY], len(s.ys)),
		tracker:        s.tracker.Clone(),
		warnedUnsorted: s.warnedUnsorted,
	}
	for i, col := range s.ys {
		c.ys[i] = col.Clone()
	}
	if s.pending != nil {
		c.pending = newCoalescer[TX, TY](len(s.layout.roles))
	}

	return c
}

// Count returns the number of rows.
func (s *Series[TX, TY]) Count() int {
	fx := s.lock()
	defer s.unlock(fx)

	return s.x.Len()
}

// HasValues reports whether the series holds at least one row.
func (s *Series[TX, TY]) HasValues() bool {
	return s.Count() > 0
}

// IsSorted reports whether the X column is sorted ascending.
func (s *Series[TX, TY]) IsSorted() bool {
	return s.Flags().SortedAscending
}

// IsEvenlySpaced reports whether the X column is evenly spaced.
func (s *Series[TX, TY]) IsEvenlySpaced() bool {
	return s.Flags().EvenlySpaced
}

// Flags returns both distribution flags at once.
func (s *Series[TX, TY]) Flags() distribution.Flags {
	fx := s.lock()
	defer s.unlock(fx)

	return s.tracker.Flags()
}
