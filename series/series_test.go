package series

import (
	"bytes"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/format"
	"github.com/stretchr/testify/require"
)

func newXY(t *testing.T, opts ...Option) *Series[float64, float64] {
	t.Helper()

	s, err := New[float64, float64](format.SeriesXY, opts...)
	require.NoError(t, err)

	return s
}

// recorder collects change events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) reasons() []Reason {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Reason, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Reason
	}

	return out
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s := newXY(t)
		require.Equal(t, format.SeriesXY, s.Kind())
		require.Equal(t, []ColumnRole{RoleY}, s.Roles())
		require.True(t, s.AcceptsUnsortedData())
		require.False(t, s.IsCoalescing())
		require.Zero(t, s.FifoCapacity())
		require.Zero(t, s.Count())
		require.False(t, s.HasValues())
		require.True(t, s.IsSorted())
		require.True(t, s.IsEvenlySpaced())
		require.Nil(t, s.Parent())
	})

	t.Run("coalescing defaults per type", func(t *testing.T) {
		for kind, want := range map[format.SeriesType]bool{
			format.SeriesXY:   false,
			format.SeriesXYY:  true,
			format.SeriesXYZ:  true,
			format.SeriesHLC:  true,
			format.SeriesOHLC: true,
			format.SeriesBox:  false,
		} {
			s, err := New[int64, float64](kind)
			require.NoError(t, err)
			require.Equal(t, want, s.IsCoalescing(), kind.String())
		}

		s, err := New[int64, float64](format.SeriesOHLC, WithCoalescing(false))
		require.NoError(t, err)
		require.False(t, s.IsCoalescing())
	})

	t.Run("options", func(t *testing.T) {
		parent := &struct{ name string }{"chart"}
		s := newXY(t, WithName("cpu"), WithFifoCapacity(10), WithAcceptsUnsortedData(false), WithParent(parent))
		require.Equal(t, "cpu", s.Name())
		require.Equal(t, 10, s.FifoCapacity())
		require.False(t, s.AcceptsUnsortedData())
		require.Same(t, parent, s.Parent())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := New[float64, float64](format.SeriesType(0x7F))
		require.ErrorIs(t, err, errs.ErrInvalidSeriesType)

		_, err = New[float64, float64](format.SeriesXY, WithFifoCapacity(-1))
		require.ErrorIs(t, err, errs.ErrInvalidCapacity)

		_, err = New[float64, float64](format.SeriesXY, WithLogger(nil))
		require.ErrorIs(t, err, errs.ErrNilArgument)

		_, err = New[float64, float64](format.SeriesXY, WithMetrics(nil))
		require.ErrorIs(t, err, errs.ErrNilArgument)
	})
}

func TestAppendTracksDistribution(t *testing.T) {
	s := newXY(t)

	for i, x := range []float64{1, 2, 3} {
		require.NoError(t, s.AppendRow(x, float64(i)))
	}
	require.True(t, s.IsSorted())
	require.True(t, s.IsEvenlySpaced())

	require.NoError(t, s.AppendRow(5, 3))
	require.True(t, s.IsSorted())
	require.False(t, s.IsEvenlySpaced())

	require.NoError(t, s.AppendRow(4, 4))
	require.False(t, s.IsSorted())
	require.False(t, s.IsEvenlySpaced())

	require.Equal(t, []float64{1, 2, 3, 5, 4}, s.XValues())
	require.Equal(t, 5, s.Count())
}

func TestAppendRows(t *testing.T) {
	s, err := New[int64, float64](format.SeriesXYY)
	require.NoError(t, err)

	require.NoError(t, s.AppendRows([]int64{10, 20, 30}, []float64{1, 2, 3}, []float64{4, 5, 6}))
	require.Equal(t, 3, s.Count())
	require.True(t, s.IsEvenlySpaced())

	y1, err := s.ValuesOf(RoleY1)
	require.NoError(t, err)
	require.Equal(t, []float64{4, 5, 6}, y1)

	require.NoError(t, s.AppendRows(nil, nil, nil))
	require.Equal(t, 3, s.Count())

	err = s.AppendRows([]int64{40}, []float64{1})
	require.ErrorIs(t, err, errs.ErrYValueCount)

	err = s.AppendRows([]int64{40, 50}, []float64{1, 2}, []float64{3})
	require.ErrorIs(t, err, errs.ErrColumnLengthMismatch)
	require.Equal(t, 3, s.Count())
}

// sliceList is a random-access list over a slice.
type sliceList[T any] []T

func (l sliceList[T]) Len() int   { return len(l) }
func (l sliceList[T]) At(i int) T { return l[i] }

func rowSeq(xs []float64, ys, y1s []float64) iter.Seq2[float64, []float64] {
	return func(yield func(float64, []float64) bool) {
		for i, x := range xs {
			if !yield(x, []float64{ys[i], y1s[i]}) {
				return
			}
		}
	}
}

func TestBulkAppendPathsAgree(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
	}{
		{"evenly spaced", []float64{0, 1, 2, 3, 4, 5, 6, 7}},
		{"within tolerance", []float64{0, 0.1, 0.2, 0.30000000000000004, 0.4}},
		{"uneven", []float64{0, 1, 3, 4, 8}},
		{"unsorted", []float64{3, 1, 2, 5, 4}},
		{"duplicates", []float64{1, 1, 1, 2}},
		{"nan", []float64{0, 1, math.NaN(), 3}},
		{"single", []float64{42}},
	}

	for _, fifo := range []int{0, 3} {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/fifo=%d", tt.name, fifo), func(t *testing.T) {
				ys := make([]float64, len(tt.xs))
				y1s := make([]float64, len(tt.xs))
				for i := range tt.xs {
					ys[i] = float64(i)
					y1s[i] = float64(-i)
				}

				build := func() *Series[float64, float64] {
					s, err := New[float64, float64](format.SeriesXYY,
						WithCoalescing(false), WithFifoCapacity(fifo))
					require.NoError(t, err)
					// a leading row makes the batch continue an existing column
					require.NoError(t, s.AppendRow(-1, 0, 0))

					return s
				}

				one := build()
				for i, x := range tt.xs {
					require.NoError(t, one.AppendRow(x, ys[i], y1s[i]))
				}

				slice := build()
				require.NoError(t, slice.AppendRows(tt.xs, ys, y1s))

				list := build()
				require.NoError(t, list.AppendRowsList(sliceList[float64](tt.xs),
					sliceList[float64](ys), sliceList[float64](y1s)))

				seq := build()
				require.NoError(t, seq.AppendRowsSeq(rowSeq(tt.xs, ys, y1s)))

				for name, s := range map[string]*Series[float64, float64]{"slice": slice, "list": list, "seq": seq} {
					require.Equal(t, one.Flags(), s.Flags(), "%s flags", name)
					require.Equal(t, one.Count(), s.Count(), "%s count", name)
					// NaN != NaN, so compare the X columns bit for bit
					require.Equal(t, bitsOf(one.XValues()), bitsOf(s.XValues()), "%s x", name)
					for _, role := range []ColumnRole{RoleY, RoleY1} {
						want, err := one.ValuesOf(role)
						require.NoError(t, err)
						got, err := s.ValuesOf(role)
						require.NoError(t, err)
						require.Equal(t, want, got, "%s %s", name, role)
					}
				}
			})
		}
	}
}

func bitsOf(values []float64) []uint64 {
	out := make([]uint64, len(values))
	for i, v := range values {
		out[i] = math.Float64bits(v)
	}

	return out
}

func TestAppendRowsList(t *testing.T) {
	s, err := New[float64, float64](format.SeriesXYY, WithCoalescing(false))
	require.NoError(t, err)
	rec := &recorder{}
	s.Subscribe(rec.record)

	require.ErrorIs(t, s.AppendRowsList(nil, sliceList[float64]{}, sliceList[float64]{}), errs.ErrNilArgument)
	require.ErrorIs(t, s.AppendRowsList(sliceList[float64]{1}, sliceList[float64]{1}), errs.ErrYValueCount)
	require.ErrorIs(t, s.AppendRowsList(sliceList[float64]{1}, sliceList[float64]{1}, nil), errs.ErrNilArgument)
	require.ErrorIs(t, s.AppendRowsList(sliceList[float64]{1, 2}, sliceList[float64]{1}, sliceList[float64]{1, 2}),
		errs.ErrColumnLengthMismatch)
	require.NoError(t, s.AppendRowsList(sliceList[float64]{}, sliceList[float64]{}, sliceList[float64]{}))
	require.Zero(t, s.Count())
	require.Empty(t, rec.reasons())

	require.NoError(t, s.AppendRowsList(sliceList[float64]{1, 2, 3}, sliceList[float64]{10, 20, 30}, sliceList[float64]{-1, -2, -3}))
	require.Equal(t, []float64{1, 2, 3}, s.XValues())
	require.Equal(t, []Reason{ReasonDataChanged}, rec.reasons(), "one event per batch")
}

func TestAppendRowsSeq(t *testing.T) {
	s, err := New[float64, float64](format.SeriesXYY, WithCoalescing(false))
	require.NoError(t, err)
	rec := &recorder{}
	s.Subscribe(rec.record)

	require.ErrorIs(t, s.AppendRowsSeq(nil), errs.ErrNilArgument)

	require.NoError(t, s.AppendRowsSeq(rowSeq([]float64{1, 2}, []float64{10, 20}, []float64{-1, -2})))
	require.Equal(t, []Reason{ReasonDataChanged}, rec.reasons(), "one event per batch")

	bad := func(yield func(float64, []float64) bool) {
		if !yield(3, []float64{30, -3}) {
			return
		}
		if !yield(4, []float64{40}) {
			return
		}
		yield(5, []float64{50, -5})
	}
	err = s.AppendRowsSeq(bad)
	require.ErrorIs(t, err, errs.ErrYValueCount)
	require.Contains(t, err.Error(), "row 1")

	require.Equal(t, []float64{1, 2, 3}, s.XValues(), "rows before the malformed row are kept")
	y1s, err := s.ValuesOf(RoleY1)
	require.NoError(t, err)
	require.Equal(t, []float64{-1, -2, -3}, y1s)
	require.True(t, s.IsEvenlySpaced())

	empty := func(func(float64, []float64) bool) {}
	require.NoError(t, s.AppendRowsSeq(empty))
	require.Len(t, rec.reasons(), 2, "an empty sequence raises no event")
}

func TestAppendRowArity(t *testing.T) {
	s, err := New[float64, float64](format.SeriesOHLC)
	require.NoError(t, err)

	require.ErrorIs(t, s.AppendRow(1, 1, 2, 3), errs.ErrYValueCount)
	require.ErrorIs(t, s.AppendRow(1, 1, 2, 3, 4, 5), errs.ErrYValueCount)
	require.NoError(t, s.AppendRow(1, 1, 2, 3, 4))
	require.Equal(t, 1, s.Count())
}

func TestFifoSeries(t *testing.T) {
	s := newXY(t, WithFifoCapacity(3))

	for i := 1; i <= 4; i++ {
		require.NoError(t, s.AppendRow(float64(i), float64(i*10)))
	}

	require.Equal(t, 3, s.Count())
	require.Equal(t, []float64{2, 3, 4}, s.XValues())

	first, ok := s.RowAt(0)
	require.True(t, ok)
	require.Equal(t, 2.0, first.X)
	require.Equal(t, 20.0, first.Y)

	last, ok := s.RowAt(2)
	require.True(t, ok)
	require.Equal(t, 4.0, last.X)
	require.Equal(t, 40.0, last.Y)

	t.Run("structural edits", func(t *testing.T) {
		require.ErrorIs(t, s.InsertRow(0, 0, 0), errs.ErrNotSupportedOnFifo)
		require.ErrorIs(t, s.InsertRows(0, []float64{0}, []float64{0}), errs.ErrNotSupportedOnFifo)
		require.ErrorIs(t, s.RemoveRange(0, 1), errs.ErrNotSupportedOnFifo)

		require.NoError(t, s.RemoveAt(0))
		require.Equal(t, []float64{3, 4}, s.XValues())
	})
}

func TestInsertRows(t *testing.T) {
	s := newXY(t)
	require.NoError(t, s.AppendRows([]float64{1, 2, 4, 5}, []float64{10, 20, 40, 50}))

	require.NoError(t, s.InsertRow(2, 3, 30))
	require.Equal(t, []float64{1, 2, 3, 4, 5}, s.XValues())
	require.True(t, s.IsSorted())
	require.False(t, s.IsEvenlySpaced(), "a middle insert always clears evenly spaced")

	require.NoError(t, s.InsertRows(5, []float64{6, 7}, []float64{60, 70}))
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, s.XValues())

	require.NoError(t, s.InsertRow(0, 10, 100))
	require.False(t, s.IsSorted())

	require.ErrorIs(t, s.InsertRow(-1, 0, 0), errs.ErrIndexOutOfRange)
	require.ErrorIs(t, s.InsertRow(9, 0, 0), errs.ErrIndexOutOfRange)
	require.ErrorIs(t, s.InsertRow(0, 0), errs.ErrYValueCount)
	require.ErrorIs(t, s.InsertRows(0, []float64{1}, []float64{1, 2}), errs.ErrColumnLengthMismatch)
}

func TestInsertAtEndKeepsFlags(t *testing.T) {
	s := newXY(t)
	require.NoError(t, s.AppendRows([]float64{1, 2, 3}, []float64{0, 0, 0}))

	require.NoError(t, s.InsertRow(3, 4, 0))
	require.True(t, s.IsSorted())
	require.True(t, s.IsEvenlySpaced())
}

func TestUpdateRow(t *testing.T) {
	s := newXY(t)
	require.NoError(t, s.AppendRows([]float64{1, 2, 3}, []float64{10, 20, 30}))

	ok, err := s.UpdateRow(2, 200)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.UpdateRow(2.5, 1)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = s.UpdateRow(2, 1, 2)
	require.ErrorIs(t, err, errs.ErrYValueCount)

	ys, err := s.YValues(0)
	require.NoError(t, err)
	require.Equal(t, []float64{10, 200, 30}, ys)
}

func TestRemove(t *testing.T) {
	s := newXY(t)
	require.NoError(t, s.AppendRows([]float64{1, 2, 3, 4, 5, 6}, []float64{1, 2, 3, 4, 5, 6}))

	require.ErrorIs(t, s.RemoveAt(6), errs.ErrIndexOutOfRange)
	require.ErrorIs(t, s.RemoveAt(-1), errs.ErrIndexOutOfRange)

	require.NoError(t, s.RemoveAt(0))
	require.Equal(t, []float64{2, 3, 4, 5, 6}, s.XValues())
	require.True(t, s.IsSorted())
	require.False(t, s.IsEvenlySpaced(), "removal clears evenly spaced")

	require.NoError(t, s.RemoveRange(1, 2))
	require.Equal(t, []float64{2, 5, 6}, s.XValues())

	require.NoError(t, s.RemoveRange(0, 0))
	require.ErrorIs(t, s.RemoveRange(2, 2), errs.ErrIndexOutOfRange)
	require.ErrorIs(t, s.RemoveRange(0, -1), errs.ErrIndexOutOfRange)

	require.True(t, s.Remove(5))
	require.False(t, s.Remove(5))
	require.Equal(t, []float64{2, 6}, s.XValues())
}

func TestClear(t *testing.T) {
	s := newXY(t)
	require.NoError(t, s.AppendRows([]float64{3, 1, 2}, []float64{1, 1, 1}))
	require.False(t, s.IsSorted())

	s.Clear()
	require.Zero(t, s.Count())
	require.True(t, s.IsSorted())
	require.True(t, s.IsEvenlySpaced())

	require.NoError(t, s.AppendRow(1, 1))
	require.Equal(t, 1, s.Count())
}

func TestSetFifoCapacity(t *testing.T) {
	s := newXY(t)
	require.NoError(t, s.AppendRows([]float64{1, 2, 3}, []float64{1, 2, 3}))

	require.NoError(t, s.SetFifoCapacity(0))
	require.Equal(t, 3, s.Count(), "setting the current capacity is a no-op")

	require.NoError(t, s.SetFifoCapacity(2))
	require.Zero(t, s.Count(), "changing capacity clears the series")
	require.Equal(t, 2, s.FifoCapacity())

	for i := range 5 {
		require.NoError(t, s.AppendRow(float64(i), 0))
	}
	require.Equal(t, []float64{3, 4}, s.XValues())

	require.ErrorIs(t, s.SetFifoCapacity(-5), errs.ErrInvalidCapacity)
	require.Equal(t, 2, s.FifoCapacity())

	require.NoError(t, s.SetFifoCapacity(0))
	require.Zero(t, s.FifoCapacity())
}

func TestClone(t *testing.T) {
	s := newXY(t, WithName("orig"), WithFifoCapacity(5))
	require.NoError(t, s.AppendRows([]float64{1, 3, 2}, []float64{10, 30, 20}))

	c := s.Clone()
	require.Equal(t, s.XValues(), c.XValues())
	require.Equal(t, s.Flags(), c.Flags())
	require.Equal(t, "orig", c.Name())
	require.Equal(t, 5, c.FifoCapacity())

	require.NoError(t, c.AppendRow(4, 40))
	ok, err := c.UpdateRow(1, 100)
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, 3, s.Count())
	ys, err := s.YValues(0)
	require.NoError(t, err)
	require.Equal(t, []float64{10, 30, 20}, ys)

	var rec recorder
	s.Subscribe(rec.record)
	require.NoError(t, c.AppendRow(5, 50))
	require.Empty(t, rec.reasons(), "subscribers are not cloned")
}

func TestCoalescing(t *testing.T) {
	coalesced, err := New[int64, float64](format.SeriesOHLC)
	require.NoError(t, err)
	direct, err := New[int64, float64](format.SeriesOHLC, WithCoalescing(false))
	require.NoError(t, err)

	var rec recorder
	coalesced.Subscribe(rec.record)

	for i := range int64(5) {
		v := float64(i)
		require.NoError(t, coalesced.AppendRow(i*60, v, v+2, v-1, v+1))
		require.NoError(t, direct.AppendRow(i*60, v, v+2, v-1, v+1))
	}

	require.Equal(t, 5, coalesced.Pending())
	require.Empty(t, rec.reasons(), "buffered appends raise no event")

	require.Equal(t, 5, coalesced.Count())
	require.Zero(t, coalesced.Pending())
	require.Equal(t, []Reason{ReasonDataChanged}, rec.reasons(), "the flush raises a single event")

	require.Equal(t, direct.XValues(), coalesced.XValues())
	for _, role := range []ColumnRole{RoleOpen, RoleHigh, RoleLow, RoleClose} {
		want, err := direct.ValuesOf(role)
		require.NoError(t, err)
		got, err := coalesced.ValuesOf(role)
		require.NoError(t, err)
		require.Equal(t, want, got, role.String())
	}
	require.Equal(t, direct.Flags(), coalesced.Flags())

	coalesced.Flush()
	require.Len(t, rec.reasons(), 1, "flushing nothing raises nothing")
}

func TestCoalescingFlushOrdering(t *testing.T) {
	s, err := New[int64, float64](format.SeriesXYY)
	require.NoError(t, err)

	require.NoError(t, s.AppendRow(1, 1, 1))
	require.NoError(t, s.AppendRow(2, 2, 2))
	require.NoError(t, s.AppendRows([]int64{3, 4}, []float64{3, 4}, []float64{3, 4}))
	require.NoError(t, s.AppendRow(5, 5, 5))

	s.BeginRenderPass()
	require.Equal(t, []int64{1, 2, 3, 4, 5}, s.XValues())
	require.True(t, s.IsEvenlySpaced())
}

func TestClearDiscardsPending(t *testing.T) {
	s, err := New[int64, float64](format.SeriesXYZ)
	require.NoError(t, err)

	var rec recorder
	s.Subscribe(rec.record)

	require.NoError(t, s.AppendRow(1, 1, 1))
	s.Clear()

	require.Zero(t, s.Pending())
	require.Zero(t, s.Count())
	require.Equal(t, []Reason{ReasonCleared}, rec.reasons())
}

func TestEvents(t *testing.T) {
	s := newXY(t, WithName("latency"))

	var rec recorder
	unsubscribe := s.Subscribe(rec.record)

	require.NoError(t, s.AppendRow(1, 1))
	require.NoError(t, s.AppendRows([]float64{2, 3}, []float64{2, 3}))
	require.NoError(t, s.InsertRow(0, 0, 0))
	_, _ = s.UpdateRow(1, 10)
	_, _ = s.UpdateRow(99, 10)
	require.NoError(t, s.RemoveAt(0))
	s.Clear()
	require.NoError(t, s.SetFifoCapacity(4))

	require.Equal(t, []Reason{
		ReasonDataChanged, ReasonDataChanged, ReasonDataChanged, ReasonDataChanged,
		ReasonDataChanged, ReasonCleared, ReasonCleared,
	}, rec.reasons())

	rec.mu.Lock()
	require.Equal(t, "latency", rec.events[0].Series)
	rec.mu.Unlock()

	unsubscribe()
	unsubscribe()
	require.NoError(t, s.AppendRow(1, 1))
	require.Len(t, rec.reasons(), 7)
}

func TestEventCallbackMayReadSeries(t *testing.T) {
	s := newXY(t)

	var counts []int
	s.Subscribe(func(Event) {
		counts = append(counts, s.Count())
	})

	require.NoError(t, s.AppendRow(1, 1))
	require.NoError(t, s.AppendRow(2, 2))
	require.Equal(t, []int{1, 2}, counts)
}

func TestMetrics(t *testing.T) {
	m := &BasicMetricsCollector{}
	s, err := New[int64, float64](format.SeriesXYY, WithMetrics(m))
	require.NoError(t, err)

	require.NoError(t, s.AppendRow(1, 1, 1))
	require.NoError(t, s.AppendRow(2, 2, 2))
	require.NoError(t, s.AppendRows([]int64{3, 4, 5}, []float64{3, 4, 5}, []float64{3, 4, 5}))
	require.NoError(t, s.RemoveRange(0, 2))
	require.True(t, s.Remove(5))
	_ = s.GetIndicesRange(Range[int64]{Min: 0, Max: 10})
	s.Clear()

	stats := m.Stats()
	require.Equal(t, int64(3), stats.AppendCalls)
	require.Equal(t, int64(5), stats.AppendedRows)
	require.Equal(t, int64(1), stats.FlushCount)
	require.Equal(t, int64(2), stats.FlushedRows)
	require.Equal(t, int64(3), stats.RemovedRows)
	require.Equal(t, int64(1), stats.ClearCount)
	require.Equal(t, int64(1), stats.QueryCount)
}

func TestUnsortedWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s := newXY(t, WithName("strict"), WithLogger(logger), WithAcceptsUnsortedData(false))
	require.NoError(t, s.AppendRows([]float64{1, 2, 3}, []float64{1, 2, 3}))
	require.Empty(t, buf.String())

	require.NoError(t, s.AppendRow(0, 0))
	require.NoError(t, s.AppendRow(-1, 0))
	require.Equal(t, 5, s.Count(), "unsorted rows are still stored")

	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "no longer sorted"), "warned once per transition")
	require.Contains(t, out, "series=strict")

	buf.Reset()
	s.Clear()
	require.NoError(t, s.AppendRows([]float64{2, 1}, []float64{0, 0}))
	require.Equal(t, 1, strings.Count(buf.String(), "no longer sorted"), "clear re-arms the warning")
}

func TestUnsortedAcceptedIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := newXY(t, WithLogger(logger))
	require.NoError(t, s.AppendRows([]float64{3, 2, 1}, []float64{0, 0, 0}))
	require.NotContains(t, buf.String(), "no longer sorted")
}

func TestConcurrentAppendAndRead(t *testing.T) {
	s, err := New[int64, float64](format.SeriesHLC)
	require.NoError(t, err)

	const (
		writers = 4
		rows    = 500
	)

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				x := int64(w*rows + i)
				_ = s.AppendRow(x, 2, 0, 1)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 200 {
			r := s.YRange(false)
			if r.IsDefined() && (r.Min != 0 || r.Max != 2) {
				t.Errorf("unexpected y range %+v", r)
			}
			_ = s.GetIndicesRange(Range[int64]{Min: 10, Max: 100})
		}
	}()

	wg.Wait()
	require.Equal(t, writers*rows, s.Count())

	highs, err := s.ValuesOf(RoleHigh)
	require.NoError(t, err)
	require.Len(t, highs, writers*rows)
}

func BenchmarkAppendRow(b *testing.B) {
	for _, coalesce := range []bool{false, true} {
		name := "direct"
		if coalesce {
			name = "coalesced"
		}
		b.Run(name, func(b *testing.B) {
			s, _ := New[int64, float64](format.SeriesOHLC, WithCoalescing(coalesce), WithFifoCapacity(4096))
			var x int64
			for b.Loop() {
				_ = s.AppendRow(x, 1, 2, 0, 1)
				x++
			}
			s.Flush()
		})
	}
}
