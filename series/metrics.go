package series

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from a series.
// Implement this interface to integrate with a monitoring system; package promcollector
// provides a Prometheus implementation.
//
// Methods are called after the series lock has been released and must be safe for
// concurrent use.
type MetricsCollector interface {
	// RecordAppend is called after rows are accepted by AppendRow or AppendRows.
	// For coalescing series the rows may still be pending.
	RecordAppend(rows int)

	// RecordFlush is called after a coalesced batch has been written to the columns.
	RecordFlush(rows int, duration time.Duration)

	// RecordRemove is called after rows are removed.
	RecordRemove(rows int)

	// RecordClear is called after the series is cleared.
	RecordClear()

	// RecordQuery is called after a windowed or search query. op names the query.
	RecordQuery(op string, duration time.Duration)
}

// NoopMetricsCollector discards all metrics. It is the default collector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAppend(int)                  {}
func (NoopMetricsCollector) RecordFlush(int, time.Duration)    {}
func (NoopMetricsCollector) RecordRemove(int)                  {}
func (NoopMetricsCollector) RecordClear()                      {}
func (NoopMetricsCollector) RecordQuery(string, time.Duration) {}

// BasicMetricsCollector keeps simple in-memory counters.
// Useful for debugging and tests without an external monitoring system.
type BasicMetricsCollector struct {
	AppendCalls     atomic.Int64
	AppendedRows    atomic.Int64
	FlushCount      atomic.Int64
	FlushedRows     atomic.Int64
	FlushTotalNanos atomic.Int64
	RemovedRows     atomic.Int64
	ClearCount      atomic.Int64
	QueryCount      atomic.Int64
	QueryTotalNanos atomic.Int64
}

var (
	_ MetricsCollector = NoopMetricsCollector{}
	_ MetricsCollector = (*BasicMetricsCollector)(nil)
)

// RecordAppend implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAppend(rows int) {
	b.AppendCalls.Add(1)
	b.AppendedRows.Add(int64(rows))
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(rows int, duration time.Duration) {
	b.FlushCount.Add(1)
	b.FlushedRows.Add(int64(rows))
	b.FlushTotalNanos.Add(duration.Nanoseconds())
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(rows int) {
	b.RemovedRows.Add(int64(rows))
}

// RecordClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClear() {
	b.ClearCount.Add(1)
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(_ string, duration time.Duration) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
}

// BasicMetricsStats is a point-in-time copy of BasicMetricsCollector.
type BasicMetricsStats struct {
	AppendCalls   int64
	AppendedRows  int64
	FlushCount    int64
	FlushedRows   int64
	FlushAvgNanos int64
	RemovedRows   int64
	ClearCount    int64
	QueryCount    int64
	QueryAvgNanos int64
}

// Stats returns a snapshot of the current counters.
func (b *BasicMetricsCollector) Stats() BasicMetricsStats {
	return BasicMetricsStats{
		AppendCalls:   b.AppendCalls.Load(),
		AppendedRows:  b.AppendedRows.Load(),
		FlushCount:    b.FlushCount.Load(),
		FlushedRows:   b.FlushedRows.Load(),
		FlushAvgNanos: average(b.FlushTotalNanos.Load(), b.FlushCount.Load()),
		RemovedRows:   b.RemovedRows.Load(),
		ClearCount:    b.ClearCount.Load(),
		QueryCount:    b.QueryCount.Load(),
		QueryAvgNanos: average(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
	}
}

func average(total, count int64) int64 {
	if count == 0 {
		return 0
	}

	return total / count
}
