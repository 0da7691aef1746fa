// Package promcollector exports series metrics to Prometheus.
//
// A Collector implements series.MetricsCollector. One collector may be shared by many
// series; give each its own collector with a distinct series label when per-series
// numbers are needed.
//
//	reg := prometheus.NewRegistry()
//	c, err := promcollector.New(reg, promcollector.WithConstLabels(prometheus.Labels{"series": "cpu"}))
//	if err != nil {
//		return err
//	}
//	s, err := series.New[int64, float64](format.SeriesXY, series.WithMetrics(c))
package promcollector

import (
	"fmt"
	"time"

	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/internal/options"
	"github.com/arloliu/chartdata/series"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "chartdata"

// Config holds the collector settings.
type Config struct {
	namespace   string
	subsystem   string
	constLabels prometheus.Labels
	buckets     []float64
}

// Option configures a Collector.
type Option = options.Option[*Config]

// WithNamespace sets the metric namespace. The default is "chartdata".
func WithNamespace(ns string) Option {
	return options.NoError(func(c *Config) {
		c.namespace = ns
	})
}

// WithSubsystem sets the metric subsystem. The default is "series".
func WithSubsystem(sub string) Option {
	return options.NoError(func(c *Config) {
		c.subsystem = sub
	})
}

// WithConstLabels attaches constant labels to every metric of the collector.
func WithConstLabels(labels prometheus.Labels) Option {
	return options.NoError(func(c *Config) {
		c.constLabels = labels
	})
}

// WithQueryBuckets sets the query and flush latency histogram buckets, in seconds.
func WithQueryBuckets(buckets []float64) Option {
	return options.New(func(c *Config) error {
		if len(buckets) == 0 {
			return fmt.Errorf("%w: histogram buckets", errs.ErrNilArgument)
		}
		c.buckets = buckets

		return nil
	})
}

// Collector records series metrics in Prometheus counters and histograms.
type Collector struct {
	appendedRows  prometheus.Counter
	appendCalls   prometheus.Counter
	flushedRows   prometheus.Counter
	flushes       prometheus.Counter
	flushDuration prometheus.Histogram
	removedRows   prometheus.Counter
	clears        prometheus.Counter
	queryDuration *prometheus.HistogramVec
}

var _ series.MetricsCollector = (*Collector)(nil)

// New creates a collector and registers its metrics on reg.
//
// Parameters:
//   - reg: Registerer the metrics are registered on
//   - opts: Namespace, subsystem, constant labels and histogram buckets
//
// Returns:
//   - *Collector: The registered collector
//   - error: An option error, or the registration error when a metric with the same
//     name and labels is already registered
func New(reg prometheus.Registerer, opts ...Option) (*Collector, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: registerer", errs.ErrNilArgument)
	}

	cfg := &Config{
		namespace: defaultNamespace,
		subsystem: "series",
		buckets:   prometheus.ExponentialBuckets(0.000_001, 4, 10), // 1µs to ~262ms
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.constLabels,
		})
	}

	c := &Collector{
		appendedRows: counter("appended_rows_total", "Rows accepted by append operations."),
		appendCalls:  counter("append_calls_total", "Append operations."),
		flushedRows:  counter("flushed_rows_total", "Coalesced rows written to the columns."),
		flushes:      counter("flushes_total", "Coalescer flushes that wrote at least one row."),
		removedRows:  counter("removed_rows_total", "Rows removed from the series."),
		clears:       counter("clears_total", "Clear operations."),
		flushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Time spent writing a coalesced batch.",
			ConstLabels: cfg.constLabels,
			Buckets:     cfg.buckets,
		}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "query_duration_seconds",
			Help:        "Query latency by operation.",
			ConstLabels: cfg.constLabels,
			Buckets:     cfg.buckets,
		}, []string{"op"}),
	}

	metrics := []prometheus.Collector{
		c.appendedRows, c.appendCalls, c.flushedRows, c.flushes,
		c.flushDuration, c.removedRows, c.clears, c.queryDuration,
	}
	for i, m := range metrics {
		if err := reg.Register(m); err != nil {
			for _, done := range metrics[:i] {
				reg.Unregister(done)
			}

			return nil, fmt.Errorf("register series metrics: %w", err)
		}
	}

	return c, nil
}

func (c *Collector) RecordAppend(rows int) {
	c.appendCalls.Inc()
	c.appendedRows.Add(float64(rows))
}

func (c *Collector) RecordFlush(rows int, duration time.Duration) {
	c.flushes.Inc()
	c.flushedRows.Add(float64(rows))
	c.flushDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordRemove(rows int) {
	c.removedRows.Add(float64(rows))
}

func (c *Collector) RecordClear() {
	c.clears.Inc()
}

func (c *Collector) RecordQuery(op string, duration time.Duration) {
	c.queryDuration.WithLabelValues(op).Observe(duration.Seconds())
}
