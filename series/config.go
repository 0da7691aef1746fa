package series

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/internal/options"
)

// Config holds the construction-time settings of a series.
type Config struct {
	name                string
	fifoCapacity        int
	acceptsUnsortedData bool
	logger              *slog.Logger
	metrics             MetricsCollector
	parent              any
	coalescing          *bool
}

// Option configures a series at construction time.
// This is a type alias for the generic Option interface specialized for Config.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		acceptsUnsortedData: true,
		logger:              discardLogger,
		metrics:             NoopMetricsCollector{},
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithName sets the series name. The name is attached to every log record.
func WithName(name string) Option {
	return options.NoError(func(c *Config) {
		c.name = name
	})
}

// WithFifoCapacity makes the series a fixed-capacity fifo series holding at most
// capacity rows. Zero keeps the default growable storage.
func WithFifoCapacity(capacity int) Option {
	return options.New(func(c *Config) error {
		if capacity < 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidCapacity, capacity)
		}
		c.fifoCapacity = capacity

		return nil
	})
}

// WithAcceptsUnsortedData sets whether the series expects unsorted X values.
//
// A series that does not accept unsorted data still stores it, but logs a warning the
// first time its X column stops being sorted. The default is true.
func WithAcceptsUnsortedData(accept bool) Option {
	return options.NoError(func(c *Config) {
		c.acceptsUnsortedData = accept
	})
}

// WithLogger sets the structured logger. The default discards all records.
func WithLogger(logger *slog.Logger) Option {
	return options.New(func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("%w: logger", errs.ErrNilArgument)
		}
		c.logger = logger

		return nil
	})
}

// WithMetrics sets the metrics collector. The default is NoopMetricsCollector.
func WithMetrics(metrics MetricsCollector) Option {
	return options.New(func(c *Config) error {
		if metrics == nil {
			return fmt.Errorf("%w: metrics collector", errs.ErrNilArgument)
		}
		c.metrics = metrics

		return nil
	})
}

// WithParent stores an opaque, non-owning handle to the surface the series is drawn
// on. The series never dereferences it; see Series.Parent.
func WithParent(parent any) Option {
	return options.NoError(func(c *Config) {
		c.parent = parent
	})
}

// WithCoalescing overrides whether single-row appends are buffered until the next
// flush. OHLC, HLC, XYY and XYZ series coalesce by default.
func WithCoalescing(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.coalescing = &enabled
	})
}
