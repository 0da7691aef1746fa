// Package options implements generic functional options.
//
// A package declares its option type as an alias of Option specialized for its config
// pointer, then builds options with New or NoError:
//
//	type Option = options.Option[*Config]
//
//	func WithName(name string) Option {
//	    return options.NoError(func(c *Config) { c.name = name })
//	}
package options

// Option configures a target of type T, usually a pointer to a config struct.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a function to Option.
type Func[T any] struct {
	fn func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.fn(target)
}

// New wraps a validating setter. A non-nil error aborts Apply.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{fn: fn}
}

// NoError wraps a setter that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		fn: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts to target in order and stops at the first error. Nil options
// are skipped, so callers can pass conditionally built options directly.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
