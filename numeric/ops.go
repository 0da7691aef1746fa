// Package numeric provides the ordered numeric operations used generically by
// columns, the distribution tracker and windowed range scans.
//
// Every element type stored in a column must satisfy the Number constraint. The
// operations that differ between integer and floating types (NaN detection, spacing
// tolerance) are resolved once per type by For and carried as an Ops value, so the
// hot loops in the tracker never branch on a runtime type switch.
package numeric

// Integer is the set of built-in integer types and types derived from them.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is the set of built-in floating types and types derived from them.
type Float interface {
	~float32 | ~float64
}

// Number is the constraint satisfied by every column element type.
type Number interface {
	Integer | Float
}

// SpacingToleranceDivisor is the divisor applied to the reference spacing of a floating
// column to obtain the tolerance used when comparing later spacings.
const SpacingToleranceDivisor = 8000

// Ops is the per-type numeric capability.
type Ops[T Number] interface {
	// Zero returns the additive identity.
	Zero() T
	// Min returns the smaller of a and b; a NaN operand yields the other operand.
	Min(a, b T) T
	// Max returns the larger of a and b; a NaN operand yields the other operand.
	Max(a, b T) T
	// Add returns a + b.
	Add(a, b T) T
	// Subtract returns a - b.
	Subtract(a, b T) T
	// IsNaN reports whether v is NaN. Always false for integer types.
	IsNaN(v T) bool
	// ToFloat64 converts v to float64.
	ToFloat64(v T) float64
	// FromFloat64 converts f to T, truncating toward zero for integer types.
	FromFloat64(f float64) T
	// Floating reports whether T is a floating type.
	Floating() bool
	// Tolerance returns the spacing tolerance derived from a reference spacing.
	// Integer types always return zero (exact comparison).
	Tolerance(spacing T) T
	// SpacingEqual reports whether spacing matches reference within tol.
	SpacingEqual(spacing, reference, tol T) bool
}

// For returns the Ops implementation for T.
func For[T Number]() Ops[T] {
	if IsFloating[T]() {
		return floatOps[T]{}
	}

	return integerOps[T]{}
}

// IsFloating reports whether T is a floating type.
func IsFloating[T Number]() bool {
	one, two := T(1), T(2)

	return one/two != 0
}

type integerOps[T Number] struct{}

var _ Ops[int64] = integerOps[int64]{}

func (integerOps[T]) Zero() T { return 0 }

func (integerOps[T]) Min(a, b T) T {
	if b < a {
		return b
	}

	return a
}

func (integerOps[T]) Max(a, b T) T {
	if b > a {
		return b
	}

	return a
}

func (integerOps[T]) Add(a, b T) T            { return a + b }
func (integerOps[T]) Subtract(a, b T) T       { return a - b }
func (integerOps[T]) IsNaN(T) bool            { return false }
func (integerOps[T]) ToFloat64(v T) float64   { return float64(v) }
func (integerOps[T]) FromFloat64(f float64) T { return T(f) }
func (integerOps[T]) Floating() bool          { return false }
func (integerOps[T]) Tolerance(T) T           { return 0 }

func (integerOps[T]) SpacingEqual(spacing, reference, _ T) bool {
	return spacing == reference
}

type floatOps[T Number] struct{}

var _ Ops[float64] = floatOps[float64]{}

func (floatOps[T]) Zero() T { return 0 }

func (floatOps[T]) Min(a, b T) T {
	switch {
	case a != a: //nolint:gocritic // NaN check
		return b
	case b != b: //nolint:gocritic // NaN check
		return a
	case b < a:
		return b
	default:
		return a
	}
}

func (floatOps[T]) Max(a, b T) T {
	switch {
	case a != a: //nolint:gocritic // NaN check
		return b
	case b != b: //nolint:gocritic // NaN check
		return a
	case b > a:
		return b
	default:
		return a
	}
}

func (floatOps[T]) Add(a, b T) T            { return a + b }
func (floatOps[T]) Subtract(a, b T) T       { return a - b }
func (floatOps[T]) IsNaN(v T) bool          { return v != v } //nolint:gocritic // NaN check
func (floatOps[T]) ToFloat64(v T) float64   { return float64(v) }
func (floatOps[T]) FromFloat64(f float64) T { return T(f) }
func (floatOps[T]) Floating() bool          { return true }

func (floatOps[T]) Tolerance(spacing T) T {
	tol := T(float64(spacing) / SpacingToleranceDivisor)
	if tol < 0 {
		return -tol
	}

	return tol
}

func (floatOps[T]) SpacingEqual(spacing, reference, tol T) bool {
	diff := spacing - reference
	if diff < 0 {
		diff = -diff
	}

	return diff <= tol
}
