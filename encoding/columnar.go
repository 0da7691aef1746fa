package encoding

import "iter"

// ColumnarEncoder encodes one column of values into a byte payload.
type ColumnarEncoder[T comparable] interface {
	// Write appends a single value.
	Write(value T)

	// WriteSlice appends values in order. It produces the same bytes as calling Write
	// for each value.
	WriteSlice(values []T)

	// Bytes returns the encoded payload. The slice is valid until the next Write,
	// WriteSlice or Finish and must not be modified.
	Bytes() []byte

	// Len returns the number of values written.
	Len() int

	// Size returns the payload size in bytes.
	Size() int

	// Finish returns the internal buffer to its pool. The encoder must not be used
	// afterwards.
	Finish()
}

// ColumnarDecoder decodes a payload produced by the matching ColumnarEncoder.
type ColumnarDecoder[T comparable] interface {
	// All yields the count values encoded in data. Malformed or short data stops the
	// sequence early, so callers must count what they receive.
	All(data []byte, count int) iter.Seq[T]

	// At returns the value at index, or false if index is outside [0, count) or the
	// data is too short.
	At(data []byte, index int, count int) (T, bool)
}
