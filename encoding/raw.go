package encoding

import (
	"iter"
	"math"

	"github.com/arloliu/chartdata/endian"
	"github.com/arloliu/chartdata/internal/pool"
)

// RawEncoder stores float64 values as fixed-width IEEE-754 bits in the engine's byte
// order. NaN payloads and signed zeros are preserved bit for bit.
type RawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[float64] = (*RawEncoder)(nil)

// NewRawEncoder creates a raw float64 encoder.
//
// Parameters:
//   - engine: Byte order for the encoded values
//
// Returns:
//   - *RawEncoder: Encoder backed by a pooled buffer
func NewRawEncoder(engine endian.EndianEngine) *RawEncoder {
	return &RawEncoder{
		engine: engine,
		buf:    pool.GetColumnBuffer(),
	}
}

// Write encodes a single value.
func (e *RawEncoder) Write(value float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(value))
}

// WriteSlice encodes values in order, growing the buffer once.
func (e *RawEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if len(values) == 0 {
		return
	}

	e.count += len(values)

	start := e.buf.Len()
	e.buf.ExtendOrGrow(len(values) * 8)
	for i, v := range values {
		offset := start + i*8
		e.engine.PutUint64(e.buf.Slice(offset, offset+8), math.Float64bits(v))
	}
}

func (e *RawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

func (e *RawEncoder) Len() int { return e.count }

func (e *RawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

func (e *RawEncoder) Finish() {
	if e.buf != nil {
		pool.PutColumnBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// RawDecoder decodes RawEncoder payloads written with the same byte order.
type RawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[float64] = RawDecoder{}

func NewRawDecoder(engine endian.EndianEngine) RawDecoder {
	return RawDecoder{engine: engine}
}

// All yields count values. Nothing is yielded if data holds fewer than count values.
func (d RawDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if count <= 0 || len(data) < count*8 {
			return
		}

		for i := range count {
			start := i * 8
			if !yield(math.Float64frombits(d.engine.Uint64(data[start : start+8]))) {
				return
			}
		}
	}
}

// At reads the value at index directly.
func (d RawDecoder) At(data []byte, index int, count int) (float64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	start := index * 8
	if start+8 > len(data) {
		return 0, false
	}

	return math.Float64frombits(d.engine.Uint64(data[start : start+8])), true
}
