package encoding

import (
	"encoding/binary"
	"iter"

	"github.com/arloliu/chartdata/internal/pool"
)

// DeltaEncoder encodes int64 values with delta-of-delta compression.
//
// The first value is stored as a zigzag varint, the second as the zigzag delta from
// the first, and every following value as the zigzag difference between consecutive
// deltas. A column with constant spacing therefore costs one byte per value after the
// first two. Arithmetic wraps, so any int64 sequence round-trips exactly.
type DeltaEncoder struct {
	prev      int64
	prevDelta int64
	temp      [binary.MaxVarintLen64]byte
	buf       *pool.ByteBuffer
	count     int
}

var _ ColumnarEncoder[int64] = (*DeltaEncoder)(nil)

// NewDeltaEncoder creates a delta-of-delta encoder backed by a pooled buffer.
func NewDeltaEncoder() *DeltaEncoder {
	return &DeltaEncoder{buf: pool.GetColumnBuffer()}
}

// Write encodes a single value.
func (e *DeltaEncoder) Write(value int64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.buf.Grow(binary.MaxVarintLen64)
	e.put(value)
}

// WriteSlice encodes values in order.
func (e *DeltaEncoder) WriteSlice(values []int64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if len(values) == 0 {
		return
	}

	// one byte per steady value, plus room for the header values
	e.buf.Grow(2*binary.MaxVarintLen64 + len(values))
	for _, v := range values {
		e.put(v)
	}
}

func (e *DeltaEncoder) put(value int64) {
	var enc int64
	switch e.count {
	case 0:
		enc = value
	case 1:
		enc = value - e.prev
		e.prevDelta = enc
	default:
		delta := value - e.prev
		enc = delta - e.prevDelta
		e.prevDelta = delta
	}

	e.prev = value
	e.count++

	n := binary.PutUvarint(e.temp[:], zigzag(enc))
	e.buf.MustWrite(e.temp[:n])
}

func (e *DeltaEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

func (e *DeltaEncoder) Len() int { return e.count }

func (e *DeltaEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

func (e *DeltaEncoder) Finish() {
	if e.buf != nil {
		pool.PutColumnBuffer(e.buf)
		e.buf = nil
	}
	e.prev, e.prevDelta, e.count = 0, 0, 0
}

// DeltaDecoder decodes DeltaEncoder payloads. It is stateless and safe for concurrent use.
type DeltaDecoder struct{}

var _ ColumnarDecoder[int64] = DeltaDecoder{}

func NewDeltaDecoder() DeltaDecoder {
	return DeltaDecoder{}
}

// All yields the decoded values in order.
func (d DeltaDecoder) All(data []byte, count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		var cur, delta int64
		offset := 0

		for i := range count {
			u, n := binary.Uvarint(data[offset:])
			if n <= 0 {
				return
			}
			offset += n

			v := unzigzag(u)
			switch i {
			case 0:
				cur = v
			case 1:
				delta = v
				cur += delta
			default:
				delta += v
				cur += delta
			}

			if !yield(cur) {
				return
			}
		}
	}
}

// At decodes sequentially up to index; delta payloads have no random access.
func (d DeltaDecoder) At(data []byte, index int, count int) (int64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	i := 0
	for v := range d.All(data, index+1) {
		if i == index {
			return v, true
		}
		i++
	}

	return 0, false
}

func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63)) //nolint:gosec
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1) //nolint:gosec
}
