package encoding

import (
	"encoding/binary"
	"iter"
	"math"
	"math/bits"

	"github.com/arloliu/chartdata/internal/pool"
)

// GorillaEncoder encodes float64 values with the Gorilla XOR scheme.
//
// The first value is stored verbatim in 64 bits. Every following value is XORed with
// its predecessor:
//   - an unchanged value costs a single 0 bit
//   - a changed value whose meaningful bits fit the previous window costs the control
//     bits 10 followed by those bits
//   - any other value costs 11, a 5-bit leading-zero count, a 6-bit window length and
//     the window bits
//
// Slowly moving series such as prices or sensor readings shrink to a few bits per
// value. The bit stream is big-endian regardless of the platform.
//
// See https://www.vldb.org/pvldb/vol8/p1816-teller.pdf.
type GorillaEncoder struct {
	bitBuf       uint64 // pending bits, right-aligned
	bitCount     int
	prev         uint64
	prevLeading  int
	prevTrailing int
	prevWindow   int // 0 until the first window is written
	count        int

	buf *pool.ByteBuffer
}

var _ ColumnarEncoder[float64] = (*GorillaEncoder)(nil)

// NewGorillaEncoder creates a Gorilla encoder backed by a pooled buffer.
func NewGorillaEncoder() *GorillaEncoder {
	return &GorillaEncoder{buf: pool.GetColumnBuffer()}
}

// Write encodes a single value.
func (e *GorillaEncoder) Write(value float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.put(math.Float64bits(value))
}

// WriteSlice encodes values in order.
func (e *GorillaEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	for _, v := range values {
		e.put(math.Float64bits(v))
	}
}

func (e *GorillaEncoder) put(v uint64) {
	e.count++
	if e.count == 1 {
		e.prev = v
		e.writeBits(v, 64)

		return
	}

	xor := v ^ e.prev
	e.prev = v

	if xor == 0 {
		e.writeBits(0, 1)
		return
	}

	leading := bits.LeadingZeros64(xor)
	trailing := bits.TrailingZeros64(xor)
	// the leading-zero field is 5 bits wide
	if leading > 31 {
		leading = 31
	}

	if e.prevWindow > 0 && leading >= e.prevLeading && trailing >= e.prevTrailing {
		e.writeBits(0b10, 2)
		e.writeBits(xor>>e.prevTrailing, e.prevWindow)

		return
	}

	window := 64 - leading - trailing
	e.writeBits(0b11, 2)
	e.writeBits(uint64(leading), 5)  //nolint:gosec // 0..31
	e.writeBits(uint64(window-1), 6) //nolint:gosec // window is 1..64
	e.writeBits(xor>>trailing, window)

	e.prevLeading = leading
	e.prevTrailing = trailing
	e.prevWindow = window
}

// writeBits appends the low n bits of value, n in [1, 64].
func (e *GorillaEncoder) writeBits(value uint64, n int) {
	if n < 64 {
		value &= 1<<n - 1
	}

	free := 64 - e.bitCount
	if n < free {
		e.bitBuf = e.bitBuf<<n | value
		e.bitCount += n

		return
	}

	// fill the word, flush it, keep the rest
	rest := n - free
	e.flushWord(e.bitBuf<<free | value>>rest)
	e.bitBuf = value & (1<<rest - 1)
	e.bitCount = rest
}

func (e *GorillaEncoder) flushWord(word uint64) {
	start := e.buf.Len()
	e.buf.ExtendOrGrow(8)
	binary.BigEndian.PutUint64(e.buf.Slice(start, start+8), word)
}

// Bytes returns the encoded payload, with pending bits padded to a whole byte.
// When bits are pending the returned slice is a fresh copy.
func (e *GorillaEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	data := e.buf.Bytes()
	if e.bitCount == 0 {
		return data
	}

	var tail [8]byte
	binary.BigEndian.PutUint64(tail[:], e.bitBuf<<(64-e.bitCount))
	n := (e.bitCount + 7) / 8

	return append(data[:len(data):len(data)], tail[:n]...)
}

func (e *GorillaEncoder) Len() int { return e.count }

func (e *GorillaEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len() + (e.bitCount+7)/8
}

func (e *GorillaEncoder) Finish() {
	if e.buf != nil {
		pool.PutColumnBuffer(e.buf)
		e.buf = nil
	}
	e.bitBuf, e.bitCount, e.count, e.prevWindow = 0, 0, 0, 0
}

// GorillaDecoder decodes payloads produced by GorillaEncoder.
type GorillaDecoder struct{}

var _ ColumnarDecoder[float64] = GorillaDecoder{}

// NewGorillaDecoder creates a Gorilla decoder. It holds no state.
func NewGorillaDecoder() GorillaDecoder {
	return GorillaDecoder{}
}

func (GorillaDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if count <= 0 {
			return
		}

		r := bitReader{data: data}
		prev, ok := r.read(64)
		if !ok || !yield(math.Float64frombits(prev)) {
			return
		}

		var w gorillaWindow
		for range count - 1 {
			next, ok := w.next(&r, prev)
			if !ok {
				return
			}
			prev = next
			if !yield(math.Float64frombits(prev)) {
				return
			}
		}
	}
}

// At decodes sequentially up to index.
func (d GorillaDecoder) At(data []byte, index int, count int) (float64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	i := 0
	for v := range d.All(data, count) {
		if i == index {
			return v, true
		}
		i++
	}

	return 0, false
}

// gorillaWindow is the meaningful-bit window carried between changed values.
type gorillaWindow struct {
	trailing int
	size     int
}

// next reads one encoded value following prev.
func (w *gorillaWindow) next(r *bitReader, prev uint64) (uint64, bool) {
	changed, ok := r.read(1)
	if !ok {
		return 0, false
	}
	if changed == 0 {
		return prev, true
	}

	fresh, ok := r.read(1)
	if !ok {
		return 0, false
	}

	if fresh == 1 {
		leading, ok := r.read(5)
		if !ok {
			return 0, false
		}
		size, ok := r.read(6)
		if !ok {
			return 0, false
		}

		w.size = int(size) + 1
		w.trailing = 64 - int(leading) - w.size
		if w.trailing < 0 {
			return 0, false
		}
	} else if w.size == 0 {
		// reuse before any window was defined
		return 0, false
	}

	meaningful, ok := r.read(w.size)
	if !ok {
		return 0, false
	}

	return prev ^ meaningful<<w.trailing, true
}

// bitReader reads a big-endian bit stream.
type bitReader struct {
	data   []byte
	pos    int
	buf    uint64 // left-aligned
	bitLen int
}

func (r *bitReader) fill() bool {
	if r.pos >= len(r.data) {
		return false
	}

	if len(r.data)-r.pos >= 8 {
		r.buf = binary.BigEndian.Uint64(r.data[r.pos:])
		r.pos += 8
		r.bitLen = 64

		return true
	}

	r.buf = 0
	n := len(r.data) - r.pos
	for i := range n {
		r.buf |= uint64(r.data[r.pos+i]) << (56 - 8*i)
	}
	r.pos += n
	r.bitLen = 8 * n

	return true
}

// read returns the next n bits right-aligned, n in [1, 64].
func (r *bitReader) read(n int) (uint64, bool) {
	var out uint64
	for n > 0 {
		if r.bitLen == 0 && !r.fill() {
			return 0, false
		}

		take := min(n, r.bitLen)
		out = out<<take | r.buf>>(64-take)
		r.buf <<= take
		r.bitLen -= take
		n -= take
	}

	return out, true
}
