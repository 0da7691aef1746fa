package pool

import "sync"

// Column buffers hold one encoded column; snapshot buffers hold a whole encoded series.
const (
	ColumnBufferDefaultSize    = 1024 * 16       // 16KiB
	ColumnBufferMaxThreshold   = 1024 * 128      // 128KiB
	SnapshotBufferDefaultSize  = 1024 * 256      // 256KiB
	SnapshotBufferMaxThreshold = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is an append-only byte slice that encoders write into and return to a
// ByteBufferPool when done.
type ByteBuffer struct {
	B []byte
}

func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

func (bb *ByteBuffer) Bytes() []byte { return bb.B }
func (bb *ByteBuffer) Len() int      { return len(bb.B) }
func (bb *ByteBuffer) Cap() int      { return cap(bb.B) }

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// MustWrite appends data.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Slice returns B[start:end]. end may reach past Len up to Cap, which lets a caller
// fill bytes reserved by Extend. It panics on invalid bounds.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > cap(bb.B) {
		panic("pool: invalid buffer slice bounds")
	}

	return bb.B[start:end]
}

// Extend lengthens the buffer by n bytes without reallocating, and reports false
// when the capacity is too small.
func (bb *ByteBuffer) Extend(n int) bool {
	end := len(bb.B) + n
	if end > cap(bb.B) {
		return false
	}
	bb.B = bb.B[:end]

	return true
}

// ExtendOrGrow lengthens the buffer by n bytes, reallocating if needed. The new bytes
// are not zeroed.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	if bb.Extend(n) {
		return
	}

	end := len(bb.B) + n
	bb.Grow(n)
	bb.B = bb.B[:end]
}

// Grow makes room for n more bytes. Small buffers grow by ColumnBufferDefaultSize,
// buffers above four times that by a quarter of their capacity, and never by less
// than n.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	step := ColumnBufferDefaultSize
	if cap(bb.B) > 4*ColumnBufferDefaultSize {
		step = cap(bb.B) / 4
	}
	step = max(step, n)

	grown := make([]byte, len(bb.B), len(bb.B)+step)
	copy(grown, bb.B)
	bb.B = grown
}

// ByteBufferPool recycles ByteBuffers through a sync.Pool. Buffers that grew past
// maxThreshold are dropped on Put instead of being kept alive by the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int // 0 keeps every buffer
}

func NewByteBufferPool(capacity, maxThreshold int) *ByteBufferPool {
	p := &ByteBufferPool{maxThreshold: maxThreshold}
	p.pool.New = func() any { return NewByteBuffer(capacity) }

	return p
}

func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put resets bb and returns it to the pool. A nil bb is ignored.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var (
	columnPool   = NewByteBufferPool(ColumnBufferDefaultSize, ColumnBufferMaxThreshold)
	snapshotPool = NewByteBufferPool(SnapshotBufferDefaultSize, SnapshotBufferMaxThreshold)
)

// GetColumnBuffer returns an empty buffer sized for one encoded column.
func GetColumnBuffer() *ByteBuffer { return columnPool.Get() }

// PutColumnBuffer returns a buffer obtained from GetColumnBuffer.
func PutColumnBuffer(bb *ByteBuffer) { columnPool.Put(bb) }

// GetSnapshotBuffer returns an empty buffer sized for a complete snapshot payload.
func GetSnapshotBuffer() *ByteBuffer { return snapshotPool.Get() }

// PutSnapshotBuffer returns a buffer obtained from GetSnapshotBuffer.
func PutSnapshotBuffer(bb *ByteBuffer) { snapshotPool.Put(bb) }
