package series

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/arloliu/chartdata/compress"
	"github.com/arloliu/chartdata/distribution"
	"github.com/arloliu/chartdata/encoding"
	"github.com/arloliu/chartdata/endian"
	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/format"
	"github.com/arloliu/chartdata/internal/hash"
	"github.com/arloliu/chartdata/internal/options"
	"github.com/arloliu/chartdata/internal/pool"
	"github.com/arloliu/chartdata/numeric"
	"golang.org/x/sync/errgroup"
)

// Snapshot layout. The header is always little-endian; the byte order of the column
// blocks is recorded in the flags.
//
//	offset size field
//	0      2    magic 0xCD01
//	2      1    version
//	3      1    series type
//	4      2    flags
//	6      1    compression
//	7      1    column count, X included
//	8      8    row count
//	16     4    fifo capacity, 0 for growable
//	20     4    raw payload length
//	24     4    compressed payload length
//	28     1    X element size in bytes
//	29     1    Y element size in bytes
//	30     2    reserved
//	32     8    xxHash64 of the raw payload
//
// The raw payload is one block per column, X first: [encoding u8][length u32][bytes].
const (
	snapshotMagic      uint16 = 0xCD01
	snapshotVersion    uint8  = 1
	snapshotHeaderSize        = 40
	blockHeaderSize           = 5
)

const (
	flagSorted uint16 = 1 << iota
	flagEvenlySpaced
	flagAcceptsUnsorted
	flagXFloating
	flagYFloating
	flagBigEndian
)

// SnapshotConfig holds the settings of one Snapshot call.
type SnapshotConfig struct {
	compression   format.CompressionType
	floatEncoding format.EncodingType
	bigEndian     bool
}

// SnapshotOption configures Snapshot.
type SnapshotOption = options.Option[*SnapshotConfig]

// WithCompression selects the payload codec. The default is S2.
func WithCompression(ct format.CompressionType) SnapshotOption {
	return options.New(func(c *SnapshotConfig) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		c.compression = ct

		return nil
	})
}

// WithFloatEncoding selects the encoding of floating columns: format.TypeGorilla (the
// default) or format.TypeRaw. Integer columns always use delta-of-delta encoding.
func WithFloatEncoding(et format.EncodingType) SnapshotOption {
	return options.New(func(c *SnapshotConfig) error {
		if et != format.TypeGorilla && et != format.TypeRaw {
			return fmt.Errorf("unsupported float column encoding: %s", et)
		}
		c.floatEncoding = et

		return nil
	})
}

// WithBigEndian writes the column blocks in big-endian byte order.
func WithBigEndian() SnapshotOption {
	return options.NoError(func(c *SnapshotConfig) {
		c.bigEndian = true
	})
}

// WithLittleEndian writes the column blocks in little-endian byte order (the default).
func WithLittleEndian() SnapshotOption {
	return options.NoError(func(c *SnapshotConfig) {
		c.bigEndian = false
	})
}

type snapshotHeader struct {
	kind         format.SeriesType
	flags        uint16
	compression  format.CompressionType
	columns      int
	rows         uint64
	fifoCapacity uint32
	rawLen       uint32
	payloadLen   uint32
	xSize        uint8
	ySize        uint8
	checksum     uint64
}

func (h snapshotHeader) has(flag uint16) bool { return h.flags&flag != 0 }

func (h snapshotHeader) marshal(dst []byte) {
	le := binary.LittleEndian
	le.PutUint16(dst[0:], snapshotMagic)
	dst[2] = snapshotVersion
	dst[3] = byte(h.kind)
	le.PutUint16(dst[4:], h.flags)
	dst[6] = byte(h.compression)
	dst[7] = byte(h.columns)
	le.PutUint64(dst[8:], h.rows)
	le.PutUint32(dst[16:], h.fifoCapacity)
	le.PutUint32(dst[20:], h.rawLen)
	le.PutUint32(dst[24:], h.payloadLen)
	dst[28] = h.xSize
	dst[29] = h.ySize
	le.PutUint16(dst[30:], 0)
	le.PutUint64(dst[32:], h.checksum)
}

func parseSnapshotHeader(data []byte) (snapshotHeader, error) {
	if len(data) < snapshotHeaderSize {
		return snapshotHeader{}, fmt.Errorf("%w: %d bytes is shorter than the header", errs.ErrInvalidSnapshot, len(data))
	}

	le := binary.LittleEndian
	if magic := le.Uint16(data[0:]); magic != snapshotMagic {
		return snapshotHeader{}, fmt.Errorf("%w: bad magic %#04x", errs.ErrInvalidSnapshot, magic)
	}
	if v := data[2]; v != snapshotVersion {
		return snapshotHeader{}, fmt.Errorf("%w: %d", errs.ErrSnapshotVersion, v)
	}

	return snapshotHeader{
		kind:         format.SeriesType(data[3]),
		flags:        le.Uint16(data[4:]),
		compression:  format.CompressionType(data[6]),
		columns:      int(data[7]),
		rows:         le.Uint64(data[8:]),
		fifoCapacity: le.Uint32(data[16:]),
		rawLen:       le.Uint32(data[20:]),
		payloadLen:   le.Uint32(data[24:]),
		xSize:        data[28],
		ySize:        data[29],
		checksum:     le.Uint64(data[32:]),
	}, nil
}

func sizeOf[T numeric.Number]() uint8 {
	var v T
	return uint8(unsafe.Sizeof(v))
}

// Snapshot encodes the series into a self-describing byte slice that Restore turns
// back into an equivalent series.
//
// The columns are copied under the series lock, then encoded in parallel and
// compressed without holding it. Subscribers, parent handle and metrics collector are
// not part of the snapshot.
//
// Parameters:
//   - opts: Compression and byte order of the column blocks
//
// Returns:
//   - []byte: The encoded snapshot
//   - error: An option error, or an error if a column is too large to encode
func (s *Series[TX, TY]) Snapshot(opts ...SnapshotOption) ([]byte, error) {
	cfg := &SnapshotConfig{
		compression:   format.CompressionS2,
		floatEncoding: format.TypeGorilla,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	fx := s.lock()
	xs := s.x.Values()
	ys := make([][]TY, len(s.ys))
	for i, col := range s.ys {
		ys[i] = col.Values()
	}
	flags := s.tracker.Flags()
	fifoCapacity := s.cfg.fifoCapacity
	s.unlock(fx)

	if uint64(fifoCapacity) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: fifo capacity %d", errs.ErrInvalidCapacity, fifoCapacity)
	}

	engine := endian.EngineFor(cfg.bigEndian)
	blocks := make([][]byte, 1+len(ys))

	var g errgroup.Group
	g.Go(func() (err error) {
		blocks[0], err = encodeColumn(xs, cfg.floatEncoding, engine)
		return err
	})
	for i, col := range ys {
		g.Go(func() (err error) {
			blocks[i+1], err = encodeColumn(col, cfg.floatEncoding, engine)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(raw)
	for _, b := range blocks {
		raw.MustWrite(b)
	}
	if uint64(raw.Len()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes is too large", errs.ErrInvalidSnapshot, raw.Len())
	}

	payload, err := codec.Compress(raw.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}

	h := snapshotHeader{
		kind:         s.kind,
		compression:  cfg.compression,
		columns:      len(blocks),
		rows:         uint64(len(xs)),
		fifoCapacity: uint32(fifoCapacity),
		rawLen:       uint32(raw.Len()),
		payloadLen:   uint32(len(payload)),
		xSize:        sizeOf[TX](),
		ySize:        sizeOf[TY](),
		checksum:     hash.ChecksumColumns(blocks...),
	}
	if flags.SortedAscending {
		h.flags |= flagSorted
	}
	if flags.EvenlySpaced {
		h.flags |= flagEvenlySpaced
	}
	if s.cfg.acceptsUnsortedData {
		h.flags |= flagAcceptsUnsorted
	}
	if numeric.IsFloating[TX]() {
		h.flags |= flagXFloating
	}
	if numeric.IsFloating[TY]() {
		h.flags |= flagYFloating
	}
	if cfg.bigEndian {
		h.flags |= flagBigEndian
	}

	out := make([]byte, snapshotHeaderSize+len(payload))
	h.marshal(out)
	copy(out[snapshotHeaderSize:], payload)

	s.logger.Debug("encoded snapshot",
		"rows", len(xs),
		"compression", cfg.compression.String(),
		"rawBytes", raw.Len(),
		"bytes", len(out),
	)

	return out, nil
}

// encodeColumn encodes values as one framed column block. floatEncoding applies to
// floating columns only.
func encodeColumn[T numeric.Number](values []T, floatEncoding format.EncodingType, engine endian.EndianEngine) ([]byte, error) {
	var (
		kind format.EncodingType
		body []byte
	)

	if numeric.IsFloating[T]() {
		tmp, cleanup := pool.GetFloat64Slice(len(values))
		defer cleanup()
		for i, v := range values {
			tmp[i] = float64(v)
		}

		var enc encoding.ColumnarEncoder[float64]
		if floatEncoding == format.TypeRaw {
			enc = encoding.NewRawEncoder(engine)
		} else {
			enc = encoding.NewGorillaEncoder()
		}
		defer enc.Finish()
		enc.WriteSlice(tmp)
		kind, body = floatEncoding, enc.Bytes()
	} else {
		tmp, cleanup := pool.GetInt64Slice(len(values))
		defer cleanup()
		for i, v := range values {
			tmp[i] = int64(v) //nolint:gosec // wraps for large uint64, restored bit-exact
		}

		enc := encoding.NewDeltaEncoder()
		defer enc.Finish()
		enc.WriteSlice(tmp)
		kind, body = format.TypeDelta, enc.Bytes()
	}

	if uint64(len(body)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: column block of %d bytes is too large", errs.ErrInvalidSnapshot, len(body))
	}

	block := make([]byte, blockHeaderSize+len(body))
	block[0] = byte(kind)
	engine.PutUint32(block[1:], uint32(len(body)))
	copy(block[blockHeaderSize:], body)

	return block, nil
}

// Restore decodes a snapshot produced by Series.Snapshot.
//
// The fifo capacity and unsorted-data policy stored in the snapshot are applied first;
// opts are applied after them and may override both. The rows are rebuilt through the
// normal append path, after which any distribution flag that was false in the source
// series is cleared, so the restored flags match the source exactly.
//
// Returns errs.ErrInvalidSnapshot, errs.ErrSnapshotVersion, errs.ErrChecksumMismatch or
// errs.ErrNumericTypeMismatch when data cannot be restored as Series[TX, TY].
func Restore[TX numeric.Number, TY numeric.Number](data []byte, opts ...Option) (*Series[TX, TY], error) {
	h, err := parseSnapshotHeader(data)
	if err != nil {
		return nil, err
	}

	l, err := layoutFor(h.kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}
	if h.columns != 1+len(l.roles) {
		return nil, fmt.Errorf("%w: %s series with %d columns", errs.ErrInvalidSnapshot, h.kind, h.columns)
	}
	if h.has(flagXFloating) != numeric.IsFloating[TX]() || h.xSize != sizeOf[TX]() {
		return nil, fmt.Errorf("%w: x column", errs.ErrNumericTypeMismatch)
	}
	if h.has(flagYFloating) != numeric.IsFloating[TY]() || h.ySize != sizeOf[TY]() {
		return nil, fmt.Errorf("%w: y columns", errs.ErrNumericTypeMismatch)
	}

	payload := data[snapshotHeaderSize:]
	if uint64(len(payload)) != uint64(h.payloadLen) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", errs.ErrInvalidSnapshot, len(payload), h.payloadLen)
	}

	codec, err := compress.GetCodec(h.compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}
	raw, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}
	if uint64(len(raw)) != uint64(h.rawLen) {
		return nil, fmt.Errorf("%w: raw payload is %d bytes, header says %d", errs.ErrInvalidSnapshot, len(raw), h.rawLen)
	}
	if hash.Checksum(raw) != h.checksum {
		return nil, errs.ErrChecksumMismatch
	}

	// every encoded value takes at least one byte per column
	if h.rows > uint64(len(raw)) {
		return nil, fmt.Errorf("%w: %d rows in %d bytes", errs.ErrInvalidSnapshot, h.rows, len(raw))
	}
	rows := int(h.rows)

	engine := endian.EngineFor(h.has(flagBigEndian))
	blocks, err := splitBlocks(raw, h.columns, engine)
	if err != nil {
		return nil, err
	}

	xs := make([]TX, rows)
	if err := decodeColumn(blocks[0], xs, engine); err != nil {
		return nil, fmt.Errorf("x column: %w", err)
	}
	ys := make([][]TY, h.columns-1)
	for i := range ys {
		ys[i] = make([]TY, rows)
		if err := decodeColumn(blocks[i+1], ys[i], engine); err != nil {
			return nil, fmt.Errorf("%s column: %w", l.roles[i], err)
		}
	}

	base := []Option{
		WithFifoCapacity(int(h.fifoCapacity)),
		WithAcceptsUnsortedData(h.has(flagAcceptsUnsorted)),
	}
	s, err := New[TX, TY](h.kind, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	if rows > 0 {
		if err := s.AppendRows(xs, ys...); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.tracker.Demote(distribution.Flags{
		SortedAscending: h.has(flagSorted),
		EvenlySpaced:    h.has(flagEvenlySpaced),
	})
	s.mu.Unlock()

	s.logger.Debug("restored snapshot",
		"rows", rows,
		"compression", h.compression.String(),
		"bytes", len(data),
	)

	return s, nil
}

// RestoreAs is Restore for a caller that expects a specific series type.
//
// Returns errs.ErrSeriesTypeMismatch if the snapshot holds another type.
func RestoreAs[TX numeric.Number, TY numeric.Number](kind format.SeriesType, data []byte, opts ...Option) (*Series[TX, TY], error) {
	h, err := parseSnapshotHeader(data)
	if err != nil {
		return nil, err
	}
	if h.kind != kind {
		return nil, fmt.Errorf("%w: snapshot holds %s, want %s", errs.ErrSeriesTypeMismatch, h.kind, kind)
	}

	return Restore[TX, TY](data, opts...)
}

type columnBlock struct {
	encoding format.EncodingType
	body     []byte
}

func splitBlocks(raw []byte, columns int, engine endian.EndianEngine) ([]columnBlock, error) {
	blocks := make([]columnBlock, 0, columns)
	offset := 0

	for c := range columns {
		if len(raw)-offset < blockHeaderSize {
			return nil, fmt.Errorf("%w: column %d header is truncated", errs.ErrInvalidSnapshot, c)
		}

		kind := format.EncodingType(raw[offset])
		n := int(engine.Uint32(raw[offset+1:]))
		offset += blockHeaderSize

		if n > len(raw)-offset {
			return nil, fmt.Errorf("%w: column %d body is truncated", errs.ErrInvalidSnapshot, c)
		}

		blocks = append(blocks, columnBlock{encoding: kind, body: raw[offset : offset+n]})
		offset += n
	}

	if offset != len(raw) {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrInvalidSnapshot, len(raw)-offset)
	}

	return blocks, nil
}

// decodeColumn fills dst from block. len(dst) is the expected row count.
func decodeColumn[T numeric.Number](block columnBlock, dst []T, engine endian.EndianEngine) error {
	n := 0

	switch block.encoding {
	case format.TypeDelta:
		if numeric.IsFloating[T]() {
			return fmt.Errorf("%w: delta block for a floating column", errs.ErrInvalidSnapshot)
		}

		tmp, cleanup := pool.GetInt64Slice(len(dst))
		defer cleanup()
		for v := range encoding.NewDeltaDecoder().All(block.body, len(dst)) {
			tmp[n] = v
			n++
		}
		for i := range n {
			dst[i] = T(tmp[i])
		}

	case format.TypeGorilla:
		if !numeric.IsFloating[T]() {
			return fmt.Errorf("%w: gorilla block for an integer column", errs.ErrInvalidSnapshot)
		}

		tmp, cleanup := pool.GetFloat64Slice(len(dst))
		defer cleanup()
		for v := range encoding.NewGorillaDecoder().All(block.body, len(dst)) {
			tmp[n] = v
			n++
		}
		for i := range n {
			dst[i] = T(tmp[i])
		}

	case format.TypeRaw:
		if !numeric.IsFloating[T]() {
			return fmt.Errorf("%w: raw block for an integer column", errs.ErrInvalidSnapshot)
		}
		if len(block.body) != 8*len(dst) {
			return fmt.Errorf("%w: raw block of %d bytes for %d rows", errs.ErrInvalidSnapshot, len(block.body), len(dst))
		}

		tmp, cleanup := pool.GetFloat64Slice(len(dst))
		defer cleanup()
		for v := range encoding.NewRawDecoder(engine).All(block.body, len(dst)) {
			tmp[n] = v
			n++
		}
		for i := range n {
			dst[i] = T(tmp[i])
		}

	default:
		return fmt.Errorf("%w: unknown column encoding %#02x", errs.ErrInvalidSnapshot, byte(block.encoding))
	}

	if n != len(dst) {
		return fmt.Errorf("%w: decoded %d of %d rows", errs.ErrInvalidSnapshot, n, len(dst))
	}

	return nil
}
