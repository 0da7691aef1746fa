package compress

// ZstdCompressor provides Zstandard compression.
//
// Zstd gives the best ratio of the built-in codecs and suits snapshots that are kept
// around or shipped over slow links. The pure-Go klauspost/compress implementation is
// used by default; building with the gozstd tag switches to the cgo libzstd binding.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
