// Package compress provides the block codecs applied to encoded snapshot payloads.
//
// Four algorithms are built in, selected by format.CompressionType:
//
//   - None: pass-through, zero cost
//   - Zstd: best ratio; pure Go by default, libzstd via cgo with the gozstd build tag
//   - S2:   fast in both directions, moderate ratio
//   - LZ4:  fastest decompression
//
// Codecs are stateless values and safe for concurrent use. Encoders and decoders that
// keep internal state are pooled.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//	...
//	payload, err = codec.Decompress(packed)
package compress
