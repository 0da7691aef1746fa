package compress

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/arloliu/chartdata/format"
	"github.com/stretchr/testify/require"
)

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp": NewNoOpCompressor(),
		"Zstd": NewZstdCompressor(),
		"S2":   NewS2Compressor(),
		"LZ4":  NewLZ4Compressor(),
	}
}

func TestGetCodec(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)
			require.NotNil(t, codec)
		})
	}

	_, err := GetCodec(format.CompressionType(0xEE))
	require.Error(t, err)
}

func TestNoOpCompressor_SharesInput(t *testing.T) {
	codec := NewNoOpCompressor()
	data := []byte{1, 2, 3}

	out, err := codec.Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])

	out, err = codec.Decompress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Empty(t, compressed)

			decompressed, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	// an encoded float column: eight bytes per value with slowly changing high bytes
	column := make([]byte, 0, 8*4096)
	for i := range 4096 {
		v := uint64(0x4059000000000000) + uint64(i)*0x100
		for b := range 8 {
			column = append(column, byte(v>>(8*b)))
		}
	}

	payloads := map[string][]byte{
		"single_byte": {0x42},
		"small_text":  []byte("chart data snapshot"),
		"repetitive":  bytes.Repeat([]byte("x=1,y=2;"), 1000),
		"column":      column,
		"zeros_1mb":   make([]byte, 1024*1024),
	}

	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			for pname, payload := range payloads {
				t.Run(pname, func(t *testing.T) {
					compressed, err := codec.Compress(payload)
					require.NoError(t, err)

					if name != "NoOp" && pname == "zeros_1mb" {
						require.Less(t, len(compressed), len(payload)/10)
					}

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, payload, decompressed)
				})
			}
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalidInputs := map[string][]byte{
		"random_bytes":       {0xFF, 0xFF, 0xFF, 0xFF},
		"text_as_compressed": []byte("this is not compressed data"),
		"corrupted_header":   {0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
	}

	for name, codec := range getAllCodecs() {
		if name == "NoOp" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			for iname, input := range invalidInputs {
				t.Run(iname, func(t *testing.T) {
					_, err := codec.Decompress(input)
					require.Error(t, err)
				})
			}
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	const workers = 16

	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			errCh := make(chan error, workers)

			for w := range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()

					data := bytes.Repeat([]byte(fmt.Sprintf("worker-%d;", w)), 200)
					for range 20 {
						compressed, err := codec.Compress(data)
						if err != nil {
							errCh <- err
							return
						}
						out, err := codec.Decompress(compressed)
						if err != nil {
							errCh <- err
							return
						}
						if !bytes.Equal(data, out) {
							errCh <- fmt.Errorf("worker %d: round trip mismatch", w)
							return
						}
					}
				}()
			}

			wg.Wait()
			close(errCh)
			for err := range errCh {
				require.NoError(t, err)
			}
		})
	}
}

func BenchmarkCodecs(b *testing.B) {
	data := bytes.Repeat([]byte("timestamp=1700000000,value=42.5;"), 2048)

	for name, codec := range getAllCodecs() {
		b.Run(name+"/compress", func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = codec.Compress(data)
			}
		})

		compressed, _ := codec.Compress(data)
		b.Run(name+"/decompress", func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = codec.Decompress(compressed)
			}
		})
	}
}
