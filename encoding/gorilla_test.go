package encoding

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func gorillaValues(t *testing.T, data []byte, count int) []float64 {
	t.Helper()

	out := slices.Collect(NewGorillaDecoder().All(data, count))
	require.Len(t, out, count)

	return out
}

func requireSameBits(t *testing.T, want, got []float64) {
	t.Helper()

	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, math.Float64bits(want[i]), math.Float64bits(got[i]), "index %d", i)
	}
}

func TestGorillaRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	noise := make([]float64, 500)
	for i := range noise {
		noise[i] = rng.NormFloat64() * 1e6
	}

	walk := make([]float64, 1000)
	price := 100.0
	for i := range walk {
		price += float64(rng.IntN(21)-10) * 0.01
		walk[i] = math.Round(price*100) / 100
	}

	tests := []struct {
		name   string
		values []float64
	}{
		{"single", []float64{3.14}},
		{"constant", slices.Repeat([]float64{42}, 100)},
		{"integers", []float64{1, 2, 3, 4, 5, 6, 7, 8}},
		{"price_walk", walk},
		{"noise", noise},
		{"special", []float64{0, math.Copysign(0, -1), math.Inf(1), math.Inf(-1), math.NaN(), math.MaxFloat64, math.SmallestNonzeroFloat64, -1}},
		{"tiny_xor", []float64{1, math.Nextafter(1, 2), 1, math.Nextafter(1, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewGorillaEncoder()
			defer enc.Finish()

			enc.WriteSlice(tt.values)
			require.Equal(t, len(tt.values), enc.Len())
			require.Equal(t, len(enc.Bytes()), enc.Size())

			requireSameBits(t, tt.values, gorillaValues(t, enc.Bytes(), len(tt.values)))
		})
	}
}

func TestGorillaCompactness(t *testing.T) {
	enc := NewGorillaEncoder()
	defer enc.Finish()

	enc.WriteSlice(slices.Repeat([]float64{7.5}, 1000))
	// 64 bits for the first value, then one bit per repeat
	require.Equal(t, 8+(999+7)/8, enc.Size())
}

func TestGorillaWriteMatchesWriteSlice(t *testing.T) {
	values := []float64{10.5, 10.75, 10.75, 11, 9.25, 9.25, 12}

	one := NewGorillaEncoder()
	defer one.Finish()
	for _, v := range values {
		one.Write(v)
	}

	batch := NewGorillaEncoder()
	defer batch.Finish()
	batch.WriteSlice(values[:3])
	batch.WriteSlice(values[3:])

	require.Equal(t, one.Bytes(), batch.Bytes())
}

func TestGorillaBytesMidStream(t *testing.T) {
	enc := NewGorillaEncoder()
	defer enc.Finish()

	enc.Write(1)
	enc.Write(2)
	first := append([]byte(nil), enc.Bytes()...)
	requireSameBits(t, []float64{1, 2}, gorillaValues(t, first, 2))

	// reading the bytes must not disturb the pending bits
	enc.Write(3)
	requireSameBits(t, []float64{1, 2, 3}, gorillaValues(t, enc.Bytes(), 3))
}

func TestGorillaAt(t *testing.T) {
	values := []float64{1.5, 2.5, 2.5, -8}

	enc := NewGorillaEncoder()
	defer enc.Finish()
	enc.WriteSlice(values)

	dec := NewGorillaDecoder()
	for i, want := range values {
		got, ok := dec.At(enc.Bytes(), i, len(values))
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok := dec.At(enc.Bytes(), len(values), len(values))
	require.False(t, ok)
	_, ok = dec.At(enc.Bytes(), -1, len(values))
	require.False(t, ok)
}

func TestGorillaMalformed(t *testing.T) {
	enc := NewGorillaEncoder()
	defer enc.Finish()
	enc.WriteSlice([]float64{1, 2, 3, 4})
	data := enc.Bytes()

	require.Empty(t, slices.Collect(NewGorillaDecoder().All(nil, 3)))
	require.Empty(t, slices.Collect(NewGorillaDecoder().All(data[:7], 4)), "first value is cut")
	require.Less(t, len(slices.Collect(NewGorillaDecoder().All(data[:9], 4))), 4)

	// a window reuse as the first changed value is rejected
	bogus := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0b10_000000, 0}
	require.Len(t, slices.Collect(NewGorillaDecoder().All(bogus, 2)), 1)
}

func TestGorillaFinishPanics(t *testing.T) {
	enc := NewGorillaEncoder()
	enc.Finish()
	enc.Finish()

	require.Panics(t, func() { enc.Write(1) })
	require.Panics(t, func() { enc.WriteSlice([]float64{1}) })
	require.Panics(t, func() { _ = enc.Bytes() })
	require.Panics(t, func() { _ = enc.Size() })
}

func BenchmarkGorillaEncode(b *testing.B) {
	values := make([]float64, 10_000)
	for i := range values {
		values[i] = 100 + math.Round(math.Sin(float64(i)/100)*1000)/100
	}

	for b.Loop() {
		enc := NewGorillaEncoder()
		enc.WriteSlice(values)
		_ = enc.Bytes()
		enc.Finish()
	}
}
