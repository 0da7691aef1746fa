package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	order := CheckEndianness()
	require.True(t, order == binary.LittleEndian || order == binary.BigEndian)
	require.Equal(t, order, CheckEndianness())
	require.NotEqual(t, IsNativeLittleEndian(), IsNativeBigEndian())
}

func TestCompareNativeEndian(t *testing.T) {
	if IsNativeLittleEndian() {
		require.True(t, CompareNativeEndian(GetLittleEndianEngine()))
		require.False(t, CompareNativeEndian(GetBigEndianEngine()))
	} else {
		require.True(t, CompareNativeEndian(GetBigEndianEngine()))
		require.False(t, CompareNativeEndian(GetLittleEndianEngine()))
	}
}

func TestEngines(t *testing.T) {
	tests := []struct {
		name   string
		engine EndianEngine
		want   []byte
	}{
		{"little", GetLittleEndianEngine(), []byte{0x04, 0x03, 0x02, 0x01}},
		{"big", GetBigEndianEngine(), []byte{0x01, 0x02, 0x03, 0x04}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 4)
			tt.engine.PutUint32(buf, 0x01020304)
			require.Equal(t, tt.want, buf)
			require.Equal(t, tt.want, tt.engine.AppendUint32(nil, 0x01020304))
			require.Equal(t, uint32(0x01020304), tt.engine.Uint32(buf))
		})
	}
}

func TestEngineFor(t *testing.T) {
	require.Equal(t, GetBigEndianEngine(), EngineFor(true))
	require.Equal(t, GetLittleEndianEngine(), EngineFor(false))
}
