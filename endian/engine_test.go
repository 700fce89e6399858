package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	result := CheckEndianness()

	var word uint16 = 0x0102
	b := (*[2]byte)(unsafe.Pointer(&word))

	switch b[0] {
	case 0x01:
		require.Equal(t, binary.BigEndian, result)
	case 0x02:
		require.Equal(t, binary.LittleEndian, result)
	default:
		require.Failf(t, "unexpected byte value", "got: %v", b[0])
	}
}

func TestIsNativeEndiannessInverse(t *testing.T) {
	require.NotEqual(t, IsNativeLittleEndian(), IsNativeBigEndian())
	require.True(t, CompareNativeEndian(GetNativeEngine()))
}

func TestEngineByteLayout(t *testing.T) {
	little := GetLittleEndianEngine()
	big := GetBigEndianEngine()

	lb := little.AppendUint32(nil, 0x01020304)
	bb := big.AppendUint32(nil, 0x01020304)

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, lb)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, bb)
	require.Equal(t, uint32(0x01020304), little.Uint32(lb))
	require.Equal(t, uint32(0x01020304), big.Uint32(bb))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EndianEngine
		wantErr bool
	}{
		{name: "empty defaults to little", input: "", want: binary.LittleEndian},
		{name: "little", input: "little", want: binary.LittleEndian},
		{name: "big", input: "big", want: binary.BigEndian},
		{name: "native", input: "native", want: GetNativeEngine()},
		{name: "unknown", input: "middle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestName(t *testing.T) {
	require.Equal(t, "little", Name(GetLittleEndianEngine()))
	require.Equal(t, "big", Name(GetBigEndianEngine()))
	require.True(t, IsBigEndian(GetBigEndianEngine()))
	require.False(t, IsBigEndian(GetLittleEndianEngine()))
}
