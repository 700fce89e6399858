package encoding

import (
	"strings"
	"testing"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/stretchr/testify/require"
)

func TestVarStringEncoder_Write(t *testing.T) {
	enc := NewVarStringEncoder()
	defer enc.Finish()

	require.NoError(t, enc.Write(""))
	require.NoError(t, enc.Write("WEIR01"))

	require.Equal(t, 2, enc.Len())
	require.Equal(t, 1+1+6, enc.Size())
	require.Equal(t, append([]byte{0, 6}, "WEIR01"...), enc.Bytes())
}

func TestVarStringEncoder_MaxLength(t *testing.T) {
	enc := NewVarStringEncoder()
	defer enc.Finish()

	require.NoError(t, enc.Write(strings.Repeat("a", MaxTextLength)))
	require.Error(t, enc.Write(strings.Repeat("a", MaxTextLength+1)))

	err := enc.WriteSlice([]string{"ok", strings.Repeat("b", MaxTextLength+1)})
	require.Error(t, err)
	require.Equal(t, 1, enc.Len(), "WriteSlice validates before writing")
}

func TestVarString_ReadBack(t *testing.T) {
	enc := NewVarStringEncoder()
	defer enc.Finish()

	names := []string{"gauge_a", "gauge_b", ""}
	require.NoError(t, enc.WriteSlice(names))

	r := NewReader(enc.Bytes(), endian.GetLittleEndianEngine(), errs.ErrLengthMismatch)
	var got []string
	for range names {
		got = append(got, r.String())
	}
	require.NoError(t, r.Err())
	require.Equal(t, names, got)
	require.Zero(t, r.Remaining())

	t.Run("Truncated", func(t *testing.T) {
		r := NewReader(enc.Bytes()[:5], endian.GetLittleEndianEngine(), errs.ErrMalformedStructure)
		require.Empty(t, r.String())
		require.ErrorIs(t, r.Err(), errs.ErrMalformedStructure)
	})

	t.Run("Appended", func(t *testing.T) {
		buf, err := AppendVarString(nil, "abc")
		require.NoError(t, err)
		require.Equal(t, []byte{3, 'a', 'b', 'c'}, buf)
	})
}

func TestReader(t *testing.T) {
	engine := endian.GetBigEndianEngine()

	var buf []byte
	buf = append(buf, 7)
	buf = engine.AppendUint32(buf, 42)
	buf = AppendFloat64(buf, engine, 1.25)
	buf = AppendFloat64(buf, engine, -3)
	buf, _ = AppendVarString(buf, "dam")

	r := NewReader(buf, engine, errs.ErrMalformedStructure)
	require.Equal(t, uint8(7), r.Uint8())
	require.Equal(t, uint32(42), r.Uint32())
	require.Equal(t, 1.25, r.Float64())
	pair := make([]float64, 1)
	r.Float64s(pair)
	require.Equal(t, []float64{-3}, pair)
	require.Equal(t, "dam", r.String())
	require.NoError(t, r.Err())
	require.Equal(t, 0, r.Remaining())

	require.Zero(t, r.Uint32())
	require.ErrorIs(t, r.Err(), errs.ErrMalformedStructure)
	require.Zero(t, r.Float64(), "reads after an error return zero values")
}
