package encoding

import (
	"math"
	"testing"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/stretchr/testify/require"
)

func collect(d CellDecoder, data []byte, count int) []float64 {
	out := make([]float64, 0, count)
	for v := range d.All(data, count) {
		out = append(out, v)
	}

	return out
}

func TestCellEncoder_RoundTrip(t *testing.T) {
	tests := []struct {
		kind   format.DataKind
		values []float64
	}{
		{kind: format.Float32, values: []float64{0, 1.5, -2.25, 1e6}},
		{kind: format.Float64, values: []float64{math.Pi, -math.MaxFloat64, 1e-300}},
		{kind: format.Uint8, values: []float64{0, 1, 2, 3, 255}},
		{kind: format.Int16, values: []float64{-32768, -1, 0, 32767}},
		{kind: format.Int32, values: []float64{math.MinInt32, 0, math.MaxInt32}},
	}

	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		for _, tt := range tests {
			t.Run(endian.Name(engine)+"/"+tt.kind.String(), func(t *testing.T) {
				enc, err := NewCellEncoder(tt.kind, engine)
				require.NoError(t, err)
				defer enc.Finish()

				enc.Write(tt.values[0])
				enc.WriteSlice(tt.values[1:])

				require.Equal(t, len(tt.values), enc.Len())
				require.Equal(t, len(tt.values)*tt.kind.Width(), enc.Size())

				dec, err := NewCellDecoder(tt.kind, engine)
				require.NoError(t, err)
				require.Equal(t, tt.values, collect(dec, enc.Bytes(), enc.Len()))
			})
		}
	}
}

func TestCellEncoder_Float32Layout(t *testing.T) {
	enc, err := NewCellEncoder(format.Float32, endian.GetLittleEndianEngine())
	require.NoError(t, err)
	defer enc.Finish()

	enc.Write(1.0)
	require.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, enc.Bytes())
}

func TestCellEncoder_DetachSurvivesFinish(t *testing.T) {
	enc, err := NewCellEncoder(format.Uint8, endian.GetLittleEndianEngine())
	require.NoError(t, err)

	enc.WriteSlice([]float64{1, 2, 3})
	out := enc.Detach()
	enc.Finish()

	require.Equal(t, []byte{1, 2, 3}, out)
	require.Panics(t, func() { enc.Write(4) })
}

func TestCellCodec_UnsupportedKind(t *testing.T) {
	_, err := NewCellEncoder(format.DataKind(99), endian.GetLittleEndianEngine())
	require.ErrorIs(t, err, errs.ErrUnsupportedDataKind)

	_, err = NewCellDecoder(0, endian.GetLittleEndianEngine())
	require.ErrorIs(t, err, errs.ErrUnsupportedDataKind)
}

func TestCellDecoder_ShortPayload(t *testing.T) {
	dec, err := NewCellDecoder(format.Int32, endian.GetLittleEndianEngine())
	require.NoError(t, err)

	require.Empty(t, collect(dec, make([]byte, 7), 2))
	require.Empty(t, collect(dec, make([]byte, 8), 0))
	require.Len(t, collect(dec, make([]byte, 9), 2), 2)
}

func TestCheckValue(t *testing.T) {
	tests := []struct {
		name    string
		kind    format.DataKind
		value   float64
		wantErr bool
	}{
		{name: "float32 accepts NaN", kind: format.Float32, value: math.NaN()},
		{name: "float32 accepts infinity", kind: format.Float32, value: math.Inf(-1)},
		{name: "float32 exact", kind: format.Float32, value: 0.75},
		{name: "float32 inexact", kind: format.Float32, value: 0.1, wantErr: true},
		{name: "float32 overflow", kind: format.Float32, value: 1e40, wantErr: true},
		{name: "float64 accepts anything", kind: format.Float64, value: 1e300},
		{name: "uint8 max", kind: format.Uint8, value: 255},
		{name: "uint8 overflow", kind: format.Uint8, value: 256, wantErr: true},
		{name: "uint8 negative", kind: format.Uint8, value: -1, wantErr: true},
		{name: "int16 fraction", kind: format.Int16, value: 1.5, wantErr: true},
		{name: "int16 min", kind: format.Int16, value: -32768},
		{name: "int32 NaN", kind: format.Int32, value: math.NaN(), wantErr: true},
		{name: "int32 infinity", kind: format.Int32, value: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckValue(tt.kind, tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueOutOfRange)
				return
			}
			require.NoError(t, err)
		})
	}
}
