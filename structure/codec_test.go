package structure

import (
	"math"
	"testing"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/section"
	"github.com/ctessum/geom"
	"github.com/stretchr/testify/require"
)

func scenarioWeir() Structure {
	return Structure{
		Name:  "levee",
		Line:  geom.LineString{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 5}},
		Crest: []float64{1.0, 1.2, 1.1},
	}
}

func thinDams() []Structure {
	return []Structure{
		{Name: "dam_a", Line: geom.LineString{{X: 1.5, Y: 2.5}, {X: 3.5, Y: 4.5}}},
		{Name: "", Line: geom.LineString{{X: -1, Y: -1}, {X: 0, Y: 0}, {X: 1, Y: -1}, {X: 2, Y: 0}}},
	}
}

func TestCodec_WeirScenario(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		t.Run(endian.Name(engine), func(t *testing.T) {
			data, err := Encode(format.Weir, []Structure{scenarioWeir()}, engine)
			require.NoError(t, err)
			require.Len(t, data, section.StructureHeaderSize+1+len("levee")+4+3*4*8)

			kind, got, err := Decode(data)
			require.NoError(t, err)
			require.Equal(t, format.Weir, kind)
			require.Len(t, got, 1)

			w := got[0]
			require.Equal(t, "levee", w.Name)
			require.Equal(t, scenarioWeir().Line, w.Line)
			require.Equal(t, []float64{1.0, 1.2, 1.1}, w.Crest)
			require.Equal(t, []float64{DefaultPar1, DefaultPar1, DefaultPar1}, w.Par1)
		})
	}
}

func TestCodec_ThinDamsPreserveOrder(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	dams := thinDams()
	dams[0].Crest = []float64{9, 9} // ignored for thin dams

	data, err := Encode(format.ThinDam, dams, engine)
	require.NoError(t, err)

	kind, got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, format.ThinDam, kind)
	require.Equal(t, thinDams(), got)
}

func TestEncode_Validation(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	tests := []struct {
		name string
		kind format.StructureKind
		s    Structure
	}{
		{
			name: "Single vertex",
			kind: format.ThinDam,
			s:    Structure{Line: geom.LineString{{X: 1, Y: 1}}},
		},
		{
			name: "Weir without crest",
			kind: format.Weir,
			s:    Structure{Line: geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 1}}},
		},
		{
			name: "Weir with NaN crest",
			kind: format.Weir,
			s:    Structure{Line: geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 1}}, Crest: []float64{1, math.NaN()}},
		},
		{
			name: "Coefficient count mismatch",
			kind: format.Weir,
			s: Structure{
				Line:  geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 1}},
				Crest: []float64{1, 1},
				Par1:  []float64{0.5},
			},
		},
		{
			name: "Infinite coordinate",
			kind: format.ThinDam,
			s:    Structure{Line: geom.LineString{{X: 0, Y: math.Inf(1)}, {X: 1, Y: 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.kind, []Structure{tt.s}, engine)
			require.ErrorIs(t, err, errs.ErrMalformedStructure)
		})
	}

	_, err := Encode(format.StructureKind(0), nil, engine)
	require.Error(t, err)
}

func TestDecode_Malformed(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	valid, err := Encode(format.Weir, []Structure{scenarioWeir()}, engine)
	require.NoError(t, err)

	vertexCountAt := section.StructureHeaderSize + 1 + len("levee")
	firstVertexAt := vertexCountAt + 4
	withFloat := func(at int, v float64) []byte {
		b := append([]byte(nil), valid...)
		engine.PutUint64(b[at:], math.Float64bits(v))
		return b
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "Truncated vertices", data: valid[:len(valid)-8], wantErr: errs.ErrMalformedStructure},
		{name: "Trailing garbage", data: append(append([]byte(nil), valid...), 0xFF), wantErr: errs.ErrMalformedStructure},
		{name: "Truncated header", data: valid[:4], wantErr: errs.ErrInvalidHeaderSize},
		{name: "NaN crest", data: withFloat(firstVertexAt+16, math.NaN()), wantErr: errs.ErrMalformedStructure},
		{name: "Infinite coordinate", data: withFloat(firstVertexAt, math.Inf(1)), wantErr: errs.ErrMalformedStructure},
		{
			name: "Vertex count past end",
			data: func() []byte {
				b := append([]byte(nil), valid...)
				engine.PutUint32(b[vertexCountAt:], 1000)
				return b
			}(),
			wantErr: errs.ErrMalformedStructure,
		},
		{
			name: "Single vertex",
			data: func() []byte {
				b := append([]byte(nil), valid...)
				engine.PutUint32(b[vertexCountAt:], 1)
				return b
			}(),
			wantErr: errs.ErrMalformedStructure,
		},
		{
			name: "Structure count past end",
			data: func() []byte {
				b := append([]byte(nil), valid...)
				engine.PutUint32(b[4:8], 2)
				return b
			}(),
			wantErr: errs.ErrMalformedStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := Decode(tt.data)
			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, got)
		})
	}
}

func TestStructure_Geometry(t *testing.T) {
	w := scenarioWeir()

	require.Equal(t, 3, w.Len())
	require.InDelta(t, 10+math.Sqrt(125), w.Length(), 1e-9)

	b := w.Bounds()
	require.Equal(t, geom.Point{X: 0, Y: 0}, b.Min)
	require.Equal(t, geom.Point{X: 20, Y: 5}, b.Max)
}
