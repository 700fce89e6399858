package structure

import (
	"testing"

	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/ctessum/geom"
	"github.com/stretchr/testify/require"
)

func TestEncodeText_Weir(t *testing.T) {
	w := scenarioWeir()
	w.Name = ""
	w.Par1 = []float64{0.6, 0.5, 0.6}

	other := scenarioWeir()

	data, err := EncodeText(format.Weir, []Structure{other, w})
	require.NoError(t, err)

	want := "levee\n    3    4\n0 0 1 0.6\n10 0 1.2 0.6\n20 5 1.1 0.6\n" +
		"WEIR02\n    3    4\n0 0 1 0.6\n10 0 1.2 0.5\n20 5 1.1 0.6\n"
	require.Equal(t, want, string(data))

	got, err := DecodeText(format.Weir, data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "WEIR02", got[1].Name)
	require.Equal(t, w.Par1, got[1].Par1)
	require.Equal(t, w.Crest, got[1].Crest)
	require.Equal(t, w.Line, got[1].Line)
}

func TestText_ThinDamRoundTrip(t *testing.T) {
	data, err := EncodeText(format.ThinDam, thinDams())
	require.NoError(t, err)

	got, err := DecodeText(format.ThinDam, data)
	require.NoError(t, err)

	want := thinDams()
	want[1].Name = "THD02"
	require.Equal(t, want, got)
}

func TestDecodeText_ThreeColumnWeir(t *testing.T) {
	data := []byte("crest\n 2 3\n\n100.5 200 3.25\n101 201 3.5\n")

	got, err := DecodeText(format.Weir, data)
	require.NoError(t, err)
	require.Equal(t, []Structure{{
		Name:  "crest",
		Line:  geom.LineString{{X: 100.5, Y: 200}, {X: 101, Y: 201}},
		Crest: []float64{3.25, 3.5},
		Par1:  []float64{DefaultPar1, DefaultPar1},
	}}, got)
}

func TestDecodeText_Malformed(t *testing.T) {
	tests := []struct {
		name string
		kind format.StructureKind
		data string
	}{
		{name: "Missing dimensions", kind: format.ThinDam, data: "dam\n"},
		{name: "Bad dimensions", kind: format.ThinDam, data: "dam\n2\n"},
		{name: "Wrong column count", kind: format.ThinDam, data: "dam\n2 3\n0 0 0\n1 1 1\n"},
		{name: "Short block", kind: format.ThinDam, data: "dam\n3 2\n0 0\n1 1\n"},
		{name: "Bad number", kind: format.ThinDam, data: "dam\n2 2\n0 x\n1 1\n"},
		{name: "Single vertex", kind: format.ThinDam, data: "dam\n1 2\n0 0\n"},
		{name: "Weir without crest", kind: format.Weir, data: "w\n2 2\n0 0\n1 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeText(tt.kind, []byte(tt.data))
			require.ErrorIs(t, err, errs.ErrMalformedStructure)
		})
	}
}

func TestDefaultName(t *testing.T) {
	require.Equal(t, "THD01", DefaultName(format.ThinDam, 0))
	require.Equal(t, "WEIR12", DefaultName(format.Weir, 11))
}
