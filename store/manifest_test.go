package store

import (
	"testing"

	"github.com/arloliu/gridcodec/errs"
	"github.com/stretchr/testify/require"
)

func TestArtifactRecord_Verify(t *testing.T) {
	data := []byte("active cells")
	rec := newRecord("sim.ind", data)

	require.Equal(t, "sim.ind", rec.File)
	require.Equal(t, len(data), rec.Size)
	require.NoError(t, rec.Verify(data))

	t.Run("size", func(t *testing.T) {
		require.ErrorIs(t, rec.Verify(data[:4]), errs.ErrChecksumMismatch)
	})

	t.Run("content", func(t *testing.T) {
		flipped := append([]byte(nil), data...)
		flipped[0] ^= 1
		require.ErrorIs(t, rec.Verify(flipped), errs.ErrChecksumMismatch)
	})

	t.Run("unparsable checksum", func(t *testing.T) {
		bad := rec
		bad.Checksum = "md5:abc"
		require.ErrorIs(t, bad.Verify(data), errs.ErrChecksumMismatch)
	})
}

func TestParseManifest(t *testing.T) {
	m := &Manifest{
		Version:        ManifestVersion,
		CommitID:       "c0ffee",
		Rows:           4,
		Cols:           3,
		ByteOrder:      "little",
		TraversalOrder: "row-major",
		ActiveCells:    6,
		Index:          newRecord("sim.ind", []byte{1}),
		Mask:           LayerRecord{ArtifactRecord: newRecord("sim.msk", []byte{2}), Name: "msk", Kind: "u1"},
		Layers: []LayerRecord{
			{ArtifactRecord: newRecord("sim.dep", []byte{3}), Name: "dep", Kind: "f4", Fill: -9999},
		},
	}

	data, err := m.Marshal()
	require.NoError(t, err)
	require.Contains(t, string(data), "index_checksum")

	got, err := ParseManifest(data)
	require.NoError(t, err)
	require.Equal(t, m.Index, got.Index)

	dep, ok := got.Layer("dep")
	require.True(t, ok)
	require.Equal(t, "sim.dep", dep.File)
	require.InDelta(t, -9999, dep.Fill, 0)

	_, ok = got.Layer("man")
	require.False(t, ok)

	tests := []struct {
		name   string
		mutate func(*Manifest)
	}{
		{name: "version", mutate: func(m *Manifest) { m.Version = 2 }},
		{name: "shape", mutate: func(m *Manifest) { m.Rows = 0 }},
		{name: "index", mutate: func(m *Manifest) { m.Index.File = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := *m
			tt.mutate(&bad)

			data, err := bad.Marshal()
			require.NoError(t, err)

			_, err = ParseManifest(data)
			require.Error(t, err)
		})
	}

	t.Run("not yaml", func(t *testing.T) {
		_, err := ParseManifest([]byte("\t- ["))
		require.Error(t, err)
	})
}
