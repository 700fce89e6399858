package gridcodec

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arloliu/gridcodec/config"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/grid"
	"github.com/arloliu/gridcodec/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func testGrid(t *testing.T) (*grid.Mask, *grid.Layer) {
	t.Helper()

	mask, err := grid.MaskFromCodes(4, 3, []uint8{
		0, 1, 1,
		0, 1, 0,
		0, 0, 0,
		0, 0, 0,
	})
	require.NoError(t, err)

	dep, err := grid.LayerFromValues(mask.Shape(), format.Float32, -9999, []float64{
		0, 1.5, 2.0,
		0, -9999, 0,
		0, 0, 0,
		0, 0, 0,
	})
	require.NoError(t, err)

	return mask, dep
}

func TestWriteReadGrid(t *testing.T) {
	ctx := context.Background()
	mask, dep := testGrid(t)

	_, backend, err := NewMemoryStore()
	require.NoError(t, err)

	require.NoError(t, WriteGrid(ctx, backend, mask, map[string]*grid.Layer{"dep": dep}))

	s, err := ReadGrid(ctx, backend)
	require.NoError(t, err)
	require.Equal(t, store.Persisted, s.State())

	got, err := s.Layer("dep")
	require.NoError(t, err)
	require.Equal(t, []float64{
		-9999, 1.5, 2.0,
		-9999, -9999, -9999,
		-9999, -9999, -9999,
		-9999, -9999, -9999,
	}, got.Values())
}

func TestBuildIndex(t *testing.T) {
	mask, _ := testGrid(t)

	idx, err := BuildIndex(mask)
	require.NoError(t, err)
	require.Equal(t, format.RowMajor, idx.Order())
	require.Equal(t, []int{1, 2, 4}, idx.Offsets())

	_, err = BuildIndex(nil)
	require.ErrorIs(t, err, errs.ErrEmptyMask)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	mask, dep := testGrid(t)

	for _, backend := range []string{config.BackendDir, config.BackendBadger, config.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			cfg, err := config.Parse([]byte(`
grid: {rows: 4, cols: 3}
byte_order: big
layers:
  - name: dep
    file: bed.dep
metrics:
  enabled: true
`))
			require.NoError(t, err)
			cfg.Backend.Type = backend
			cfg.Backend.Path = filepath.Join(t.TempDir(), "model")
			cfg.Backend.Compression = "lz4"

			s, closer, err := NewStore(cfg, prometheus.NewRegistry())
			require.NoError(t, err)
			defer func() { require.NoError(t, closer()) }()

			require.NoError(t, s.SetMask(mask))
			require.NoError(t, s.RegisterLayer("dep", dep))
			require.NoError(t, s.Write(ctx))
			require.Equal(t, "big", s.Manifest().ByteOrder)
			require.Equal(t, "bed.dep", s.Manifest().Layers[0].File)

			require.NoError(t, s.Read(ctx, LayerSpecs(cfg)...))
			require.Equal(t, []string{"dep"}, s.LayerNames())
		})
	}

	t.Run("invalid config", func(t *testing.T) {
		_, _, err := NewStore(&config.Config{}, nil)
		require.Error(t, err)
	})
}

func TestArtifactNames(t *testing.T) {
	cfg, err := config.Parse([]byte(`
grid: {rows: 1, cols: 1}
backend: {type: memory}
layers: [{name: dep}, {name: man, file: rough.man}]
forcing: [{name: dis, points: sim.src}]
`))
	require.NoError(t, err)

	names := ArtifactNames(cfg)
	require.Equal(t, "sim.ind", names.Index)
	require.Equal(t, "sim.dep", names.Layer("dep"))
	require.Equal(t, "rough.man", names.Layer("man"))

	points, series := names.Forcing("dis")
	require.Equal(t, "sim.src", points)
	require.Equal(t, "dis.ts", series)

	specs := LayerSpecs(cfg)
	require.Len(t, specs, 2)
	require.Equal(t, format.Float32, specs[1].Kind)
	require.InDelta(t, -9999, specs[1].Fill, 0)
}
