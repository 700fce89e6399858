package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/gridcodec"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/grid"
	"github.com/arloliu/gridcodec/store"
	"github.com/arloliu/gridcodec/structure"
	"github.com/arloliu/gridcodec/timeseries"
	"github.com/ctessum/geom"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return stdout.String(), err
}

func writeModel(t *testing.T) string {
	t.Helper()

	mask, err := grid.MaskFromCodes(2, 3, []uint8{1, 1, 0, 2, 1, 3})
	require.NoError(t, err)

	dep, err := grid.LayerFromValues(mask.Shape(), format.Float32, -9999, []float64{1, 2, 0, 3, 4, 5})
	require.NoError(t, err)

	dir := t.TempDir()
	backend, err := store.NewDirBackend(dir)
	require.NoError(t, err)

	s, err := store.New(backend)
	require.NoError(t, err)
	require.NoError(t, s.SetMask(mask))
	require.NoError(t, s.RegisterLayer("dep", dep))
	require.NoError(t, s.SetStructures(format.ThinDam, []structure.Structure{
		{Name: "dam", Line: geom.LineString{{X: 0, Y: 0}, {X: 3, Y: 4}}},
	}))
	require.NoError(t, s.SetObservations([]timeseries.Location{{Name: "gauge", X: 1.5, Y: 2.5}}))
	require.NoError(t, s.Write(context.Background()))

	return dir
}

func TestInfo(t *testing.T) {
	dir := writeModel(t)

	out, err := run(t, "info", dir)
	require.NoError(t, err)
	require.Contains(t, out, "2x3")
	require.Contains(t, out, "5 (boundary 1, outflow 1)")
	require.Contains(t, out, "layer dep")
	require.Contains(t, out, "structures thd")
	require.Contains(t, out, "5.0 length units")
	require.Contains(t, out, "1 points")
}

func TestVerify(t *testing.T) {
	dir := writeModel(t)

	out, err := run(t, "verify", dir)
	require.NoError(t, err)
	require.Contains(t, out, "ok: 5 active cells, 1 layers")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sim.dep"), []byte{0, 0, 0, 0}, 0o644))
	_, err = run(t, "verify", dir)
	require.Error(t, err)

	_, err = run(t, "verify")
	require.Error(t, err, "needs a directory or --config")
}

func TestVerify_Config(t *testing.T) {
	dir := writeModel(t)
	cfgPath := filepath.Join(t.TempDir(), "gridcodec.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("grid: {rows: 2, cols: 3}\nlayers: [{name: dep}]\nbackend: {type: dir, path: "+dir+"}\n"), 0o600))

	out, err := run(t, "verify", "--config", cfgPath)
	require.NoError(t, err)
	require.Contains(t, out, "ok: 5 active cells")
}

func TestRewrite(t *testing.T) {
	dir := writeModel(t)
	dst := filepath.Join(t.TempDir(), "be")

	out, err := run(t, "rewrite", dir, dst, "--byte-order", "big", "--order", "column-major")
	require.NoError(t, err)
	require.Contains(t, out, "big, column-major")

	backend, err := store.NewDirBackend(dst)
	require.NoError(t, err)

	s, err := gridcodec.ReadGrid(context.Background(), backend)
	require.NoError(t, err)
	require.Equal(t, "big", s.Manifest().ByteOrder)

	dep, err := s.Layer("dep")
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, -9999, 3, 4, 5}, dep.Values())
	require.Len(t, s.Structures(format.ThinDam), 1)
	require.Equal(t, []timeseries.Location{{Name: "gauge", X: 1.5, Y: 2.5}}, s.Observations())

	_, err = run(t, "rewrite", dir, dst, "--byte-order", "middle")
	require.Error(t, err)
}

func TestArchiveAndRestore(t *testing.T) {
	dir := writeModel(t)
	db := filepath.Join(t.TempDir(), "archive")

	out, err := run(t, "archive", dir, db, "--compression", "s2")
	require.NoError(t, err)
	require.Contains(t, out, "archived commit")

	restored := filepath.Join(t.TempDir(), "restored")
	out, err = run(t, "archive", restored, db, "--restore")
	require.NoError(t, err)
	require.Contains(t, out, "restored commit")

	out, err = run(t, "verify", restored)
	require.NoError(t, err)
	require.Contains(t, out, "ok: 5 active cells")
}

func TestStructuresConvert(t *testing.T) {
	dir := writeModel(t)
	tmp := t.TempDir()
	text := filepath.Join(tmp, "dams.txt")
	bin := filepath.Join(tmp, "dams.thd")

	out, err := run(t, "structures", "convert", filepath.Join(dir, "sim.thd"), text, "--to", "text")
	require.NoError(t, err)
	require.Contains(t, out, "converted 1 thd structures to text")

	raw, err := os.ReadFile(text)
	require.NoError(t, err)
	require.Contains(t, string(raw), "dam")

	_, err = run(t, "structures", "convert", text, bin, "--to", "binary", "--kind", "thd")
	require.NoError(t, err)

	original, err := os.ReadFile(filepath.Join(dir, "sim.thd"))
	require.NoError(t, err)
	converted, err := os.ReadFile(bin)
	require.NoError(t, err)
	require.Equal(t, original, converted)

	_, err = run(t, "structures", "convert", text, bin, "--to", "binary")
	require.Error(t, err, "text input needs --kind")

	_, err = run(t, "structures", "convert", text, bin, "--to", "xml")
	require.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "info", t.TempDir())
	require.Error(t, err)
}
