package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/stretchr/testify/require"
)

// backendContract runs the behavior every Backend must share.
func backendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing artifact", func(t *testing.T) {
		_, err := b.Get(ctx, "sim.ind")
		require.ErrorIs(t, err, errs.ErrArtifactNotFound)
	})

	t.Run("commit and get", func(t *testing.T) {
		err := b.Commit(ctx, []Artifact{
			{Name: "sim.ind", Data: []byte{1, 2, 3}},
			{Name: "sim.dep", Data: bytes.Repeat([]byte{7}, 4096)},
			{Name: "empty", Data: nil},
		})
		require.NoError(t, err)

		got, err := b.Get(ctx, "sim.ind")
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3}, got)

		got, err = b.Get(ctx, "sim.dep")
		require.NoError(t, err)
		require.Equal(t, bytes.Repeat([]byte{7}, 4096), got)

		got, err = b.Get(ctx, "empty")
		require.NoError(t, err)
		require.Empty(t, got)

		names, err := b.List(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"empty", "sim.dep", "sim.ind"}, names)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, b.Commit(ctx, []Artifact{{Name: "sim.ind", Data: []byte{9}}}))

		got, err := b.Get(ctx, "sim.ind")
		require.NoError(t, err)
		require.Equal(t, []byte{9}, got)
	})

	t.Run("invalid names are rejected before writing", func(t *testing.T) {
		err := b.Commit(ctx, []Artifact{
			{Name: "sim.ind", Data: []byte{0}},
			{Name: "../escape", Data: []byte{0}},
		})
		require.Error(t, err)

		got, err := b.Get(ctx, "sim.ind")
		require.NoError(t, err)
		require.Equal(t, []byte{9}, got)
	})

	t.Run("duplicate names are rejected", func(t *testing.T) {
		err := b.Commit(ctx, []Artifact{{Name: "a", Data: nil}, {Name: "a", Data: nil}})
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		require.ErrorIs(t, b.Commit(cctx, []Artifact{{Name: "late", Data: []byte{1}}}), context.Canceled)
		_, err := b.Get(ctx, "late")
		require.ErrorIs(t, err, errs.ErrArtifactNotFound)
	})
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend()
	backendContract(t, b)

	t.Run("returned data is a copy", func(t *testing.T) {
		got, err := b.Get(context.Background(), "sim.ind")
		require.NoError(t, err)
		got[0] = 0xFF

		again, err := b.Get(context.Background(), "sim.ind")
		require.NoError(t, err)
		require.Equal(t, []byte{9}, again)
	})
}

func TestDirBackend(t *testing.T) {
	root := filepath.Join(t.TempDir(), "model")
	b, err := NewDirBackend(root)
	require.NoError(t, err)
	require.Equal(t, root, b.Root())

	backendContract(t, b)

	t.Run("files are engine readable", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(root, "sim.ind"))
		require.NoError(t, err)
		require.Equal(t, []byte{9}, data)
	})

	t.Run("failed staging restores previous contents", func(t *testing.T) {
		long := strings.Repeat("x", 300)
		err := b.Commit(context.Background(), []Artifact{
			{Name: "sim.ind", Data: []byte{1, 1, 1}},
			{Name: long, Data: []byte{2}},
		})
		require.Error(t, err)

		got, err := b.Get(context.Background(), "sim.ind")
		require.NoError(t, err)
		require.Equal(t, []byte{9}, got)

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		for _, e := range entries {
			require.False(t, strings.HasPrefix(e.Name(), stagePrefix), "staged file %s left behind", e.Name())
			require.False(t, strings.HasPrefix(e.Name(), backupPrefix), "backup %s left behind", e.Name())
		}
	})

	t.Run("empty root", func(t *testing.T) {
		_, err := NewDirBackend("")
		require.Error(t, err)
	})
}

func TestBadgerBackend(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			b, err := OpenBadger("", WithInMemory(), WithCompression(ct), WithPrefix("test/"))
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, b.Close()) })

			backendContract(t, b)
		})
	}

	t.Run("mixed compression stays readable", func(t *testing.T) {
		dir := t.TempDir()
		ctx := context.Background()

		plain, err := OpenBadger(dir)
		require.NoError(t, err)
		require.NoError(t, plain.Commit(ctx, []Artifact{{Name: "sim.ind", Data: []byte("plain")}}))
		require.NoError(t, plain.Close())

		zstd, err := OpenBadger(dir, WithCompression(format.CompressionZstd))
		require.NoError(t, err)
		defer zstd.Close()

		require.NoError(t, zstd.Commit(ctx, []Artifact{{Name: "sim.dep", Data: []byte("compressed")}}))

		got, err := zstd.Get(ctx, "sim.ind")
		require.NoError(t, err)
		require.Equal(t, []byte("plain"), got)

		got, err = zstd.Get(ctx, "sim.dep")
		require.NoError(t, err)
		require.Equal(t, []byte("compressed"), got)
	})

	t.Run("prefixes isolate schematizations", func(t *testing.T) {
		ctx := context.Background()
		a, err := OpenBadger("", WithInMemory(), WithPrefix("a/"))
		require.NoError(t, err)
		defer a.Close()

		other, err := NewBadgerBackend(a.db, WithPrefix("b/"))
		require.NoError(t, err)
		require.NoError(t, other.Close())

		require.NoError(t, a.Commit(ctx, []Artifact{{Name: "sim.ind", Data: []byte{1}}}))

		_, err = other.Get(ctx, "sim.ind")
		require.ErrorIs(t, err, errs.ErrArtifactNotFound)

		names, err := other.List(ctx)
		require.NoError(t, err)
		require.Empty(t, names)
	})

	t.Run("invalid compression", func(t *testing.T) {
		_, err := OpenBadger("", WithInMemory(), WithCompression(format.CompressionType(99)))
		require.Error(t, err)
	})
}

func TestStore_OnDirAndBadger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	dir, err := NewDirBackend(t.TempDir())
	require.NoError(t, err)

	archive, err := OpenBadger(t.TempDir(), WithCompression(format.CompressionS2))
	require.NoError(t, err)
	defer archive.Close()

	for name, backend := range map[string]Backend{"dir": dir, "badger": archive} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, populated(t, backend, f).Write(ctx))

			r, err := New(backend)
			require.NoError(t, err)
			require.NoError(t, r.Read(ctx))

			dep, err := r.Layer("dep")
			require.NoError(t, err)
			require.Equal(t, maskedValues(f.mask, f.dep), dep.Values())
		})
	}
}
