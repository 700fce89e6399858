// Package gridcodec translates gridded model inputs into the compact binary files
// read by a hydrodynamic simulation engine and back.
//
// The engine only stores values for active cells, so every gridded quantity is
// serialized through an active-cell index derived from the grid mask: record i of
// a map file is the value of the cell named by entry i of the index.
//
// # Core Features
//
//   - Active-cell index derived deterministically from the mask (row- or column-major)
//   - Map files for float32, float64, uint8, int16 and int32 layers
//   - Thin dam and weir polylines in binary and engine text form
//   - Point-location time series with shared or per-series time axes
//   - A store that keeps mask, index and layers consistent and writes them atomically
//   - Directory, badger and in-memory backends with xxHash64 manifests
//
// # Basic Usage
//
// Writing a schematization:
//
//	mask, _ := grid.NewMask(120, 80)
//	// ... classify cells ...
//	elevation, _ := grid.NewLayer(mask.Shape(), format.Float32, -9999)
//
//	err := gridcodec.WriteGrid(ctx, backend, mask, map[string]*grid.Layer{"dep": elevation})
//
// Reading it back:
//
//	s, err := gridcodec.ReadGrid(ctx, backend)
//	dep, _ := s.Layer("dep")
//
// # Package Structure
//
// This package provides top-level wrappers around the store and config packages
// for the common cases. Use the codec packages (index, maps, structure,
// timeseries) directly for single artifacts.
package gridcodec

import (
	"context"
	"fmt"

	"github.com/arloliu/gridcodec/config"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/grid"
	"github.com/arloliu/gridcodec/index"
	"github.com/arloliu/gridcodec/internal/logging"
	"github.com/arloliu/gridcodec/internal/metrics"
	"github.com/arloliu/gridcodec/store"
	"github.com/prometheus/client_golang/prometheus"
)

// Closer releases a backend. It is a no-op for backends without resources.
type Closer func() error

func noopCloser() error { return nil }

// OpenBackend creates the backend described by cfg.
//
// Parameters:
//   - cfg: Validated configuration
//
// Returns:
//   - store.Backend: Directory, badger or memory backend
//   - Closer: Releases the backend; always non-nil on success
//   - error: Backend creation failure
func OpenBackend(cfg *config.Config) (store.Backend, Closer, error) {
	switch cfg.Backend.Type {
	case config.BackendDir:
		b, err := store.NewDirBackend(cfg.Backend.Path)
		if err != nil {
			return nil, nil, err
		}

		return b, noopCloser, nil
	case config.BackendBadger:
		ct, err := cfg.Compression()
		if err != nil {
			return nil, nil, err
		}

		opts := []store.BadgerOption{store.WithCompression(ct)}
		if cfg.Backend.Prefix != "" {
			opts = append(opts, store.WithPrefix(cfg.Backend.Prefix))
		}

		b, err := store.OpenBadger(cfg.Backend.Path, opts...)
		if err != nil {
			return nil, nil, err
		}

		return b, b.Close, nil
	case config.BackendMemory:
		return store.NewMemoryBackend(), noopCloser, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend type %q", cfg.Backend.Type)
	}
}

// ArtifactNames converts the configured names into store artifact names.
func ArtifactNames(cfg *config.Config) store.ArtifactNames {
	names := store.ArtifactNames{
		Index:        cfg.Artifacts.Index,
		Mask:         cfg.Artifacts.Mask,
		ThinDams:     cfg.Artifacts.ThinDams,
		Weirs:        cfg.Artifacts.Weirs,
		Observations: cfg.Artifacts.Observations,
		Manifest:     cfg.Artifacts.Manifest,
		Layers:       make(map[string]string, len(cfg.Layers)),
		Points:       make(map[string]string, len(cfg.Forcing)),
		Series:       make(map[string]string, len(cfg.Forcing)),
	}

	for _, l := range cfg.Layers {
		names.Layers[l.Name] = l.File
	}

	for _, f := range cfg.Forcing {
		names.Points[f.Name] = f.Points
		names.Series[f.Name] = f.Series
	}

	return names
}

// LayerSpecs returns one read spec per configured layer.
func LayerSpecs(cfg *config.Config) []store.LayerSpec {
	specs := make([]store.LayerSpec, 0, len(cfg.Layers))
	for _, l := range cfg.Layers {
		specs = append(specs, store.LayerSpec{
			Name: l.Name,
			File: l.File,
			Kind: l.DataKind(),
			Fill: l.FillValue(),
		})
	}

	return specs
}

// NewStore builds a store, its backend, logger and metrics from cfg.
//
// Metrics are registered with reg when cfg enables them; a nil reg uses the
// Prometheus default registerer. Extra options are applied after the ones
// derived from cfg.
//
// Returns:
//   - *store.Store: Empty store
//   - Closer: Releases the backend
//   - error: Invalid configuration, logger, metrics or backend failure
func NewStore(cfg *config.Config, reg prometheus.Registerer, opts ...store.Option) (*store.Store, Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	engine, err := cfg.Engine()
	if err != nil {
		return nil, nil, err
	}

	order, err := cfg.Order()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, nil, err
	}

	base := []store.Option{
		store.WithLogger(logger.WithField("component", "store")),
		store.WithEndian(engine),
		store.WithTraversalOrder(order),
		store.WithArtifactNames(ArtifactNames(cfg)),
	}

	if cfg.Metrics.Enabled {
		m, err := metrics.New(reg)
		if err != nil {
			return nil, nil, fmt.Errorf("metrics: %w", err)
		}
		base = append(base, store.WithMetrics(m))
	}

	backend, closer, err := OpenBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	s, err := store.New(backend, append(base, opts...)...)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}

	return s, closer, nil
}

// NewMemoryStore creates a store on a fresh MemoryBackend.
func NewMemoryStore(opts ...store.Option) (*store.Store, *store.MemoryBackend, error) {
	backend := store.NewMemoryBackend()

	s, err := store.New(backend, opts...)
	if err != nil {
		return nil, nil, err
	}

	return s, backend, nil
}

// WriteGrid writes mask and layers to backend in one commit.
func WriteGrid(ctx context.Context, backend store.Backend, mask *grid.Mask, layers map[string]*grid.Layer, opts ...store.Option) error {
	s, err := store.New(backend, opts...)
	if err != nil {
		return err
	}

	if err := s.SetMask(mask); err != nil {
		return err
	}

	for name, layer := range layers {
		if err := s.RegisterLayer(name, layer); err != nil {
			return err
		}
	}

	return s.Write(ctx)
}

// ReadGrid loads the schematization on backend. With no specs every layer
// recorded in the manifest is loaded.
func ReadGrid(ctx context.Context, backend store.Backend, specs ...store.LayerSpec) (*store.Store, error) {
	s, err := store.New(backend)
	if err != nil {
		return nil, err
	}

	if err := s.Read(ctx, specs...); err != nil {
		return nil, err
	}

	return s, nil
}

// BuildIndex derives the row-major active-cell index of mask, the order the
// engine expects by default.
func BuildIndex(mask *grid.Mask) (*index.ActiveCellIndex, error) {
	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", errs.ErrEmptyMask)
	}

	return index.Build(mask, format.RowMajor)
}
