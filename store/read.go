package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/grid"
	"github.com/arloliu/gridcodec/index"
	"github.com/arloliu/gridcodec/internal/hash"
	"github.com/arloliu/gridcodec/maps"
	"github.com/arloliu/gridcodec/section"
	"github.com/arloliu/gridcodec/structure"
	"github.com/arloliu/gridcodec/timeseries"
)

// DefaultFill is the no-data value used for float layers read without a manifest.
const DefaultFill = -9999.0

// LayerSpec selects a layer to hydrate on Read.
//
// With a manifest present, empty File and zero Kind are taken from the layer's
// manifest record. Without one, File defaults to the artifact name of Name and
// Kind to Float32 with DefaultFill. Fill is only used when Kind is set.
type LayerSpec struct {
	Name string
	File string
	Kind format.DataKind
	Fill float64
}

type layerPlan struct {
	name   string
	file   string
	kind   format.DataKind
	fill   float64
	record *ArtifactRecord
}

type snapshot struct {
	manifest   *Manifest
	mask       *grid.Mask
	index      *index.ActiveCellIndex
	layers     map[string]*grid.Layer
	structures map[format.StructureKind][]structure.Structure
	forcing    map[string]*timeseries.Set

	observations []timeseries.Location
}

// Read loads a persisted schematization.
//
// The manifest is read first when present and every artifact is verified against
// it. The index is decoded next, then the mask map and all requested layers are
// hydrated against it concurrently. With no specs, every layer recorded in the
// manifest is loaded.
//
// A layer recorded against a different index fails with ErrStaleIndex. On any
// error the store is left unchanged.
func (s *Store) Read(ctx context.Context, specs ...LayerSpec) error {
	start := time.Now()

	snap, err := s.load(ctx, specs)
	if err != nil {
		return fmt.Errorf("store: read: %w", err)
	}

	s.mu.Lock()
	s.manifest = snap.manifest
	s.mask = snap.mask
	s.index = snap.index
	s.indexRev = snap.mask.Revision()
	s.layers = snap.layers
	s.structures = snap.structures
	s.forcing = snap.forcing
	s.observations = snap.observations
	s.markPersisted()
	s.mu.Unlock()

	s.metrics.SetActiveCells(snap.index.Len())

	fields := logrus.Fields{
		"active_cells": snap.index.Len(),
		"layers":       len(snap.layers),
		"elapsed":      time.Since(start),
	}
	if snap.manifest != nil {
		fields["commit"] = snap.manifest.CommitID
	}
	s.log.WithFields(fields).Info("schematization read")

	return nil
}

func (s *Store) load(ctx context.Context, specs []LayerSpec) (*snapshot, error) {
	manifest, err := s.readManifest(ctx)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		manifest:   manifest,
		layers:     make(map[string]*grid.Layer),
		structures: make(map[format.StructureKind][]structure.Structure),
		forcing:    make(map[string]*timeseries.Set),
	}

	indexFile, maskFile := s.names.Index, s.names.Mask
	var indexRecord, maskRecord *ArtifactRecord
	var expected grid.Shape
	if manifest != nil {
		indexFile, maskFile = manifest.Index.File, manifest.Mask.File
		indexRecord, maskRecord = &manifest.Index, &manifest.Mask.ArtifactRecord
		expected = grid.Shape{Rows: manifest.Rows, Cols: manifest.Cols}

		if manifest.Mask.IndexChecksum != manifest.Index.Checksum {
			return nil, fmt.Errorf("%w: mask %s", errs.ErrStaleIndex, maskFile)
		}
	}

	indexData, err := s.fetch(ctx, indexFile, indexRecord)
	if err != nil {
		return nil, err
	}

	header, err := section.ParseIndexHeader(indexData)
	if err != nil {
		s.metrics.DecodeFailed("index", err)
		return nil, fmt.Errorf("index %s: %w", indexFile, err)
	}
	engine := header.Flag.Engine()

	idx, err := index.Decode(indexData, expected)
	if err != nil {
		s.metrics.DecodeFailed("index", err)
		return nil, fmt.Errorf("index %s: %w", indexFile, err)
	}
	s.metrics.Decoded("index", len(indexData))
	snap.index = idx
	indexChecksum := hash.Checksum(indexData)

	plans, err := s.planLayers(specs, manifest, indexChecksum)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := s.fetch(gctx, maskFile, maskRecord)
		if err != nil {
			return err
		}

		mask, err := maps.DecodeMask(data, idx, engine)
		if err != nil {
			s.metrics.DecodeFailed("mask", err)
			return fmt.Errorf("mask %s: %w", maskFile, err)
		}

		if !idx.Matches(mask) {
			return fmt.Errorf("%w: mask %s disagrees with index categories", errs.ErrStaleIndex, maskFile)
		}
		s.metrics.Decoded("mask", len(data))
		snap.mask = mask

		return nil
	})

	layers := make([]*grid.Layer, len(plans))
	for i, p := range plans {
		g.Go(func() error {
			data, err := s.fetch(gctx, p.file, p.record)
			if err != nil {
				return err
			}

			layer, err := maps.Decode(data, idx, p.kind, p.fill, engine)
			if err != nil {
				s.metrics.DecodeFailed("map", err)
				return fmt.Errorf("layer %s (%s): %w", p.name, p.file, err)
			}
			s.metrics.Decoded("map", len(data))
			layers[i] = layer

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, p := range plans {
		snap.layers[p.name] = layers[i]
	}

	if err := s.loadStructures(ctx, snap); err != nil {
		return nil, err
	}

	if err := s.loadForcing(ctx, snap); err != nil {
		return nil, err
	}

	if err := s.loadObservations(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) readManifest(ctx context.Context) (*Manifest, error) {
	data, err := s.backend.Get(ctx, s.names.Manifest)
	if errors.Is(err, errs.ErrArtifactNotFound) {
		s.log.WithField("manifest", s.names.Manifest).Debug("no manifest, reading without checksums")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	if _, err := endian.Parse(m.ByteOrder); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	return m, nil
}

// planLayers resolves file, kind and fill of every requested layer and rejects
// layers written against another index before anything is fetched.
func (s *Store) planLayers(specs []LayerSpec, manifest *Manifest, indexChecksum string) ([]layerPlan, error) {
	if len(specs) == 0 && manifest != nil {
		for _, rec := range manifest.Layers {
			specs = append(specs, LayerSpec{Name: rec.Name})
		}
	}

	plans := make([]layerPlan, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, errors.New("layer spec without a name")
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("layer %s requested twice", spec.Name)
		}
		seen[spec.Name] = true

		p := layerPlan{name: spec.Name, file: spec.File, kind: spec.Kind, fill: spec.Fill}

		if manifest != nil {
			rec, ok := manifest.Layer(spec.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %s is not in the manifest", errs.ErrUnknownLayer, spec.Name)
			}

			if rec.IndexChecksum != indexChecksum {
				return nil, fmt.Errorf("%w: layer %s was written against index %s, loaded index is %s",
					errs.ErrStaleIndex, spec.Name, rec.IndexChecksum, indexChecksum)
			}

			if p.file == "" {
				p.file = rec.File
			}
			if p.file == rec.File {
				p.record = &rec.ArtifactRecord
			}

			if p.kind == 0 {
				kind, err := format.ParseDataKind(rec.Kind)
				if err != nil {
					return nil, fmt.Errorf("manifest layer %s: %w", spec.Name, err)
				}
				p.kind, p.fill = kind, rec.Fill
			}
		}

		if p.file == "" {
			p.file = s.names.Layer(spec.Name)
		}
		if p.kind == 0 {
			p.kind, p.fill = format.Float32, DefaultFill
		}

		plans = append(plans, p)
	}

	return plans, nil
}

func (s *Store) loadStructures(ctx context.Context, snap *snapshot) error {
	type source struct {
		file   string
		record *ArtifactRecord
	}

	var sources []source
	if snap.manifest != nil {
		for i := range snap.manifest.Structures {
			rec := &snap.manifest.Structures[i]
			sources = append(sources, source{file: rec.File, record: &rec.ArtifactRecord})
		}
	} else {
		sources = []source{{file: s.names.ThinDams}, {file: s.names.Weirs}}
	}

	for _, src := range sources {
		data, err := s.fetch(ctx, src.file, src.record)
		if src.record == nil && errors.Is(err, errs.ErrArtifactNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		kind, list, err := structure.Decode(data)
		if err != nil {
			s.metrics.DecodeFailed("structures", err)
			return fmt.Errorf("structures %s: %w", src.file, err)
		}
		s.metrics.Decoded(kind.String(), len(data))
		snap.structures[kind] = list
	}

	return nil
}

func (s *Store) loadForcing(ctx context.Context, snap *snapshot) error {
	if snap.manifest == nil {
		return nil
	}

	for i := range snap.manifest.Forcing {
		rec := &snap.manifest.Forcing[i]

		points, err := s.fetch(ctx, rec.Points.File, &rec.Points)
		if err != nil {
			return err
		}

		series, err := s.fetch(ctx, rec.Series.File, &rec.Series)
		if err != nil {
			return err
		}

		set, err := timeseries.Decode(points, series)
		if err != nil {
			s.metrics.DecodeFailed("series", err)
			return fmt.Errorf("forcing %s: %w", rec.Name, err)
		}
		s.metrics.Decoded("points", len(points))
		s.metrics.Decoded("series", len(series))
		snap.forcing[rec.Name] = set
	}

	return nil
}

// loadObservations reads the observation points recorded in the manifest, or the
// default file when reading without one.
func (s *Store) loadObservations(ctx context.Context, snap *snapshot) error {
	file := s.names.Observations
	var record *ArtifactRecord
	if snap.manifest != nil {
		if snap.manifest.Observations == nil {
			return nil
		}
		file, record = snap.manifest.Observations.File, &snap.manifest.Observations.ArtifactRecord
	}

	data, err := s.fetch(ctx, file, record)
	if record == nil && errors.Is(err, errs.ErrArtifactNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	locations, err := timeseries.DecodePoints(data)
	if err != nil {
		s.metrics.DecodeFailed("observations", err)
		return fmt.Errorf("observations %s: %w", file, err)
	}
	s.metrics.Decoded("observations", len(data))
	snap.observations = locations

	return nil
}

// fetch reads an artifact and verifies it against record when one is given.
func (s *Store) fetch(ctx context.Context, name string, record *ArtifactRecord) ([]byte, error) {
	data, err := s.backend.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if record != nil {
		if err := record.Verify(data); err != nil {
			s.metrics.DecodeFailed("checksum", err)
			return nil, err
		}
	}

	return data, nil
}
