package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/index"
	"github.com/arloliu/gridcodec/maps"
	"github.com/arloliu/gridcodec/structure"
	"github.com/arloliu/gridcodec/timeseries"
)

// Write encodes the mask, index, every layer, structures, forcing sets and
// observation points and commits them together with a manifest.
//
// A stale index is rebuilt from the current mask first. Everything is encoded
// in memory before the backend is touched, so an encode failure commits nothing.
// On success the store is Persisted.
func (s *Store) Write(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() { s.metrics.Committed(err) }()

	if s.mask == nil {
		return fmt.Errorf("%w: write without a mask", errs.ErrInvalidState)
	}

	start := time.Now()

	idx, err := s.currentIndex()
	if err != nil {
		return fmt.Errorf("store: build index: %w", err)
	}

	artifacts, manifest, err := s.encodeAll(idx)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	manifestData, err := manifest.Marshal()
	if err != nil {
		return fmt.Errorf("store: manifest: %w", err)
	}
	artifacts = append(artifacts, Artifact{Name: s.names.Manifest, Data: manifestData})

	if err := s.backend.Commit(ctx, artifacts); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}

	s.manifest = manifest
	s.markPersisted()

	s.log.WithFields(logrus.Fields{
		"commit":       manifest.CommitID,
		"artifacts":    len(artifacts),
		"active_cells": idx.Len(),
		"elapsed":      time.Since(start),
	}).Info("schematization written")

	return nil
}

// encodeAll produces every artifact of a commit and the manifest describing them.
// s.mu must be held.
func (s *Store) encodeAll(idx *index.ActiveCellIndex) ([]Artifact, *Manifest, error) {
	shape := idx.Shape()
	m := &Manifest{
		Version:        ManifestVersion,
		CommitID:       uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Rows:           shape.Rows,
		Cols:           shape.Cols,
		ByteOrder:      endian.Name(s.engine),
		TraversalOrder: idx.Order().String(),
		ActiveCells:    idx.Len(),
	}

	var artifacts []Artifact
	add := func(kind, name string, data []byte) ArtifactRecord {
		artifacts = append(artifacts, Artifact{Name: name, Data: data})
		s.metrics.Encoded(kind, len(data))

		return newRecord(name, data)
	}

	indexData, err := index.Encode(idx, s.engine)
	if err != nil {
		return nil, nil, fmt.Errorf("encode index: %w", err)
	}
	m.Index = add("index", s.names.Index, indexData)
	indexChecksum := m.Index.Checksum

	maskData, err := maps.EncodeMask(s.mask, idx, s.engine)
	if err != nil {
		return nil, nil, fmt.Errorf("encode mask: %w", err)
	}
	m.Mask = LayerRecord{
		ArtifactRecord: add("mask", s.names.Mask, maskData),
		Name:           "msk",
		Kind:           format.Uint8.String(),
		IndexChecksum:  indexChecksum,
	}

	for _, name := range sortedKeys(s.layers) {
		layer := s.layers[name]

		data, err := maps.Encode(layer, idx, s.engine)
		if err != nil {
			return nil, nil, fmt.Errorf("encode layer %s: %w", name, err)
		}

		m.Layers = append(m.Layers, LayerRecord{
			ArtifactRecord: add("map", s.names.Layer(name), data),
			Name:           name,
			Kind:           layer.Kind().String(),
			Fill:           layer.Fill(),
			IndexChecksum:  indexChecksum,
		})
	}

	for _, kind := range []format.StructureKind{format.ThinDam, format.Weir} {
		list, ok := s.structures[kind]
		if !ok {
			continue
		}

		named := make([]structure.Structure, len(list))
		for i, st := range list {
			if st.Name == "" {
				st.Name = structure.DefaultName(kind, i)
			}
			named[i] = st
		}

		data, err := structure.Encode(kind, named, s.engine)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s: %w", kind, err)
		}

		m.Structures = append(m.Structures, StructureRecord{
			ArtifactRecord: add(kind.String(), s.names.Structures(kind), data),
			Kind:           kind.String(),
			Count:          len(named),
		})
	}

	for _, name := range sortedKeys(s.forcing) {
		set := s.forcing[name]

		points, series, err := timeseries.Encode(set, s.engine)
		if err != nil {
			return nil, nil, fmt.Errorf("encode forcing %s: %w", name, err)
		}

		pointsName, seriesName := s.names.Forcing(name)
		m.Forcing = append(m.Forcing, ForcingRecord{
			Name:      name,
			Axis:      set.Axis.String(),
			Locations: set.Len(),
			Points:    add("points", pointsName, points),
			Series:    add("series", seriesName, series),
		})
	}

	if len(s.observations) > 0 {
		data, err := timeseries.EncodePoints(s.observations, s.engine)
		if err != nil {
			return nil, nil, fmt.Errorf("encode observations: %w", err)
		}

		m.Observations = &PointsRecord{
			ArtifactRecord: add("observations", s.names.Observations, data),
			Count:          len(s.observations),
		}
	}

	if err := validateArtifacts(artifacts); err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{
		"index":  indexChecksum,
		"layers": len(m.Layers),
	}).Debug("artifacts encoded")

	return artifacts, m, nil
}
