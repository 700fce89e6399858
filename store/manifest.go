package store

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/internal/hash"
)

// ManifestVersion is written into every manifest.
const ManifestVersion = 1

// Manifest records what one commit wrote and which index each layer was encoded
// against. It is stored as YAML next to the artifacts it describes.
type Manifest struct {
	Version        int               `yaml:"version"`
	CommitID       string            `yaml:"commit_id"`
	CreatedAt      time.Time         `yaml:"created_at"`
	Rows           int               `yaml:"rows"`
	Cols           int               `yaml:"cols"`
	ByteOrder      string            `yaml:"byte_order"`
	TraversalOrder string            `yaml:"traversal_order"`
	ActiveCells    int               `yaml:"active_cells"`
	Index          ArtifactRecord    `yaml:"index"`
	Mask           LayerRecord       `yaml:"mask"`
	Layers         []LayerRecord     `yaml:"layers,omitempty"`
	Structures     []StructureRecord `yaml:"structures,omitempty"`
	Forcing        []ForcingRecord   `yaml:"forcing,omitempty"`
	Observations   *PointsRecord     `yaml:"observations,omitempty"`
}

// ArtifactRecord names a file and its checksum.
type ArtifactRecord struct {
	File     string `yaml:"file"`
	Size     int    `yaml:"size"`
	Checksum string `yaml:"checksum"`
}

// LayerRecord describes one map file.
type LayerRecord struct {
	ArtifactRecord `yaml:",inline"`
	Name           string  `yaml:"name"`
	Kind           string  `yaml:"kind"`
	Fill           float64 `yaml:"fill"`
	IndexChecksum  string  `yaml:"index_checksum"`
}

type StructureRecord struct {
	ArtifactRecord `yaml:",inline"`
	Kind           string `yaml:"kind"`
	Count          int    `yaml:"count"`
}

// PointsRecord describes a points-only file.
type PointsRecord struct {
	ArtifactRecord `yaml:",inline"`
	Count          int `yaml:"count"`
}

type ForcingRecord struct {
	Name      string         `yaml:"name"`
	Axis      string         `yaml:"axis"`
	Locations int            `yaml:"locations"`
	Points    ArtifactRecord `yaml:"points"`
	Series    ArtifactRecord `yaml:"series"`
}

func newRecord(file string, data []byte) ArtifactRecord {
	return ArtifactRecord{File: file, Size: len(data), Checksum: hash.Checksum(data)}
}

// Verify checks data against the recorded size and checksum.
func (r ArtifactRecord) Verify(data []byte) error {
	if len(data) != r.Size {
		return fmt.Errorf("%w: %s is %d bytes, manifest records %d", errs.ErrChecksumMismatch, r.File, len(data), r.Size)
	}

	want, err := hash.Parse(r.Checksum)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrChecksumMismatch, r.File, err)
	}

	if got := hash.Sum(data); got != want {
		return fmt.Errorf("%w: %s has %s, manifest records %s", errs.ErrChecksumMismatch, r.File, hash.Format(got), r.Checksum)
	}

	return nil
}

// Layer returns the record of the named layer.
func (m *Manifest) Layer(name string) (LayerRecord, bool) {
	for _, l := range m.Layers {
		if l.Name == name {
			return l, true
		}
	}

	return LayerRecord{}, false
}

// Marshal renders the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// ParseManifest decodes and sanity-checks a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("manifest: unsupported version %d", m.Version)
	}

	if m.Rows <= 0 || m.Cols <= 0 {
		return nil, fmt.Errorf("manifest: %w: %dx%d", errs.ErrInvalidShape, m.Rows, m.Cols)
	}

	if m.Index.File == "" || m.Mask.File == "" {
		return nil, fmt.Errorf("manifest: index and mask entries are required")
	}

	return &m, nil
}
