// Package config loads the YAML description of a schematization: grid shape,
// byte and traversal order, the layer table, artifact names, the storage backend
// and logging.
//
// A minimal file only needs the grid shape; everything else has a default:
//
//	grid:
//	  rows: 120
//	  cols: 80
//	layers:
//	  - name: dep
//	    kind: f4
//	    fill: -9999
//	backend:
//	  type: dir
//	  path: ./model
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/format"
)

// EnvConfigPath names the environment variable consulted by Load when no path is given.
const EnvConfigPath = "GRIDCODEC_CONFIG"

// Backend types.
const (
	BackendDir    = "dir"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// DefaultFill is the no-data value of floating point layers.
const DefaultFill = -9999.0

// Config is the root of a schematization configuration file.
type Config struct {
	Grid           GridConfig      `yaml:"grid"`
	ByteOrder      string          `yaml:"byte_order"`
	TraversalOrder string          `yaml:"traversal_order"`
	Artifacts      ArtifactConfig  `yaml:"artifacts"`
	Layers         []LayerConfig   `yaml:"layers"`
	Forcing        []ForcingConfig `yaml:"forcing"`
	Backend        BackendConfig   `yaml:"backend"`
	Logging        LoggingConfig   `yaml:"logging"`
	Metrics        MetricsConfig   `yaml:"metrics"`
}

type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// ArtifactConfig overrides the engine's default artifact file names.
type ArtifactConfig struct {
	Index        string `yaml:"index"`
	Mask         string `yaml:"mask"`
	ThinDams     string `yaml:"thin_dams"`
	Weirs        string `yaml:"weirs"`
	Observations string `yaml:"observations"`
	Manifest     string `yaml:"manifest"`
}

// LayerConfig describes one gridded quantity.
type LayerConfig struct {
	Name string   `yaml:"name"`
	File string   `yaml:"file"`
	Kind string   `yaml:"kind"`
	Fill *float64 `yaml:"fill"`
}

// ForcingConfig names a point-location/series artifact pair.
type ForcingConfig struct {
	Name   string `yaml:"name"`
	Points string `yaml:"points"`
	Series string `yaml:"series"`
}

type BackendConfig struct {
	Type        string `yaml:"type"`
	Path        string `yaml:"path"`
	Compression string `yaml:"compression"`
	Prefix      string `yaml:"prefix"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration with engine default names and the four
// standard float32 layers. The grid shape is left zero and must be set.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Layers = DefaultLayers()

	return cfg
}

// DefaultLayers returns the standard layer table: elevation, roughness,
// storage and infiltration.
func DefaultLayers() []LayerConfig {
	names := []string{"dep", "man", "scs", "qinf"}
	layers := make([]LayerConfig, 0, len(names))
	for _, name := range names {
		fill := DefaultFill
		layers = append(layers, LayerConfig{Name: name, File: "sim." + name, Kind: "f4", Fill: &fill})
	}

	return layers
}

// Load reads and validates the file at path. An empty path falls back to the
// GRIDCODEC_CONFIG environment variable.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		if path == "" {
			return nil, errors.New("config: no path given and " + EnvConfigPath + " is not set")
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML, fills defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) applyDefaults() {
	if c.ByteOrder == "" {
		c.ByteOrder = "little"
	}
	if c.TraversalOrder == "" {
		c.TraversalOrder = format.RowMajor.String()
	}

	a := &c.Artifacts
	a.Index = withDefault(a.Index, "sim.ind")
	a.Mask = withDefault(a.Mask, "sim.msk")
	a.ThinDams = withDefault(a.ThinDams, "sim.thd")
	a.Weirs = withDefault(a.Weirs, "sim.weir")
	a.Observations = withDefault(a.Observations, "sim.obs")
	a.Manifest = withDefault(a.Manifest, "manifest.yaml")

	for i := range c.Layers {
		l := &c.Layers[i]
		l.File = withDefault(l.File, "sim."+l.Name)
		l.Kind = withDefault(l.Kind, format.Float32.String())
		if l.Fill == nil {
			fill := DefaultFill
			if k, err := format.ParseDataKind(l.Kind); err == nil && k.IsInteger() {
				fill = 0
			}
			l.Fill = &fill
		}
	}

	for i := range c.Forcing {
		f := &c.Forcing[i]
		f.Points = withDefault(f.Points, f.Name+".pts")
		f.Series = withDefault(f.Series, f.Name+".ts")
	}

	c.Backend.Type = withDefault(c.Backend.Type, BackendDir)
	c.Backend.Compression = withDefault(c.Backend.Compression, "none")
	c.Logging.Level = withDefault(c.Logging.Level, "info")
	c.Logging.Format = withDefault(c.Logging.Format, "text")
}

// Validate checks that every field resolves to a usable value and that artifact
// names do not collide.
func (c *Config) Validate() error {
	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 {
		return fmt.Errorf("grid: rows and cols must be positive, got %dx%d", c.Grid.Rows, c.Grid.Cols)
	}
	if _, err := c.Engine(); err != nil {
		return err
	}
	if _, err := c.Order(); err != nil {
		return err
	}
	if _, err := c.Compression(); err != nil {
		return err
	}

	switch c.Backend.Type {
	case BackendDir, BackendBadger:
		if c.Backend.Path == "" {
			return fmt.Errorf("backend %s: path is required", c.Backend.Type)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("backend: unknown type %q", c.Backend.Type)
	}

	files := map[string]string{}
	claim := func(file, owner string) error {
		if strings.ContainsAny(file, `/\`) {
			return fmt.Errorf("%s: artifact name %q must not contain a path separator", owner, file)
		}
		if prev, ok := files[file]; ok {
			return fmt.Errorf("%s: artifact name %q already used by %s", owner, file, prev)
		}
		files[file] = owner

		return nil
	}

	a := c.Artifacts
	for _, f := range []struct{ file, owner string }{
		{a.Index, "index"}, {a.Mask, "mask"}, {a.ThinDams, "thin_dams"},
		{a.Weirs, "weirs"}, {a.Observations, "observations"}, {a.Manifest, "manifest"},
	} {
		if err := claim(f.file, f.owner); err != nil {
			return err
		}
	}

	names := map[string]bool{}
	for i, l := range c.Layers {
		if l.Name == "" {
			return fmt.Errorf("layer %d: name is required", i)
		}
		if names[l.Name] {
			return fmt.Errorf("layer %s: duplicate name", l.Name)
		}
		names[l.Name] = true

		kind, err := format.ParseDataKind(l.Kind)
		if err != nil {
			return fmt.Errorf("layer %s: %w", l.Name, err)
		}
		if kind.IsInteger() && l.Fill != nil && (math.IsNaN(*l.Fill) || *l.Fill != math.Trunc(*l.Fill)) {
			return fmt.Errorf("layer %s: fill %v is not an integer", l.Name, *l.Fill)
		}
		if err := claim(l.File, "layer "+l.Name); err != nil {
			return err
		}
	}

	for i, f := range c.Forcing {
		if f.Name == "" {
			return fmt.Errorf("forcing %d: name is required", i)
		}
		if err := claim(f.Points, "forcing "+f.Name); err != nil {
			return err
		}
		if err := claim(f.Series, "forcing "+f.Name); err != nil {
			return err
		}
	}

	return nil
}

// Engine resolves the configured byte order.
func (c *Config) Engine() (endian.EndianEngine, error) {
	engine, err := endian.Parse(c.ByteOrder)
	if err != nil {
		return nil, fmt.Errorf("byte_order: %w", err)
	}

	return engine, nil
}

// Order resolves the configured traversal order.
func (c *Config) Order() (format.TraversalOrder, error) {
	order, err := format.ParseTraversalOrder(c.TraversalOrder)
	if err != nil {
		return 0, fmt.Errorf("traversal_order: %w", err)
	}

	return order, nil
}

// Compression resolves the backend compression.
func (c *Config) Compression() (format.CompressionType, error) {
	ct, err := format.ParseCompression(c.Backend.Compression)
	if err != nil {
		return 0, fmt.Errorf("backend: %w", err)
	}

	return ct, nil
}

// Layer returns the layer entry named name.
func (c *Config) Layer(name string) (LayerConfig, bool) {
	for _, l := range c.Layers {
		if l.Name == name {
			return l, true
		}
	}

	return LayerConfig{}, false
}

// DataKind resolves the layer's kind. It assumes the config was validated.
func (l LayerConfig) DataKind() format.DataKind {
	kind, _ := format.ParseDataKind(l.Kind)
	return kind
}

// FillValue returns the layer's no-data value.
func (l LayerConfig) FillValue() float64 {
	if l.Fill == nil {
		return DefaultFill
	}

	return *l.Fill
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
