package store

import (
	"maps"

	"github.com/arloliu/gridcodec/format"
)

// ArtifactNames maps schematization parts to artifact names.
//
// The zero value of a field falls back to the engine default; layer and forcing
// names not present in the override maps use "sim.<layer>" and "<name>.pts" /
// "<name>.ts".
type ArtifactNames struct {
	Index        string
	Mask         string
	ThinDams     string
	Weirs        string
	Observations string
	Manifest     string
	Layers       map[string]string
	Points       map[string]string
	Series       map[string]string
}

// DefaultArtifactNames returns the engine's file naming convention.
func DefaultArtifactNames() ArtifactNames {
	return ArtifactNames{
		Index:        "sim.ind",
		Mask:         "sim.msk",
		ThinDams:     "sim.thd",
		Weirs:        "sim.weir",
		Observations: "sim.obs",
		Manifest:     "manifest.yaml",
	}
}

// merge fills empty fields of n from def.
func (n ArtifactNames) merge(def ArtifactNames) ArtifactNames {
	out := n
	if out.Index == "" {
		out.Index = def.Index
	}
	if out.Mask == "" {
		out.Mask = def.Mask
	}
	if out.ThinDams == "" {
		out.ThinDams = def.ThinDams
	}
	if out.Weirs == "" {
		out.Weirs = def.Weirs
	}
	if out.Observations == "" {
		out.Observations = def.Observations
	}
	if out.Manifest == "" {
		out.Manifest = def.Manifest
	}
	out.Layers = maps.Clone(n.Layers)
	out.Points = maps.Clone(n.Points)
	out.Series = maps.Clone(n.Series)

	return out
}

// Layer returns the artifact name of a layer.
func (n ArtifactNames) Layer(name string) string {
	if f, ok := n.Layers[name]; ok && f != "" {
		return f
	}

	return "sim." + name
}

// Structures returns the artifact name for structures of kind.
func (n ArtifactNames) Structures(kind format.StructureKind) string {
	if kind == format.Weir {
		return n.Weirs
	}

	return n.ThinDams
}

// Forcing returns the point and series artifact names of a forcing set.
func (n ArtifactNames) Forcing(name string) (string, string) {
	points, series := name+".pts", name+".ts"
	if f, ok := n.Points[name]; ok && f != "" {
		points = f
	}
	if f, ok := n.Series[name]; ok && f != "" {
		series = f
	}

	return points, series
}
