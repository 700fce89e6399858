// Package structure encodes the line structures of a schematization: thin dams,
// which block flow entirely, and weirs, which block flow below a crest elevation.
//
// Both kinds share one layout. A binary file is a StructureHeader followed by one
// block per structure; a text file uses the engine's ASCII block format. Structures
// are independent of the grid and the active-cell index.
package structure

import (
	"fmt"
	"math"

	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/ctessum/geom"
)

// DefaultPar1 is the weir discharge coefficient used when none is given.
const DefaultPar1 = 0.6

// Structure is a named polyline.
//
// Crest and Par1 are per-vertex weir attributes parallel to Line. Crest is
// required for weirs and ignored for thin dams. A nil Par1 means DefaultPar1 at
// every vertex.
type Structure struct {
	Name  string
	Line  geom.LineString
	Crest []float64
	Par1  []float64
}

// Len returns the number of vertices.
func (s Structure) Len() int {
	return len(s.Line)
}

// Length returns the polyline length in map units.
func (s Structure) Length() float64 {
	return s.Line.Length()
}

// Bounds returns the bounding box of the polyline.
func (s Structure) Bounds() *geom.Bounds {
	return s.Line.Bounds()
}

// CoefficientAt returns the discharge coefficient of vertex i.
func (s Structure) CoefficientAt(i int) float64 {
	if s.Par1 == nil {
		return DefaultPar1
	}

	return s.Par1[i]
}

// Validate checks the structure against kind.
//
// Returns:
//   - error: ErrMalformedStructure for fewer than 2 vertices, non-finite
//     coordinates, or (weirs only) missing or mismatched crest and coefficient values
func (s Structure) Validate(kind format.StructureKind) error {
	if len(s.Line) < 2 {
		return fmt.Errorf("%w: %q has %d vertices, need at least 2", errs.ErrMalformedStructure, s.Name, len(s.Line))
	}

	for i, p := range s.Line {
		if !finite(p.X) || !finite(p.Y) {
			return fmt.Errorf("%w: %q vertex %d is not finite", errs.ErrMalformedStructure, s.Name, i)
		}
	}

	if !kind.HasCrest() {
		return nil
	}

	if len(s.Crest) != len(s.Line) {
		return fmt.Errorf("%w: weir %q has %d crest elevations for %d vertices",
			errs.ErrMalformedStructure, s.Name, len(s.Crest), len(s.Line))
	}

	if s.Par1 != nil && len(s.Par1) != len(s.Line) {
		return fmt.Errorf("%w: weir %q has %d coefficients for %d vertices",
			errs.ErrMalformedStructure, s.Name, len(s.Par1), len(s.Line))
	}

	for i, z := range s.Crest {
		if math.IsNaN(z) {
			return fmt.Errorf("%w: weir %q vertex %d lacks a crest elevation", errs.ErrMalformedStructure, s.Name, i)
		}
	}

	return nil
}

// DefaultName returns the name given to the i-th (zero-based) unnamed structure
// of kind, e.g. "WEIR02" for the second weir.
func DefaultName(kind format.StructureKind, i int) string {
	prefix := "THD"
	if kind == format.Weir {
		prefix = "WEIR"
	}

	return fmt.Sprintf("%s%02d", prefix, i+1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func recordWidth(kind format.StructureKind) int {
	if kind.HasCrest() {
		return 4
	}

	return 2
}
