package grid

import (
	"fmt"
	"math"

	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
)

// Mask is the per-cell classification of a grid.
//
// Cells are stored row-major. A Mask is not safe for concurrent mutation.
type Mask struct {
	shape    Shape
	cells    []format.Category
	revision uint64
}

// NewMask creates a rows×cols mask with every cell Inactive.
func NewMask(rows, cols int) (*Mask, error) {
	shape, err := NewShape(rows, cols)
	if err != nil {
		return nil, err
	}

	return &Mask{
		shape: shape,
		cells: make([]format.Category, shape.Len()),
	}, nil
}

// MaskFromCodes builds a mask from row-major classification codes.
//
// Parameters:
//   - rows, cols: Grid shape
//   - codes: rows*cols category codes (0 inactive, 1 active, 2 boundary, 3 outflow)
//
// Returns:
//   - *Mask: The mask at revision 0
//   - error: ErrInvalidShape, ErrLengthMismatch or ErrInvalidCategory
func MaskFromCodes(rows, cols int, codes []uint8) (*Mask, error) {
	m, err := NewMask(rows, cols)
	if err != nil {
		return nil, err
	}

	if len(codes) != m.shape.Len() {
		return nil, fmt.Errorf("%w: %d codes for %s grid", errs.ErrLengthMismatch, len(codes), m.shape)
	}

	for i, code := range codes {
		c := format.Category(code)
		if !c.IsValid() {
			return nil, fmt.Errorf("%w: code %d at cell %d", errs.ErrInvalidCategory, code, i)
		}
		m.cells[i] = c
	}

	return m, nil
}

func (m *Mask) Shape() Shape {
	return m.shape
}

// Revision returns a counter that changes every time a cell value changes.
func (m *Mask) Revision() uint64 {
	return m.revision
}

// Classify returns the category of (row, col).
func (m *Mask) Classify(row, col int) (format.Category, error) {
	if err := m.shape.checkBounds(row, col); err != nil {
		return format.Inactive, err
	}

	return m.cells[m.shape.Offset(row, col)], nil
}

// At returns the category of (row, col) without bounds reporting.
// It returns Inactive outside the shape.
func (m *Mask) At(row, col int) format.Category {
	if !m.shape.Contains(row, col) {
		return format.Inactive
	}

	return m.cells[m.shape.Offset(row, col)]
}

// Set classifies (row, col). Setting a cell to its current value does not change
// the revision.
func (m *Mask) Set(row, col int, c format.Category) error {
	if err := m.shape.checkBounds(row, col); err != nil {
		return err
	}

	if !c.IsValid() {
		return fmt.Errorf("%w: %d", errs.ErrInvalidCategory, c)
	}

	m.set(m.shape.Offset(row, col), c)

	return nil
}

func (m *Mask) set(off int, c format.Category) {
	if m.cells[off] == c {
		return
	}

	m.cells[off] = c
	m.revision++
}

// CountActive returns the number of non-inactive cells.
func (m *Mask) CountActive() int {
	n := 0
	for _, c := range m.cells {
		if c != format.Inactive {
			n++
		}
	}

	return n
}

// Count returns the number of cells of category c.
func (m *Mask) Count(c format.Category) int {
	n := 0
	for _, v := range m.cells {
		if v == c {
			n++
		}
	}

	return n
}

// Codes returns a row-major copy of the cell codes.
func (m *Mask) Codes() []uint8 {
	out := make([]uint8, len(m.cells))
	for i, c := range m.cells {
		out[i] = uint8(c)
	}

	return out
}

// Clone returns a deep copy carrying the same revision.
func (m *Mask) Clone() *Mask {
	cells := make([]format.Category, len(m.cells))
	copy(cells, m.cells)

	return &Mask{shape: m.shape, cells: cells, revision: m.revision}
}

// MarkEdges reclassifies active interior cells on the edge of the active domain
// as category. A cell is on the edge when one of its neighbours is inactive or
// lies outside the grid. connectivity selects 4 (edge-sharing) or 8 (edge- or
// corner-sharing) neighbours.
//
// Only Active cells are promoted; existing boundary cells keep their category.
// It returns the number of cells changed.
func (m *Mask) MarkEdges(category format.Category, connectivity int) (int, error) {
	return m.MarkEdgesWithin(category, connectivity, nil, 0, 0)
}

// MarkEdgesWithin is MarkEdges restricted by elevation: with a non-nil layer an
// edge cell is only promoted when its elevation lies in [zmin, zmax] and is not
// the layer fill value. Use math.Inf for an open bound. A nil layer ignores the
// window.
//
// Returns:
//   - int: Number of cells changed
//   - error: ErrInvalidCategory for a non-boundary category, ErrShapeMismatch
//     when layer and mask differ in shape, or an invalid connectivity or window
func (m *Mask) MarkEdgesWithin(category format.Category, connectivity int, layer *Layer, zmin, zmax float64) (int, error) {
	if category != format.Boundary && category != format.Outflow {
		return 0, fmt.Errorf("%w: edges must be boundary or outflow, got %s", errs.ErrInvalidCategory, category)
	}

	var offsets [][2]int
	switch connectivity {
	case 4:
		offsets = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	case 8:
		offsets = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	default:
		return 0, fmt.Errorf("connectivity must be 4 or 8, got %d", connectivity)
	}

	var values []float64
	if layer != nil {
		if layer.Shape() != m.shape {
			return 0, fmt.Errorf("%w: mask %s, layer %s", errs.ErrShapeMismatch, m.shape, layer.Shape())
		}

		if math.IsNaN(zmin) || math.IsNaN(zmax) || zmin > zmax {
			return 0, fmt.Errorf("invalid elevation window [%v, %v]", zmin, zmax)
		}
		values = layer.Values()
	}

	// Decide on a snapshot so promotions do not cascade inward.
	var edges []int
	for r := range m.shape.Rows {
		for c := range m.shape.Cols {
			off := m.shape.Offset(r, c)
			if m.cells[off] != format.Active {
				continue
			}

			if values != nil {
				z := values[off]
				if layer.IsFill(z) || !(z >= zmin && z <= zmax) {
					continue
				}
			}

			for _, d := range offsets {
				if m.At(r+d[0], c+d[1]) == format.Inactive {
					edges = append(edges, off)
					break
				}
			}
		}
	}

	for _, off := range edges {
		m.set(off, category)
	}

	return len(edges), nil
}

// ResetCategory demotes every cell of a boundary category back to Active and
// returns the number of cells changed.
func (m *Mask) ResetCategory(category format.Category) (int, error) {
	if category != format.Boundary && category != format.Outflow {
		return 0, fmt.Errorf("%w: cannot reset %s", errs.ErrInvalidCategory, category)
	}

	n := 0
	for off, c := range m.cells {
		if c == category {
			m.set(off, format.Active)
			n++
		}
	}

	return n, nil
}

// ApplyElevationWindow deactivates active cells whose elevation in layer lies
// outside [zmin, zmax] or equals the layer fill value. It returns the number of
// cells deactivated.
func (m *Mask) ApplyElevationWindow(layer *Layer, zmin, zmax float64) (int, error) {
	if layer.Shape() != m.shape {
		return 0, fmt.Errorf("%w: mask %s, layer %s", errs.ErrShapeMismatch, m.shape, layer.Shape())
	}

	values := layer.Values()
	n := 0
	for off, c := range m.cells {
		if c == format.Inactive {
			continue
		}

		z := values[off]
		if layer.IsFill(z) || z < zmin || z > zmax {
			m.set(off, format.Inactive)
			n++
		}
	}

	return n, nil
}
