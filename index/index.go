// Package index derives the active-cell index from a grid mask and converts it
// to and from its binary form.
//
// The index is the single source of truth for record order in every per-cell
// artifact: entry i of the index names the cell whose value is record i of each
// map file written against it.
package index

import (
	"fmt"
	"iter"

	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/grid"
)

// Entry is one active cell.
type Entry struct {
	Row      int
	Col      int
	Category format.Category
}

// ActiveCellIndex is the ordered list of active cells of a mask.
//
// An ActiveCellIndex is immutable after Build or Decode and safe for concurrent use.
type ActiveCellIndex struct {
	shape   grid.Shape
	order   format.TraversalOrder
	entries []Entry
}

// Build derives the index of mask in the given traversal order.
//
// The result depends only on the mask contents and order, so rebuilding from an
// unchanged mask encodes to identical bytes.
//
// Returns:
//   - *ActiveCellIndex: One entry per non-inactive cell
//   - error: ErrEmptyMask when no cell is active; an error for an unknown order
func Build(mask *grid.Mask, order format.TraversalOrder) (*ActiveCellIndex, error) {
	if !order.IsValid() {
		return nil, fmt.Errorf("unknown traversal order %d", order)
	}

	n := mask.CountActive()
	if n == 0 {
		return nil, errs.ErrEmptyMask
	}

	shape := mask.Shape()
	idx := &ActiveCellIndex{
		shape:   shape,
		order:   order,
		entries: make([]Entry, 0, n),
	}

	visit := func(r, c int) {
		if cat := mask.At(r, c); cat != format.Inactive {
			idx.entries = append(idx.entries, Entry{Row: r, Col: c, Category: cat})
		}
	}

	if order == format.RowMajor {
		for r := range shape.Rows {
			for c := range shape.Cols {
				visit(r, c)
			}
		}
	} else {
		for c := range shape.Cols {
			for r := range shape.Rows {
				visit(r, c)
			}
		}
	}

	return idx, nil
}

func (x *ActiveCellIndex) Shape() grid.Shape {
	return x.shape
}

func (x *ActiveCellIndex) Order() format.TraversalOrder {
	return x.order
}

// Len returns the number of active cells.
func (x *ActiveCellIndex) Len() int {
	return len(x.entries)
}

// Entry returns entry i.
func (x *ActiveCellIndex) Entry(i int) Entry {
	return x.entries[i]
}

// Positions iterates the entries in index order.
func (x *ActiveCellIndex) Positions() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range x.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Offsets returns the row-major dense offset of every entry in index order.
func (x *ActiveCellIndex) Offsets() []int {
	out := make([]int, len(x.entries))
	for i, e := range x.entries {
		out[i] = x.shape.Offset(e.Row, e.Col)
	}

	return out
}

// Matches reports whether x is exactly the index Build would derive from mask.
func (x *ActiveCellIndex) Matches(mask *grid.Mask) bool {
	if mask.Shape() != x.shape || mask.CountActive() != len(x.entries) {
		return false
	}

	for _, e := range x.entries {
		if mask.At(e.Row, e.Col) != e.Category {
			return false
		}
	}

	return true
}

// Mask rebuilds the mask described by the index.
func (x *ActiveCellIndex) Mask() (*grid.Mask, error) {
	m, err := grid.NewMask(x.shape.Rows, x.shape.Cols)
	if err != nil {
		return nil, err
	}

	for _, e := range x.entries {
		if err := m.Set(e.Row, e.Col, e.Category); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Equal reports whether a and b have the same shape, order and entries.
func Equal(a, b *ActiveCellIndex) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.shape != b.shape || a.order != b.order || len(a.entries) != len(b.entries) {
		return false
	}

	for i := range a.entries {
		if a.entries[i] != b.entries[i] {
			return false
		}
	}

	return true
}

// sortKey orders entries by traversal order.
func sortKey(order format.TraversalOrder, shape grid.Shape, row, col int) int {
	if order == format.ColumnMajor {
		return col*shape.Rows + row
	}

	return row*shape.Cols + col
}
