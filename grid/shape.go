package grid

import (
	"fmt"

	"github.com/arloliu/gridcodec/errs"
)

// Shape is the fixed rows×cols extent of a grid.
type Shape struct {
	Rows int
	Cols int
}

// NewShape validates and returns a shape.
func NewShape(rows, cols int) (Shape, error) {
	if rows <= 0 || cols <= 0 {
		return Shape{}, fmt.Errorf("%w: %dx%d", errs.ErrInvalidShape, rows, cols)
	}

	return Shape{Rows: rows, Cols: cols}, nil
}

// Len returns the number of cells.
func (s Shape) Len() int {
	return s.Rows * s.Cols
}

// IsZero reports whether s is the zero Shape.
func (s Shape) IsZero() bool {
	return s.Rows == 0 && s.Cols == 0
}

// Contains reports whether (row, col) lies inside the shape.
func (s Shape) Contains(row, col int) bool {
	return row >= 0 && row < s.Rows && col >= 0 && col < s.Cols
}

// Offset returns the row-major offset of (row, col). The caller must check Contains.
func (s Shape) Offset(row, col int) int {
	return row*s.Cols + col
}

func (s Shape) checkBounds(row, col int) error {
	if !s.Contains(row, col) {
		return fmt.Errorf("%w: (%d, %d) outside %s", errs.ErrOutOfBounds, row, col, s)
	}

	return nil
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}
