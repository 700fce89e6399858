package grid

import (
	"fmt"
	"math"

	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/ctessum/sparse"
)

// Layer is a dense grid of one physical quantity.
//
// Values are held as float64 in a row-major sparse.DenseArray whatever the
// declared Kind; Kind governs the on-disk representation. Float32 layers round
// every value written through the layer to float32 precision, so encoding them
// is lossless. Fill is the no-data value read back for inactive cells.
type Layer struct {
	data *sparse.DenseArray
	kind format.DataKind
	fill float64
}

// NewLayer creates a layer of the given shape with every cell set to fill.
func NewLayer(shape Shape, kind format.DataKind, fill float64) (*Layer, error) {
	if shape.Rows <= 0 || shape.Cols <= 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidShape, shape)
	}

	if kind.Width() == 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedDataKind, kind)
	}

	fill, err := conform(kind, fill)
	if err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}

	data := sparse.ZerosDense(shape.Rows, shape.Cols)
	if fill != 0 {
		for i := range data.Elements {
			data.Elements[i] = fill
		}
	}

	return &Layer{data: data, kind: kind, fill: fill}, nil
}

// LayerFromValues creates a layer from row-major values. The slice is copied.
func LayerFromValues(shape Shape, kind format.DataKind, fill float64, values []float64) (*Layer, error) {
	l, err := NewLayer(shape, kind, fill)
	if err != nil {
		return nil, err
	}

	if len(values) != shape.Len() {
		return nil, fmt.Errorf("%w: %d values for %s grid", errs.ErrLengthMismatch, len(values), shape)
	}
	for i, v := range values {
		if l.data.Elements[i], err = conform(kind, v); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
	}

	return l, nil
}

// LayerFromDense wraps an existing two-dimensional array without copying it.
// Float32 layers round the array elements in place.
func LayerFromDense(data *sparse.DenseArray, kind format.DataKind, fill float64) (*Layer, error) {
	if data == nil || len(data.Shape) != 2 || data.Shape[0] <= 0 || data.Shape[1] <= 0 {
		return nil, fmt.Errorf("%w: layer arrays must be two-dimensional", errs.ErrInvalidShape)
	}

	if kind.Width() == 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedDataKind, kind)
	}

	fill, err := conform(kind, fill)
	if err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}

	for i, v := range data.Elements {
		if data.Elements[i], err = conform(kind, v); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
	}

	return &Layer{data: data, kind: kind, fill: fill}, nil
}

func (l *Layer) Shape() Shape {
	return Shape{Rows: l.data.Shape[0], Cols: l.data.Shape[1]}
}

func (l *Layer) Kind() format.DataKind {
	return l.kind
}

func (l *Layer) Fill() float64 {
	return l.fill
}

// Dense returns the backing array. Mutations through it are visible in the layer
// and bypass Float32 rounding.
func (l *Layer) Dense() *sparse.DenseArray {
	return l.data
}

// Values returns the row-major backing slice.
func (l *Layer) Values() []float64 {
	return l.data.Elements
}

// At returns the value of (row, col).
func (l *Layer) At(row, col int) (float64, error) {
	if err := l.Shape().checkBounds(row, col); err != nil {
		return 0, err
	}

	return l.data.Get(row, col), nil
}

// Set assigns the value of (row, col). Float32 layers store v rounded to
// float32 and reject finite values beyond its range with ErrValueOutOfRange.
func (l *Layer) Set(row, col int, v float64) error {
	if err := l.Shape().checkBounds(row, col); err != nil {
		return err
	}

	v, err := conform(l.kind, v)
	if err != nil {
		return fmt.Errorf("cell (%d, %d): %w", row, col, err)
	}
	l.data.Set(v, row, col)

	return nil
}

// IsFill reports whether v is the no-data value. A NaN fill matches NaN values.
func (l *Layer) IsFill(v float64) bool {
	if math.IsNaN(l.fill) {
		return math.IsNaN(v)
	}

	return v == l.fill
}

// Clone returns a deep copy.
func (l *Layer) Clone() *Layer {
	data := sparse.ZerosDense(l.data.Shape...)
	copy(data.Elements, l.data.Elements)

	return &Layer{data: data, kind: l.kind, fill: l.fill}
}

// Equal reports whether l and o have the same shape, kind, fill and values.
// NaN values compare equal to each other.
func (l *Layer) Equal(o *Layer) bool {
	if l.Shape() != o.Shape() || l.kind != o.kind || !sameFloat(l.fill, o.fill) {
		return false
	}

	for i, v := range l.data.Elements {
		if !sameFloat(v, o.data.Elements[i]) {
			return false
		}
	}

	return true
}

// conform rounds v to the precision of kind where the layer keeps it exactly.
// Only Float32 needs rounding; integer kinds are checked when encoded.
func conform(kind format.DataKind, v float64) (float64, error) {
	if kind != format.Float32 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v, nil
	}

	f := float32(v)
	if math.IsInf(float64(f), 0) {
		return 0, fmt.Errorf("%w: %v does not fit %s", errs.ErrValueOutOfRange, v, kind)
	}

	return float64(f), nil
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
