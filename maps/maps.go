// Package maps converts grid layers to and from the headerless per-cell map
// files of the simulation engine.
//
// A map file is one fixed-width record per active cell, in active-cell index
// order. Shape and order come entirely from the companion index, so the codec is
// purely positional: it never looks at coordinates or units.
package maps

import (
	"fmt"

	"github.com/arloliu/gridcodec/encoding"
	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/grid"
	"github.com/arloliu/gridcodec/index"
)

// Encode writes the value of layer at every index entry, in index order, as a
// record of the layer's data kind.
//
// Parameters:
//   - layer: Dense layer; must have the index shape
//   - idx: Active-cell index defining record order
//   - engine: Byte order of multi-byte records
//
// Returns:
//   - []byte: len(idx) * kind width bytes
//   - error: ErrShapeMismatch, ErrValueOutOfRange for values the data kind
//     cannot hold exactly, or ErrUnsupportedDataKind
func Encode(layer *grid.Layer, idx *index.ActiveCellIndex, engine endian.EndianEngine) ([]byte, error) {
	if layer.Shape() != idx.Shape() {
		return nil, fmt.Errorf("%w: layer %s, index %s", errs.ErrShapeMismatch, layer.Shape(), idx.Shape())
	}

	return encodeValues(layer.Values(), layer.Kind(), idx, engine)
}

// EncodeMask writes the category code of every active cell as a Uint8 map.
func EncodeMask(mask *grid.Mask, idx *index.ActiveCellIndex, engine endian.EndianEngine) ([]byte, error) {
	if mask.Shape() != idx.Shape() {
		return nil, fmt.Errorf("%w: mask %s, index %s", errs.ErrShapeMismatch, mask.Shape(), idx.Shape())
	}

	codes := mask.Codes()
	values := make([]float64, len(codes))
	for i, c := range codes {
		values[i] = float64(c)
	}

	return encodeValues(values, format.Uint8, idx, engine)
}

func encodeValues(values []float64, kind format.DataKind, idx *index.ActiveCellIndex, engine endian.EndianEngine) ([]byte, error) {
	offsets := idx.Offsets()
	projected := make([]float64, len(offsets))

	for i, off := range offsets {
		v := values[off]
		if err := encoding.CheckValue(kind, v); err != nil {
			e := idx.Entry(i)
			return nil, fmt.Errorf("cell (%d, %d): %w", e.Row, e.Col, err)
		}
		projected[i] = v
	}

	enc, err := encoding.NewCellEncoder(kind, engine)
	if err != nil {
		return nil, err
	}
	defer enc.Finish()

	enc.WriteSlice(projected)

	return enc.Detach(), nil
}

// Decode hydrates a dense layer of the index shape from a map payload.
//
// The layer starts filled with fill; record i is then written at the position of
// index entry i. The payload length is checked before the layer is allocated.
//
// Returns:
//   - *grid.Layer: The hydrated layer
//   - error: ErrLengthMismatch when len(data) != idx.Len() * kind width, or
//     ErrUnsupportedDataKind
func Decode(data []byte, idx *index.ActiveCellIndex, kind format.DataKind, fill float64, engine endian.EndianEngine) (*grid.Layer, error) {
	dec, err := encoding.NewCellDecoder(kind, engine)
	if err != nil {
		return nil, err
	}

	if want := idx.Len() * dec.Width(); len(data) != want {
		return nil, fmt.Errorf("%w: %s map of %d bytes, index of %d cells needs %d",
			errs.ErrLengthMismatch, kind, len(data), idx.Len(), want)
	}

	layer, err := grid.NewLayer(idx.Shape(), kind, fill)
	if err != nil {
		return nil, err
	}

	values := layer.Values()
	offsets := idx.Offsets()
	i := 0
	for v := range dec.All(data, idx.Len()) {
		values[offsets[i]] = v
		i++
	}

	return layer, nil
}

// DecodeMask rebuilds a mask from a Uint8 mask map.
//
// Codes that are not active categories fail with ErrInvalidCategory.
func DecodeMask(data []byte, idx *index.ActiveCellIndex, engine endian.EndianEngine) (*grid.Mask, error) {
	layer, err := Decode(data, idx, format.Uint8, 0, engine)
	if err != nil {
		return nil, err
	}

	shape := idx.Shape()
	codes := make([]uint8, shape.Len())
	for i, v := range layer.Values() {
		codes[i] = uint8(v)
	}

	for i, off := range idx.Offsets() {
		if !format.Category(codes[off]).IsActive() {
			e := idx.Entry(i)
			return nil, fmt.Errorf("%w: mask map code %d at (%d, %d)", errs.ErrInvalidCategory, codes[off], e.Row, e.Col)
		}
	}

	return grid.MaskFromCodes(shape.Rows, shape.Cols, codes)
}
