package index

import (
	"fmt"
	"math"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/grid"
	"github.com/arloliu/gridcodec/internal/pool"
	"github.com/arloliu/gridcodec/section"
)

// Encode serializes idx as a 16-byte header followed by one 12-byte entry per
// active cell.
//
// Parameters:
//   - idx: Index to encode
//   - engine: Byte order of every multi-byte field; recorded in the header flag
//
// Returns:
//   - []byte: The encoded index, owned by the caller
//   - error: ErrEmptyMask for an empty index, or an error if the shape does not fit uint32
func Encode(idx *ActiveCellIndex, engine endian.EndianEngine) ([]byte, error) {
	if idx == nil || len(idx.entries) == 0 {
		return nil, errs.ErrEmptyMask
	}

	if uint64(idx.shape.Rows) > math.MaxUint32 || uint64(idx.shape.Cols) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %s exceeds uint32 dimensions", errs.ErrInvalidShape, idx.shape)
	}

	header := section.NewIndexHeader(engine, idx.order,
		uint32(idx.shape.Rows), uint32(idx.shape.Cols), uint32(len(idx.entries))) //nolint: gosec

	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	region := buf.ExtendOrGrow(section.IndexHeaderSize + len(idx.entries)*section.IndexEntrySize)
	header.WriteToSlice(region)

	off := section.IndexHeaderSize
	for _, e := range idx.entries {
		rec := section.IndexEntry{Row: uint32(e.Row), Col: uint32(e.Col), Category: e.Category} //nolint: gosec
		off = rec.WriteToSlice(region, off, engine)
	}

	return buf.Detach(), nil
}

// Decode parses an encoded index and validates it completely before returning.
//
// Parameters:
//   - data: Encoded index
//   - expected: Shape the caller intends to hydrate; the zero Shape skips the check
//
// Returns:
//   - *ActiveCellIndex: The decoded index
//   - error: ErrCorruptIndex for any structural failure (header failures also
//     wrap ErrInvalidHeaderSize, ErrInvalidMagicNumber or ErrInvalidHeaderFlags),
//     or ErrShapeMismatch
func Decode(data []byte, expected grid.Shape) (*ActiveCellIndex, error) {
	header, err := section.ParseIndexHeader(data)
	if err != nil {
		return nil, fmt.Errorf("%w: index header: %w", errs.ErrCorruptIndex, err)
	}

	payload := data[section.IndexHeaderSize:]
	if len(payload)%section.IndexEntrySize != 0 {
		return nil, fmt.Errorf("%w: payload of %d bytes is not a multiple of %d",
			errs.ErrCorruptIndex, len(payload), section.IndexEntrySize)
	}

	if n := len(payload) / section.IndexEntrySize; n != int(header.Count) {
		return nil, fmt.Errorf("%w: header declares %d entries, payload holds %d",
			errs.ErrCorruptIndex, header.Count, n)
	}

	if header.Rows == 0 || header.Cols == 0 || header.Count == 0 {
		return nil, fmt.Errorf("%w: empty shape or count in header", errs.ErrCorruptIndex)
	}

	shape := grid.Shape{Rows: int(header.Rows), Cols: int(header.Cols)}
	if !expected.IsZero() && expected != shape {
		return nil, fmt.Errorf("%w: index is %s, expected %s", errs.ErrShapeMismatch, shape, expected)
	}

	engine := header.Flag.Engine()
	idx := &ActiveCellIndex{
		shape:   shape,
		order:   header.Order,
		entries: make([]Entry, header.Count),
	}

	prev := -1
	for i := range idx.entries {
		rec, code, err := section.ParseIndexEntry(payload[i*section.IndexEntrySize:], engine)
		if err != nil {
			return nil, err
		}

		row, col := int(rec.Row), int(rec.Col)
		if !shape.Contains(row, col) {
			return nil, fmt.Errorf("%w: entry %d at (%d, %d) outside %s", errs.ErrCorruptIndex, i, row, col, shape)
		}

		if code > math.MaxUint8 || !rec.Category.IsActive() {
			return nil, fmt.Errorf("%w: entry %d has category code %d", errs.ErrCorruptIndex, i, code)
		}

		key := sortKey(header.Order, shape, row, col)
		if key <= prev {
			return nil, fmt.Errorf("%w: entry %d at (%d, %d) breaks %s order",
				errs.ErrCorruptIndex, i, row, col, header.Order)
		}
		prev = key

		idx.entries[i] = Entry{Row: row, Col: col, Category: rec.Category}
	}

	return idx, nil
}
