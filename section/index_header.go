package section

import (
	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
)

// IndexHeader is the fixed 16-byte header of an active-cell index file.
//
//	Bytes  | Field   | Type   | Description
//	-------|---------|--------|-----------------------------------------
//	0-1    | Flag    | uint16 | Magic number and byte order
//	2      | Order   | uint8  | Traversal order (1=row-major, 2=column-major)
//	3      | Version | uint8  | Index format version
//	4-7    | Rows    | uint32 | Declared grid rows
//	8-11   | Cols    | uint32 | Declared grid columns
//	12-15  | Count   | uint32 | Number of active-cell entries that follow
type IndexHeader struct {
	Flag    Flag
	Order   format.TraversalOrder
	Version uint8
	Rows    uint32
	Cols    uint32
	Count   uint32
}

// NewIndexHeader creates a header for an index of count entries over a rows×cols grid.
func NewIndexHeader(engine endian.EndianEngine, order format.TraversalOrder, rows, cols, count uint32) IndexHeader {
	return IndexHeader{
		Flag:    NewFlag(MagicIndexV1, engine),
		Order:   order,
		Version: IndexFormatVersion,
		Rows:    rows,
		Cols:    cols,
		Count:   count,
	}
}

// WriteToSlice writes the header into the first IndexHeaderSize bytes of data.
func (h IndexHeader) WriteToSlice(data []byte) {
	engine := h.Flag.Engine()

	h.Flag.put(data[0:2])
	data[2] = uint8(h.Order)
	data[3] = h.Version
	engine.PutUint32(data[4:8], h.Rows)
	engine.PutUint32(data[8:12], h.Cols)
	engine.PutUint32(data[12:16], h.Count)
}

// Parse parses the header from exactly IndexHeaderSize bytes.
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber, ErrInvalidHeaderFlags
//     or ErrCorruptIndex for an unknown traversal order or version
func (h *IndexHeader) Parse(data []byte) error {
	if len(data) != IndexHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Flag = parseFlag(data)
	if err := h.Flag.Validate(MagicIndexV1); err != nil {
		return err
	}

	engine := h.Flag.Engine()
	h.Order = format.TraversalOrder(data[2])
	h.Version = data[3]
	h.Rows = engine.Uint32(data[4:8])
	h.Cols = engine.Uint32(data[8:12])
	h.Count = engine.Uint32(data[12:16])

	if !h.Order.IsValid() || h.Version != IndexFormatVersion {
		return errs.ErrCorruptIndex
	}

	return nil
}

// ParseIndexHeader parses an IndexHeader from the start of data.
func ParseIndexHeader(data []byte) (IndexHeader, error) {
	if len(data) < IndexHeaderSize {
		return IndexHeader{}, errs.ErrInvalidHeaderSize
	}

	h := IndexHeader{}
	if err := h.Parse(data[:IndexHeaderSize]); err != nil {
		return IndexHeader{}, err
	}

	return h, nil
}
