package section

import (
	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
)

// StructureHeader is the fixed 8-byte header of a binary structure file.
//
//	Bytes | Field | Type   | Description
//	------|-------|--------|----------------------------------
//	0-1   | Flag  | uint16 | Magic number and byte order
//	2     | Kind  | uint8  | Structure kind (1=thin dam, 2=weir)
//	3     | -     | uint8  | Reserved, zero
//	4-7   | Count | uint32 | Number of structure blocks
type StructureHeader struct {
	Flag  Flag
	Kind  format.StructureKind
	Count uint32
}

func NewStructureHeader(engine endian.EndianEngine, kind format.StructureKind, count uint32) StructureHeader {
	return StructureHeader{
		Flag:  NewFlag(MagicStructureV1, engine),
		Kind:  kind,
		Count: count,
	}
}

// Append appends the encoded header to buf.
func (h StructureHeader) Append(buf []byte) []byte {
	var b [StructureHeaderSize]byte
	h.Flag.put(b[0:2])
	b[2] = uint8(h.Kind)
	h.Flag.Engine().PutUint32(b[4:8], h.Count)

	return append(buf, b[:]...)
}

// ParseStructureHeader parses a StructureHeader from the start of data.
func ParseStructureHeader(data []byte) (StructureHeader, error) {
	if len(data) < StructureHeaderSize {
		return StructureHeader{}, errs.ErrInvalidHeaderSize
	}

	h := StructureHeader{Flag: parseFlag(data)}
	if err := h.Flag.Validate(MagicStructureV1); err != nil {
		return StructureHeader{}, err
	}

	h.Kind = format.StructureKind(data[2])
	if !h.Kind.IsValid() || data[3] != 0 {
		return StructureHeader{}, errs.ErrInvalidHeaderFlags
	}
	h.Count = h.Flag.Engine().Uint32(data[4:8])

	return h, nil
}
