package section

import (
	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
)

// IndexEntry is one fixed 12-byte record of the active-cell index.
//
//	Bytes | Field    | Type
//	------|----------|-------
//	0-3   | Row      | uint32
//	4-7   | Col      | uint32
//	8-11  | Category | uint32
type IndexEntry struct {
	Row      uint32
	Col      uint32
	Category format.Category
}

// WriteToSlice writes the entry at offset and returns the next write position.
//
// This is the most efficient method when writing multiple entries sequentially
// into a pre-sized buffer.
func (e IndexEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint32(data[offset:offset+4], e.Row)
	engine.PutUint32(data[offset+4:offset+8], e.Col)
	engine.PutUint32(data[offset+8:offset+12], uint32(e.Category))

	return offset + IndexEntrySize
}

// ParseIndexEntry parses an entry from the first IndexEntrySize bytes of data.
//
// The category code is not validated here; the index decoder owns that check
// because it needs the entry position for its error message.
func ParseIndexEntry(data []byte, engine endian.EndianEngine) (IndexEntry, uint32, error) {
	if len(data) < IndexEntrySize {
		return IndexEntry{}, 0, errs.ErrCorruptIndex
	}

	code := engine.Uint32(data[8:12])

	return IndexEntry{
		Row:      engine.Uint32(data[0:4]),
		Col:      engine.Uint32(data[4:8]),
		Category: format.Category(code), //nolint: gosec
	}, code, nil
}
