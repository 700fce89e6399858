package section

import (
	"testing"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/stretchr/testify/require"
)

func headerBytes(h IndexHeader) []byte {
	b := make([]byte, IndexHeaderSize)
	h.WriteToSlice(b)

	return b
}

func TestIndexHeader_RoundTrip(t *testing.T) {
	engines := map[string]endian.EndianEngine{
		"little": endian.GetLittleEndianEngine(),
		"big":    endian.GetBigEndianEngine(),
	}

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			original := NewIndexHeader(engine, format.ColumnMajor, 4, 3, 7)
			data := headerBytes(original)
			require.Len(t, data, IndexHeaderSize)

			parsed, err := ParseIndexHeader(data)
			require.NoError(t, err)
			require.Equal(t, original, parsed)
			require.Equal(t, endian.IsBigEndian(engine), parsed.Flag.IsBigEndian())
			require.NotEqual(t, parsed.Flag.IsBigEndian(), parsed.Flag.IsLittleEndian())
		})
	}
}

func TestIndexHeader_LittleEndianLayout(t *testing.T) {
	h := NewIndexHeader(endian.GetLittleEndianEngine(), format.RowMajor, 4, 3, 3)

	require.Equal(t, []byte{
		0xA0, 0x1D, // flag
		0x01, 0x01, // order, version
		0x04, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
	}, headerBytes(h))
}

func TestIndexHeader_ParseErrors(t *testing.T) {
	valid := headerBytes(NewIndexHeader(endian.GetLittleEndianEngine(), format.RowMajor, 2, 2, 1))

	t.Run("Short header", func(t *testing.T) {
		_, err := ParseIndexHeader(valid[:10])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("Wrong magic", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		data[1] = 0x5B
		_, err := ParseIndexHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("Reserved bit set", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		data[0] |= 0x01
		_, err := ParseIndexHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("Unknown traversal order", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		data[2] = 9
		_, err := ParseIndexHeader(data)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})
}

func TestIndexEntry_WriteAndParse(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	entry := IndexEntry{Row: 12, Col: 345, Category: format.Outflow}

	buf := make([]byte, IndexEntrySize*2)
	next := entry.WriteToSlice(buf, IndexEntrySize, engine)
	require.Equal(t, IndexEntrySize*2, next)

	parsed, code, err := ParseIndexEntry(buf[IndexEntrySize:], engine)
	require.NoError(t, err)
	require.Equal(t, entry, parsed)
	require.Equal(t, uint32(3), code)

	require.Equal(t, []byte{12, 0, 0, 0, 0x59, 0x01, 0, 0, 3, 0, 0, 0}, buf[IndexEntrySize:])

	_, _, err = ParseIndexEntry(buf[:5], engine)
	require.ErrorIs(t, err, errs.ErrCorruptIndex)
}
