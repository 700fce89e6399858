package section

import (
	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
)

// Flag is the 16-bit options word at offset 0 of every gridcodec header.
//
// Bits 4-15 carry the magic number identifying the artifact family, bit 1 the byte
// order of every following multi-byte field. The word itself is always stored
// little-endian so a reader can discover the byte order before using it.
type Flag uint16

// NewFlag creates a flag for the given magic number and byte order.
func NewFlag(magic uint16, engine endian.EndianEngine) Flag {
	f := Flag(magic & MagicNumberMask)
	if endian.IsBigEndian(engine) {
		f |= EndiannessMask
	}

	return f
}

// Magic returns the magic number bits.
func (f Flag) Magic() uint16 {
	return uint16(f) & MagicNumberMask
}

func (f Flag) IsLittleEndian() bool {
	return uint16(f)&EndiannessMask == 0
}

func (f Flag) IsBigEndian() bool {
	return uint16(f)&EndiannessMask != 0
}

// Engine returns the endian engine selected by the flag.
func (f Flag) Engine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Validate checks the magic number against want and that reserved bits are clear.
func (f Flag) Validate(want uint16) error {
	if f.Magic() != want {
		return errs.ErrInvalidMagicNumber
	}

	if uint16(f)&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

func (f Flag) put(b []byte) {
	b[0] = byte(f)
	b[1] = byte(f >> 8)
}

func parseFlag(b []byte) Flag {
	return Flag(uint16(b[0]) | uint16(b[1])<<8)
}
