package section

const (
	// Bit masks of the 16-bit options word that opens every header.
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1), 0=little, 1=big
	ReservedBitsMask = 0x000D // Bits 0, 2 and 3 are reserved and must be zero
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// Magic numbers (bits 4-15), one per artifact family.
	MagicIndexV1     = 0x1DA0 // Active-cell index file, version 1.
	MagicStructureV1 = 0x5B10 // Thin dam / weir structure file, version 1.
	MagicPointsV1    = 0x7B10 // Forcing point-location file, version 1.
	MagicSeriesV1    = 0x7C10 // Forcing time series file, version 1.

	IndexFormatVersion = 1
)

// Fixed section sizes in bytes.
const (
	IndexHeaderSize     = 16
	IndexEntrySize      = 12
	StructureHeaderSize = 8
	PointsHeaderSize    = 8
	SeriesHeaderSize    = 32
)
