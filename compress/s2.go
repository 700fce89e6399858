package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor uses S2 block compression in its "better" mode.
//
// S2 trades some ratio for speed and suits archives that are restored often.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
//
// Returns:
//   - S2Compressor: New S2 compressor instance
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes data as a single S2 block.
//
// Parameters:
//   - data: Encoded artifact
//
// Returns:
//   - []byte: S2 block, or nil for empty input
//   - error: Always nil
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

// Decompress restores an S2 block.
//
// Blocks that declare more than maxArtifactSize bytes are rejected before the
// output is allocated.
//
// Parameters:
//   - data: S2 block produced by Compress
//
// Returns:
//   - []byte: Restored artifact, or nil for empty input
//   - error: Corrupt block or oversized declared length
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}

	if n > maxArtifactSize {
		return nil, fmt.Errorf("s2 block declares %d bytes, limit is %d", n, maxArtifactSize)
	}

	return s2.Decode(make([]byte, n), data)
}
