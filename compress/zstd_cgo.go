//go:build gozstd && cgo

package compress

import (
	"github.com/valyala/gozstd"
)

// Compress compresses data with the cgo zstd binding at level 3.
//
// Parameters:
//   - data: Encoded artifact
//
// Returns:
//   - []byte: Zstd frame
//   - error: Always nil
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress restores a zstd frame with the cgo binding.
//
// Parameters:
//   - data: Zstd frame produced by Compress
//
// Returns:
//   - []byte: Restored artifact, or nil for empty input
//   - error: Corrupt frame
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
