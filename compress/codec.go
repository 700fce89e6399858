package compress

import (
	"fmt"
	"time"

	"github.com/arloliu/gridcodec/format"
)

// Compressor compresses a complete encoded artifact.
//
// The returned slice is owned by the caller and the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores an artifact produced by the matching Compressor.
//
// Implementations must be safe for concurrent use: archival backends decompress
// layers from several goroutines at once.
type Decompressor interface {
	// Decompress returns an error if data is corrupted or was produced by another
	// algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes one compression operation.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
	Duration       time.Duration
}

// Ratio returns compressed size / original size.
//
// Returns:
//   - float64: Ratio below 1.0 when compression helped, 0 for empty input
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage.
//
// Returns:
//   - float64: 100 × (1 - Ratio); negative when the output grew
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.Ratio()) * 100.0
}

// CompressWithStats compresses data with the built-in codec for algorithm and
// reports sizes and duration.
//
// Parameters:
//   - algorithm: Compression type of the built-in codec to use
//   - data: Encoded artifact to compress
//
// Returns:
//   - []byte: Compressed artifact
//   - Stats: Sizes and wall time of the call
//   - error: Unsupported algorithm or codec failure
//
// Example:
//
//	out, stats, err := compress.CompressWithStats(format.CompressionZstd, layerData)
//	if err != nil {
//		return err
//	}
//	log.Printf("%s saved %.1f%%", stats.Algorithm, stats.SpaceSavings())
func CompressWithStats(algorithm format.CompressionType, data []byte) ([]byte, Stats, error) {
	codec, err := GetCodec(algorithm)
	if err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()
	out, err := codec.Compress(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s compression failed: %w", algorithm, err)
	}

	return out, Stats{
		Algorithm:      algorithm,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(out)),
		Duration:       time.Since(start),
	}, nil
}

// CreateCodec creates a Codec for compressionType.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Compressor instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the shared built-in Codec for compressionType.
//
// The returned codecs are stateless and safe for concurrent use.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//
// Returns:
//   - Codec: Shared codec instance
//   - error: Unsupported compression type
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
