// Package compress provides the compression codecs used for archived
// schematizations.
//
// The binary artifacts read by the simulation engine are never compressed on
// disk. Archival backends (store.BadgerBackend) may compress each artifact before
// storing it and record the algorithm in the snapshot so it can be restored
// byte-for-byte.
//
// Supported algorithms:
//   - None: artifacts stored as-is
//   - Zstd: best ratio; map files of smooth quantities such as elevation
//     compress well
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//
// The Zstd codec uses github.com/klauspost/compress by default. Building with the
// "gozstd" tag (and cgo enabled) switches to the cgo binding
// github.com/valyala/gozstd.
//
// All codecs are safe for concurrent use:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(artifact)
package compress
