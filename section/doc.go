// Package section defines the fixed binary headers and records of the gridcodec
// artifacts.
//
// Every artifact except the per-layer map files opens with a small fixed-size
// header whose first two bytes are a Flag: a 12-bit magic number identifying the
// artifact family plus a byte-order bit. Map files carry no header at all; their
// shape and record order come entirely from the companion index file.
//
// # Index file
//
//	┌──────────────────────────────────────────────┐
//	│ IndexHeader (16 bytes)                       │
//	│  - Flag, traversal order, version            │
//	│  - rows, cols, active-cell count             │
//	├──────────────────────────────────────────────┤
//	│ IndexEntry × count (12 bytes each)           │
//	│  - row, col, category                        │
//	└──────────────────────────────────────────────┘
//
// # Structure file
//
//	StructureHeader (8 bytes) followed by one block per structure:
//	name (uint8 length + UTF-8), vertex count (uint32), vertex records.
//
// # Forcing files
//
//	PointsHeader (8 bytes), count × (x, y float64), count names.
//	SeriesHeader (32 bytes), then the rectangular or sparse payload.
//
// Parsers validate sizes, magic numbers and reserved bits and return the
// sentinel errors of package errs.
package section
