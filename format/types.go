package format

import "fmt"

type (
	Category        uint8
	DataKind        uint8
	TraversalOrder  uint8
	StructureKind   uint8
	AxisKind        uint8
	CompressionType uint8
)

const (
	Inactive Category = 0 // Inactive marks a cell outside the computational domain.
	Active   Category = 1 // Active marks an interior computational cell.
	Boundary Category = 2 // Boundary marks a water-level boundary cell.
	Outflow  Category = 3 // Outflow marks an outflow boundary cell.
)

const (
	Float32 DataKind = 0x1 // Float32 is the default representation for physical quantities.
	Float64 DataKind = 0x2
	Uint8   DataKind = 0x3 // Uint8 is used for mask and classification layers.
	Int16   DataKind = 0x4
	Int32   DataKind = 0x5
)

const (
	RowMajor    TraversalOrder = 0x1 // RowMajor visits columns fastest.
	ColumnMajor TraversalOrder = 0x2 // ColumnMajor visits rows fastest.
)

const (
	ThinDam StructureKind = 0x1 // ThinDam blocks flow and carries no crest attributes.
	Weir    StructureKind = 0x2 // Weir blocks flow below a crest elevation.
)

const (
	RectangularAxis AxisKind = 0x1 // RectangularAxis shares one time axis across all series.
	SparseAxis      AxisKind = 0x2 // SparseAxis stores an independent axis per series.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// IsValid reports whether c is one of the four known cell categories.
func (c Category) IsValid() bool {
	return c <= Outflow
}

// IsActive reports whether c is any of the active categories.
func (c Category) IsActive() bool {
	return c != Inactive && c.IsValid()
}

func (c Category) String() string {
	switch c {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Boundary:
		return "boundary"
	case Outflow:
		return "outflow"
	default:
		return "unknown"
	}
}

// Width returns the fixed number of bytes one value of kind d occupies on disk.
// It returns 0 for unknown kinds.
func (d DataKind) Width() int {
	switch d {
	case Float32, Int32:
		return 4
	case Float64:
		return 8
	case Uint8:
		return 1
	case Int16:
		return 2
	default:
		return 0
	}
}

// IsInteger reports whether d stores integer values.
func (d DataKind) IsInteger() bool {
	return d == Uint8 || d == Int16 || d == Int32
}

func (d DataKind) String() string {
	switch d {
	case Float32:
		return "f4"
	case Float64:
		return "f8"
	case Uint8:
		return "u1"
	case Int16:
		return "i2"
	case Int32:
		return "i4"
	default:
		return "unknown"
	}
}

// ParseDataKind parses the short dtype notation used in configuration files
// ("f4", "f8", "u1", "i2", "i4").
func ParseDataKind(s string) (DataKind, error) {
	switch s {
	case "f4", "float32":
		return Float32, nil
	case "f8", "float64":
		return Float64, nil
	case "u1", "uint8":
		return Uint8, nil
	case "i2", "int16":
		return Int16, nil
	case "i4", "int32":
		return Int32, nil
	default:
		return 0, fmt.Errorf("unknown data kind %q", s)
	}
}

func (o TraversalOrder) IsValid() bool {
	return o == RowMajor || o == ColumnMajor
}

func (o TraversalOrder) String() string {
	switch o {
	case RowMajor:
		return "row-major"
	case ColumnMajor:
		return "column-major"
	default:
		return "unknown"
	}
}

// ParseTraversalOrder parses "row-major" or "column-major".
func ParseTraversalOrder(s string) (TraversalOrder, error) {
	switch s {
	case "row-major", "row", "C":
		return RowMajor, nil
	case "column-major", "column", "F":
		return ColumnMajor, nil
	default:
		return 0, fmt.Errorf("unknown traversal order %q", s)
	}
}

func (k StructureKind) IsValid() bool {
	return k == ThinDam || k == Weir
}

// HasCrest reports whether structures of kind k carry per-vertex crest attributes.
func (k StructureKind) HasCrest() bool {
	return k == Weir
}

func (k StructureKind) String() string {
	switch k {
	case ThinDam:
		return "thd"
	case Weir:
		return "weir"
	default:
		return "unknown"
	}
}

// ParseStructureKind parses "thd" or "weir" (case-sensitive, lower case).
func ParseStructureKind(s string) (StructureKind, error) {
	switch s {
	case "thd", "thin_dam", "thin_dams":
		return ThinDam, nil
	case "weir", "weirs":
		return Weir, nil
	default:
		return 0, fmt.Errorf("unknown structure kind %q", s)
	}
}

func (a AxisKind) IsValid() bool {
	return a == RectangularAxis || a == SparseAxis
}

func (a AxisKind) String() string {
	switch a {
	case RectangularAxis:
		return "Rectangular"
	case SparseAxis:
		return "Sparse"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression parses a case-sensitive compression name as used in configuration.
func ParseCompression(s string) (CompressionType, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}
