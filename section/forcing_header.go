package section

import (
	"time"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
)

// PointsHeader is the fixed 8-byte header of a point-location file.
//
//	Bytes | Field | Type   | Description
//	------|-------|--------|-----------------------------
//	0-1   | Flag  | uint16 | Magic number and byte order
//	2-3   | -     | uint16 | Reserved, zero
//	4-7   | Count | uint32 | Number of locations
type PointsHeader struct {
	Flag  Flag
	Count uint32
}

func NewPointsHeader(engine endian.EndianEngine, count uint32) PointsHeader {
	return PointsHeader{Flag: NewFlag(MagicPointsV1, engine), Count: count}
}

func (h PointsHeader) Append(buf []byte) []byte {
	var b [PointsHeaderSize]byte
	h.Flag.put(b[0:2])
	h.Flag.Engine().PutUint32(b[4:8], h.Count)

	return append(buf, b[:]...)
}

func ParsePointsHeader(data []byte) (PointsHeader, error) {
	if len(data) < PointsHeaderSize {
		return PointsHeader{}, errs.ErrInvalidHeaderSize
	}

	h := PointsHeader{Flag: parseFlag(data)}
	if err := h.Flag.Validate(MagicPointsV1); err != nil {
		return PointsHeader{}, err
	}

	if data[2] != 0 || data[3] != 0 {
		return PointsHeader{}, errs.ErrInvalidHeaderFlags
	}
	h.Count = h.Flag.Engine().Uint32(data[4:8])

	return h, nil
}

// SeriesHeader is the fixed 32-byte header of a time series file.
//
//	Bytes  | Field      | Type   | Description
//	-------|------------|--------|------------------------------------------------
//	0-1    | Flag       | uint16 | Magic number and byte order
//	2      | Axis       | uint8  | 1=rectangular (shared axis), 2=sparse (per series)
//	3      | Width      | uint8  | Values per sample (1 scalar, 2 vector)
//	4-11   | Origin     | int64  | Reference time, unix microseconds
//	12-15  | Timestamps | uint32 | Shared axis length, or total samples when sparse
//	16-19  | Series     | uint32 | Number of series
//	20-31  | -          |        | Reserved, zero
type SeriesHeader struct {
	Flag       Flag
	Axis       format.AxisKind
	Width      uint8
	Origin     int64
	Timestamps uint32
	Series     uint32
}

func NewSeriesHeader(engine endian.EndianEngine, axis format.AxisKind, width uint8, origin time.Time) SeriesHeader {
	return SeriesHeader{
		Flag:   NewFlag(MagicSeriesV1, engine),
		Axis:   axis,
		Width:  width,
		Origin: origin.UnixMicro(),
	}
}

// OriginTime returns the reference origin as a UTC time.Time.
func (h SeriesHeader) OriginTime() time.Time {
	return time.UnixMicro(h.Origin).UTC()
}

func (h SeriesHeader) Append(buf []byte) []byte {
	var b [SeriesHeaderSize]byte
	engine := h.Flag.Engine()

	h.Flag.put(b[0:2])
	b[2] = uint8(h.Axis)
	b[3] = h.Width
	engine.PutUint64(b[4:12], uint64(h.Origin)) //nolint: gosec
	engine.PutUint32(b[12:16], h.Timestamps)
	engine.PutUint32(b[16:20], h.Series)

	return append(buf, b[:]...)
}

func ParseSeriesHeader(data []byte) (SeriesHeader, error) {
	if len(data) < SeriesHeaderSize {
		return SeriesHeader{}, errs.ErrInvalidHeaderSize
	}

	h := SeriesHeader{Flag: parseFlag(data)}
	if err := h.Flag.Validate(MagicSeriesV1); err != nil {
		return SeriesHeader{}, err
	}

	engine := h.Flag.Engine()
	h.Axis = format.AxisKind(data[2])
	h.Width = data[3]
	h.Origin = int64(engine.Uint64(data[4:12])) //nolint: gosec
	h.Timestamps = engine.Uint32(data[12:16])
	h.Series = engine.Uint32(data[16:20])

	if !h.Axis.IsValid() || h.Width == 0 {
		return SeriesHeader{}, errs.ErrInvalidHeaderFlags
	}

	for _, r := range data[20:SeriesHeaderSize] {
		if r != 0 {
			return SeriesHeader{}, errs.ErrInvalidHeaderFlags
		}
	}

	return h, nil
}
