package timeseries

import (
	"fmt"

	"github.com/arloliu/gridcodec/encoding"
	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/internal/pool"
	"github.com/arloliu/gridcodec/section"
)

// Encode serializes set into a point-location payload and a series payload.
//
// The set is validated first; nothing is returned on error.
//
// Returns:
//   - points: PointsHeader, count × (x, y float64), count length-prefixed names
//   - series: SeriesHeader followed by the rectangular or sparse layout
//   - error: validation errors of Set.Validate, or a name longer than 255 bytes
func Encode(set *Set, engine endian.EndianEngine) ([]byte, []byte, error) {
	if err := set.Validate(); err != nil {
		return nil, nil, err
	}

	points, err := EncodePoints(set.Locations, engine)
	if err != nil {
		return nil, nil, err
	}

	return points, encodeSeries(set, engine), nil
}

// EncodePoints serializes a bare location list, as used for observation points
// and for the point file of a forcing set.
//
// Parameters:
//   - locations: Points in file order
//   - engine: Byte order of the payload
//
// Returns:
//   - []byte: PointsHeader, count × (x, y float64), count length-prefixed names
//   - error: a non-finite coordinate or a name longer than 255 bytes
func EncodePoints(locations []Location, engine endian.EndianEngine) ([]byte, error) {
	for i, loc := range locations {
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
	}

	names := encoding.NewVarStringEncoder()
	defer names.Finish()

	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	buf.B = section.NewPointsHeader(engine, uint32(len(locations))).Append(buf.B) //nolint: gosec
	for _, loc := range locations {
		buf.B = encoding.AppendFloat64(buf.B, engine, loc.X)
		buf.B = encoding.AppendFloat64(buf.B, engine, loc.Y)

		if err := names.Write(loc.Name); err != nil {
			return nil, fmt.Errorf("location %q: %w", loc.Name, err)
		}
	}
	buf.MustWrite(names.Bytes())

	return buf.Detach(), nil
}

func encodeSeries(set *Set, engine endian.EndianEngine) []byte {
	header := section.NewSeriesHeader(engine, set.Axis, uint8(set.Width), set.Origin) //nolint: gosec
	header.Series = uint32(len(set.Series))                                            //nolint: gosec
	if set.Axis == format.RectangularAxis {
		header.Timestamps = uint32(len(set.Shared)) //nolint: gosec
	} else {
		header.Timestamps = uint32(set.Samples()) //nolint: gosec
	}

	if set.Axis == format.RectangularAxis {
		// Validate guarantees a known kind.
		enc, _ := encoding.NewCellEncoder(format.Float64, engine)
		defer enc.Finish()

		enc.WriteSlice(set.Shared)
		for _, ser := range set.Series {
			enc.WriteSlice(ser.Values)
		}

		return append(header.Append(nil), enc.Bytes()...)
	}

	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	buf.B = header.Append(buf.B)
	for _, ser := range set.Series {
		buf.B = engine.AppendUint32(buf.B, uint32(len(ser.Offsets))) //nolint: gosec
		for j, off := range ser.Offsets {
			buf.B = encoding.AppendFloat64(buf.B, engine, off)
			for _, v := range ser.Values[j*set.Width : (j+1)*set.Width] {
				buf.B = encoding.AppendFloat64(buf.B, engine, v)
			}
		}
	}

	return buf.Detach()
}

// Decode parses a point-location payload and a series payload into a Set.
//
// Both payloads are fully validated before the set is returned.
//
// Returns:
//   - *Set: The decoded set; Origin is in UTC
//   - error: header errors, ErrLengthMismatch for truncation, trailing bytes or a
//     location/series count disagreement, ErrNonMonotonicTime for a
//     non-increasing axis
func Decode(points, series []byte) (*Set, error) {
	locations, err := DecodePoints(points)
	if err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}

	header, err := section.ParseSeriesHeader(series)
	if err != nil {
		return nil, fmt.Errorf("series header: %w", err)
	}

	if int(header.Series) != len(locations) {
		return nil, fmt.Errorf("%w: %d locations for %d series", errs.ErrLengthMismatch, len(locations), header.Series)
	}

	set := &Set{
		Origin:    header.OriginTime(),
		Axis:      header.Axis,
		Width:     int(header.Width),
		Locations: locations,
		Series:    make([]Series, header.Series),
	}

	r := encoding.NewReader(series[section.SeriesHeaderSize:], header.Flag.Engine(), errs.ErrLengthMismatch)
	if header.Axis == format.RectangularAxis {
		err = decodeRectangular(set, header, r)
	} else {
		err = decodeSparse(set, header, r)
	}
	if err != nil {
		return nil, err
	}

	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes in series", errs.ErrLengthMismatch, r.Remaining())
	}

	return set, nil
}

// DecodePoints parses a payload written by EncodePoints.
//
// Returns:
//   - []Location: The points in file order
//   - error: header errors, ErrLengthMismatch for truncation or trailing bytes,
//     ErrMalformedStructure for a non-finite coordinate
func DecodePoints(data []byte) ([]Location, error) {
	header, err := section.ParsePointsHeader(data)
	if err != nil {
		return nil, err
	}

	r := encoding.NewReader(data[section.PointsHeaderSize:], header.Flag.Engine(), errs.ErrLengthMismatch)
	if int(header.Count) > r.Remaining()/17 {
		return nil, fmt.Errorf("%w: %d locations declared in %d bytes", errs.ErrLengthMismatch, header.Count, r.Remaining())
	}

	out := make([]Location, header.Count)
	for i := range out {
		out[i].X = r.Float64()
		out[i].Y = r.Float64()
	}
	for i := range out {
		out[i].Name = r.String()
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrLengthMismatch, r.Remaining())
	}

	for i, loc := range out {
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
	}

	return out, nil
}

func decodeRectangular(set *Set, header section.SeriesHeader, r *encoding.Reader) error {
	n, width := int(header.Timestamps), int(header.Width)

	need := (n + n*width*int(header.Series)) * 8
	if r.Remaining() != need {
		return fmt.Errorf("%w: rectangular series needs %d bytes, got %d", errs.ErrLengthMismatch, need, r.Remaining())
	}

	set.Shared = make([]float64, n)
	r.Float64s(set.Shared)
	if err := checkAxis(set.Shared); err != nil {
		return fmt.Errorf("shared axis: %w", err)
	}

	for i := range set.Series {
		set.Series[i].Values = make([]float64, n*width)
		r.Float64s(set.Series[i].Values)
	}

	return r.Err()
}

func decodeSparse(set *Set, header section.SeriesHeader, r *encoding.Reader) error {
	width := int(header.Width)
	recSize := (1 + width) * 8
	total := 0

	for i := range set.Series {
		n := int(r.Uint32())
		if err := r.Err(); err != nil {
			return fmt.Errorf("series %d: %w", i, err)
		}

		if n > r.Remaining()/recSize {
			return fmt.Errorf("%w: series %d declares %d samples, %d bytes left", errs.ErrLengthMismatch, i, n, r.Remaining())
		}

		ser := Series{Offsets: make([]float64, n), Values: make([]float64, n*width)}
		for j := range n {
			ser.Offsets[j] = r.Float64()
			r.Float64s(ser.Values[j*width : (j+1)*width])
		}

		if err := r.Err(); err != nil {
			return fmt.Errorf("series %d: %w", i, err)
		}

		if err := checkAxis(ser.Offsets); err != nil {
			return fmt.Errorf("series %d (%s): %w", i, set.Locations[i].Name, err)
		}

		set.Series[i] = ser
		total += n
	}

	if total != int(header.Timestamps) {
		return fmt.Errorf("%w: header declares %d samples, series hold %d", errs.ErrLengthMismatch, header.Timestamps, total)
	}

	return nil
}
