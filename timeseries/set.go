// Package timeseries encodes forcing time series anchored to point locations:
// water levels at boundary points, discharges at source points and similar.
//
// A Set is written as a pair of artifacts. The point file lists the locations in
// series order; the series file holds a header with the reference origin and the
// sample values. Two layouts exist and the caller picks one explicitly:
//
//   - RectangularAxis: every series shares one time axis, stored once.
//   - SparseAxis: every series carries its own time axis.
//
// Sample times are float64 seconds relative to the set origin and must be
// strictly increasing within a series.
package timeseries

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
)

// Location is a named point.
type Location struct {
	Name string
	X    float64
	Y    float64
}

// Validate rejects non-finite coordinates.
func (l Location) Validate() error {
	if math.IsNaN(l.X) || math.IsInf(l.X, 0) || math.IsNaN(l.Y) || math.IsInf(l.Y, 0) {
		return fmt.Errorf("%w: %s at (%v, %v)", errs.ErrMalformedStructure, l.Name, l.X, l.Y)
	}

	return nil
}

// Series holds the samples of one location.
//
// Values is sample-major: sample i occupies Values[i*width : (i+1)*width].
// Offsets is nil in rectangular sets, which use Set.Shared instead.
type Series struct {
	Offsets []float64
	Values  []float64
}

// Set is a group of series sharing one reference origin.
type Set struct {
	Origin    time.Time
	Axis      format.AxisKind
	Width     int
	Shared    []float64
	Locations []Location
	Series    []Series
}

// NewRectangular creates a set whose series share one time axis.
//
// Parameters:
//   - origin: Reference time of offset 0
//   - width: Values per sample (1 scalar, 2 vector)
//   - axis: Shared offsets in seconds
//   - locations: One location per series
//   - values: Per-series sample-major values, len(axis)*width each
func NewRectangular(origin time.Time, width int, axis []float64, locations []Location, values [][]float64) (*Set, error) {
	s := &Set{
		Origin:    origin,
		Axis:      format.RectangularAxis,
		Width:     width,
		Shared:    axis,
		Locations: locations,
		Series:    make([]Series, len(values)),
	}
	for i, v := range values {
		s.Series[i] = Series{Values: v}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// NewSparse creates a set whose series have independent time axes.
func NewSparse(origin time.Time, width int, locations []Location, series []Series) (*Set, error) {
	s := &Set{
		Origin:    origin,
		Axis:      format.SparseAxis,
		Width:     width,
		Locations: locations,
		Series:    series,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Len returns the number of series.
func (s *Set) Len() int {
	return len(s.Series)
}

// SeriesAxis returns the offsets of series i.
func (s *Set) SeriesAxis(i int) []float64 {
	if s.Axis == format.RectangularAxis {
		return s.Shared
	}

	return s.Series[i].Offsets
}

// Times returns the absolute sample times of series i.
func (s *Set) Times(i int) []time.Time {
	axis := s.SeriesAxis(i)
	out := make([]time.Time, len(axis))
	for j, off := range axis {
		out[j] = s.Origin.Add(time.Duration(math.Round(off * float64(time.Second))))
	}

	return out
}

// Samples returns the total number of samples over all series.
func (s *Set) Samples() int {
	if s.Axis == format.RectangularAxis {
		return len(s.Shared) * len(s.Series)
	}

	n := 0
	for _, ser := range s.Series {
		n += len(ser.Offsets)
	}

	return n
}

// Validate checks counts, value lengths and time ordering.
//
// Returns:
//   - error: ErrLengthMismatch for count or length disagreements,
//     ErrNonMonotonicTime for a non-increasing axis
func (s *Set) Validate() error {
	if !s.Axis.IsValid() {
		return fmt.Errorf("unknown axis kind %d", s.Axis)
	}

	if s.Width < 1 || s.Width > math.MaxUint8 {
		return fmt.Errorf("sample width %d outside 1..255", s.Width)
	}

	if len(s.Locations) != len(s.Series) {
		return fmt.Errorf("%w: %d locations for %d series", errs.ErrLengthMismatch, len(s.Locations), len(s.Series))
	}

	for i, loc := range s.Locations {
		if err := loc.Validate(); err != nil {
			return fmt.Errorf("location %d: %w", i, err)
		}
	}

	if s.Axis == format.RectangularAxis {
		if err := checkAxis(s.Shared); err != nil {
			return fmt.Errorf("shared axis: %w", err)
		}
	}

	for i, ser := range s.Series {
		axis := s.SeriesAxis(i)
		if s.Axis == format.SparseAxis {
			if err := checkAxis(axis); err != nil {
				return fmt.Errorf("series %d (%s): %w", i, s.Locations[i].Name, err)
			}
		}

		if len(ser.Values) != len(axis)*s.Width {
			return fmt.Errorf("%w: series %d (%s) has %d values for %d samples of width %d",
				errs.ErrLengthMismatch, i, s.Locations[i].Name, len(ser.Values), len(axis), s.Width)
		}
	}

	return nil
}

// OffsetsFrom converts absolute times to offsets in seconds from origin.
func OffsetsFrom(origin time.Time, times []time.Time) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = t.Sub(origin).Seconds()
	}

	return out
}

func checkAxis(axis []float64) error {
	for i, off := range axis {
		if math.IsNaN(off) || math.IsInf(off, 0) {
			return fmt.Errorf("%w: sample %d has offset %v", errs.ErrNonMonotonicTime, i, off)
		}

		if i > 0 && off <= axis[i-1] {
			return fmt.Errorf("%w: sample %d at %vs follows %vs", errs.ErrNonMonotonicTime, i, off, axis[i-1])
		}
	}

	return nil
}
