package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/internal/pool"
)

// CellEncoder encodes cell values as fixed-width records of one DataKind.
//
// Values are carried as float64 in memory regardless of the on-disk kind; integer
// kinds truncate toward zero, so callers must run CheckValue first when they need
// lossless output.
type CellEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	kind   format.DataKind
	width  int
	count  int
}

var _ ColumnarEncoder[float64] = (*CellEncoder)(nil)

// NewCellEncoder creates an encoder for values of the given kind.
//
// Parameters:
//   - kind: On-disk representation of every value
//   - engine: Endian engine for byte order
//
// Returns:
//   - *CellEncoder: Encoder backed by a pooled record buffer
//   - error: ErrUnsupportedDataKind for an unknown kind
func NewCellEncoder(kind format.DataKind, engine endian.EndianEngine) (*CellEncoder, error) {
	width := kind.Width()
	if width == 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedDataKind, kind)
	}

	return &CellEncoder{
		buf:    pool.GetRecordBuffer(),
		engine: engine,
		kind:   kind,
		width:  width,
	}, nil
}

// Kind returns the data kind the encoder writes.
func (e *CellEncoder) Kind() format.DataKind {
	return e.kind
}

// Write encodes a single value.
//
// Panics if Finish() has been called.
func (e *CellEncoder) Write(val float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	putCell(e.buf.ExtendOrGrow(e.width), val, e.kind, e.engine)
}

// WriteSlice encodes values with one buffer growth for the whole slice.
//
// Panics if Finish() has been called.
func (e *CellEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return
	}

	e.count += len(values)
	region := e.buf.ExtendOrGrow(len(values) * e.width)
	for i, v := range values {
		off := i * e.width
		putCell(region[off:off+e.width], v, e.kind, e.engine)
	}
}

func (e *CellEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Detach returns a copy of the encoded bytes that survives Finish.
func (e *CellEncoder) Detach() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Detach()
}

func (e *CellEncoder) Len() int {
	return e.count
}

func (e *CellEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *CellEncoder) Finish() {
	if e.buf != nil {
		pool.PutRecordBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// CellDecoder decodes fixed-width cell records of one DataKind into float64 values.
//
// The decoder is stateless and returned by value.
type CellDecoder struct {
	engine endian.EndianEngine
	kind   format.DataKind
	width  int
}

var _ ColumnarDecoder[float64] = CellDecoder{}

// NewCellDecoder creates a decoder for values of the given kind.
func NewCellDecoder(kind format.DataKind, engine endian.EndianEngine) (CellDecoder, error) {
	width := kind.Width()
	if width == 0 {
		return CellDecoder{}, fmt.Errorf("%w: %d", errs.ErrUnsupportedDataKind, kind)
	}

	return CellDecoder{engine: engine, kind: kind, width: width}, nil
}

// Width returns the record width in bytes.
func (d CellDecoder) Width() int {
	return d.width
}

// All yields count values decoded from data.
func (d CellDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if count <= 0 || len(data) < count*d.width {
			return
		}

		for i := range count {
			off := i * d.width
			if !yield(readCell(data[off:off+d.width], d.kind, d.engine)) {
				return
			}
		}
	}
}

// CheckValue reports whether v is exactly representable in kind.
//
// Float64 accepts any value. Float32 accepts NaN, infinities and finite values
// float32 holds exactly. Integer kinds reject NaN, non-integral values and
// values outside the type range. Rejections wrap ErrValueOutOfRange.
func CheckValue(kind format.DataKind, v float64) error {
	var lo, hi float64

	switch kind {
	case format.Float64:
		return nil
	case format.Float32:
		if math.IsNaN(v) || math.IsInf(v, 0) || float64(float32(v)) == v {
			return nil
		}

		return fmt.Errorf("%w: %v is not exact in %s", errs.ErrValueOutOfRange, v, kind)
	case format.Uint8:
		lo, hi = 0, math.MaxUint8
	case format.Int16:
		lo, hi = math.MinInt16, math.MaxInt16
	case format.Int32:
		lo, hi = math.MinInt32, math.MaxInt32
	default:
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedDataKind, kind)
	}

	if math.IsNaN(v) || v != math.Trunc(v) || v < lo || v > hi {
		return fmt.Errorf("%w: %v does not fit %s", errs.ErrValueOutOfRange, v, kind)
	}

	return nil
}

func putCell(b []byte, v float64, kind format.DataKind, engine endian.EndianEngine) {
	switch kind {
	case format.Float32:
		engine.PutUint32(b, math.Float32bits(float32(v)))
	case format.Float64:
		engine.PutUint64(b, math.Float64bits(v))
	case format.Uint8:
		b[0] = uint8(v)
	case format.Int16:
		engine.PutUint16(b, uint16(int16(v))) //nolint: gosec
	case format.Int32:
		engine.PutUint32(b, uint32(int32(v))) //nolint: gosec
	}
}

func readCell(b []byte, kind format.DataKind, engine endian.EndianEngine) float64 {
	switch kind {
	case format.Float32:
		return float64(math.Float32frombits(engine.Uint32(b)))
	case format.Float64:
		return math.Float64frombits(engine.Uint64(b))
	case format.Uint8:
		return float64(b[0])
	case format.Int16:
		return float64(int16(engine.Uint16(b))) //nolint: gosec
	case format.Int32:
		return float64(int32(engine.Uint32(b))) //nolint: gosec
	default:
		return math.NaN()
	}
}
