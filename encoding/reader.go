package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/gridcodec/endian"
)

// Reader is a bounds-checked cursor over a variable-layout payload such as a
// structure or series file.
//
// The first read past the end records an error wrapping errTruncated; every later
// read returns zero values, so decoders can read a whole record and check Err once.
type Reader struct {
	data         []byte
	off          int
	engine       endian.EndianEngine
	errTruncated error
	err          error
}

// NewReader creates a reader over data. errTruncated is the sentinel reported
// when a read runs past the end of data.
func NewReader(data []byte, engine endian.EndianEngine, errTruncated error) *Reader {
	return &Reader{data: data, engine: engine, errTruncated: errTruncated}
}

func (r *Reader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}

	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("%w: %s at offset %d needs %d bytes, %d left",
			r.errTruncated, what, r.off, n, len(r.data)-r.off)

		return nil
	}

	b := r.data[r.off : r.off+n]
	r.off += n

	return b
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) {
	r.take(n, "skip")
}

func (r *Reader) Uint8() uint8 {
	b := r.take(1, "uint8")
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *Reader) Uint32() uint32 {
	b := r.take(4, "uint32")
	if b == nil {
		return 0
	}

	return r.engine.Uint32(b)
}

func (r *Reader) Float64() float64 {
	b := r.take(8, "float64")
	if b == nil {
		return 0
	}

	return math.Float64frombits(r.engine.Uint64(b))
}

// Float64s reads n consecutive float64 values into dst, which must have length n.
func (r *Reader) Float64s(dst []float64) {
	b := r.take(len(dst)*8, "float64 block")
	if b == nil {
		return
	}

	for i := range dst {
		dst[i] = math.Float64frombits(r.engine.Uint64(b[i*8 : i*8+8]))
	}
}

// String reads a uint8 length-prefixed string.
func (r *Reader) String() string {
	n := r.Uint8()
	b := r.take(int(n), "string")
	if b == nil {
		return ""
	}

	return string(b)
}

// Offset returns the cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// AppendFloat64 appends v to buf in the byte order of engine.
func AppendFloat64(buf []byte, engine endian.EndianEngine, v float64) []byte {
	return engine.AppendUint64(buf, math.Float64bits(v))
}
