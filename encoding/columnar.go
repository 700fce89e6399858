package encoding

import "iter"

// ColumnarEncoder appends fixed-width values to an internal pooled buffer.
type ColumnarEncoder[T comparable] interface {
	// Bytes returns the encoded byte slice.
	// The returned slice is valid until the next call to Write, WriteSlice, or Finish.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of encoded values.
	Len() int

	// Size returns the number of bytes written to the internal buffer.
	Size() int

	// Finish returns buffer resources to the pool.
	//
	// After calling Finish(), the encoder is no longer usable. Any subsequent calls to
	// Write(), WriteSlice(), Bytes() or Size() panic due to nil buffer. Use defer so
	// the buffer is returned on error paths as well:
	//
	//	enc := NewCellEncoder(format.Float32, engine)
	//	defer enc.Finish()
	//
	//	enc.WriteSlice(values)
	//	data := enc.Detach()
	Finish()

	// Write a single value.
	Write(data T)

	// WriteSlice encodes a slice of values with a single buffer growth.
	WriteSlice(values []T)
}

// ColumnarDecoder reads fixed-width values back from a payload produced by the
// matching ColumnarEncoder.
type ColumnarDecoder[T comparable] interface {
	// All returns an iterator over the first count values of data.
	//
	// If data is shorter than count values the iterator yields nothing; callers are
	// expected to validate the payload length before decoding.
	All(data []byte, count int) iter.Seq[T]
}
