package encoding

import (
	"fmt"

	"github.com/arloliu/gridcodec/internal/pool"
)

// MaxTextLength is the maximum length of a structure or location name.
// The uint8 length prefix cannot represent more than 255 bytes.
const MaxTextLength = 255

// VarStringEncoder encodes names with a uint8 length prefix.
//
// Each string is encoded as:
//   - 1 byte: length (0-255)
//   - N bytes: string data (UTF-8)
type VarStringEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

func NewVarStringEncoder() *VarStringEncoder {
	return &VarStringEncoder{buf: pool.GetRecordBuffer()}
}

// Write encodes a single string.
//
// Returns:
//   - error: nil if successful, error if text exceeds MaxTextLength
func (e *VarStringEncoder) Write(text string) error {
	if len(text) > MaxTextLength {
		return fmt.Errorf("text length %d exceeds maximum %d", len(text), MaxTextLength)
	}

	e.count++
	e.buf.Grow(1 + len(text))
	e.buf.MustWrite([]byte{uint8(len(text))}) //nolint: gosec
	e.buf.MustWrite([]byte(text))

	return nil
}

// WriteSlice validates every string before encoding any of them.
func (e *VarStringEncoder) WriteSlice(texts []string) error {
	total := 0
	for _, text := range texts {
		if len(text) > MaxTextLength {
			return fmt.Errorf("text length %d exceeds maximum %d", len(text), MaxTextLength)
		}
		total += 1 + len(text)
	}

	e.buf.Grow(total)
	for _, text := range texts {
		e.buf.MustWrite([]byte{uint8(len(text))}) //nolint: gosec
		e.buf.MustWrite([]byte(text))
		e.count++
	}

	return nil
}

func (e *VarStringEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *VarStringEncoder) Len() int {
	return e.count
}

func (e *VarStringEncoder) Size() int {
	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *VarStringEncoder) Finish() {
	if e.buf != nil {
		pool.PutRecordBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// AppendVarString appends text with its uint8 length prefix to buf.
func AppendVarString(buf []byte, text string) ([]byte, error) {
	if len(text) > MaxTextLength {
		return buf, fmt.Errorf("text length %d exceeds maximum %d", len(text), MaxTextLength)
	}

	buf = append(buf, uint8(len(text))) //nolint: gosec

	return append(buf, text...), nil
}
