package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)

	bb.MustWrite([]byte("index"))
	n, err := bb.Write([]byte(" map"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("index map"), bb.Bytes())

	originalCap := bb.Cap()
	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, originalCap, bb.Cap())
}

func TestByteBuffer_Detach(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte{1, 2, 3})

	out := bb.Detach()
	bb.Reset()
	bb.MustWrite([]byte{9, 9, 9})

	require.Equal(t, []byte{1, 2, 3}, out)
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	t.Run("within capacity", func(t *testing.T) {
		bb := NewByteBuffer(16)
		region := bb.ExtendOrGrow(8)

		require.Len(t, region, 8)
		require.Equal(t, 8, bb.Len())
		require.Equal(t, 16, bb.Cap())
	})

	t.Run("beyond capacity keeps existing data", func(t *testing.T) {
		bb := NewByteBuffer(4)
		bb.MustWrite([]byte{1, 2, 3, 4})

		region := bb.ExtendOrGrow(12)
		copy(region, bytes.Repeat([]byte{7}, 12))

		require.Equal(t, 16, bb.Len())
		require.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes()[:4])
		require.Equal(t, byte(7), bb.Bytes()[15])
	})
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("no growth when capacity suffices", func(t *testing.T) {
		bb := NewByteBuffer(64)
		bb.Grow(32)
		require.Equal(t, 64, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.MustWrite(make([]byte, 8))
		bb.Grow(1)
		require.Equal(t, 8+RecordBufferDefaultSize, bb.Cap())
	})

	t.Run("growth covers the request", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(RecordBufferDefaultSize * 3)
		require.GreaterOrEqual(t, bb.Cap(), RecordBufferDefaultSize*3)
	})
}

func TestByteBuffer_SliceAndSetLength(t *testing.T) {
	bb := NewByteBuffer(8)

	s := bb.Slice(0, 4)
	copy(s, []byte{1, 2, 3, 4})
	bb.SetLength(4)
	require.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes())

	require.Panics(t, func() { bb.Slice(0, 9) })
	require.Panics(t, func() { bb.SetLength(-1) })
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)
	bb.MustWrite([]byte("records"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)

	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "records", out.String())
}

func TestByteBufferPool_DiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(8, 32)

	bb := p.Get()
	bb.Grow(64)
	require.Greater(t, bb.Cap(), 32)
	p.Put(bb)

	// The oversized buffer was dropped; a fresh one has the default capacity.
	fresh := p.Get()
	require.Equal(t, 8, fresh.Cap())
	p.Put(nil)
}

func TestDefaultPools_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			rb := GetRecordBuffer()
			rb.MustWrite([]byte{byte(i)})
			assert.Equal(t, 1, rb.Len())
			PutRecordBuffer(rb)
		}(i)
	}
	wg.Wait()
}
