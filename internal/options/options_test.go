package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type writerSettings struct {
	fill    float64
	kind    string
	applied []string
}

var errNegativeFill = errors.New("fill must not be positive")

func withFill(v float64) Option[*writerSettings] {
	return New(func(s *writerSettings) error {
		if v > 0 {
			return errNegativeFill
		}
		s.fill = v
		s.applied = append(s.applied, "fill")

		return nil
	})
}

func withKind(k string) Option[*writerSettings] {
	return NoError(func(s *writerSettings) {
		s.kind = k
		s.applied = append(s.applied, "kind")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		s := &writerSettings{}
		err := Apply(s, withKind("f4"), withFill(-9999))

		require.NoError(t, err)
		require.Equal(t, "f4", s.kind)
		require.InDelta(t, -9999.0, s.fill, 0)
		require.Equal(t, []string{"kind", "fill"}, s.applied)
	})

	t.Run("stops at first error", func(t *testing.T) {
		s := &writerSettings{}
		err := Apply(s, withFill(1), withKind("u1"))

		require.ErrorIs(t, err, errNegativeFill)
		require.Contains(t, err.Error(), "option 0")
		require.Empty(t, s.applied)
	})

	t.Run("skips nil options", func(t *testing.T) {
		s := &writerSettings{}
		var none Option[*writerSettings]
		err := Apply(s, none, withKind("i2"))

		require.NoError(t, err)
		require.Equal(t, "i2", s.kind)
	})

	t.Run("empty option list", func(t *testing.T) {
		s := &writerSettings{}
		require.NoError(t, Apply(s))
		require.Empty(t, s.applied)
	})
}
