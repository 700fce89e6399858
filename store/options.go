package store

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/internal/metrics"
	"github.com/arloliu/gridcodec/internal/options"
)

// Option configures a Store.
type Option = options.Option[*Store]

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger logrus.FieldLogger) Option {
	return options.New(func(s *Store) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		s.log = logger

		return nil
	})
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return options.NoError(func(s *Store) {
		s.metrics = m
	})
}

// WithTraversalOrder sets the order in which the index lists active cells.
// The default is row-major.
func WithTraversalOrder(order format.TraversalOrder) Option {
	return options.New(func(s *Store) error {
		if !order.IsValid() {
			return fmt.Errorf("unknown traversal order %d", order)
		}
		s.order = order

		return nil
	})
}

// WithEndian sets the byte order of written artifacts. The default is little-endian.
func WithEndian(engine endian.EndianEngine) Option {
	return options.New(func(s *Store) error {
		if engine == nil {
			return errors.New("nil endian engine")
		}
		s.engine = engine

		return nil
	})
}

// WithArtifactNames overrides artifact names. Empty fields keep their defaults.
func WithArtifactNames(names ArtifactNames) Option {
	return options.NoError(func(s *Store) {
		s.names = names.merge(DefaultArtifactNames())
	})
}
