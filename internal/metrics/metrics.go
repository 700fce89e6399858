// Package metrics exposes Prometheus instrumentation for artifact codecs and the
// quantity store.
//
// All methods are safe on a nil *Metrics, so instrumented code does not need to
// check whether metrics were configured.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/gridcodec/errs"
)

const namespace = "gridcodec"

// Metrics holds the collectors registered for one store.
type Metrics struct {
	bytesEncoded   *prometheus.CounterVec
	bytesDecoded   *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
	commits        *prometheus.CounterVec
	staleRebuilds  prometheus.Counter
	activeCells    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		bytesEncoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoded_bytes_total",
			Help:      "Bytes produced by artifact encoders.",
		}, []string{"artifact"}),
		bytesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decoded_bytes_total",
			Help:      "Bytes consumed by artifact decoders.",
		}, []string{"artifact"}),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Artifact decode failures by error kind.",
		}, []string{"artifact", "kind"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Store commits by result.",
		}, []string{"result"}),
		staleRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_index_rebuilds_total",
			Help:      "Active-cell indexes rebuilt because the mask changed.",
		}),
		activeCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_cells",
			Help:      "Active cells in the most recently built or loaded index.",
		}),
	}

	collectors := []prometheus.Collector{
		m.bytesEncoded, m.bytesDecoded, m.decodeFailures,
		m.commits, m.staleRebuilds, m.activeCells,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// MustNew is like New but panics on registration failure.
func MustNew(reg prometheus.Registerer) *Metrics {
	m, err := New(reg)
	if err != nil {
		panic(err)
	}

	return m
}

// Encoded records n bytes written for an artifact kind ("index", "map", "thd", ...).
func (m *Metrics) Encoded(artifact string, n int) {
	if m == nil {
		return
	}
	m.bytesEncoded.WithLabelValues(artifact).Add(float64(n))
}

// Decoded records n bytes successfully decoded for an artifact kind.
func (m *Metrics) Decoded(artifact string, n int) {
	if m == nil {
		return
	}
	m.bytesDecoded.WithLabelValues(artifact).Add(float64(n))
}

// DecodeFailed records a decode failure classified by ErrorKind.
func (m *Metrics) DecodeFailed(artifact string, err error) {
	if m == nil || err == nil {
		return
	}
	m.decodeFailures.WithLabelValues(artifact, ErrorKind(err)).Inc()
}

// Committed records the outcome of a store commit.
func (m *Metrics) Committed(err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "failed"
	}
	m.commits.WithLabelValues(result).Inc()
}

// StaleRebuild records one stale index rebuild.
func (m *Metrics) StaleRebuild() {
	if m == nil {
		return
	}
	m.staleRebuilds.Inc()
}

// SetActiveCells records the active cell count of the current index.
func (m *Metrics) SetActiveCells(n int) {
	if m == nil {
		return
	}
	m.activeCells.Set(float64(n))
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{errs.ErrInvalidHeaderSize, "header_size"},
	{errs.ErrInvalidMagicNumber, "magic"},
	{errs.ErrInvalidHeaderFlags, "flags"},
	{errs.ErrCorruptIndex, "corrupt_index"},
	{errs.ErrLengthMismatch, "length_mismatch"},
	{errs.ErrMalformedStructure, "malformed_structure"},
	{errs.ErrNonMonotonicTime, "non_monotonic_time"},
	{errs.ErrShapeMismatch, "shape_mismatch"},
	{errs.ErrStaleIndex, "stale_index"},
	{errs.ErrValueOutOfRange, "value_out_of_range"},
	{errs.ErrInvalidCategory, "invalid_category"},
	{errs.ErrChecksumMismatch, "checksum"},
	{errs.ErrArtifactNotFound, "not_found"},
}

// ErrorKind maps err to a short label value. Unknown errors map to "other".
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return "other"
}
