package dot15d4metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// -------------------------------------------------------------------------
// Prometheus Metric Constants
// -------------------------------------------------------------------------

const (
	namespace = "dot15d4dump"
	subsystem = "decode"
)

// Label names for decode metrics.
const (
	labelFrameType = "frame_type"
	labelKind      = "kind"
	labelIEKind    = "ie_kind"
	labelElementID = "element_id"
)

// -------------------------------------------------------------------------
// Collector — Prometheus decode metrics
// -------------------------------------------------------------------------

// Collector holds all dot15d4dump Prometheus metrics. These sit outside the
// frame package's pure decode path; the codec itself never touches
// Prometheus, only the driver binary that calls it.
type Collector struct {
	// FramesDecoded counts successfully decoded frames by frame type.
	FramesDecoded *prometheus.CounterVec

	// DecodeFailures counts frames that failed to decode, labeled by the
	// kind of error (buffer_too_short, ill_formed, invalid_repr, other).
	DecodeFailures *prometheus.CounterVec

	// IEsObserved counts Header and Payload Information Elements observed
	// during decode, labeled by IE kind (header/payload/nested) and
	// element/group/sub ID.
	IEsObserved *prometheus.CounterVec

	// BatchSize observes the number of frames processed per batch decode
	// invocation.
	BatchSize prometheus.Histogram
}

// NewCollector creates a Collector with all metrics registered against the
// provided prometheus.Registerer. If reg is nil, prometheus.DefaultRegisterer
// is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.FramesDecoded,
		c.DecodeFailures,
		c.IEsObserved,
		c.BatchSize,
	)

	return c
}

// newMetrics creates all Prometheus metric vectors without registering them.
func newMetrics() *Collector {
	return &Collector{
		FramesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_total",
			Help:      "Total MAC frames successfully decoded, by frame type.",
		}, []string{labelFrameType}),

		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "failures_total",
			Help:      "Total frame decode failures, by error kind.",
		}, []string{labelKind}),

		IEsObserved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ies_total",
			Help:      "Total Information Elements observed during decode, by IE kind and element ID.",
		}, []string{labelIEKind, labelElementID}),

		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batch_size",
			Help:      "Number of frames processed per batch decode invocation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

// -------------------------------------------------------------------------
// Frame counters
// -------------------------------------------------------------------------

// IncFramesDecoded increments the decoded-frames counter for frameType.
func (c *Collector) IncFramesDecoded(frameType string) {
	c.FramesDecoded.WithLabelValues(frameType).Inc()
}

// IncDecodeFailures increments the decode-failures counter for kind.
func (c *Collector) IncDecodeFailures(kind string) {
	c.DecodeFailures.WithLabelValues(kind).Inc()
}

// -------------------------------------------------------------------------
// Information Element counters
// -------------------------------------------------------------------------

// IncIEObserved increments the observed-IEs counter for an IE of the given
// kind ("header", "payload", "nested") and element/group/sub ID.
func (c *Collector) IncIEObserved(ieKind, elementID string) {
	c.IEsObserved.WithLabelValues(ieKind, elementID).Inc()
}

// -------------------------------------------------------------------------
// Batch decode
// -------------------------------------------------------------------------

// ObserveBatchSize records the number of frames processed by one batch
// decode invocation.
func (c *Collector) ObserveBatchSize(n int) {
	c.BatchSize.Observe(float64(n))
}
