package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coreerrors "palletchain/core/errors"
)

type runtimeMetrics struct {
	extrinsics    *prometheus.CounterVec
	blocks        *prometheus.CounterVec
	blockDuration prometheus.Histogram
	blockSize     prometheus.Histogram
	height        prometheus.Gauge
}

var (
	runtimeMetricsOnce sync.Once
	runtimeRegistry    *runtimeMetrics
)

// RuntimeMetrics returns the lazily-initialised registry used to record block
// execution activity.
func RuntimeMetrics() *runtimeMetrics {
	runtimeMetricsOnce.Do(func() {
		runtimeRegistry = &runtimeMetrics{
			extrinsics: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "palletchain",
				Subsystem: "runtime",
				Name:      "extrinsics_total",
				Help:      "Dispatched extrinsics segmented by pallet, call, outcome and error kind.",
			}, []string{"pallet", "call", "outcome", "kind"}),
			blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "palletchain",
				Subsystem: "runtime",
				Name:      "blocks_total",
				Help:      "Blocks submitted for execution segmented by outcome.",
			}, []string{"outcome"}),
			blockDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "palletchain",
				Subsystem: "runtime",
				Name:      "block_duration_seconds",
				Help:      "Wall-clock time spent executing a block.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			}),
			blockSize: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "palletchain",
				Subsystem: "runtime",
				Name:      "block_extrinsics",
				Help:      "Number of extrinsics per executed block.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			}),
			height: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "palletchain",
				Subsystem: "runtime",
				Name:      "block_height",
				Help:      "Number of the most recently executed block.",
			}),
		}
		prometheus.MustRegister(
			runtimeRegistry.extrinsics,
			runtimeRegistry.blocks,
			runtimeRegistry.blockDuration,
			runtimeRegistry.blockSize,
			runtimeRegistry.height,
		)
	})
	return runtimeRegistry
}

// ObserveExtrinsic records the outcome of one dispatched extrinsic. The error
// kind is taken from the module error err wraps, if any.
func (m *runtimeMetrics) ObserveExtrinsic(pallet, call string, err error) {
	if m == nil {
		return
	}
	if pallet == "" {
		pallet = "unknown"
	}
	if call == "" {
		call = "unknown"
	}
	if err == nil {
		m.extrinsics.WithLabelValues(pallet, call, "success", "").Inc()
		return
	}
	kind := "Other"
	if _, k, ok := coreerrors.KindOf(err); ok {
		kind = k
	}
	m.extrinsics.WithLabelValues(pallet, call, "failure", kind).Inc()
}

// ObserveBlock records an executed block.
func (m *runtimeMetrics) ObserveBlock(number uint64, extrinsics int, duration time.Duration) {
	if m == nil {
		return
	}
	m.blocks.WithLabelValues("executed").Inc()
	m.blockDuration.Observe(duration.Seconds())
	m.blockSize.Observe(float64(extrinsics))
	m.height.Set(float64(number))
}

// RecordRejectedBlock counts a block refused before any extrinsic ran.
func (m *runtimeMetrics) RecordRejectedBlock() {
	if m == nil {
		return
	}
	m.blocks.WithLabelValues("rejected").Inc()
}

// RecordEvent forwards to the event registry so the runtime needs a single
// metrics handle.
func (m *runtimeMetrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	Events().Record(eventType)
}
