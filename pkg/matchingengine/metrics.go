package matchingengine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for an OrderBook: counters
// for discrete events plus a gauge for current book depth. Matching is
// synchronous and in-process, so there is no latency histogram here —
// nothing ever suspends inside MatchOrPut.
type Metrics struct {
	MatchesTotal          *prometheus.CounterVec
	SynthesisAbortedTotal *prometheus.CounterVec
	VirtualOrdersCreated  prometheus.Counter
	RestingOrders         *prometheus.GaugeVec
}

// NewMetrics creates and registers engine metrics with the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates metrics against a caller-supplied registry,
// so tests can register independent collectors instead of sharing the
// default one.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matching_engine_matches_total",
				Help: "Total number of matches produced by MatchOrPut calls",
			},
			[]string{"making_virtual", "taking_virtual"},
		),
		SynthesisAbortedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matching_engine_synthesis_aborted_total",
				Help: "Total number of virtual-order synthesis attempts that aborted",
			},
			[]string{"reason"},
		),
		VirtualOrdersCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "matching_engine_virtual_orders_created_total",
				Help: "Total number of virtual orders (VMOs and VDOs) synthesised",
			},
		),
		RestingOrders: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "matching_engine_resting_orders",
				Help: "Number of real resting orders per outcome and side",
			},
			[]string{"outcome", "side"},
		),
	}
}

// NewNopMetrics returns metrics registered against a private, discarded
// registry — the zero-friction default for OrderBooks built without
// WithMetrics, mirroring zerolog.Nop() for loggers.
func NewNopMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}
