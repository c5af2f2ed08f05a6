// Package metrics provides Prometheus instrumentation for udpsocket.
//
// All Record methods are safe to call on a nil *Metrics, which is how an
// uninstrumented socket runs.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "udpsocket"
)

// Result label values for OperationsTotal.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics contains all Prometheus metrics for socket operations.
type Metrics struct {
	// Operation metrics
	OperationsTotal *prometheus.CounterVec
	WouldBlockTotal prometheus.Counter

	// Data transfer metrics
	BytesSent     prometheus.Counter
	BytesReceived prometheus.Counter
	DatagramsSent prometheus.Counter
	DatagramsRecv prometheus.Counter

	// Resource metrics
	SocketsOpen prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	metricsOnce    sync.Once
)

// Default returns the default metrics instance.
func Default() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = NewMetrics()
	})
	return defaultMetrics
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a new Metrics instance with a custom registry.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total socket operations by operation and result",
		}, []string{"op", "result"}),
		WouldBlockTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "would_block_total",
			Help:      "Non-blocking receives that found no datagram queued",
		}),

		BytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_sent_total",
			Help:      "Total bytes accepted by the kernel on send",
		}),
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Total bytes copied into receive buffers",
		}),
		DatagramsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datagrams_sent_total",
			Help:      "Total successful send calls",
		}),
		DatagramsRecv: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datagrams_received_total",
			Help:      "Total receive calls that returned a datagram",
		}),

		SocketsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sockets_open",
			Help:      "Number of currently open sockets",
		}),
	}
}

// RecordOperation counts one operation outcome.
func (m *Metrics) RecordOperation(op string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.OperationsTotal.WithLabelValues(op, result).Inc()
}

// RecordSend records a successful send of n bytes.
func (m *Metrics) RecordSend(n int) {
	if m == nil {
		return
	}
	m.BytesSent.Add(float64(n))
	m.DatagramsSent.Inc()
}

// RecordRecv records a receive that returned a datagram of n bytes.
func (m *Metrics) RecordRecv(n int) {
	if m == nil {
		return
	}
	m.BytesReceived.Add(float64(n))
	m.DatagramsRecv.Inc()
}

// RecordWouldBlock records an empty non-blocking receive.
func (m *Metrics) RecordWouldBlock() {
	if m == nil {
		return
	}
	m.WouldBlockTotal.Inc()
}

// RecordOpen records a newly bound socket.
func (m *Metrics) RecordOpen() {
	if m == nil {
		return
	}
	m.SocketsOpen.Inc()
}

// RecordClose records a closed socket.
func (m *Metrics) RecordClose() {
	if m == nil {
		return
	}
	m.SocketsOpen.Dec()
}
