package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector tracks the gateway's call/frame/BER counters, both for
// in-process callers (pkg/web's dashboard) and as real Prometheus
// instrumentation registered against a prometheus.Registry.
type Collector struct {
	mu sync.RWMutex

	activeCalls map[uint32]bool

	framesReceived map[string]uint64 // key: protocol
	framesSent     map[string]uint64
	callsTotal     map[string]uint64
	berSum         map[string]float64
	berCount       map[string]uint64

	callsActiveGauge    prometheus.Gauge
	framesReceivedTotal *prometheus.CounterVec
	framesSentTotal     *prometheus.CounterVec
	callsTotalVec       *prometheus.CounterVec
	berGauge            *prometheus.GaugeVec
}

// NewCollector creates a metrics collector and registers its
// Prometheus collectors against reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		activeCalls:    make(map[uint32]bool),
		framesReceived: make(map[string]uint64),
		framesSent:     make(map[string]uint64),
		callsTotal:     make(map[string]uint64),
		berSum:         make(map[string]float64),
		berCount:       make(map[string]uint64),

		callsActiveGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dvmhost_calls_active",
			Help: "Number of currently active voice calls across all protocols.",
		}),
		framesReceivedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dvmhost_frames_received_total",
			Help: "Total frames received from the RF/modem side, by protocol.",
		}, []string{"protocol"}),
		framesSentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dvmhost_frames_sent_total",
			Help: "Total frames sent to the IP network side, by protocol.",
		}, []string{"protocol"}),
		callsTotalVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dvmhost_calls_total",
			Help: "Total voice calls started, by protocol.",
		}, []string{"protocol"}),
		berGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dvmhost_call_ber_percent",
			Help: "Most recent bit error rate observed per protocol, as a percentage.",
		}, []string{"protocol"}),
	}

	if reg != nil {
		reg.MustRegister(c.callsActiveGauge, c.framesReceivedTotal, c.framesSentTotal, c.callsTotalVec, c.berGauge)
	}

	return c
}

// CallStarted records a new active call on the given protocol.
func (c *Collector) CallStarted(protocol string, callID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.activeCalls[callID] = true
	c.callsTotal[protocol]++
	c.callsTotalVec.WithLabelValues(protocol).Inc()
	c.callsActiveGauge.Set(float64(len(c.activeCalls)))
}

// CallEnded records a call ending.
func (c *Collector) CallEnded(callID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.activeCalls, callID)
	c.callsActiveGauge.Set(float64(len(c.activeCalls)))
}

// FrameReceived records a frame received from the RF/modem side.
func (c *Collector) FrameReceived(protocol string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.framesReceived[protocol]++
	c.framesReceivedTotal.WithLabelValues(protocol).Inc()
}

// FrameSent records a frame sent to the IP network side.
func (c *Collector) FrameSent(protocol string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.framesSent[protocol]++
	c.framesSentTotal.WithLabelValues(protocol).Inc()
}

// BERObserved records the most recent bit error rate for a protocol.
func (c *Collector) BERObserved(protocol string, ber float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.berSum[protocol] += ber
	c.berCount[protocol]++
	c.berGauge.WithLabelValues(protocol).Set(ber)
}

// GetActiveCalls returns the number of currently active calls.
func (c *Collector) GetActiveCalls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.activeCalls)
}

// GetCallsTotal returns the total calls started for a protocol.
func (c *Collector) GetCallsTotal(protocol string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.callsTotal[protocol]
}

// GetFramesReceived returns total frames received for a protocol.
func (c *Collector) GetFramesReceived(protocol string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.framesReceived[protocol]
}

// GetFramesSent returns total frames sent for a protocol.
func (c *Collector) GetFramesSent(protocol string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.framesSent[protocol]
}

// GetAverageBER returns the mean BER observed so far for a protocol.
func (c *Collector) GetAverageBER(protocol string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.berCount[protocol] == 0 {
		return 0
	}
	return c.berSum[protocol] / float64(c.berCount[protocol])
}

// Reset clears in-flight state (active calls), useful for testing. The
// cumulative counters, like the Prometheus metrics they back, are left
// alone.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.activeCalls = make(map[uint32]bool)
	c.callsActiveGauge.Set(0)
}
