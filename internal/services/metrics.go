package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// WebSocket metrics
	WebSocketConnections prometheus.Gauge
	WebSocketMessages    *prometheus.CounterVec

	// Turn metrics
	TurnsStarted  prometheus.Counter
	TurnsFinished *prometheus.CounterVec
	TurnLatency   prometheus.Histogram
	RelayChunks   prometheus.Counter
	RelayFlushes  prometheus.Counter
}

var globalMetrics *Metrics

// InitMetrics registers the Prometheus metrics. Call once at startup.
func InitMetrics(connManager *ConnectionManager, sessions *SessionStore) *Metrics {
	metrics := &Metrics{
		WebSocketConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "agentdesk_websocket_connections_active",
			Help: "Number of active WebSocket connections",
		}),

		WebSocketMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentdesk_websocket_messages_total",
			Help: "Total number of WebSocket messages by type",
		}, []string{"type", "direction"}), // direction: "inbound" or "outbound"

		TurnsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agentdesk_turns_started_total",
			Help: "Total number of generation turns started",
		}),

		// status: completed, failed, cancelled
		TurnsFinished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agentdesk_turns_finished_total",
			Help: "Total number of generation turns by final status",
		}, []string{"status"}),

		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agentdesk_turn_duration_seconds",
			Help:    "Generation turn latency in seconds",
			Buckets: []float64{0.5, 1, 2, 3, 5, 10, 30, 60, 120},
		}),

		RelayChunks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agentdesk_relay_chunks_total",
			Help: "Total number of text chunks received from the model",
		}),

		RelayFlushes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agentdesk_relay_flushes_total",
			Help: "Total number of batched content flushes",
		}),
	}

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "agentdesk_websocket_connections_current",
			Help: "Current number of active WebSocket connections (from connection manager)",
		},
		func() float64 {
			if connManager != nil {
				return float64(connManager.Count())
			}
			return 0
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "agentdesk_sessions_current",
			Help: "Number of chat sessions held in memory",
		},
		func() float64 {
			if sessions != nil {
				return float64(sessions.Count())
			}
			return 0
		},
	))

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance, nil before InitMetrics
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordWebSocketConnect records a new WebSocket connection
func (m *Metrics) RecordWebSocketConnect() {
	m.WebSocketConnections.Inc()
}

// RecordWebSocketDisconnect records a WebSocket disconnection
func (m *Metrics) RecordWebSocketDisconnect() {
	m.WebSocketConnections.Dec()
}

// RecordWebSocketMessage records a WebSocket message
func (m *Metrics) RecordWebSocketMessage(msgType, direction string) {
	m.WebSocketMessages.WithLabelValues(msgType, direction).Inc()
}

// RecordTurnStarted records a new generation turn
func (m *Metrics) RecordTurnStarted() {
	m.TurnsStarted.Inc()
}

// RecordTurnFinished records how a turn ended and how long it ran
func (m *Metrics) RecordTurnFinished(status string, seconds float64, chunks int) {
	m.TurnsFinished.WithLabelValues(status).Inc()
	m.TurnLatency.Observe(seconds)
	m.RelayChunks.Add(float64(chunks))
}

// RecordFlush records one batched flush
func (m *Metrics) RecordFlush() {
	m.RelayFlushes.Inc()
}
