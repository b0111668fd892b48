package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ConnectRequests counts connect and disconnect requests received
	// over the HTTP API.
	ConnectRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifitrack",
			Name:      "connect_requests_total",
			Help:      "Total number of connect/disconnect requests",
		},
		[]string{"action"},
	)

	// ConnectResults counts connect outcomes by status.
	ConnectResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifitrack",
			Name:      "connect_results_total",
			Help:      "Total number of connect results by status",
		},
		[]string{"status"},
	)

	// WSClients tracks connected websocket clients.
	WSClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "wifitrack",
			Name:      "ws_clients",
			Help:      "Number of connected websocket clients",
		},
	)

	// WSMessagesDropped counts websocket broadcasts dropped because a
	// client's send buffer was full.
	WSMessagesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wifitrack",
			Name:      "ws_messages_dropped_total",
			Help:      "Total number of websocket messages dropped",
		},
	)

	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// Idempotent; safe to call more than once.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(ConnectRequests)
		prometheus.DefaultRegisterer.Register(ConnectResults)
		prometheus.DefaultRegisterer.Register(WSClients)
		prometheus.DefaultRegisterer.Register(WSMessagesDropped)
	})
}
