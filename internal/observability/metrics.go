package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OpEncode = "encode"
	OpDecode = "decode"

	DirectionIn      = "in"
	DirectionOut     = "out"
	DirectionDropped = "dropped"
)

var (
	registerOnce sync.Once

	codecPackets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voxboxor",
			Subsystem: "codec",
			Name:      "packets_total",
			Help:      "Packets encoded or decoded, by kind and result.",
		},
		[]string{"op", "kind", "result"},
	)
	sessionPeers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "voxboxor",
			Subsystem: "session",
			Name:      "peers",
			Help:      "Peer ids currently assigned by the handshake server.",
		},
	)
	transportDatagrams = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voxboxor",
			Subsystem: "transport",
			Name:      "datagrams_total",
			Help:      "UDP datagrams received, sent or dropped.",
		},
		[]string{"direction"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voxboxor",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "voxboxor",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(codecPackets, sessionPeers, transportDatagrams, httpRequests, httpDuration)
	})
}

// RecordPacket counts one codec operation. kind is the packet key, or
// "unknown" when classification failed.
func RecordPacket(op, kind string, err error) {
	RegisterMetrics()
	result := "ok"
	if err != nil {
		result = "error"
	}
	codecPackets.WithLabelValues(op, kind, result).Inc()
}

func SetSessionPeers(n int) {
	RegisterMetrics()
	sessionPeers.Set(float64(n))
}

func RecordDatagram(direction string) {
	RegisterMetrics()
	transportDatagrams.WithLabelValues(direction).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
