package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rasterctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rasterctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	commandsDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rasterctl",
			Subsystem: "decoder",
			Name:      "commands_total",
			Help:      "Commands decoded successfully, by transport and opcode.",
		},
		[]string{"transport", "opcode"},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rasterctl",
			Subsystem: "decoder",
			Name:      "errors_total",
			Help:      "Buffers rejected by the decoder, by transport and reason.",
		},
		[]string{"transport", "reason"},
	)
	renderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rasterctl",
			Subsystem: "render",
			Name:      "errors_total",
			Help:      "Decoded commands the render backend failed to apply.",
		},
		[]string{"opcode"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, commandsDecoded, decodeErrors, renderErrors)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordCommand(transport, opcode string) {
	RegisterMetrics()
	commandsDecoded.WithLabelValues(transport, opcode).Inc()
}

func RecordDecodeError(transport, reason string) {
	RegisterMetrics()
	decodeErrors.WithLabelValues(transport, reason).Inc()
}

func RecordRenderError(opcode string) {
	RegisterMetrics()
	renderErrors.WithLabelValues(opcode).Inc()
}
