package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
)

type HTTPServerMetrics struct {
	service  string
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	detectionsTotal      *prometheus.CounterVec
	detectionDuration    *prometheus.HistogramVec
	cacheLookupsTotal    *prometheus.CounterVec
	rateLimitedTotal     *prometheus.CounterVec
	adapterFailuresTotal *prometheus.CounterVec
	fallbacksTotal       *prometheus.CounterVec
	batchSize            *prometheus.HistogramVec
	chatRepliesTotal     *prometheus.CounterVec
	summariesTotal       *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mmf",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mmf",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mmf",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	detectionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mmf",
			Subsystem: "emotion",
			Name:      "detections_total",
			Help:      "Total completed emotion detections by producing model.",
		},
		[]string{"service", "model_used"},
	)
	detectionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mmf",
			Subsystem: "emotion",
			Name:      "detection_duration_seconds",
			Help:      "Time spent resolving a single detection.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "model_used"},
	)
	cacheLookupsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mmf",
			Subsystem: "emotion",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by outcome.",
		},
		[]string{"service", "outcome"},
	)
	rateLimitedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mmf",
			Subsystem: "emotion",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		},
		[]string{"service"},
	)
	adapterFailuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mmf",
			Subsystem: "emotion",
			Name:      "adapter_failures_total",
			Help:      "External classifier failures by kind.",
		},
		[]string{"service", "kind"},
	)
	fallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mmf",
			Subsystem: "emotion",
			Name:      "fallbacks_total",
			Help:      "Detections answered by the rule-based fallback.",
		},
		[]string{"service"},
	)
	batchSize := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mmf",
			Subsystem: "emotion",
			Name:      "batch_size",
			Help:      "Distribution of texts per batch detection request.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 50},
		},
		[]string{"service"},
	)
	chatRepliesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mmf",
			Subsystem: "chat",
			Name:      "replies_total",
			Help:      "Total wellness chat replies by producing provider.",
		},
		[]string{"service", "provider"},
	)
	summariesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mmf",
			Subsystem: "summary",
			Name:      "requests_total",
			Help:      "Total summaries by producing path.",
		},
		[]string{"service", "path"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		detectionsTotal,
		detectionDuration,
		cacheLookupsTotal,
		rateLimitedTotal,
		adapterFailuresTotal,
		fallbacksTotal,
		batchSize,
		chatRepliesTotal,
		summariesTotal,
	)

	return &HTTPServerMetrics{
		service:              service,
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		detectionsTotal:      detectionsTotal,
		detectionDuration:    detectionDuration,
		cacheLookupsTotal:    cacheLookupsTotal,
		rateLimitedTotal:     rateLimitedTotal,
		adapterFailuresTotal: adapterFailuresTotal,
		fallbacksTotal:       fallbacksTotal,
		batchSize:            batchSize,
		chatRepliesTotal:     chatRepliesTotal,
		summariesTotal:       summariesTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			m.service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/message/"):
		return "/message/{type}/{emotion}"
	default:
		return path
	}
}

// The methods below implement the dispatch observer port.

func (m *HTTPServerMetrics) CacheHit() {
	m.cacheLookupsTotal.WithLabelValues(m.service, "hit").Inc()
}

func (m *HTTPServerMetrics) CacheMiss() {
	m.cacheLookupsTotal.WithLabelValues(m.service, "miss").Inc()
}

func (m *HTTPServerMetrics) RateLimited() {
	m.rateLimitedTotal.WithLabelValues(m.service).Inc()
}

func (m *HTTPServerMetrics) AdapterFailure(kind domain.AdapterFailureKind) {
	m.adapterFailuresTotal.WithLabelValues(m.service, string(kind)).Inc()
}

func (m *HTTPServerMetrics) Fallback() {
	m.fallbacksTotal.WithLabelValues(m.service).Inc()
}

func (m *HTTPServerMetrics) Detection(modelUsed string, elapsed time.Duration) {
	if modelUsed == "" {
		modelUsed = "unknown"
	}
	m.detectionsTotal.WithLabelValues(m.service, modelUsed).Inc()
	m.detectionDuration.WithLabelValues(m.service, modelUsed).Observe(elapsed.Seconds())
}

func (m *HTTPServerMetrics) RecordBatchSize(size int) {
	m.batchSize.WithLabelValues(m.service).Observe(float64(size))
}

func (m *HTTPServerMetrics) RecordChatReply(provider string) {
	if provider == "" {
		provider = "unknown"
	}
	m.chatRepliesTotal.WithLabelValues(m.service, provider).Inc()
}

func (m *HTTPServerMetrics) RecordSummary(path string) {
	if path == "" {
		path = "unknown"
	}
	m.summariesTotal.WithLabelValues(m.service, path).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
