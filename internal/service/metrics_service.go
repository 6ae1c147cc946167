package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic and the record store.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	storeDuration    *prometheus.HistogramVec
	recordsTotal     prometheus.Gauge
	attachmentsBytes prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "record_store_duration_seconds",
		Help:    "Duration of record store load/save operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "result"})

	recordsTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "records_total",
		Help: "Number of records in the store after the last load or save",
	})

	attachmentsBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attachments_stored_bytes_total",
		Help: "Total bytes of attachments written to disk",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storeDuration, recordsTotal, attachmentsBytes, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		storeDuration:    storeDuration,
		recordsTotal:     recordsTotal,
		attachmentsBytes: attachmentsBytes,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveStoreOperation records one load or save against the record store.
func (m *MetricsService) ObserveStoreOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
}

// SetRecordCount publishes the current collection size.
func (m *MetricsService) SetRecordCount(n int) {
	if m == nil {
		return
	}
	m.recordsTotal.Set(float64(n))
}

// AddAttachmentBytes accounts for a stored upload.
func (m *MetricsService) AddAttachmentBytes(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.attachmentsBytes.Add(float64(n))
}
