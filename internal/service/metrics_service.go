package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation. It implements the
// partition store's Recorder interface and instruments HTTP and assembly.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	cacheHitRatio    prometheus.Gauge
	staleServes      prometheus.Counter
	fetchDuration    *prometheus.HistogramVec
	assemblyDuration prometheus.Observer
	budgetExhausted  prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers the collectors on a private registry.
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

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "partition_cache_hits_total",
		Help: "Partition resolves served from a fresh cache entry",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "partition_cache_misses_total",
		Help: "Partition resolves that had to fetch",
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "partition_cache_hit_ratio",
		Help: "Ratio of cache hits to total partition lookups",
	})

	staleServes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "partition_stale_serves_total",
		Help: "Resolves answered with an expired entry after a failed fetch",
	})

	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "partition_fetch_duration_seconds",
		Help:    "Duration of upstream partition fetches",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"success"})

	assemblyDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_assembly_duration_seconds",
		Help:    "Duration of schedule assembly runs",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	budgetExhausted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_assembly_budget_exhausted_total",
		Help: "Assembly runs that stopped at the node budget",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		cacheHitRatio, staleServes, fetchDuration, assemblyDuration, budgetExhausted, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		cacheHitRatio:    cacheHitRatio,
		staleServes:      staleServes,
		fetchDuration:    fetchDuration,
		assemblyDuration: assemblyDuration,
		budgetExhausted:  budgetExhausted,
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

// ObserveHTTPRequest records one handled request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordLookup implements cache.Recorder.
func (m *MetricsService) RecordLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// RecordStaleServe implements cache.Recorder.
func (m *MetricsService) RecordStaleServe() {
	if m == nil {
		return
	}
	m.staleServes.Inc()
}

// ObserveFetch implements cache.Recorder.
func (m *MetricsService) ObserveFetch(d time.Duration, success bool) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(strconv.FormatBool(success)).Observe(d.Seconds())
}

// ObserveAssembly records one assembly run.
func (m *MetricsService) ObserveAssembly(d time.Duration, partial bool) {
	if m == nil {
		return
	}
	m.assemblyDuration.Observe(d.Seconds())
	if partial {
		m.budgetExhausted.Inc()
	}
}
