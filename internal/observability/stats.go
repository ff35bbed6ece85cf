package observability

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type StatsSnapshot struct {
	PagesFetched      uint64            `json:"pages_fetched"`
	JobsProcessed     uint64            `json:"jobs_processed"`
	CacheHits         uint64            `json:"cache_hits"`
	ErrorsTotal       uint64            `json:"errors_total"`
	FetchSecondsAvg   float64           `json:"fetch_seconds_avg"`
	Resolutions       map[string]uint64 `json:"resolutions,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	pagesFetched  uint64
	jobsProcessed uint64
	cacheHits     uint64
	errorsTotal   uint64

	fetchCount uint64
	fetchNanos uint64

	statsMu           sync.Mutex
	resolutions       = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

var (
	registry = prometheus.NewRegistry()

	pagesFetchedVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobscout",
		Name:      "pages_fetched_total",
		Help:      "Pages and API documents fetched successfully.",
	}, []string{"component"})

	jobsProcessedVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobscout",
		Name:      "jobs_processed_total",
		Help:      "Job postings processed by an operation.",
	}, []string{"operation"})

	cacheHitsVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobscout",
		Name:      "cache_hits_total",
		Help:      "Company lookups answered from the store.",
	}, []string{"kind"})

	resolutionsVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobscout",
		Name:      "company_resolutions_total",
		Help:      "Company slug resolutions by outcome.",
	}, []string{"result"})

	errorsVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobscout",
		Name:      "errors_total",
		Help:      "Errors by type and component.",
	}, []string{"type", "component"})

	fetchSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jobscout",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of upstream fetches.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"component"})

	registerOnce sync.Once
)

// RegisterMetrics registers the collectors once; later calls are no-ops.
func RegisterMetrics() {
	registerOnce.Do(func() {
		registry.MustRegister(
			pagesFetchedVec,
			jobsProcessedVec,
			cacheHitsVec,
			resolutionsVec,
			errorsVec,
			fetchSeconds,
		)
	})
}

// MetricsHandler serves the registered collectors in the Prometheus text format.
func MetricsHandler() http.Handler {
	RegisterMetrics()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func IncPagesFetched(component string) {
	atomic.AddUint64(&pagesFetched, 1)
	pagesFetchedVec.WithLabelValues(orUnknown(component)).Inc()
}

func AddJobsProcessed(operation string, n int) {
	if n <= 0 {
		return
	}
	atomic.AddUint64(&jobsProcessed, uint64(n))
	jobsProcessedVec.WithLabelValues(orUnknown(operation)).Add(float64(n))
}

func IncCacheHit(kind string) {
	atomic.AddUint64(&cacheHits, 1)
	cacheHitsVec.WithLabelValues(orUnknown(kind)).Inc()
}

func IncResolution(result string) {
	result = orUnknown(result)
	statsMu.Lock()
	resolutions[result]++
	statsMu.Unlock()
	resolutionsVec.WithLabelValues(result).Inc()
}

func ObserveFetchDuration(component string, seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&fetchCount, 1)
	atomic.AddUint64(&fetchNanos, uint64(seconds*1e9))
	fetchSeconds.WithLabelValues(orUnknown(component)).Observe(seconds)
}

func IncError(errType, component string) {
	errType = orUnknown(errType)
	component = orUnknown(component)
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
	errorsVec.WithLabelValues(errType, component).Inc()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	resolutionsCopy := copyMap(resolutions)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&fetchCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&fetchNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		PagesFetched:      atomic.LoadUint64(&pagesFetched),
		JobsProcessed:     atomic.LoadUint64(&jobsProcessed),
		CacheHits:         atomic.LoadUint64(&cacheHits),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		FetchSecondsAvg:   avg,
		Resolutions:       resolutionsCopy,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
