package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "playervalue"

// Page kinds passed to RecordPageLoad.
const (
	PageSearch = "search"
	PageDetail = "detail"
)

// Recorder owns the counters and histograms for one process.
type Recorder struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	duration    prometheus.Histogram
	pageLoads   *prometheus.CounterVec
	cacheLookup *prometheus.CounterVec
	consent     prometheus.Counter
}

// NewRecorder builds a recorder backed by a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Player resolutions by outcome status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolution_duration_seconds",
			Help:      "Wall time spent resolving one player.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}),
		pageLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_loads_total",
			Help:      "Browser page loads by page kind and result.",
		}, []string{"kind", "result"}),
		cacheLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result.",
		}, []string{"result"}),
		consent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consent_dismissals_total",
			Help:      "Consent overlay dismissal attempts.",
		}),
	}
	r.registry.MustRegister(r.resolutions, r.duration, r.pageLoads, r.cacheLookup, r.consent)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordResolution counts one finished player and observes its duration.
func (r *Recorder) RecordResolution(status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(status).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// RecordPageLoad counts a navigation of the given kind.
func (r *Recorder) RecordPageLoad(kind string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.pageLoads.WithLabelValues(kind, result).Inc()
}

// RecordCacheLookup counts a cache read as a hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookup.WithLabelValues(result).Inc()
}

// RecordConsentDismissal counts one attempt to clear the consent overlay.
func (r *Recorder) RecordConsentDismissal() {
	if r == nil {
		return
	}
	r.consent.Inc()
}

// WriteTextfile writes the registry in text exposition format to path.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
