package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "odense_concerts"

// Thumbnail results
const (
	ThumbnailCreated = "created"
	ThumbnailCached  = "cached"
	ThumbnailFailed  = "failed"
)

// Recorder holds the metrics of one run. A nil Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry

	fetched        *prometheus.GaugeVec
	sourceErrors   *prometheus.CounterVec
	sourceDuration *prometheus.GaugeVec
	total          prometheus.Gauge
	thumbnails     *prometheus.CounterVec
	lastRun        prometheus.Gauge
}

// New creates a Recorder with its own registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
	}

	r.fetched = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "concerts_fetched",
		Help:      "Concerts returned by each source in the last run",
	}, []string{"source"})
	r.sourceErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_errors_total",
		Help:      "Source fetches that failed",
	}, []string{"source"})
	r.sourceDuration = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "source_duration_seconds",
		Help:      "Time spent fetching each source in the last run",
	}, []string{"source"})
	r.total = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "concerts_total",
		Help:      "Concerts in the aggregated list",
	})
	r.thumbnails = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "thumbnails_total",
		Help:      "Thumbnails by result (created, cached, failed)",
	}, []string{"result"})
	r.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed run",
	})

	r.registry.MustRegister(
		r.fetched, r.sourceErrors, r.sourceDuration,
		r.total, r.thumbnails, r.lastRun,
	)
	return r
}

// SourceDone records the outcome of fetching one source
func (r *Recorder) SourceDone(source string, count int, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.sourceDuration.WithLabelValues(source).Set(elapsed.Seconds())
	if err != nil {
		r.sourceErrors.WithLabelValues(source).Inc()
		r.fetched.WithLabelValues(source).Set(0)
		return
	}
	r.fetched.WithLabelValues(source).Set(float64(count))
}

// Concerts records the size of the aggregated list
func (r *Recorder) Concerts(n int) {
	if r == nil {
		return
	}
	r.total.Set(float64(n))
}

// Thumbnail counts one thumbnail result
func (r *Recorder) Thumbnail(result string) {
	if r == nil {
		return
	}
	r.thumbnails.WithLabelValues(result).Inc()
}

// RunFinished stamps the completion time of the run
func (r *Recorder) RunFinished(t time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(t.Unix()))
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry for node_exporter's textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
