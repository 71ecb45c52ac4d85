// Package metrics exposes Prometheus instruments for letter rendering and dispatch.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "letterpress"

// Metrics holds the service instruments. The zero value is not usable; a nil
// *Metrics is a valid no-op recorder.
type Metrics struct {
	renders  *prometheus.CounterVec
	phases   *prometheus.HistogramVec
	dispatch *prometheus.CounterVec
}

// New registers the instruments with reg. Passing nil uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		// Labels:
		// - template: "app/template/v1"
		// - result:   "ok" or an error class
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_total",
			Help:      "Number of letters rendered to PDF",
		}, []string{"template", "result"}),

		// Labels:
		// - phase: "build", "render", "convert", "send", "store", "archive"
		phases: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_seconds",
			Help:      "Duration of each dispatch phase",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),

		// Labels:
		// - operation: "send" or "fetch"
		// - result:    "ok" or an error class
		dispatch: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Number of dispatch operations",
		}, []string{"operation", "result"}),
	}
}

// ObserveRender counts one rendered letter.
func (m *Metrics) ObserveRender(template, result string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(orUnknown(template), orUnknown(result)).Inc()
}

// ObservePhase records how long a dispatch phase took.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.phases.WithLabelValues(orUnknown(phase)).Observe(d.Seconds())
}

// ObserveDispatch counts one dispatch operation.
func (m *Metrics) ObserveDispatch(operation, result string) {
	if m == nil {
		return
	}
	m.dispatch.WithLabelValues(orUnknown(operation), orUnknown(result)).Inc()
}

// Handler serves the metrics gathered by g. Passing nil uses the default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
