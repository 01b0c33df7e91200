// Package metrics holds the Prometheus collectors for the relay and the
// parse pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Parse outcomes recorded by ObserveParse
const (
	OutcomeOK          = "ok"
	OutcomeNoDates     = "no_dates"
	OutcomeFetchFailed = "fetch_failed"
	OutcomeStale       = "stale"
)

// Metrics groups every collector on its own registry
type Metrics struct {
	registry *prometheus.Registry

	relayRequests    *prometheus.CounterVec
	upstreamDuration prometheus.Histogram
	parses           *prometheus.CounterVec
	calendarOutputs  *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.relayRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "add2cal",
		Subsystem: "relay",
		Name:      "requests_total",
		Help:      "Relay requests by response code",
	}, []string{"code"})
	m.upstreamDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "add2cal",
		Subsystem: "relay",
		Name:      "upstream_duration_seconds",
		Help:      "Time spent fetching event pages upstream",
		Buckets:   prometheus.DefBuckets,
	})
	m.parses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "add2cal",
		Name:      "parses_total",
		Help:      "Event page parses by outcome",
	}, []string{"outcome"})
	m.calendarOutputs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "add2cal",
		Name:      "calendar_outputs_total",
		Help:      "Calendar links and files produced by kind",
	}, []string{"kind"})

	m.registry.MustRegister(
		m.relayRequests,
		m.upstreamDuration,
		m.parses,
		m.calendarOutputs,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRelay counts one relay response
func (m *Metrics) ObserveRelay(code int) {
	if m == nil {
		return
	}
	m.relayRequests.WithLabelValues(strconv.Itoa(code)).Inc()
}

// ObserveUpstream records how long an upstream page fetch took
func (m *Metrics) ObserveUpstream(d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.Observe(d.Seconds())
}

// ObserveParse counts one pipeline run
func (m *Metrics) ObserveParse(outcome string) {
	if m == nil {
		return
	}
	m.parses.WithLabelValues(outcome).Inc()
}

// ObserveCalendar counts one emitted link or file ("google", "android", "ics")
func (m *Metrics) ObserveCalendar(kind string) {
	if m == nil {
		return
	}
	m.calendarOutputs.WithLabelValues(kind).Inc()
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
