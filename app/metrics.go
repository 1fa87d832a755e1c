package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records fetch activity. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	fetches     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	joined      *prometheus.CounterVec
	cachedItems *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtside",
			Name:      "fetch_total",
			Help:      "Backend fetches by resource and outcome.",
		}, []string{"resource", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courtside",
			Name:      "fetch_duration_seconds",
			Help:      "Backend fetch latency by resource.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
		joined: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtside",
			Name:      "fetch_joined_total",
			Help:      "Callers that joined an in-flight fetch instead of starting one.",
		}, []string{"resource"}),
		cachedItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "courtside",
			Name:      "cached_items",
			Help:      "Items currently cached per resource.",
		}, []string{"resource"}),
	}
	if reg != nil {
		reg.MustRegister(m.fetches, m.duration, m.joined, m.cachedItems)
	}
	return m
}

func (m *Metrics) observeFetch(r Resource, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.fetches.WithLabelValues(string(r), outcome).Inc()
	m.duration.WithLabelValues(string(r)).Observe(elapsed.Seconds())
}

func (m *Metrics) observeJoin(r Resource) {
	if m == nil {
		return
	}
	m.joined.WithLabelValues(string(r)).Inc()
}

func (m *Metrics) setCached(r Resource, count int) {
	if m == nil {
		return
	}
	m.cachedItems.WithLabelValues(string(r)).Set(float64(count))
}
