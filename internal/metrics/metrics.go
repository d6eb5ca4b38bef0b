// Package metrics ledger ve HTTP katmanının Prometheus metrikleri.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Award sonuçları
const (
	OutcomeApplied  = "applied"
	OutcomeReplayed = "replayed"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics servislerin kullandığı collector'lar
type Metrics struct {
	awards        *prometheus.CounterVec
	awardDuration prometheus.Histogram
	ruleCache     *prometheus.CounterVec
	starsPayments *prometheus.CounterVec
	notifications *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New collector'ları verilen registry'ye kaydeder
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		awards: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "art_awards_total",
			Help: "Award calls by rule code and outcome.",
		}, []string{"rule_code", "outcome"}),
		awardDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "art_award_duration_seconds",
			Help:    "Award latency including the balance lock wait.",
			Buckets: prometheus.DefBuckets,
		}),
		ruleCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "art_rule_cache_total",
			Help: "Rule cache lookups by result.",
		}, []string{"result"}),
		starsPayments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "art_stars_payments_total",
			Help: "Stars webhook payments by outcome.",
		}, []string{"outcome"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "art_notifications_total",
			Help: "Bot notifications by outcome.",
		}, []string{"outcome"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		gatherer: reg,
	}
}

// NewNoop test ve CLI için kendi registry'si olan Metrics
func NewNoop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) ObserveAward(ruleCode, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.awards.WithLabelValues(ruleCode, outcome).Inc()
	m.awardDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) RuleCacheHit() {
	if m != nil {
		m.ruleCache.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) RuleCacheMiss() {
	if m != nil {
		m.ruleCache.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) StarsPayment(outcome string) {
	if m != nil {
		m.starsPayments.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Notification(outcome string) {
	if m != nil {
		m.notifications.WithLabelValues(outcome).Inc()
	}
}

// ObserveHTTP tamamlanan bir isteği kaydeder
func (m *Metrics) ObserveHTTP(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Metrics) InFlight(delta float64) {
	if m != nil {
		m.httpInFlight.Add(delta)
	}
}

// Handler /metrics endpoint'i
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
