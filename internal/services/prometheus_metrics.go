package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	accountsCreated           *prometheus.CounterVec
	accountNumberCollisions   *prometheus.CounterVec
	fundingTotal              *prometheus.CounterVec
	fundingDuration           prometheus.Histogram
	fundingAmount             prometheus.Histogram
	activeAccountsTotal       prometheus.Gauge
	authenticationEventsTotal *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		accountsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_created_total",
				Help: "Total number of accounts created",
			},
			[]string{"account_type"},
		),
		accountNumberCollisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_number_collisions_total",
				Help: "Total number of account number collisions during issuance",
			},
			[]string{"account_type"},
		),
		fundingTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funding_operations_total",
				Help: "Total number of funding operations by source and status",
			},
			[]string{"source_type", "status"},
		),
		fundingDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "funding_duration_milliseconds",
				Help:    "Funding operation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		fundingAmount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "funding_amount",
				Help:    "Funding amount in base currency units",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
		),
		activeAccountsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_accounts_total",
				Help: "Current number of active accounts",
			},
		),
		authenticationEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "accounts_created":
		m.accountsCreated.WithLabelValues(tags["account_type"]).Inc()
	case "account_number_collisions":
		m.accountNumberCollisions.WithLabelValues(tags["account_type"]).Inc()
	case "funding_completed":
		m.fundingTotal.WithLabelValues(tags["source_type"], "completed").Inc()
	case "funding_failures":
		m.fundingTotal.WithLabelValues(tags["source_type"], "failed").Inc()
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "funding":
		m.fundingDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "funding_amount":
		m.fundingAmount.Observe(value)
	case "active_accounts":
		m.activeAccountsTotal.Set(value)
	}
}
