package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics owns a private registry so several Apps (tests) never collide.
type metrics struct {
	registry         *prometheus.Registry
	reportsGenerated *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		reportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forestreport",
			Name:      "reports_generated_total",
			Help:      "Reports computed and appended to the report log.",
		}, []string{"type"}),
		upstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forestreport",
			Name:      "upstream_failures_total",
			Help:      "Failed fetches of an inventory collection.",
		}, []string{"collection"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "forestreport",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(
		m.reportsGenerated,
		m.upstreamFailures,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
