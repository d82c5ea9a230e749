// Package metrics declares the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "safehaven"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route template and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route template.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		},
	)

	completionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_requests_total",
			Help:      "Completion API calls by outcome (ok, error).",
		},
		[]string{"outcome"},
	)

	completionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_request_duration_seconds",
			Help:      "Completion API latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
	)

	chatSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chat_sessions_active",
			Help:      "Chat sessions currently held in memory.",
		},
	)

	chatSessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_sessions_evicted_total",
			Help:      "Chat sessions dropped by capacity or idle expiry.",
		},
	)

	videoLinksSuggested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_video_links_total",
			Help:      "YouTube links found in assistant replies, split by whitelist membership.",
		},
		[]string{"whitelisted"},
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the per-user rate limiter.",
		},
		[]string{"path"},
	)

	authFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Rejected logins and bearer tokens by reason.",
		},
		[]string{"reason"},
	)
)

func RecordHTTPRequest(method, path, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func IncInFlight() { httpInFlight.Inc() }
func DecInFlight() { httpInFlight.Dec() }

// RecordCompletion observes one completion API call.
func RecordCompletion(d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	completionRequestsTotal.WithLabelValues(outcome).Inc()
	completionDuration.Observe(d.Seconds())
}

func SetActiveSessions(n int) { chatSessionsActive.Set(float64(n)) }
func IncSessionsEvicted()     { chatSessionsEvicted.Inc() }

func RecordVideoLink(whitelisted bool) {
	label := "false"
	if whitelisted {
		label = "true"
	}
	videoLinksSuggested.WithLabelValues(label).Inc()
}

func IncRateLimited(path string)   { rateLimitedTotal.WithLabelValues(path).Inc() }
func IncAuthFailure(reason string) { authFailuresTotal.WithLabelValues(reason).Inc() }
