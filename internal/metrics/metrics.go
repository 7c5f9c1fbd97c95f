package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizda_http_requests_total",
			Help: "Number of HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizda_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizda_auth_failures_total",
			Help: "Rejected authentication attempts by reason.",
		},
		[]string{"reason"},
	)

	TokensIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizda_tokens_issued_total",
			Help: "Tokens minted by kind (access, refresh).",
		},
		[]string{"kind"},
	)

	RateLimitRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizda_rate_limit_rejected_total",
			Help: "Requests rejected by the rate limiter.",
		},
	)
)
