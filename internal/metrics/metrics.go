package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the summarizer service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	Summaries         *prometheus.CounterVec
	CompletionLatency prometheus.Histogram
	Tokens            *prometheus.CounterVec
}

func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "summarizer_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),

		Summaries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "summarizer_summaries_total",
			Help: "Summarize calls by outcome",
		}, []string{"outcome"}),

		// Model calls routinely take tens of seconds.
		CompletionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "summarizer_completion_duration_seconds",
			Help:    "Wall-clock duration of model completion calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
		}),

		Tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "summarizer_tokens_total",
			Help: "Tokens reported by the model provider",
		}, []string{"kind"}),
	}
}

func (m *Metrics) RecordHTTPRequest(route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) RecordCompletion(duration time.Duration, outcome string, promptTokens, completionTokens int64) {
	if m == nil {
		return
	}
	m.Summaries.WithLabelValues(outcome).Inc()
	m.CompletionLatency.Observe(duration.Seconds())
	if promptTokens > 0 {
		m.Tokens.WithLabelValues("prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.Tokens.WithLabelValues("completion").Add(float64(completionTokens))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
