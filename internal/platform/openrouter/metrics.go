package openrouter

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sashabaranov/go-openai"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scry_openrouter_requests_total",
			Help: "Total number of HTTP attempts against the chat-completions endpoint.",
		},
		[]string{"model", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scry_openrouter_request_duration_seconds",
			Help:    "Histogram of chat-completions attempt durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	tokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scry_openrouter_tokens_total",
			Help: "Tokens reported by the chat-completions endpoint.",
		},
		[]string{"model", "kind"},
	)
)

// observeAttempt records one HTTP attempt. status is the HTTP code, or
// timeout, network, canceled or malformed when no usable reply arrived.
func observeAttempt(model, status string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(model, status).Inc()
	requestDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}

func observeUsage(model string, u openai.Usage) {
	tokensTotal.WithLabelValues(model, "prompt").Add(float64(u.PromptTokens))
	tokensTotal.WithLabelValues(model, "completion").Add(float64(u.CompletionTokens))
}

func statusLabel(code int) string {
	return strconv.Itoa(code)
}
