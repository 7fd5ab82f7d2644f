package generation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scry_generations_total",
			Help: "Total number of generation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	generationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scry_generation_duration_seconds",
			Help:    "Histogram of model phase durations.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		},
	)

	proposalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scry_generation_proposals_total",
			Help: "Total number of flashcard proposals returned to users.",
		},
	)
)

// Outcome labels.
const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeTimeout   = "timeout"
)

func observeGeneration(outcome string, elapsed time.Duration, proposals int) {
	generationsTotal.WithLabelValues(outcome).Inc()
	generationDuration.Observe(elapsed.Seconds())
	if proposals > 0 {
		proposalsTotal.Add(float64(proposals))
	}
}
