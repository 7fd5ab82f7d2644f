package openrouter

import (
	"math"
	"time"

	"github.com/sethvargo/go-retry"
)

// jitterFactor scales the random extra delay added to each backoff step.
const jitterFactor = 0.3

// RetryPolicy bounds how often and how patiently a request is retried.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryPolicy returns 3 retries starting at 1s and capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}
}

// backoffDelay returns the wait before retry number attempt (0-based):
// base*2^attempt plus up to 30% jitter, capped at MaxDelay. r is a random
// value in [0, 1).
func backoffDelay(p RetryPolicy, attempt int, r float64) time.Duration {
	exp := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
	d := exp + r*jitterFactor*exp
	if d >= float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(d)
}

// backoff returns a fresh go-retry schedule for one request. The schedule is
// stateful and must not be shared between requests.
func (p RetryPolicy) backoff(rnd func() float64) retry.Backoff {
	attempt := 0
	next := retry.BackoffFunc(func() (time.Duration, bool) {
		d := backoffDelay(p, attempt, rnd())
		attempt++
		return d, false
	})
	return retry.WithMaxRetries(uint64(p.MaxRetries), next)
}
