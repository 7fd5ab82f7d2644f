package openrouter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelayMonotonicAndCapped(t *testing.T) {
	t.Parallel()

	p := DefaultRetryPolicy()
	for _, r := range []float64{0, 0.5, 0.999} {
		prev := time.Duration(0)
		for attempt := 0; attempt < 10; attempt++ {
			d := backoffDelay(p, attempt, r)
			assert.GreaterOrEqual(t, d, prev, "attempt %d with r=%v", attempt, r)
			assert.LessOrEqual(t, d, p.MaxDelay)
			prev = d
		}
	}
}

func TestBackoffDelayValues(t *testing.T) {
	t.Parallel()

	p := DefaultRetryPolicy()
	assert.Equal(t, time.Second, backoffDelay(p, 0, 0))
	assert.Equal(t, 2*time.Second, backoffDelay(p, 1, 0))
	assert.Equal(t, 4*time.Second, backoffDelay(p, 2, 0))
	assert.Equal(t, 1300*time.Millisecond, backoffDelay(p, 0, 1))
	assert.Equal(t, 10*time.Second, backoffDelay(p, 4, 0), "16s is capped at 10s")
}

func TestBackoffStopsAfterMaxRetries(t *testing.T) {
	t.Parallel()

	p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	b := p.backoff(func() float64 { return 0 })

	var delays []time.Duration
	for {
		d, stop := b.Next()
		if stop {
			break
		}
		delays = append(delays, d)
	}
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, delays)
}

func TestIsRetryableStatus(t *testing.T) {
	t.Parallel()

	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsRetryableStatus(code), "%d", code)
	}
	for _, code := range []int{400, 401, 403, 404, 422, 501} {
		assert.False(t, IsRetryableStatus(code), "%d", code)
	}
}
