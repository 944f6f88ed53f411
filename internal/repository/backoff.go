package repository

import (
	"math"
	"time"
)

// BackoffPolicy spaces recovery probes against a failed primary store. The
// wait grows by Factor after every failed probe and is clamped to Max.
type BackoffPolicy struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
}

// DefaultBackoff probes quickly at first, then settles at a few minutes.
var DefaultBackoff = BackoffPolicy{
	Initial: 15 * time.Second,
	Max:     5 * time.Minute,
	Factor:  2,
}

// Delay returns the wait before probe attempt n (1-based). A zero-value
// policy falls back to one-second doubling.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	initial := p.Initial
	if initial <= 0 {
		initial = time.Second
	}
	factor := p.Factor
	if factor <= 0 {
		factor = 2
	}

	d := time.Duration(float64(initial) * math.Pow(factor, float64(attempt-1)))
	if p.Max > 0 && d > p.Max {
		d = p.Max
	}
	if d <= 0 {
		d = initial
	}
	return d
}
