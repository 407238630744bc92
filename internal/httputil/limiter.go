// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter spaces outgoing requests to stay under a per-second ceiling.
// A nil *Limiter never blocks.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter returns a Limiter allowing rps requests per second with no
// burst beyond a single request. A non-positive rps disables limiting.
func NewLimiter(rps float64) *Limiter {
	if rps <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the next request may be sent or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Limit returns the configured rate in requests per second.
func (l *Limiter) Limit() float64 {
	if l == nil || l.limiter == nil {
		return float64(rate.Inf)
	}
	return float64(l.limiter.Limit())
}
