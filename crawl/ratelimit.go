package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/invitecrawl"
	"golang.org/x/time/rate"
)

var _ invitecrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter enforces a minimum delay between requests to the same
// domain. Requests to different domains proceed independently.
// The spacing is approximate; bursts are limited to one request.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter spacing same-domain requests by
// delay. A delay of zero or less disables limiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until a request to the domain is allowed.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.limit == rate.Inf {
		return ctx.Err()
	}

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
