package ingest

import (
	"context"
	"sync"

	"github.com/fwojciec/docqa"
	"golang.org/x/time/rate"
)

var _ docqa.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests per host. Hosts are limited
// independently, each with a token bucket of burst 1.
type DomainLimiter struct {
	limit rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter allows rps requests per second to each host. A rate of
// zero or less turns Wait into a context check.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limit: rate.Limit(rps),
		hosts: map[string]*rate.Limiter{},
	}
}

// Wait blocks until host may be requested again or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.limit <= 0 {
		return ctx.Err()
	}
	return d.bucket(host).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.hosts[host]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.hosts[host] = l
	}
	return l
}
