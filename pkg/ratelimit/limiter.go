package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// EndpointLimiter throttles outbound calls per upstream endpoint so a burst of
// listing refreshes cannot hammer the booking API.
type EndpointLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewEndpointLimiter(config Config) *EndpointLimiter {
	return &EndpointLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func (e *EndpointLimiter) limiter(endpoint string) *rate.Limiter {
	e.mu.RLock()
	lim, exists := e.limiters[endpoint]
	e.mu.RUnlock()

	if exists {
		return lim
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if lim, exists = e.limiters[endpoint]; exists {
		return lim
	}

	lim = rate.NewLimiter(rate.Limit(e.defaults.RequestsPerSecond), e.defaults.BurstSize)
	e.limiters[endpoint] = lim
	return lim
}

// SetEndpointLimit overrides the default rate for one endpoint.
func (e *EndpointLimiter) SetEndpointLimit(endpoint string, rps float64, burst int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.limiters[endpoint] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the endpoint's limiter admits a request or ctx is done.
func (e *EndpointLimiter) Wait(ctx context.Context, endpoint string) error {
	return e.limiter(endpoint).Wait(ctx)
}
