package graph

import (
	"time"

	"github.com/okian/clubstats/pkg/logger"
)

// Option configures an Executor.
type Option func(*Executor)

// WithDatabase selects the database queries run against.
func WithDatabase(name string) Option {
	return func(e *Executor) {
		if name != "" {
			e.database = name
		}
	}
}

// WithLogger sets the executor logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// BreakerOption configures a Breaker.
type BreakerOption func(*Breaker)

// WithMaxFailures sets the consecutive failures that open the circuit.
func WithMaxFailures(n int) BreakerOption {
	return func(b *Breaker) {
		if n > 0 {
			b.maxFailures = uint32(n)
		}
	}
}

// WithOpenTimeout sets how long the circuit stays open before probing.
func WithOpenTimeout(d time.Duration) BreakerOption {
	return func(b *Breaker) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithBreakerLogger sets the breaker logger.
func WithBreakerLogger(l logger.Logger) BreakerOption {
	return func(b *Breaker) {
		if l != nil {
			b.log = l
		}
	}
}
