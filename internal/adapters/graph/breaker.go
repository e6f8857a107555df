package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/okian/clubstats/internal/domain/query"
	"github.com/okian/clubstats/pkg/logger"
	"github.com/okian/clubstats/pkg/metrics"
)

const (
	defaultMaxFailures  = 5
	defaultOpenTimeout  = 30 * time.Second
	breakerName         = "graph"
	halfOpenMaxRequests = 1
)

// Breaker guards a Runner with a circuit breaker. Caller cancellations do
// not count as failures.
type Breaker struct {
	next        Runner
	cb          *gobreaker.CircuitBreaker
	maxFailures uint32
	timeout     time.Duration
	log         logger.Logger
}

// NewBreaker wraps next.
func NewBreaker(next Runner, opts ...BreakerOption) *Breaker {
	b := &Breaker{
		next:        next,
		maxFailures: defaultMaxFailures,
		timeout:     defaultOpenTimeout,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: halfOpenMaxRequests,
		Timeout:     b.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= b.maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(int(to))
			b.log.Warn(context.Background(), "circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	metrics.UpdateBreakerState(int(gobreaker.StateClosed))
	return b
}

// Run executes q unless the circuit is open.
func (b *Breaker) Run(ctx context.Context, q query.Query) ([]query.Row, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Run(ctx, q)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrBreakerOpen, err)
	}
	if err != nil {
		return nil, err
	}
	rows, _ := out.([]query.Row)
	return rows, nil
}

// State reports the current circuit state: "closed", "half-open" or "open".
func (b *Breaker) State() string {
	return b.cb.State().String()
}
