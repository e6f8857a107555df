package resolver

import (
	"github.com/okian/clubstats/pkg/logger"
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithCache replaces the default in-memory corpus cache.
func WithCache(c CorpusCache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithThreshold sets the minimum combined score a fuzzy candidate needs.
func WithThreshold(th float64) Option {
	return func(r *Resolver) {
		if th > 0 && th <= 1 {
			r.threshold = th
		}
	}
}

// WithMaxResults caps fuzzy matches and suggestions.
func WithMaxResults(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxResults = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}
