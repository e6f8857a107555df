package spelling

import (
	"time"

	"github.com/okian/clubstats/pkg/logger"
)

// Option applies a configuration option to the Corrector.
type Option func(*Corrector)

// WithThreshold sets the minimum similarity for replacing a token.
func WithThreshold(th float64) Option {
	return func(c *Corrector) {
		if th > 0 && th <= 1 {
			c.threshold = th
		}
	}
}

// WithCommonWordThreshold sets the minimum similarity when the candidate is
// a question word or common verb.
func WithCommonWordThreshold(th float64) Option {
	return func(c *Corrector) {
		if th > 0 && th <= 1 {
			c.commonThreshold = th
		}
	}
}

// WithCommonWords replaces the question word and common verb list.
func WithCommonWords(words []string) Option {
	return func(c *Corrector) {
		if len(words) > 0 {
			c.common = toSet(words)
		}
	}
}

// WithTerms adds static dictionary words.
func WithTerms(words ...string) Option {
	return func(c *Corrector) {
		c.extra = append(c.extra, words...)
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Corrector) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRetryInterval sets how long a dictionary built without corpus words
// is kept before the corpus is asked again.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Corrector) {
		if d > 0 {
			c.retryInterval = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Corrector) {
		if now != nil {
			c.now = now
		}
	}
}
