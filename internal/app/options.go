package service

import (
	"time"

	"github.com/okian/clubstats/internal/domain/analyzer"
	"github.com/okian/clubstats/internal/domain/fallback"
	"github.com/okian/clubstats/internal/domain/fantasy"
	"github.com/okian/clubstats/internal/domain/resolver"
	"github.com/okian/clubstats/internal/domain/spelling"
	"github.com/okian/clubstats/internal/domain/templates"
	"github.com/okian/clubstats/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithResolver replaces the default resolver built from the corpus provider.
func WithResolver(r *resolver.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithCorrector replaces the default spelling corrector.
func WithCorrector(c *spelling.Corrector) Option {
	return func(s *Service) {
		if c != nil {
			s.corrector = c
		}
	}
}

// WithAnalyzer replaces the default question analyzer.
func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithFallback replaces the default fallback matcher.
func WithFallback(m *fallback.Matcher) Option {
	return func(s *Service) {
		if m != nil {
			s.fallback = m
		}
	}
}

// WithTemplates replaces the default response template manager.
func WithTemplates(m *templates.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.templates = m
		}
	}
}

// WithCalculator replaces the default fantasy points calculator.
func WithCalculator(c *fantasy.Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.fantasy = c
		}
	}
}

// WithAcceptConfidence sets the score a lone fuzzy match needs to be used.
func WithAcceptConfidence(c float64) Option {
	return func(s *Service) {
		if c > 0 && c <= 1 {
			s.acceptConfidence = c
		}
	}
}

// WithAmbiguityMargin sets how close a runner-up must be to make a match ambiguous.
func WithAmbiguityMargin(m float64) Option {
	return func(s *Service) {
		if m >= 0 && m < 1 {
			s.ambiguityMargin = m
		}
	}
}

// WithTeamNameFormat sets the fmt pattern turning "3rd" into a stored team name.
func WithTeamNameFormat(format string) Option {
	return func(s *Service) {
		if format != "" {
			s.teamNameFormat = format
		}
	}
}

// WithCurrentSeason pins "this season". Empty derives it from the clock.
func WithCurrentSeason(season string) Option {
	return func(s *Service) {
		s.currentSeason = season
	}
}

// WithClock sets the time source used for season derivation and latency.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
