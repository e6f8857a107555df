package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "CLUBSTATS_"
	envFileVar = "CLUBSTATS_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CLUBSTATS_CONFIG is set
//  3. env (prefix CLUBSTATS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CLUBSTATS_CORPUS_TTL -> corpus_ttl (flat keys matching the koanf tags).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks invariants the rest of the service relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	for name, v := range map[string]float64{
		"spelling_threshold":    c.SpellingThreshold,
		"common_word_threshold": c.CommonWordThreshold,
		"fuzzy_threshold":       c.FuzzyThreshold,
		"accept_confidence":     c.AcceptConfidence,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in (0,1], got %v", ErrInvalidConfig, name, v)
		}
	}
	if c.AmbiguityMargin < 0 || c.AmbiguityMargin >= 1 {
		return fmt.Errorf("%w: ambiguity_margin must be in [0,1), got %v", ErrInvalidConfig, c.AmbiguityMargin)
	}
	if c.MetricsRefreshInterval <= 0 {
		return fmt.Errorf("%w: metrics_refresh_interval must be positive", ErrInvalidConfig)
	}
	if c.CorpusTTL <= 0 {
		return fmt.Errorf("%w: corpus_ttl must be positive", ErrInvalidConfig)
	}
	if !strings.Contains(c.TeamNameFormat, "%s") {
		return fmt.Errorf("%w: team_name_format must contain %%s", ErrInvalidConfig)
	}
	return nil
}
