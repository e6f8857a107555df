// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Graph store connection (Neo4j bolt/neo4j URI).
	GraphURI      string `koanf:"graph_uri"`
	GraphUsername string `koanf:"graph_username"`
	GraphPassword string `koanf:"graph_password"`
	GraphDatabase string `koanf:"graph_database"`

	// RedisAddr enables the shared Redis corpus cache when set.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CorpusTTL is how long an entity corpus snapshot is served before refetching.
	CorpusTTL time.Duration `koanf:"corpus_ttl"`

	// TemplateCacheSize bounds the rendered-answer LRU; <= 0 disables it.
	TemplateCacheSize int `koanf:"template_cache_size"`

	// SpellingThreshold is the minimum similarity for replacing a token.
	SpellingThreshold float64 `koanf:"spelling_threshold"`

	// CommonWordThreshold applies when the candidate is a question word or common verb.
	CommonWordThreshold float64 `koanf:"common_word_threshold"`

	// CommonWords replaces the built-in question word / common verb list when non-empty.
	CommonWords []string `koanf:"common_words"`

	// FuzzyThreshold is the minimum combined score kept by the entity resolver.
	FuzzyThreshold float64 `koanf:"fuzzy_threshold"`

	// AcceptConfidence is the score a lone fuzzy match needs to be used without asking.
	AcceptConfidence float64 `koanf:"accept_confidence"`

	// AmbiguityMargin: a runner-up within this distance of the best match is a tie.
	AmbiguityMargin float64 `koanf:"ambiguity_margin"`

	// TeamNameFormat turns an ordinal ("3rd") into the stored team name.
	TeamNameFormat string `koanf:"team_name_format"`

	// CurrentSeason pins "this season" (e.g. "2024/25"); derived from the date when empty.
	CurrentSeason string `koanf:"current_season"`

	// Query executor circuit breaker.
	BreakerMaxFailures int           `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`

	// FantasyPoints overrides per-unit fantasy rule values, keyed by rule name.
	FantasyPoints map[string]float64 `koanf:"fantasy_points"`

	// Templates overrides response template bodies, keyed by template key.
	Templates map[string]string `koanf:"templates"`

	// MCPEnabled mounts the MCP tool endpoint at /mcp.
	MCPEnabled bool `koanf:"mcp_enabled"`

	// MetricsEnabled turns Prometheus recording on; /healthz keeps serving either way.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsRefreshInterval is how often system gauges are sampled.
	MetricsRefreshInterval time.Duration `koanf:"metrics_refresh_interval"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		GraphURI:               "neo4j://localhost:7687",
		GraphUsername:          "neo4j",
		GraphDatabase:          "neo4j",
		CorpusTTL:              5 * time.Minute,
		TemplateCacheSize:      500,
		SpellingThreshold:      0.7,
		CommonWordThreshold:    0.95,
		FuzzyThreshold:         0.6,
		AcceptConfidence:       0.75,
		AmbiguityMargin:        0.05,
		TeamNameFormat:         "%s XI",
		BreakerMaxFailures:     5,
		BreakerTimeout:         30 * time.Second,
		FantasyPoints:          map[string]float64{},
		Templates:              map[string]string{},
		MCPEnabled:             true,
		MetricsEnabled:         true,
		MetricsRefreshInterval: 10 * time.Second,
	}
}
