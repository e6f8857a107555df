// Package replay posts a set of questions to a running service and checks
// the answers against expectations.
package replay

import (
	"errors"
	"time"

	"github.com/okian/clubstats/pkg/logger"
)

var (
	// ErrUnhealthy is returned when the service health check fails.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrNoCases is returned when there is nothing to replay.
	ErrNoCases = errors.New("no cases to replay")
	// ErrLoadCases wraps case file errors.
	ErrLoadCases = errors.New("load cases")
	// ErrFailures is returned by Run when at least one case did not pass.
	ErrFailures = errors.New("replay had failing cases")
)

// Config holds configuration for a replay run.
type Config struct {
	BaseURL    string        // Base URL of the service
	CasesFile  string        // YAML file with cases; built-in cases when empty
	UserName   string        // Default userContext for cases without one
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // JSON report path; skipped when empty
	Verbose    bool          // Log every case
	Logger     logger.Logger // Defaults to a no-op logger
}

// Case is one question and what its answer must look like.
type Case struct {
	Question      string   `koanf:"question" json:"question"`
	UserContext   string   `koanf:"user_context" json:"userContext,omitempty"`
	ExpectOutcome string   `koanf:"expect_outcome" json:"expectOutcome,omitempty"`
	ExpectMetric  string   `koanf:"expect_metric" json:"expectMetric,omitempty"`
	ExpectContain []string `koanf:"expect_contains" json:"expectContains,omitempty"`
}

// Result is the outcome of one case.
type Result struct {
	Case     Case          `json:"case"`
	Answer   string        `json:"answer"`
	Outcome  string        `json:"outcome"`
	Metric   string        `json:"metric,omitempty"`
	Status   int           `json:"status"`
	Passed   bool          `json:"passed"`
	Problems []string      `json:"problems,omitempty"`
	Latency  time.Duration `json:"latency"`
}

// Stats holds run statistics.
type Stats struct {
	RunID     string
	Cases     int
	Passed    int
	Failed    int
	Errored   int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
