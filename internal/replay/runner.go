package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/clubstats/internal/domain/types"
	"github.com/okian/clubstats/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run replays cases against the service and reports the results. It
// returns ErrFailures when any case did not pass.
func Run(ctx context.Context, config *Config, cases []Case) ([]Result, *Stats, error) {
	stats := &Stats{RunID: uuid.NewString(), StartTime: time.Now()}
	log := logger.Nop()
	if config.Logger != nil {
		log = config.Logger.Named("replay")
	}

	if len(cases) == 0 {
		return nil, stats, ErrNoCases
	}

	log.Info(ctx, "starting replay",
		logger.String("run_id", stats.RunID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("cases", len(cases)),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	client := newHTTPClient(config.BaseURL, config.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, stats, fmt.Errorf("service health check failed: %w", err)
	}

	results := ask(ctx, config, client, cases)

	stats.Cases = len(results)
	for _, r := range results {
		switch {
		case r.Passed:
			stats.Passed++
		case r.Status == 0:
			stats.Errored++
		default:
			stats.Failed++
		}
		if config.Verbose || !r.Passed {
			log.Info(ctx, "case",
				logger.String("question", r.Case.Question),
				logger.String("answer", r.Answer),
				logger.String("outcome", r.Outcome),
				logger.Bool("passed", r.Passed),
				logger.Strings("problems", r.Problems),
				logger.Duration("latency", r.Latency))
		}
	}

	if config.OutputFile != "" {
		if err := saveResults(config.OutputFile, results); err != nil {
			log.Warn(ctx, "failed to save results", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "final statistics",
		logger.String("run_id", stats.RunID),
		logger.Int("cases", stats.Cases),
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.Int("errored", stats.Errored),
		logger.Duration("duration", stats.Duration))

	if stats.Passed != stats.Cases {
		return results, stats, fmt.Errorf("%w: %d of %d", ErrFailures, stats.Cases-stats.Passed, stats.Cases)
	}
	return results, stats, nil
}

// ask fans cases out to a worker pool. Results keep the input order.
func ask(ctx context.Context, config *Config, client *HTTPClient, cases []Case) []Result {
	results := make([]Result, len(cases))
	workers := max(1, min(config.Workers, len(cases)))

	indexes := make(chan int, workers*2)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = askOne(ctx, client, cases[i], config.UserName)
			}
		}()
	}

	go func() {
		defer close(indexes)
		for i := range cases {
			select {
			case <-ctx.Done():
				return
			case indexes <- i:
			}
		}
	}()

	wg.Wait()

	for i := range results {
		if results[i].Case.Question == "" {
			results[i] = Result{Case: cases[i], Problems: []string{"not sent"}}
		}
	}
	return results
}

func askOne(ctx context.Context, client *HTTPClient, c Case, userName string) Result {
	user := c.UserContext
	if user == "" {
		user = userName
	}
	start := time.Now()
	ans, status, err := client.Ask(ctx, types.Question{Question: c.Question, UserContext: user})
	r := Result{
		Case:    c,
		Answer:  ans.Answer,
		Outcome: ans.Outcome,
		Metric:  ans.MatchedMetric,
		Status:  status,
		Latency: time.Since(start),
	}
	if err != nil {
		r.Problems = []string{err.Error()}
		return r
	}
	check(c, &r)
	return r
}

func saveResults(filename string, results []Result) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}
