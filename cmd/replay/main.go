package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/clubstats/internal/replay"
	"github.com/okian/clubstats/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		casesFile  = flag.String("cases", "", "YAML file with replay cases (default: built-in smoke cases)")
		userName   = flag.String("user", "", "userContext sent with cases that do not set one")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write a JSON report of every case to this file")
		verbose    = flag.Bool("verbose", false, "Log every case, not only failures")
	)
	flag.Parse()

	if err := run(config{
		baseURL: *baseURL, casesFile: *casesFile, userName: *userName,
		workers: *workers, timeout: *timeout, outputFile: *outputFile, verbose: *verbose,
	}); err != nil {
		os.Stderr.WriteString("replay failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

type config struct {
	baseURL, casesFile, userName, outputFile string
	workers                                  int
	timeout                                  time.Duration
	verbose                                  bool
}

func run(c config) error {
	if err := logger.Init(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cases := replay.DefaultCases
	if c.casesFile != "" {
		loaded, err := replay.LoadCases(c.casesFile)
		if err != nil {
			return err
		}
		cases = loaded
	}

	_, _, err := replay.Run(ctx, &replay.Config{
		BaseURL:    c.baseURL,
		CasesFile:  c.casesFile,
		UserName:   c.userName,
		Workers:    c.workers,
		Timeout:    c.timeout,
		OutputFile: c.outputFile,
		Verbose:    c.verbose,
		Logger:     logger.Get(),
	}, cases)
	return err
}
