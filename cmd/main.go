package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/clubstats/internal/adapters/cache"
	"github.com/okian/clubstats/internal/adapters/graph"
	"github.com/okian/clubstats/internal/adapters/http/api"
	"github.com/okian/clubstats/internal/adapters/http/swagger"
	mcpadapter "github.com/okian/clubstats/internal/adapters/mcp"
	app "github.com/okian/clubstats/internal/app"
	"github.com/okian/clubstats/internal/config"
	"github.com/okian/clubstats/internal/domain/fantasy"
	"github.com/okian/clubstats/internal/domain/resolver"
	"github.com/okian/clubstats/internal/domain/spelling"
	"github.com/okian/clubstats/internal/domain/templates"
	"github.com/okian/clubstats/pkg/logger"
	"github.com/okian/clubstats/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 15 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

const version = "0.1.0"

func main() {
	// Only the custom registry is exposed; drop the default Go collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.SetEnabled(cfg.MetricsEnabled)
	metrics.SetRefreshInterval(cfg.MetricsRefreshInterval)

	executor, err := graph.Open(ctx, cfg.GraphURI, cfg.GraphUsername, cfg.GraphPassword,
		graph.WithDatabase(cfg.GraphDatabase),
		graph.WithLogger(loggerInstance.Named("graph")),
	)
	if err != nil {
		loggerInstance.Error(ctx, "graph store unavailable", logger.String("uri", cfg.GraphURI), logger.Error(err))
		return
	}
	defer func() {
		if err := executor.Close(context.Background()); err != nil {
			loggerInstance.Warn(ctx, "graph driver close failed", logger.Error(err))
		}
	}()

	runner := graph.NewBreaker(executor,
		graph.WithMaxFailures(cfg.BreakerMaxFailures),
		graph.WithOpenTimeout(cfg.BreakerTimeout),
		graph.WithBreakerLogger(loggerInstance.Named("breaker")),
	)

	var corpusCache resolver.CorpusCache
	if cfg.RedisAddr != "" {
		client, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// The in-process cache still works; Redis only shares corpora between replicas.
			loggerInstance.Warn(ctx, "redis unavailable; using in-memory corpus cache", logger.String("addr", cfg.RedisAddr), logger.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			corpusCache = cache.New(client, cache.WithTTL(cfg.CorpusTTL), cache.WithLogger(loggerInstance.Named("redis")))
		}
	}

	svc := newService(cfg, runner, graph.NewCorpusProvider(runner), corpusCache, loggerInstance)

	go startSystemMetricsUpdater(ctx, metrics.RefreshInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.Bool("mcp", cfg.MCPEnabled))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService wires the pipeline components from configuration. A nil
// corpusCache selects the in-process TTL cache.
func newService(cfg *config.Config, executor app.QueryExecutor, provider resolver.CorpusProvider, corpusCache resolver.CorpusCache, log logger.Logger) *app.Service {
	if corpusCache == nil {
		corpusCache = resolver.NewMemoryCache(resolver.WithTTL(cfg.CorpusTTL))
	}
	res := resolver.New(provider,
		resolver.WithCache(corpusCache),
		resolver.WithThreshold(cfg.FuzzyThreshold),
		resolver.WithLogger(log.Named("resolver")),
	)
	corrector := spelling.New(res,
		spelling.WithThreshold(cfg.SpellingThreshold),
		spelling.WithCommonWordThreshold(cfg.CommonWordThreshold),
		spelling.WithCommonWords(cfg.CommonWords),
		spelling.WithLogger(log.Named("spelling")),
	)
	tmpl := templates.NewManager(
		templates.WithCacheSize(cfg.TemplateCacheSize),
		templates.WithTemplates(cfg.Templates),
		templates.WithLogger(log.Named("templates")),
	)

	return app.New(executor, provider,
		app.WithLogger(log.Named("service")),
		app.WithResolver(res),
		app.WithCorrector(corrector),
		app.WithTemplates(tmpl),
		app.WithCalculator(fantasy.NewCalculator(fantasy.WithPointsFromConfig(cfg.FantasyPoints))),
		app.WithAcceptConfidence(cfg.AcceptConfidence),
		app.WithAmbiguityMargin(cfg.AmbiguityMargin),
		app.WithTeamNameFormat(cfg.TeamNameFormat),
		app.WithCurrentSeason(cfg.CurrentSeason),
	)
}

// newMux registers the HTTP API, its docs and, when enabled, the MCP endpoint.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) *http.ServeMux {
	var opts []api.ServerOption
	if cfg.MCPEnabled {
		server := mcpadapter.NewServer(svc, version, log.Named("mcp"))
		opts = append(opts, api.WithMCPHandler(mcpadapter.NewHandler(server)))
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, opts...).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
