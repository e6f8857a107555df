// Package service answers natural-language club statistics questions by
// running the correction, analysis, resolution, query and formatting
// pipeline over the domain packages.
package service

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/clubstats/internal/domain/analyzer"
	"github.com/okian/clubstats/internal/domain/fallback"
	"github.com/okian/clubstats/internal/domain/fantasy"
	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/query"
	"github.com/okian/clubstats/internal/domain/resolver"
	"github.com/okian/clubstats/internal/domain/spelling"
	"github.com/okian/clubstats/internal/domain/templates"
	"github.com/okian/clubstats/internal/domain/types"
	"github.com/okian/clubstats/pkg/logger"
	"github.com/okian/clubstats/pkg/metrics"
)

const (
	defaultAcceptConfidence = 0.75
	defaultAmbiguityMargin  = 0.05
	defaultTeamNameFormat   = "%s XI"

	// outcomeFallback marks answers produced by the fallback matcher.
	outcomeFallback = "fallback"
)

// QueryExecutor runs a parameterised statement against the statistics store.
type QueryExecutor interface {
	Run(ctx context.Context, q query.Query) ([]query.Row, error)
}

// Service implements the question answering pipeline. It is safe for
// concurrent use; only the corpus cache and the template cache are shared
// between requests.
type Service struct {
	executor  QueryExecutor
	resolver  *resolver.Resolver
	corrector *spelling.Corrector
	analyzer  *analyzer.Analyzer
	fallback  *fallback.Matcher
	templates *templates.Manager
	fantasy   *fantasy.Calculator

	acceptConfidence float64
	ambiguityMargin  float64
	teamNameFormat   string
	currentSeason    string
	now              func() time.Time

	log logger.Logger

	mu       sync.Mutex
	outcomes map[string]int64
}

// New constructs a Service. Components not supplied through options are
// built with their defaults; the resolver reads corpora from provider.
func New(executor QueryExecutor, provider resolver.CorpusProvider, opts ...Option) *Service {
	s := &Service{
		executor:         executor,
		acceptConfidence: defaultAcceptConfidence,
		ambiguityMargin:  defaultAmbiguityMargin,
		teamNameFormat:   defaultTeamNameFormat,
		now:              time.Now,
		log:              logger.Nop(),
		outcomes:         make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.resolver == nil {
		s.resolver = resolver.New(provider, resolver.WithLogger(s.log.Named("resolver")))
	}
	if s.corrector == nil {
		s.corrector = spelling.New(s.resolver, spelling.WithLogger(s.log.Named("spelling")))
	}
	if s.analyzer == nil {
		s.analyzer = analyzer.New()
	}
	if s.fallback == nil {
		s.fallback = fallback.New()
	}
	if s.templates == nil {
		s.templates = templates.NewManager(templates.WithLogger(s.log.Named("templates")))
	}
	if s.fantasy == nil {
		s.fantasy = fantasy.NewCalculator()
	}
	return s
}

// Answer replies to question. userContext names the asking player and is
// used for first person questions. The returned answer is never empty.
func (s *Service) Answer(ctx context.Context, question, userContext string) types.Answer {
	start := s.now()
	id := uuid.NewString()
	ctx = logger.WithRequestID(ctx, id)

	ans := s.answer(ctx, strings.TrimSpace(question), strings.TrimSpace(userContext))
	ans.RequestID = id
	if ans.MatchedEntities == nil {
		ans.MatchedEntities = []string{}
	}

	elapsed := s.now().Sub(start)
	s.record(ans.Outcome)
	metrics.RecordQuestion(ans.Outcome)
	metrics.RecordAnswerLatency(float64(elapsed.Microseconds()) / 1000)
	s.log.Info(ctx, "question answered",
		logger.String("outcome", ans.Outcome),
		logger.String("metric", ans.MatchedMetric),
		logger.Strings("entities", ans.MatchedEntities),
		logger.Duration("elapsed", elapsed),
	)
	return ans
}

func (s *Service) answer(ctx context.Context, question, user string) types.Answer {
	corrected := s.corrector.Correct(ctx, question)
	if corrected.Changed() {
		s.log.Debug(ctx, "question corrected",
			logger.String("original", question),
			logger.String("corrected", corrected.Text),
		)
	}

	players := s.resolver.Corpus(ctx, model.EntityPlayer)
	a := s.analyzer.Analyze(corrected.Text, players)
	s.log.Debug(ctx, "question analysed",
		logger.String("intent", string(a.Intent)),
		logger.Strings("metrics", a.Metrics),
		logger.Strings("entities", a.Entities),
	)

	if !a.HasMetric() {
		return s.fallbackAnswer(ctx, corrected.Text, a)
	}
	m, ok := model.LookupMetric(a.Metrics[0])
	if !ok {
		s.log.Warn(ctx, "analyser returned unknown metric", logger.String("metric", a.Metrics[0]))
		return s.fallbackAnswer(ctx, corrected.Text, a)
	}

	r := &request{question: corrected.Text, analysis: a, metric: m, user: user}
	ans, err := s.dispatch(ctx, r)
	if err != nil {
		return s.failure(ctx, r, err)
	}
	return ans
}

func (s *Service) fallbackAnswer(ctx context.Context, question string, a model.QuestionAnalysis) types.Answer {
	metrics.RecordFallback()
	s.log.Debug(ctx, "no metric recognised, using fallback")
	return types.Answer{
		Answer:          s.fallback.Suggest(question, a),
		MatchedEntities: a.Entities,
		Outcome:         outcomeFallback,
	}
}

// InvalidateCache drops cached corpora for t, or every corpus when t is
// empty, and rebuilds the spelling dictionary.
func (s *Service) InvalidateCache(ctx context.Context, t model.EntityType) {
	if t == "" {
		s.resolver.ClearCache(ctx)
	} else {
		s.resolver.ClearCacheForType(ctx, t)
	}
	s.corrector.Reload(ctx)
	s.log.Info(ctx, "corpus cache invalidated", logger.String("type", string(t)))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.Lock()
	outcomes := maps.Clone(s.outcomes)
	s.mu.Unlock()

	var total int64
	for _, n := range outcomes {
		total += n
	}

	corpora := make(map[string]int, 3)
	for _, t := range []model.EntityType{model.EntityPlayer, model.EntityTeam, model.EntityOpposition} {
		corpora[string(t)] = len(s.resolver.Corpus(ctx, t))
	}

	return map[string]interface{}{
		"questions":         total,
		"outcomes":          outcomes,
		"corpora":           corpora,
		"templateCacheSize": s.templates.CacheLen(),
		"currentSeason":     s.season(),
	}
}

func (s *Service) record(outcome string) {
	s.mu.Lock()
	s.outcomes[outcome]++
	s.mu.Unlock()
}

func (s *Service) season() string {
	if s.currentSeason != "" {
		return s.currentSeason
	}
	return query.SeasonAt(s.now())
}
