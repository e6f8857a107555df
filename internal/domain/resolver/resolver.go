// Package resolver maps free-text names onto the entity names held by the
// statistics store using exact and fuzzy matching over a cached corpus.
package resolver

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/similarity"
	"github.com/okian/clubstats/pkg/logger"
	"github.com/okian/clubstats/pkg/metrics"
)

const (
	defaultThreshold  = 0.6
	defaultMaxResults = 3
)

// Resolution is the outcome of resolving one input against one corpus.
type Resolution struct {
	ExactMatch   string
	FuzzyMatches []model.FuzzyMatch // best first
	Suggestions  []string
	AllEntities  []string // shared with the cache; do not modify
}

// Found reports whether an exact or fuzzy match exists.
func (r Resolution) Found() bool {
	return r.ExactMatch != "" || len(r.FuzzyMatches) > 0
}

// Resolver resolves names against per-type corpora fetched from a provider.
// It is safe for concurrent use.
type Resolver struct {
	provider   CorpusProvider
	cache      CorpusCache
	threshold  float64
	maxResults int
	log        logger.Logger
	fetches    singleflight.Group
}

// New creates a Resolver reading corpora from provider.
func New(provider CorpusProvider, opts ...Option) *Resolver {
	r := &Resolver{
		provider:   provider,
		threshold:  defaultThreshold,
		maxResults: defaultMaxResults,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryCache()
	}
	return r
}

// Corpus returns the names of type t, from cache when fresh. A provider
// failure yields an empty corpus that is not cached.
func (r *Resolver) Corpus(ctx context.Context, t model.EntityType) []string {
	if names, ok := r.cache.Get(ctx, t); ok {
		metrics.RecordCorpusCacheHit(string(t))
		return names
	}
	metrics.RecordCorpusCacheMiss(string(t))

	// The fetch is shared by every waiter, so one caller's cancellation must not end it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := r.fetches.Do(string(t), func() (interface{}, error) {
		if r.provider == nil {
			return nil, ErrCorpusUnavailable
		}
		names, err := r.provider.ListEntities(fetchCtx, t)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorpusUnavailable, t, err)
		}
		names = dedupe(names)
		r.cache.Set(fetchCtx, t, names)
		metrics.UpdateCorpusSize(string(t), len(names))
		return names, nil
	})
	if err != nil {
		metrics.RecordCorpusFetchError(string(t))
		r.log.Warn(ctx, "corpus fetch failed, resolving against empty corpus",
			logger.String("entity_type", string(t)), logger.Error(err))
		return nil
	}
	return v.([]string)
}

// Resolve matches input against the corpus of type t. An exact match
// returns immediately with no fuzzy matches or suggestions.
func (r *Resolver) Resolve(ctx context.Context, input string, t model.EntityType) Resolution {
	start := time.Now()
	corpus := r.Corpus(ctx, t)
	res := r.match(input, t, corpus)
	metrics.RecordResolutionDuration(float64(time.Since(start).Microseconds()) / 1000)

	switch {
	case res.ExactMatch != "":
		metrics.RecordEntityResolution(string(t), "exact")
	case len(res.FuzzyMatches) > 0:
		metrics.RecordEntityResolution(string(t), "fuzzy")
	default:
		metrics.RecordEntityResolution(string(t), "none")
	}
	return res
}

func (r *Resolver) match(input string, t model.EntityType, corpus []string) Resolution {
	res := Resolution{AllEntities: corpus}
	trimmed := strings.TrimSpace(input)
	norm := similarity.Normalize(input)
	if norm == "" || len(corpus) == 0 {
		return res
	}

	normalized := make([]string, len(corpus))
	for i, c := range corpus {
		if strings.EqualFold(trimmed, c) {
			res.ExactMatch = c
			return res
		}
		normalized[i] = similarity.Normalize(c)
	}
	for i, nc := range normalized {
		if nc == norm {
			res.ExactMatch = corpus[i]
			return res
		}
	}

	for i, nc := range normalized {
		score := similarity.Score(norm, nc)
		if score >= r.threshold {
			res.FuzzyMatches = append(res.FuzzyMatches, model.FuzzyMatch{
				Candidate:  corpus[i],
				Confidence: score,
				EntityType: t,
			})
		}
	}
	// Stable: equal scores keep corpus order.
	slices.SortStableFunc(res.FuzzyMatches, func(a, b model.FuzzyMatch) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	if len(res.FuzzyMatches) > r.maxResults {
		res.FuzzyMatches = res.FuzzyMatches[:r.maxResults]
	}

	res.Suggestions = r.suggest(norm, corpus, normalized)
	return res
}

// suggest ranks prefix relations ahead of substring containment.
func (r *Resolver) suggest(norm string, corpus, normalized []string) []string {
	var prefix, contains []string
	for i, nc := range normalized {
		if nc == "" {
			continue
		}
		switch {
		case strings.HasPrefix(nc, norm) || strings.HasPrefix(norm, nc):
			prefix = append(prefix, corpus[i])
		case strings.Contains(nc, norm) || strings.Contains(norm, nc):
			contains = append(contains, corpus[i])
		}
	}
	out := dedupe(append(prefix, contains...))
	if len(out) > r.maxResults {
		out = out[:r.maxResults]
	}
	return out
}

// BestMatch returns the exact match, or the highest scoring fuzzy match.
func (r *Resolver) BestMatch(ctx context.Context, input string, t model.EntityType) (string, bool) {
	res := r.Resolve(ctx, input, t)
	if res.ExactMatch != "" {
		return res.ExactMatch, true
	}
	if len(res.FuzzyMatches) > 0 {
		return res.FuzzyMatches[0].Candidate, true
	}
	return "", false
}

// EntityExists reports whether input resolves exactly.
func (r *Resolver) EntityExists(ctx context.Context, input string, t model.EntityType) bool {
	return r.Resolve(ctx, input, t).ExactMatch != ""
}

// ClearCache drops every cached corpus.
func (r *Resolver) ClearCache(ctx context.Context) {
	r.cache.Clear(ctx)
	r.log.Info(ctx, "corpus cache cleared")
}

// ClearCacheForType drops the cached corpus of type t.
func (r *Resolver) ClearCacheForType(ctx context.Context, t model.EntityType) {
	r.cache.Invalidate(ctx, t)
	r.log.Info(ctx, "corpus cache cleared", logger.String("entity_type", string(t)))
}
