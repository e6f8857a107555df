package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/query"
	"github.com/okian/clubstats/internal/domain/templates"
	"github.com/okian/clubstats/internal/domain/types"
	"github.com/okian/clubstats/pkg/logger"
)

// render fills key, switching to its context variant when the question
// carried qualifiers. includeTeam is false when the team already appears
// in the sentence.
func (s *Service) render(r *request, key string, vars map[string]any, includeTeam bool, entities ...string) types.Answer {
	if phrase := describe(r, includeTeam); phrase != "" {
		vars["context"] = phrase
		key = s.templates.ContextKey(key)
	}
	return types.Answer{
		Answer:          s.templates.Render(key, vars),
		MatchedMetric:   r.metric.Key,
		MatchedEntities: entities,
		Outcome:         strings.TrimSuffix(key, "_with_context"),
	}
}

// failure turns a pipeline error into a reply.
func (s *Service) failure(ctx context.Context, r *request, err error) types.Answer {
	key := outcomeFor(err, r.metric)
	vars := map[string]any{
		"metric":     r.metric.Label,
		"playerName": r.subject,
	}
	var entities []string
	if r.subject != "" {
		entities = []string{r.subject}
	}

	var ee *entityError
	if errors.As(err, &ee) {
		entities = nil
		vars["input"] = ee.input
		vars["playerName"] = ee.input
		vars["teamName"] = ee.input
		vars["opposition"] = ee.input
		vars["suggestion"] = ee.suggestion
		vars["candidates"] = joinOr(ee.candidates)
	}

	switch key {
	case templates.DatabaseError:
		s.log.Error(ctx, "answer failed", logger.Error(err))
	case templates.NoData:
		if phrase := describe(r, true); phrase != "" {
			vars["context"] = phrase
			key = s.templates.ContextKey(key)
		}
		if r.subject == "" {
			vars["playerName"] = strings.Join(r.analysis.Entities, " or ")
		}
		fallthrough
	default:
		s.log.Debug(ctx, "answer degraded", logger.String("template", key), logger.Error(err))
	}

	return types.Answer{
		Answer:          s.templates.Render(key, vars),
		MatchedMetric:   r.metric.Key,
		MatchedEntities: entities,
		Outcome:         strings.TrimSuffix(key, "_with_context"),
	}
}

// outcomeFor maps a pipeline error to the template that explains it.
func outcomeFor(err error, m model.Metric) string {
	var ee *entityError
	switch {
	case errors.As(err, &ee):
		if errors.Is(ee.err, ErrAmbiguousEntity) {
			switch ee.kind {
			case model.EntityTeam:
				return templates.TeamAmbiguous
			case model.EntityOpposition:
				return templates.OppositionAmbiguous
			}
			return templates.AmbiguousEntity
		}
		switch ee.kind {
		case model.EntityTeam:
			return templates.TeamNotFound
		case model.EntityOpposition:
			return templates.OppositionNotFound
		}
		if ee.suggestion != "" {
			return templates.PlayerNotFoundSuggestion
		}
		return templates.PlayerNotFound
	case errors.Is(err, ErrNoUserContext):
		return templates.NoUserContext
	case errors.Is(err, ErrZeroDenominator):
		if m.PerMatch {
			return templates.ZeroAppearances
		}
		return templates.NoData
	case errors.Is(err, ErrEmptyResultSet), errors.Is(err, query.ErrUnsupportedMetric):
		return templates.NoData
	}
	return templates.DatabaseError
}

// describe renders the qualifiers as a trailing phrase, e.g.
// "for the 3rd XI against Old Boys at home in 2019/20".
func describe(r *request, includeTeam bool) string {
	q := r.analysis.Qualifiers
	var parts []string
	if includeTeam && r.teamName != "" {
		parts = append(parts, "for the "+r.teamName)
	}
	if r.opposition != "" {
		parts = append(parts, "against "+r.opposition)
	}
	switch q.Location {
	case model.LocationHome:
		parts = append(parts, "at home")
	case model.LocationAway:
		parts = append(parts, "away from home")
	}
	if q.Season != "" {
		parts = append(parts, "in "+q.Season)
	}
	if q.Timeframe != nil && q.Timeframe.Text != "" {
		parts = append(parts, strings.ToLower(q.Timeframe.Text))
	}
	return strings.Join(parts, " ")
}

func formatValue(v float64, m model.Metric) string {
	if m.Kind == model.KindRatio {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// countLabel renders n with the singular or plural noun.
func countLabel(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}

// joinOr renders "A", "A or B", "A, B or C".
func joinOr(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
