package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/query"
	"github.com/okian/clubstats/internal/domain/templates"
	"github.com/okian/clubstats/internal/domain/types"
	"github.com/okian/clubstats/pkg/logger"
	"github.com/okian/clubstats/pkg/metrics"
)

// request is the per-question state threaded through the pipeline.
type request struct {
	question string
	analysis model.QuestionAnalysis
	metric   model.Metric
	user     string

	filters    query.Filters
	teamName   string
	opposition string
	subject    string // who the answer is about, for no-data replies
}

// stat is one subject's value for the requested metric.
type stat struct {
	name        string
	value       float64
	appearances int
}

func (s *Service) dispatch(ctx context.Context, r *request) (types.Answer, error) {
	if err := s.qualify(ctx, r); err != nil {
		return types.Answer{}, err
	}
	switch r.analysis.Intent {
	case model.IntentTeamMetric:
		return s.teamMetric(ctx, r)
	case model.IntentLeaderboard:
		return s.leaderboard(ctx, r)
	case model.IntentComparison:
		return s.comparison(ctx, r)
	}
	return s.playerMetric(ctx, r)
}

// qualify resolves the team and opposition qualifiers and builds the filters.
func (s *Service) qualify(ctx context.Context, r *request) error {
	q := r.analysis.Qualifiers
	if q.Team != "" {
		name, err := s.resolveEntity(ctx, fmt.Sprintf(s.teamNameFormat, q.Team), model.EntityTeam)
		if err != nil {
			return err
		}
		r.teamName = name
	}
	if q.Opposition != "" {
		name, err := s.resolveEntity(ctx, q.Opposition, model.EntityOpposition)
		if err != nil {
			return err
		}
		r.opposition = name
	}
	r.filters = query.FromQualifiers(q, r.teamName, s.season())
	r.filters.Opposition = r.opposition
	return nil
}

// resolveEntity applies the acceptance policy: an exact match wins; a
// single fuzzy match at or above the accept confidence with no rival
// within the ambiguity margin is used; close rivals are ambiguous; anything
// else is not found, with the best candidate offered as a suggestion.
func (s *Service) resolveEntity(ctx context.Context, input string, t model.EntityType) (string, error) {
	res := s.resolver.Resolve(ctx, input, t)
	if res.ExactMatch != "" {
		return res.ExactMatch, nil
	}
	if len(res.FuzzyMatches) == 0 {
		e := &entityError{err: ErrEntityNotFound, kind: t, input: input}
		if len(res.Suggestions) > 0 {
			e.suggestion = res.Suggestions[0]
		}
		return "", e
	}

	best := res.FuzzyMatches[0]
	var rivals []string
	for _, m := range res.FuzzyMatches[1:] {
		if best.Confidence-m.Confidence <= s.ambiguityMargin {
			rivals = append(rivals, m.Candidate)
		}
	}
	if len(rivals) > 0 {
		return "", &entityError{
			err:        ErrAmbiguousEntity,
			kind:       t,
			input:      input,
			candidates: append([]string{best.Candidate}, rivals...),
		}
	}
	if best.Confidence >= s.acceptConfidence {
		s.log.Debug(ctx, "fuzzy match accepted",
			logger.String("input", input),
			logger.String("match", best.Candidate),
			logger.Float64("confidence", best.Confidence),
		)
		return best.Candidate, nil
	}
	return "", &entityError{err: ErrEntityNotFound, kind: t, input: input, suggestion: best.Candidate}
}

// subjects returns the player names the question is about, asking player
// first for first person comparisons.
func (s *Service) subjects(r *request, want int) ([]string, error) {
	names := r.analysis.Entities
	if len(names) >= want {
		return names[:want], nil
	}
	if !r.analysis.Qualifiers.FirstPerson {
		return names, nil
	}
	if r.user == "" {
		return nil, ErrNoUserContext
	}
	for _, n := range names {
		if strings.EqualFold(n, r.user) {
			return names, nil
		}
	}
	return append([]string{r.user}, names...), nil
}

func (s *Service) playerMetric(ctx context.Context, r *request) (types.Answer, error) {
	names, err := s.subjects(r, 1)
	if err != nil {
		return types.Answer{}, err
	}
	if len(names) == 0 {
		return s.fallbackAnswer(ctx, r.question, r.analysis), nil
	}

	r.subject = names[0]
	name, err := s.resolveEntity(ctx, names[0], model.EntityPlayer)
	if err != nil {
		return types.Answer{}, err
	}
	r.subject = name

	st, err := s.playerValue(ctx, name, r.metric, r.filters)
	if err != nil {
		return types.Answer{}, err
	}

	vars := map[string]any{
		"playerName": name,
		"metric":     r.metric.Label,
		"value":      formatValue(st.value, r.metric),
	}
	var key string
	switch {
	case r.metric.Kind == model.KindFantasy:
		key = templates.FantasyPoints
		vars["matches"] = countLabel(st.appearances, "match", "matches")
	case r.metric.Kind == model.KindRatio:
		key = templates.PlayerRatio
	case st.value == 0:
		key = templates.PlayerZero
	default:
		key = templates.PlayerMetric
	}
	return s.render(r, key, vars, true, name), nil
}

func (s *Service) teamMetric(ctx context.Context, r *request) (types.Answer, error) {
	r.subject = s.teamLabel(r)
	q, err := query.TeamStat(r.metric, r.filters)
	if err != nil {
		return types.Answer{}, err
	}
	rows, err := s.run(ctx, q)
	if err != nil {
		return types.Answer{}, err
	}
	if len(rows) == 0 || rows[0].Int(query.ColAppearances) == 0 {
		return types.Answer{}, ErrEmptyResultSet
	}
	vars := map[string]any{
		"teamName": r.subject,
		"metric":   r.metric.Label,
		"value":    formatValue(rows[0].Float(query.ColValue), r.metric),
	}
	var entities []string
	if r.teamName != "" {
		entities = []string{r.teamName}
	}
	return s.render(r, templates.TeamMetric, vars, false, entities...), nil
}

func (s *Service) leaderboard(ctx context.Context, r *request) (types.Answer, error) {
	r.subject = s.teamLabel(r)
	q, err := query.Leaderboard(r.metric, r.filters, 1)
	if err != nil {
		return types.Answer{}, err
	}
	rows, err := s.run(ctx, q)
	if err != nil {
		return types.Answer{}, err
	}
	if len(rows) == 0 {
		return types.Answer{}, ErrEmptyResultSet
	}
	leader := rows[0].String(query.ColPlayerName)
	vars := map[string]any{
		"playerName": leader,
		"metric":     r.metric.Label,
		"value":      formatValue(rows[0].Float(query.ColValue), r.metric),
	}
	return s.render(r, templates.Leaderboard, vars, true, leader), nil
}

// comparison resolves both players and reads their values concurrently.
func (s *Service) comparison(ctx context.Context, r *request) (types.Answer, error) {
	names, err := s.subjects(r, 2)
	if err != nil {
		return types.Answer{}, err
	}
	if len(names) < 2 {
		return s.playerMetric(ctx, r)
	}

	stats := make([]stat, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, input := range names[:2] {
		g.Go(func() error {
			name, err := s.resolveEntity(gctx, input, model.EntityPlayer)
			if err != nil {
				return err
			}
			st, err := s.playerValue(gctx, name, r.metric, r.filters)
			if err != nil {
				return err
			}
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.Answer{}, err
	}

	a, b := stats[0], stats[1]
	if a.value == b.value {
		vars := map[string]any{
			"playerA": a.name,
			"playerB": b.name,
			"metric":  r.metric.Label,
			"value":   formatValue(a.value, r.metric),
		}
		return s.render(r, templates.ComparisonTie, vars, true, a.name, b.name), nil
	}
	winner, loser := a, b
	if b.value > a.value {
		winner, loser = b, a
	}
	vars := map[string]any{
		"winner":      winner.name,
		"winnerValue": formatValue(winner.value, r.metric),
		"loser":       loser.name,
		"loserValue":  formatValue(loser.value, r.metric),
		"metric":      r.metric.Label,
	}
	return s.render(r, templates.Comparison, vars, true, a.name, b.name), nil
}

// playerValue reads one player's value for m. Fantasy points are
// recomputed from match events; ratios divide in process.
func (s *Service) playerValue(ctx context.Context, name string, m model.Metric, f query.Filters) (stat, error) {
	if m.Kind == model.KindFantasy {
		q, err := query.PlayerEvents(name, f)
		if err != nil {
			return stat{}, err
		}
		rows, err := s.run(ctx, q)
		if err != nil {
			return stat{}, err
		}
		if len(rows) == 0 {
			return stat{}, ErrEmptyResultSet
		}
		events := make([]model.MatchEvent, len(rows))
		for i, row := range rows {
			events[i] = row.MatchEvent()
		}
		return stat{name: name, value: float64(s.fantasy.Total(events)), appearances: len(events)}, nil
	}

	q, err := query.PlayerStat(name, m, f)
	if err != nil {
		return stat{}, err
	}
	rows, err := s.run(ctx, q)
	if err != nil {
		return stat{}, err
	}
	if len(rows) == 0 {
		return stat{}, ErrEmptyResultSet
	}
	row := rows[0]
	st := stat{name: name, value: row.Float(query.ColValue), appearances: row.Int(query.ColAppearances)}
	if m.Kind == model.KindRatio {
		den := row.Float(query.ColDenominator)
		if den == 0 {
			return stat{}, fmt.Errorf("%w: %s", ErrZeroDenominator, m.Key)
		}
		st.value /= den
	}
	if st.appearances == 0 {
		return stat{}, ErrEmptyResultSet
	}
	return st, nil
}

// run guards and executes q.
func (s *Service) run(ctx context.Context, q query.Query) ([]query.Row, error) {
	if err := query.Guard(q); err != nil {
		return nil, err
	}
	if s.executor == nil {
		return nil, fmt.Errorf("%w: no executor configured", ErrQueryExecutionFailed)
	}
	start := time.Now()
	rows, err := s.executor.Run(ctx, q)
	metrics.RecordQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordQueryError()
		return nil, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}
	return rows, nil
}

func (s *Service) teamLabel(r *request) string {
	if r.teamName != "" {
		return r.teamName
	}
	return "club"
}
