// Package query builds the parameterised Cypher statements that answer a
// question. User supplied values only ever travel as parameters.
//
// Graph shape:
//
//	(:Player {playerName})-[:PLAYED_IN]->(:MatchDetail)-[:IN_FIXTURE]->(:Fixture)
//
// MatchDetail carries per-match counters (goals, assists, minutes, mom,
// class, ...); Fixture carries team, season, date, homeOrAway, opposition,
// goalsScored, goalsConceded and result.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okian/clubstats/internal/domain/model"
)

// Result columns.
const (
	ColAppearances = "appearances"
	ColValue       = "value"
	ColDenominator = "denominator"
	ColPlayerName  = "playerName"
)

const (
	playerPath = "MATCH (p:Player {playerName: $playerName})-[:PLAYED_IN]->(md:MatchDetail)-[:IN_FIXTURE]->(f:Fixture)\n"
	anyPath    = "MATCH (p:Player)-[:PLAYED_IN]->(md:MatchDetail)-[:IN_FIXTURE]->(f:Fixture)\n"
	fixtures   = "MATCH (f:Fixture)\n"
	// DefaultLeaderboardSize is the number of rows a leaderboard returns.
	DefaultLeaderboardSize = 5
)

var propertyRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// Query is a Cypher statement and its parameters.
type Query struct {
	Text   string
	Params map[string]any
}

// PlayerStat aggregates metric m over one player's matches. The row holds
// appearances and value, plus denominator for ratios.
func PlayerStat(player string, m model.Metric, f Filters) (Query, error) {
	if strings.TrimSpace(player) == "" {
		return Query{}, ErrMissingEntity
	}
	params := map[string]any{"playerName": player}
	cols, err := playerColumns(m, params)
	if err != nil {
		return Query{}, err
	}
	text := playerPath + f.where(params) + "RETURN count(md) AS " + ColAppearances + ", " + cols
	return Query{Text: text, Params: params}, nil
}

// PlayerEvents lists one player's per-match records, oldest first, for
// metrics derived at query time.
func PlayerEvents(player string, f Filters) (Query, error) {
	if strings.TrimSpace(player) == "" {
		return Query{}, ErrMissingEntity
	}
	params := map[string]any{"playerName": player}
	text := playerPath + f.where(params) + `RETURN f.fixtureId AS fixtureId,
       md.class AS position,
       coalesce(md.minutes, 0) AS minutes,
       coalesce(md.mom, false) AS manOfMatch,
       coalesce(md.goals, 0) AS goals,
       coalesce(md.assists, 0) AS assists,
       coalesce(md.yellowCards, 0) AS yellowCards,
       coalesce(md.redCards, 0) AS redCards,
       coalesce(md.saves, 0) AS saves,
       coalesce(md.ownGoals, 0) AS ownGoals,
       coalesce(md.penaltiesScored, 0) AS penaltiesScored,
       coalesce(md.penaltiesMissed, 0) AS penaltiesMissed,
       coalesce(md.penaltiesConceded, 0) AS penaltiesConceded,
       coalesce(md.penaltiesSaved, 0) AS penaltiesSaved,
       coalesce(f.goalsConceded, 0) AS conceded
ORDER BY f.date`
	return Query{Text: text, Params: params}, nil
}

// TeamStat aggregates metric m over fixtures matching f. The row holds
// appearances (fixtures played) and value.
func TeamStat(m model.Metric, f Filters) (Query, error) {
	params := map[string]any{}
	var expr string
	switch m.Kind {
	case model.KindAppearances:
		expr = "count(f)"
	case model.KindConceded:
		expr = "sum(coalesce(f.goalsConceded, 0))"
	case model.KindCleanSheets:
		expr = "sum(CASE WHEN coalesce(f.goalsConceded, 0) = 0 THEN 1 ELSE 0 END)"
	case model.KindTeamResult:
		expr = "sum(CASE WHEN f.result = $result THEN 1 ELSE 0 END)"
		params["result"] = m.Property
	case model.KindCounter:
		if m.Key != model.MetricGoals {
			return Query{}, fmt.Errorf("%w: team %s", ErrUnsupportedMetric, m.Key)
		}
		expr = "sum(coalesce(f.goalsScored, 0))"
	default:
		return Query{}, fmt.Errorf("%w: team %s", ErrUnsupportedMetric, m.Key)
	}
	text := fixtures + f.where(params) + "RETURN count(f) AS " + ColAppearances + ", " + expr + " AS " + ColValue
	return Query{Text: text, Params: params}, nil
}

// Leaderboard ranks players by metric m, highest first, ties by name.
func Leaderboard(m model.Metric, f Filters, limit int) (Query, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	params := map[string]any{"limit": limit}
	expr, err := aggregate(m, params)
	if err != nil {
		return Query{}, err
	}
	text := anyPath + f.where(params) +
		"WITH p.playerName AS " + ColPlayerName + ", count(md) AS " + ColAppearances + ", " + expr + " AS " + ColValue + "\n" +
		"WHERE " + ColValue + " > 0\n" +
		"RETURN " + ColPlayerName + ", " + ColAppearances + ", " + ColValue + "\n" +
		"ORDER BY " + ColValue + " DESC, " + ColPlayerName + " ASC\n" +
		"LIMIT $limit"
	return Query{Text: text, Params: params}, nil
}

func playerColumns(m model.Metric, params map[string]any) (string, error) {
	switch m.Kind {
	case model.KindRatio:
		if len(m.Parts) != 2 {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedMetric, m.Key)
		}
		num, err := partExpr(m.Parts[0], params)
		if err != nil {
			return "", err
		}
		den, err := partExpr(m.Parts[1], params)
		if err != nil {
			return "", err
		}
		return num + " AS " + ColValue + ", " + den + " AS " + ColDenominator, nil
	case model.KindFantasy:
		return "", fmt.Errorf("%w: %s is derived from match events", ErrUnsupportedMetric, m.Key)
	}
	expr, err := aggregate(m, params)
	if err != nil {
		return "", err
	}
	return expr + " AS " + ColValue, nil
}

func partExpr(key string, params map[string]any) (string, error) {
	part, ok := model.LookupMetric(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMetric, key)
	}
	return aggregate(part, params)
}

// aggregate renders a per-player aggregation over md and f.
func aggregate(m model.Metric, params map[string]any) (string, error) {
	switch m.Kind {
	case model.KindCounter:
		if !propertyRe.MatchString(m.Property) {
			return "", fmt.Errorf("%w: bad property %q", ErrUnsupportedMetric, m.Property)
		}
		if m.Key == model.MetricManOfMatch {
			return "sum(CASE WHEN coalesce(md." + m.Property + ", false) THEN 1 ELSE 0 END)", nil
		}
		return "sum(coalesce(md." + m.Property + ", 0))", nil
	case model.KindAppearances:
		return "count(md)", nil
	case model.KindCleanSheets:
		return "sum(CASE WHEN coalesce(md.minutes, 0) > 0 AND coalesce(f.goalsConceded, 0) = 0 THEN 1 ELSE 0 END)", nil
	case model.KindConceded:
		return "sum(coalesce(f.goalsConceded, 0))", nil
	case model.KindTeamResult:
		params["result"] = m.Property
		return "sum(CASE WHEN f.result = $result THEN 1 ELSE 0 END)", nil
	case model.KindSum:
		parts := make([]string, 0, len(m.Parts))
		for _, k := range m.Parts {
			e, err := partExpr(k, params)
			if err != nil {
				return "", err
			}
			parts = append(parts, e)
		}
		if len(parts) == 0 {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedMetric, m.Key)
		}
		return strings.Join(parts, " + "), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedMetric, m.Key)
}
