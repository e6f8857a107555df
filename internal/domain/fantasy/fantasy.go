// Package fantasy computes fantasy points from per-match player records.
package fantasy

import (
	"math"

	"github.com/okian/clubstats/internal/domain/model"
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithPointsFromConfig overrides per-unit rule values. Unknown keys are ignored.
func WithPointsFromConfig(points map[string]float64) Option {
	return func(c *Calculator) {
		for k, v := range points {
			if _, ok := c.rules[k]; ok {
				c.rules[k] = v
			}
		}
	}
}

// Line is one category of a breakdown. Points == Count * PointsPerUnit.
type Line struct {
	Label         string  `json:"label"`
	Count         float64 `json:"count"`
	PointsPerUnit float64 `json:"pointsPerUnit"`
	Points        float64 `json:"points"`
}

// Calculator scores match events. It holds no mutable state after
// construction and is safe for concurrent use.
type Calculator struct {
	rules map[string]float64
}

// NewCalculator creates a calculator with the default ruleset.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{rules: defaultRules()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rule returns the per-unit value of a rule key.
func (c *Calculator) Rule(key string) (float64, bool) {
	v, ok := c.rules[key]
	return v, ok
}

// Breakdown lists the scoring categories of e in a fixed order. Categories
// worth nothing are omitted.
func (c *Calculator) Breakdown(e model.MatchEvent) []Line {
	lines := make([]Line, 0, 8)
	add := func(label string, count int, rule string) {
		ppu := c.rules[rule]
		if count == 0 || ppu == 0 {
			return
		}
		lines = append(lines, Line{
			Label:         label,
			Count:         float64(count),
			PointsPerUnit: ppu,
			Points:        float64(count) * ppu,
		})
	}

	switch {
	case e.Minutes >= fullAppearanceMinutes:
		add("Appearance (60+ minutes)", 1, RuleFullAppearance)
	case e.Minutes > 0:
		add("Appearance (under 60 minutes)", 1, RuleAppearance)
	}

	goalRule := goalRuleFor(e.Position)
	add("Goals", e.Goals, goalRule)
	add("Penalties scored", e.PenaltiesScored, goalRule)
	add("Assists", e.Assists, RuleAssist)

	if e.CleanSheet() {
		add("Clean sheet", 1, cleanSheetRuleFor(e.Position))
	}
	if rule, ok := concededRuleFor(e.Position); ok && e.Minutes > 0 {
		add("Goals conceded", e.Conceded, rule)
	}

	add("Saves", e.Saves, RuleSave)
	add("Penalties saved", e.PenaltiesSaved, RulePenaltySaved)
	add("Penalties missed", e.PenaltiesMissed, RulePenaltyMissed)
	add("Penalties conceded", e.PenaltiesConceded, RulePenaltyConceded)
	add("Yellow cards", e.YellowCards, RuleYellowCard)
	add("Red cards", e.RedCards, RuleRedCard)
	add("Own goals", e.OwnGoals, RuleOwnGoal)
	if e.ManOfMatch {
		add("Man of the match", 1, RuleManOfMatch)
	}
	return lines
}

// Score is the unrounded sum of the breakdown of e.
func (c *Calculator) Score(e model.MatchEvent) float64 {
	var sum float64
	for _, l := range c.Breakdown(e) {
		sum += l.Points
	}
	return sum
}

// Total sums the unrounded scores of events and rounds once, half away
// from zero.
func (c *Calculator) Total(events []model.MatchEvent) int {
	var sum float64
	for _, e := range events {
		sum += c.Score(e)
	}
	return int(math.Round(sum))
}

func goalRuleFor(p model.Position) string {
	switch p {
	case model.PositionGK:
		return RuleGoalGK
	case model.PositionDEF:
		return RuleGoalDEF
	case model.PositionFWD:
		return RuleGoalFWD
	}
	return RuleGoalMID
}

func cleanSheetRuleFor(p model.Position) string {
	switch p {
	case model.PositionGK:
		return RuleCleanSheetGK
	case model.PositionDEF:
		return RuleCleanSheetDEF
	case model.PositionFWD:
		return RuleCleanSheetFWD
	}
	return RuleCleanSheetMID
}

func concededRuleFor(p model.Position) (string, bool) {
	switch p {
	case model.PositionGK:
		return RuleConcededGK, true
	case model.PositionDEF:
		return RuleConcededDEF, true
	}
	return "", false
}
