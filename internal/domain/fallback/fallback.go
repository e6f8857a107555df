// Package fallback produces a helpful canned answer when a question names
// no metric the service can look up.
package fallback

import (
	"regexp"
	"strings"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/templates"
)

// metricKeywordWeight down-weights matches on a single extracted metric
// keyword relative to matches on the whole question.
const metricKeywordWeight = 0.8

// Rule pairs a topic pattern with the response offered for it.
type Rule struct {
	Pattern    *regexp.Regexp
	Response   string
	Confidence float64
}

// Generic responses of the degradation ladder.
const (
	EntityNudge  = "I found {{entities}}, but I'm not sure which stat you want. Try asking \"How many goals has {{entity}} scored?\""
	MetricNudge  = "I can tell you about {{metric}}, but I'm not sure who for. Try asking \"How many {{metric}} has <player> got?\""
	GenericNudge = "I'm not sure how to answer that yet. Try asking about a player's goals, assists or appearances, for example \"How many goals has <player> scored this season?\""
)

func defaultRules() []Rule {
	return []Rule{
		{regexp.MustCompile(`(?i)\b(goals?|scor(e|ed|er|ing)|netted)\b`),
			"I can tell you how many goals a player has scored. Try \"How many goals has <player> scored?\"", 0.9},
		{regexp.MustCompile(`(?i)\b(appearances?|apps|games|matches|played|caps)\b`),
			"I can count a player's appearances. Try \"How many appearances has <player> made?\"", 0.85},
		{regexp.MustCompile(`(?i)\b(assists?|assisted|set up)\b`),
			"I can tell you how many assists a player has. Try \"How many assists has <player> got?\"", 0.85},
		{regexp.MustCompile(`(?i)\b(cards?|yellows?|reds?|booked|bookings|sent off)\b`),
			"I can look up yellow and red cards. Try \"How many yellow cards has <player> had?\"", 0.8},
		{regexp.MustCompile(`(?i)\b(fantasy|points)\b`),
			"I can work out fantasy points from match records. Try \"How many fantasy points does <player> have?\"", 0.8},
		{regexp.MustCompile(`(?i)\b(clean sheets?|keeper|goalkeeper|saves?)\b`),
			"I can look up clean sheets and saves. Try \"How many clean sheets has <player> kept?\"", 0.75},
		{regexp.MustCompile(`(?i)\b(player|who)\b`),
			"Ask me about a specific player, for example \"How many goals has <player> scored?\"", 0.5},
		{regexp.MustCompile(`(?i)\b(team|xi|results?|wins?|won|lost|draws?|league|table)\b`),
			"I can answer questions about a team's results. Try \"How many wins have the 1st XI had this season?\"", 0.5},
	}
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithRules replaces the rule list.
func WithRules(rules []Rule) Option {
	return func(m *Matcher) {
		if len(rules) > 0 {
			m.rules = rules
		}
	}
}

// Matcher picks the best canned response for a question.
type Matcher struct {
	rules []Rule
}

// New creates a Matcher with the default topic rules.
func New(opts ...Option) *Matcher {
	m := &Matcher{rules: defaultRules()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Suggest returns a non-empty response for question.
func (m *Matcher) Suggest(question string, analysis model.QuestionAnalysis) string {
	var (
		best      string
		bestScore float64
	)
	consider := func(text string, weight float64) {
		for _, r := range m.rules {
			score := r.Confidence * weight
			if score > bestScore && r.Pattern.MatchString(text) {
				best, bestScore = r.Response, score
			}
		}
	}
	consider(question, 1)
	for _, metric := range analysis.Metrics {
		consider(strings.ReplaceAll(metric, "_", " "), metricKeywordWeight)
	}
	if best != "" {
		return best
	}

	switch {
	case analysis.HasEntities() && !analysis.HasMetric():
		return templates.Interpolate(EntityNudge, map[string]any{
			"entities": joinNames(analysis.Entities),
			"entity":   analysis.Entities[0],
		})
	case analysis.HasMetric() && !analysis.HasEntities():
		label := analysis.Metrics[0]
		if mt, ok := model.LookupMetric(label); ok {
			label = mt.Label
		}
		return templates.Interpolate(MetricNudge, map[string]any{"metric": label})
	}
	return GenericNudge
}

// joinNames renders "A", "A and B", "A, B and C".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
