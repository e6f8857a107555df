package model

// Intent is the question shape the analyzer recognised.
type Intent string

// Question intents.
const (
	IntentPlayerMetric Intent = "player_metric"
	IntentTeamMetric   Intent = "team_metric"
	IntentComparison   Intent = "comparison"
	IntentLeaderboard  Intent = "leaderboard"
)

// Location restricts a question to home or away fixtures.
type Location string

// Fixture locations.
const (
	LocationHome Location = "home"
	LocationAway Location = "away"
)

// TimeframeKind distinguishes the supported relative timeframes.
type TimeframeKind string

// Timeframe kinds.
const (
	TimeframeThisSeason TimeframeKind = "this_season"
	TimeframeLastSeason TimeframeKind = "last_season"
	TimeframeYear       TimeframeKind = "year"
	TimeframeSince      TimeframeKind = "since"
)

// Timeframe is a relative or calendar restriction ("this season", "in 2021", "since 2020").
type Timeframe struct {
	Kind TimeframeKind `json:"kind"`
	Year int           `json:"year,omitempty"`
	Text string        `json:"text"` // phrase as written, used in answers
}

// Qualifiers narrow a metric lookup. Zero values mean "no restriction".
type Qualifiers struct {
	Team        string     `json:"team,omitempty"`   // ordinal form, e.g. "3rd"
	Season      string     `json:"season,omitempty"` // "2019/20"
	Location    Location   `json:"location,omitempty"`
	Opposition  string     `json:"opposition,omitempty"`
	Timeframe   *Timeframe `json:"timeframe,omitempty"`
	FirstPerson bool       `json:"firstPerson,omitempty"`
}

// Empty reports whether no qualifier was extracted. FirstPerson is not a
// restriction on the data and is ignored.
func (q Qualifiers) Empty() bool {
	return q.Team == "" && q.Season == "" && q.Location == "" && q.Opposition == "" && q.Timeframe == nil
}

// QuestionAnalysis is the structured intent derived from one question.
type QuestionAnalysis struct {
	Entities   []string   `json:"entities"`
	Metrics    []string   `json:"metrics"`
	Qualifiers Qualifiers `json:"qualifiers"`
	Intent     Intent     `json:"intent"`
}

// HasMetric reports whether at least one metric keyword was found.
func (a QuestionAnalysis) HasMetric() bool { return len(a.Metrics) > 0 }

// HasEntities reports whether at least one entity substring was found.
func (a QuestionAnalysis) HasEntities() bool { return len(a.Entities) > 0 }
