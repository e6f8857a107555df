package model

// MetricKind tells the query builder how a metric is computed.
type MetricKind int

// Metric kinds.
const (
	// KindCounter sums a stored per-match property.
	KindCounter MetricKind = iota
	// KindAppearances counts matches played.
	KindAppearances
	// KindCleanSheets counts matches played where the team conceded nothing.
	KindCleanSheets
	// KindRatio divides one counter by another.
	KindRatio
	// KindSum adds several counters.
	KindSum
	// KindFantasy is derived from per-match events at query time.
	KindFantasy
	// KindTeamResult counts fixtures by result.
	KindTeamResult
	// KindConceded sums goals conceded in the fixtures played.
	KindConceded
)

// Metric describes one statistic a question can ask about.
type Metric struct {
	Key     string
	Label   string   // plural noun used in answers
	Phrases []string // lower-case phrases that name the metric
	Kind    MetricKind
	// Property is the MatchDetail property for KindCounter and the result
	// code ("W", "D", "L") for KindTeamResult.
	Property string
	// Parts are the metric keys combined by KindRatio (numerator,
	// denominator) and KindSum.
	Parts []string
	// PerMatch marks ratios whose denominator is appearances.
	PerMatch bool
}

// Metric keys.
const (
	MetricGoals                = "goals"
	MetricAssists              = "assists"
	MetricAppearances          = "appearances"
	MetricMinutes              = "minutes"
	MetricYellowCards          = "yellow_cards"
	MetricRedCards             = "red_cards"
	MetricCleanSheets          = "clean_sheets"
	MetricSaves                = "saves"
	MetricOwnGoals             = "own_goals"
	MetricPenaltiesScored      = "penalties_scored"
	MetricPenaltiesMissed      = "penalties_missed"
	MetricPenaltiesSaved       = "penalties_saved"
	MetricPenaltiesConceded    = "penalties_conceded"
	MetricManOfMatch           = "man_of_match"
	MetricFantasyPoints        = "fantasy_points"
	MetricGoalsConceded        = "goals_conceded"
	MetricGoalInvolvements     = "goal_involvements"
	MetricGoalsPerAppearance   = "goals_per_appearance"
	MetricAssistsPerAppearance = "assists_per_appearance"
	MetricMinutesPerGoal       = "minutes_per_goal"
	MetricWins                 = "wins"
	MetricDraws                = "draws"
	MetricLosses               = "losses"
)

var metricCatalog = []Metric{
	{Key: MetricGoalsPerAppearance, Label: "goals per appearance", Kind: KindRatio, Parts: []string{MetricGoals, MetricAppearances}, PerMatch: true,
		Phrases: []string{"goals per appearance", "goals per game", "goals per match", "goals a game", "goal ratio", "goals ratio"}},
	{Key: MetricAssistsPerAppearance, Label: "assists per appearance", Kind: KindRatio, Parts: []string{MetricAssists, MetricAppearances}, PerMatch: true,
		Phrases: []string{"assists per appearance", "assists per game", "assists per match", "assists a game"}},
	{Key: MetricMinutesPerGoal, Label: "minutes per goal", Kind: KindRatio, Parts: []string{MetricMinutes, MetricGoals},
		Phrases: []string{"minutes per goal", "mins per goal"}},
	{Key: MetricGoalInvolvements, Label: "goal involvements", Kind: KindSum, Parts: []string{MetricGoals, MetricAssists},
		Phrases: []string{"goal involvements", "goals and assists", "goals plus assists", "g+a"}},
	{Key: MetricPenaltiesScored, Label: "penalties scored", Kind: KindCounter, Property: "penaltiesScored",
		Phrases: []string{"penalties scored", "penalty goals", "pens scored", "scored penalties", "penalties", "pens"}},
	{Key: MetricPenaltiesMissed, Label: "penalties missed", Kind: KindCounter, Property: "penaltiesMissed",
		Phrases: []string{"penalties missed", "missed penalties", "pens missed", "penalty misses"}},
	{Key: MetricPenaltiesSaved, Label: "penalties saved", Kind: KindCounter, Property: "penaltiesSaved",
		Phrases: []string{"penalties saved", "penalty saves", "pens saved", "saved penalties"}},
	{Key: MetricPenaltiesConceded, Label: "penalties conceded", Kind: KindCounter, Property: "penaltiesConceded",
		Phrases: []string{"penalties conceded", "pens conceded", "conceded penalties"}},
	{Key: MetricOwnGoals, Label: "own goals", Kind: KindCounter, Property: "ownGoals",
		Phrases: []string{"own goals", "own goal"}},
	{Key: MetricGoalsConceded, Label: "goals conceded", Kind: KindConceded,
		Phrases: []string{"goals conceded", "conceded goals", "goals against"}},
	{Key: MetricCleanSheets, Label: "clean sheets", Kind: KindCleanSheets,
		Phrases: []string{"clean sheets", "clean sheet", "shutouts"}},
	{Key: MetricYellowCards, Label: "yellow cards", Kind: KindCounter, Property: "yellowCards",
		Phrases: []string{"yellow cards", "yellow card", "yellows", "bookings"}},
	{Key: MetricRedCards, Label: "red cards", Kind: KindCounter, Property: "redCards",
		Phrases: []string{"red cards", "red card", "reds", "sendings off"}},
	{Key: MetricManOfMatch, Label: "man of the match awards", Kind: KindCounter, Property: "mom",
		Phrases: []string{"man of the match awards", "man of the match", "player of the match", "motm", "mom"}},
	{Key: MetricFantasyPoints, Label: "fantasy points", Kind: KindFantasy,
		Phrases: []string{"fantasy points", "fantasy score", "fantasy", "points"}},
	{Key: MetricMinutes, Label: "minutes", Kind: KindCounter, Property: "minutes",
		Phrases: []string{"minutes played", "minutes", "mins"}},
	{Key: MetricAppearances, Label: "appearances", Kind: KindAppearances,
		Phrases: []string{"appearances", "appearance", "apps", "games played", "matches played", "games", "matches", "caps"}},
	{Key: MetricSaves, Label: "saves", Kind: KindCounter, Property: "saves",
		Phrases: []string{"saves", "save"}},
	{Key: MetricAssists, Label: "assists", Kind: KindCounter, Property: "assists",
		Phrases: []string{"assists", "assist"}},
	{Key: MetricGoals, Label: "goals", Kind: KindCounter, Property: "goals",
		Phrases: []string{"goals", "goal"}},
	{Key: MetricWins, Label: "wins", Kind: KindTeamResult, Property: "W",
		Phrases: []string{"games won", "matches won", "wins", "victories"}},
	{Key: MetricDraws, Label: "draws", Kind: KindTeamResult, Property: "D",
		Phrases: []string{"games drawn", "matches drawn", "draws"}},
	{Key: MetricLosses, Label: "losses", Kind: KindTeamResult, Property: "L",
		Phrases: []string{"games lost", "matches lost", "losses", "defeats"}},
}

var metricsByKey = func() map[string]Metric {
	m := make(map[string]Metric, len(metricCatalog))
	for _, mt := range metricCatalog {
		m[mt.Key] = mt
	}
	return m
}()

// Metrics returns the metric catalog, most specific phrases first.
func Metrics() []Metric {
	out := make([]Metric, len(metricCatalog))
	copy(out, metricCatalog)
	return out
}

// LookupMetric returns the metric with key.
func LookupMetric(key string) (Metric, bool) {
	m, ok := metricsByKey[key]
	return m, ok
}
