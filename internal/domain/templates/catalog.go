package templates

// Template keys.
const (
	PlayerMetric             = "player_metric"
	PlayerMetricWithContext  = "player_metric_with_context"
	PlayerZero               = "player_zero"
	PlayerZeroWithContext    = "player_zero_with_context"
	PlayerRatio              = "player_ratio"
	PlayerRatioWithContext   = "player_ratio_with_context"
	FantasyPoints            = "fantasy_points"
	FantasyPointsWithContext = "fantasy_points_with_context"
	TeamMetric               = "team_metric"
	TeamMetricWithContext    = "team_metric_with_context"
	Comparison               = "comparison"
	ComparisonWithContext    = "comparison_with_context"
	ComparisonTie            = "comparison_tie"
	Leaderboard              = "leaderboard"
	LeaderboardWithContext   = "leaderboard_with_context"
	PlayerNotFound           = "player_not_found"
	PlayerNotFoundSuggestion = "player_not_found_suggestion"
	TeamNotFound             = "team_not_found"
	OppositionNotFound       = "opposition_not_found"
	AmbiguousEntity          = "ambiguous_entity"
	TeamAmbiguous            = "team_ambiguous"
	OppositionAmbiguous      = "opposition_ambiguous"
	DatabaseError            = "database_error"
	ZeroAppearances          = "zero_appearances"
	NoData                   = "no_data"
	NoDataWithContext        = "no_data_with_context"
	NoUserContext            = "no_user_context"
	UnknownTemplate          = "unknown_template"
)

const (
	withContextSuffix = "_with_context"
	defaultCacheSize  = 500
	placeholderOpen   = "{{"
	placeholderClose  = "}}"
	fieldSeparator    = "\x1f"
)

// Template is a parameterised sentence.
type Template struct {
	Key  string
	Body string
}

func defaultCatalog() map[string]string {
	return map[string]string{
		PlayerMetric:             "{{playerName}} has {{value}} {{metric}}.",
		PlayerMetricWithContext:  "{{playerName}} has {{value}} {{metric}} {{context}}.",
		PlayerZero:               "{{playerName}} has no {{metric}} yet.",
		PlayerZeroWithContext:    "{{playerName}} has no {{metric}} {{context}}.",
		PlayerRatio:              "{{playerName}} averages {{value}} {{metric}}.",
		PlayerRatioWithContext:   "{{playerName}} averages {{value}} {{metric}} {{context}}.",
		FantasyPoints:            "{{playerName}} has {{value}} fantasy points from {{matches}}.",
		FantasyPointsWithContext: "{{playerName}} has {{value}} fantasy points from {{matches}} {{context}}.",
		TeamMetric:               "The {{teamName}} have {{value}} {{metric}}.",
		TeamMetricWithContext:    "The {{teamName}} have {{value}} {{metric}} {{context}}.",
		Comparison:               "{{winner}} has more {{metric}} ({{winnerValue}}) than {{loser}} ({{loserValue}}).",
		ComparisonWithContext:    "{{winner}} has more {{metric}} ({{winnerValue}}) than {{loser}} ({{loserValue}}) {{context}}.",
		ComparisonTie:            "{{playerA}} and {{playerB}} both have {{value}} {{metric}}.",
		Leaderboard:              "{{playerName}} has the most {{metric}} with {{value}}.",
		LeaderboardWithContext:   "{{playerName}} has the most {{metric}} {{context}} with {{value}}.",
		PlayerNotFound:           "I couldn't find a player called {{playerName}}.",
		PlayerNotFoundSuggestion: "I couldn't find a player called {{playerName}}. Did you mean {{suggestion}}?",
		TeamNotFound:             "I couldn't find a team called {{teamName}}.",
		OppositionNotFound:       "I couldn't find an opposition called {{opposition}}.",
		AmbiguousEntity:          "I found more than one player matching {{input}}: {{candidates}}. Which one did you mean?",
		TeamAmbiguous:            "I found more than one team matching {{input}}: {{candidates}}. Which one did you mean?",
		OppositionAmbiguous:      "I found more than one opposition matching {{input}}: {{candidates}}. Which one did you mean?",
		DatabaseError:            "Sorry, I can't reach the club statistics right now. Please try again in a moment.",
		ZeroAppearances:          "{{playerName}} hasn't made any appearances yet, so I can't work out {{metric}}.",
		NoData:                   "I don't have any {{metric}} data for {{playerName}}.",
		NoDataWithContext:        "I don't have any {{metric}} data for {{playerName}} {{context}}.",
		NoUserContext:            "I don't know who you are yet. Select your name first, then ask about your own stats.",
		UnknownTemplate:          "Sorry, I couldn't put that answer together.",
	}
}
