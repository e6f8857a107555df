package analyzer

import (
	"strconv"

	"github.com/okian/clubstats/internal/domain/model"
)

// verbPhrases name a metric only when no noun phrase does.
var verbPhrases = map[string]string{
	"scored":   model.MetricGoals,
	"scorer":   model.MetricGoals,
	"scorers":  model.MetricGoals,
	"score":    model.MetricGoals,
	"assisted": model.MetricAssists,
	"booked":   model.MetricYellowCards,
	"sent off": model.MetricRedCards,
	"won":      model.MetricWins,
	"lost":     model.MetricLosses,
	"drew":     model.MetricDraws,
	"drawn":    model.MetricDraws,
	"conceded": model.MetricGoalsConceded,
	"missed":   "",
	"saved":    "",
	"played":   model.MetricAppearances,
}

// refinements turn a noun metric into a more specific one when a verb
// qualifies it: "goals conceded", "games won", "penalties missed".
var refinements = map[string]map[string]string{
	model.MetricGoals: {
		"conceded": model.MetricGoalsConceded,
	},
	model.MetricAppearances: {
		"won":   model.MetricWins,
		"lost":  model.MetricLosses,
		"drew":  model.MetricDraws,
		"drawn": model.MetricDraws,
	},
	model.MetricPenaltiesScored: {
		"missed":   model.MetricPenaltiesMissed,
		"saved":    model.MetricPenaltiesSaved,
		"conceded": model.MetricPenaltiesConceded,
	},
}

// stopWords are capitalised words that never start or join an entity name.
var stopWords = map[string]struct{}{
	"how": {}, "what": {}, "which": {}, "who": {}, "whom": {}, "whose": {}, "where": {}, "when": {}, "why": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "has": {}, "have": {}, "had": {}, "did": {}, "does": {}, "do": {},
	"can": {}, "could": {}, "would": {}, "should": {}, "will": {}, "tell": {}, "show": {}, "give": {}, "list": {},
	"please": {}, "the": {}, "a": {}, "an": {}, "i": {}, "i've": {}, "i'm": {}, "my": {}, "me": {}, "in": {},
	"for": {}, "at": {}, "of": {}, "and": {}, "or": {}, "vs": {}, "v": {}, "versus": {}, "compare": {},
	"between": {}, "team": {}, "xi": {}, "season": {}, "this": {}, "last": {}, "since": {}, "home": {}, "away": {},
	"total": {}, "career": {}, "most": {}, "top": {}, "more": {}, "than": {}, "so": {}, "far": {}, "all": {},
	"name": {}, "find": {}, "get": {}, "what's": {}, "who's": {}, "how's": {}, "any": {}, "ok": {}, "hi": {},
	"hello": {}, "hey": {}, "thanks": {},
}

// oppositionStops end an opposition name that is not capitalised.
var oppositionStops = map[string]struct{}{
	"in": {}, "this": {}, "last": {}, "for": {}, "at": {}, "since": {}, "season": {}, "home": {}, "away": {},
	"during": {}, "and": {}, "or": {}, "with": {}, "by": {}, "from": {}, "ever": {}, "so": {},
}

var ordinalWords = map[string]string{
	"first": "1st", "second": "2nd", "third": "3rd", "fourth": "4th",
	"fifth": "5th", "sixth": "6th", "seventh": "7th", "eighth": "8th",
}

// Ordinal renders n as "1st", "2nd", "3rd", "4th"...
func Ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}
