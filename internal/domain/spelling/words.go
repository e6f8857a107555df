package spelling

// domainTerms are the statistic and football words every dictionary holds.
var domainTerms = []string{
	"goals", "goal", "assists", "assist", "appearances", "appearance", "apps",
	"minutes", "played", "game", "games", "matches", "match", "fixtures", "fixture",
	"clean", "sheets", "sheet", "saves", "save", "yellow", "red", "cards", "card",
	"bookings", "penalties", "penalty", "pens", "scored", "missed", "conceded",
	"own", "man", "mom", "fantasy", "points", "involvements", "ratio",
	"average", "per", "team", "teams", "season", "seasons", "home", "away",
	"against", "opposition", "wins", "won", "draws", "drawn", "losses", "lost",
	"league", "cup", "first", "second", "third", "fourth", "fifth", "sixth",
	"seventh", "eighth", "player", "players", "total", "career", "record",
	"top", "scorer", "scorers", "most", "more", "fewest", "least", "best",
}

// questionWords open questions; replacing one into them needs the higher threshold.
var questionWords = []string{"how", "what", "which", "who", "where", "when", "why"}

// commonVerbs are short, frequent verbs easily confused with dictionary entries.
var commonVerbs = []string{
	"played", "has", "have", "had", "got", "get", "gets", "made", "make", "makes",
	"did", "does", "do", "is", "are", "was", "were", "been", "scored", "score",
	"kept", "keep", "won", "lost", "take", "took", "give", "gave", "show", "tell",
}

// functionWords hold the rest of the English glue that should never be corrected.
var functionWords = []string{
	"many", "much", "for", "and", "with", "from", "this", "that", "last", "since",
	"than", "there", "their", "they", "them", "his", "her", "him", "she", "you",
	"your", "our", "mine", "all", "any", "each", "every", "time", "times", "ever",
	"year", "years", "into", "out", "over", "under", "between", "versus", "both",
	"number", "amount", "count", "stats", "statistics", "scoring", "the", "about",
	"can", "could", "would", "should", "please", "tell", "give", "show", "list",
	"far", "now", "current", "previous", "xi", "vs",
}
