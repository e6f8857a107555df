package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/clubstats/internal/domain/model"
)

// seasonStartMonth is the month a new season begins.
const seasonStartMonth = time.August

// Filters restrict the fixtures a query aggregates over. Empty fields do
// not filter.
type Filters struct {
	Team       string // stored team name, e.g. "3rd XI"
	Season     string // "2019/20"
	Location   model.Location
	Opposition string
	From       string // inclusive ISO date
	To         string // exclusive ISO date
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return f == Filters{}
}

// FromQualifiers turns analysis qualifiers into filters. teamName is the
// resolved stored team name; currentSeason pins "this season".
func FromQualifiers(q model.Qualifiers, teamName, currentSeason string) Filters {
	f := Filters{
		Team:       teamName,
		Season:     q.Season,
		Location:   q.Location,
		Opposition: q.Opposition,
	}
	if tf := q.Timeframe; tf != nil {
		switch tf.Kind {
		case model.TimeframeThisSeason:
			if f.Season == "" {
				f.Season = currentSeason
			}
		case model.TimeframeLastSeason:
			if f.Season == "" {
				f.Season = PreviousSeason(currentSeason)
			}
		case model.TimeframeYear:
			f.From = fmt.Sprintf("%04d-01-01", tf.Year)
			f.To = fmt.Sprintf("%04d-01-01", tf.Year+1)
		case model.TimeframeSince:
			f.From = fmt.Sprintf("%04d-01-01", tf.Year)
		}
	}
	return f
}

// SeasonAt returns the season label ("2024/25") containing t.
func SeasonAt(t time.Time) string {
	start := t.Year()
	if t.Month() < seasonStartMonth {
		start--
	}
	return fmt.Sprintf("%d/%02d", start, (start+1)%100)
}

// PreviousSeason returns the season before s. Unparseable input is returned unchanged.
func PreviousSeason(s string) string {
	first, _, ok := strings.Cut(s, "/")
	if !ok {
		return s
	}
	y, err := strconv.Atoi(first)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d/%02d", y-1, y%100)
}

// where renders the WHERE clause over fixture alias f and fills params.
func (f Filters) where(params map[string]any) string {
	var conds []string
	if f.Team != "" {
		conds = append(conds, "f.team = $team")
		params["team"] = f.Team
	}
	if f.Season != "" {
		conds = append(conds, "f.season = $season")
		params["season"] = f.Season
	}
	if f.Location != "" {
		conds = append(conds, "toLower(f.homeOrAway) = $location")
		params["location"] = string(f.Location)
	}
	if f.Opposition != "" {
		conds = append(conds, "toLower(f.opposition) = toLower($opposition)")
		params["opposition"] = f.Opposition
	}
	if f.From != "" {
		conds = append(conds, "f.date >= $from")
		params["from"] = f.From
	}
	if f.To != "" {
		conds = append(conds, "f.date < $to")
		params["to"] = f.To
	}
	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ") + "\n"
}
