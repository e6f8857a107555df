package query

import (
	"math"

	"github.com/okian/clubstats/internal/domain/model"
)

// Row is one result record keyed by column name. Drivers return int64 and
// float64 for numbers; nil for missing values.
type Row map[string]any

// Float returns a numeric column as float64, zero when absent.
func (r Row) Float(col string) float64 {
	switch v := r[col].(type) {
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case float64:
		return v
	case float32:
		return float64(v)
	}
	return 0
}

// Int returns a numeric column rounded to an int.
func (r Row) Int(col string) int {
	return int(math.Round(r.Float(col)))
}

// String returns a string column, "" when absent.
func (r Row) String(col string) string {
	s, _ := r[col].(string)
	return s
}

// Bool returns a boolean column. Numbers are true when non-zero.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1" || v == "yes"
	}
	return r.Float(col) != 0
}

// MatchEvent reads a row produced by PlayerEvents. An unrecognised
// position is left empty.
func (r Row) MatchEvent() model.MatchEvent {
	pos, _ := model.ParsePosition(r.String("position"))
	return model.MatchEvent{
		FixtureID:         r.String("fixtureId"),
		Position:          pos,
		Minutes:           r.Int("minutes"),
		ManOfMatch:        r.Bool("manOfMatch"),
		Goals:             r.Int("goals"),
		Assists:           r.Int("assists"),
		YellowCards:       r.Int("yellowCards"),
		RedCards:          r.Int("redCards"),
		Saves:             r.Int("saves"),
		OwnGoals:          r.Int("ownGoals"),
		PenaltiesScored:   r.Int("penaltiesScored"),
		PenaltiesMissed:   r.Int("penaltiesMissed"),
		PenaltiesConceded: r.Int("penaltiesConceded"),
		PenaltiesSaved:    r.Int("penaltiesSaved"),
		Conceded:          r.Int("conceded"),
	}
}
