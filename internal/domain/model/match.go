package model

import (
	"fmt"
	"strings"
)

// Position is the playing class used by fantasy scoring.
type Position string

// Playing positions.
const (
	PositionGK  Position = "GK"
	PositionDEF Position = "DEF"
	PositionMID Position = "MID"
	PositionFWD Position = "FWD"
)

// ParsePosition accepts the short codes and the long names stored on match records.
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "GOALKEEPER", "KEEPER":
		return PositionGK, nil
	case "DEF", "DEFENDER":
		return PositionDEF, nil
	case "MID", "MIDFIELDER":
		return PositionMID, nil
	case "FWD", "FORWARD", "STRIKER":
		return PositionFWD, nil
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// MatchEvent is one player's record for one fixture. Missing counts are zero.
type MatchEvent struct {
	FixtureID         string
	Position          Position
	Minutes           int
	ManOfMatch        bool
	Goals             int
	Assists           int
	YellowCards       int
	RedCards          int
	Saves             int
	OwnGoals          int
	PenaltiesScored   int
	PenaltiesMissed   int
	PenaltiesConceded int
	PenaltiesSaved    int
	// Conceded is the number of goals the player's team conceded in the
	// fixture. The caller supplies it from the fixture record.
	Conceded int
}

// CleanSheet reports whether the player took the field in a fixture where
// their team conceded nothing.
func (e MatchEvent) CleanSheet() bool {
	return e.Minutes > 0 && e.Conceded == 0
}
