package query_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/query"
)

func metric(key string) model.Metric {
	m, ok := model.LookupMetric(key)
	if !ok {
		panic("unknown metric " + key)
	}
	return m
}

func TestPlayerStat(t *testing.T) {
	Convey("Given a player counter metric", t, func() {
		Convey("When no filters are set", func() {
			q, err := query.PlayerStat("Luke Bangs", metric(model.MetricGoals), query.Filters{})

			Convey("Then the name travels as a parameter", func() {
				So(err, ShouldBeNil)
				So(q.Params["playerName"], ShouldEqual, "Luke Bangs")
				So(q.Text, ShouldNotContainSubstring, "Luke Bangs")
				So(q.Text, ShouldContainSubstring, "sum(coalesce(md.goals, 0)) AS value")
				So(q.Text, ShouldContainSubstring, "count(md) AS appearances")
				So(q.Text, ShouldNotContainSubstring, "WHERE")
			})
		})

		Convey("When every filter is set", func() {
			f := query.Filters{
				Team:       "3rd XI",
				Season:     "2019/20",
				Location:   model.LocationAway,
				Opposition: "Old Boys",
				From:       "2021-01-01",
				To:         "2022-01-01",
			}
			q, err := query.PlayerStat("Luke Bangs", metric(model.MetricAssists), f)

			Convey("Then each becomes a condition and a parameter", func() {
				So(err, ShouldBeNil)
				So(q.Text, ShouldContainSubstring, "f.team = $team AND f.season = $season")
				So(q.Text, ShouldContainSubstring, "f.date < $to")
				So(q.Params["team"], ShouldEqual, "3rd XI")
				So(q.Params["season"], ShouldEqual, "2019/20")
				So(q.Params["location"], ShouldEqual, "away")
				So(q.Params["opposition"], ShouldEqual, "Old Boys")
				So(q.Params["from"], ShouldEqual, "2021-01-01")
				So(q.Params["to"], ShouldEqual, "2022-01-01")
			})
		})

		Convey("When the metric is a ratio", func() {
			q, err := query.PlayerStat("Luke Bangs", metric(model.MetricGoalsPerAppearance), query.Filters{})

			Convey("Then value and denominator columns are returned", func() {
				So(err, ShouldBeNil)
				So(q.Text, ShouldContainSubstring, "sum(coalesce(md.goals, 0)) AS value")
				So(q.Text, ShouldContainSubstring, "count(md) AS denominator")
			})
		})

		Convey("When the metric is a sum", func() {
			q, err := query.PlayerStat("Luke Bangs", metric(model.MetricGoalInvolvements), query.Filters{})

			Convey("Then the parts are added", func() {
				So(err, ShouldBeNil)
				So(q.Text, ShouldContainSubstring, "sum(coalesce(md.goals, 0)) + sum(coalesce(md.assists, 0)) AS value")
			})
		})

		Convey("When the metric is a team result", func() {
			q, err := query.PlayerStat("Luke Bangs", metric(model.MetricWins), query.Filters{})

			Convey("Then the result code is a parameter", func() {
				So(err, ShouldBeNil)
				So(q.Params["result"], ShouldEqual, "W")
			})
		})

		Convey("When the metric is fantasy points", func() {
			_, err := query.PlayerStat("Luke Bangs", metric(model.MetricFantasyPoints), query.Filters{})

			Convey("Then it is unsupported", func() {
				So(errors.Is(err, query.ErrUnsupportedMetric), ShouldBeTrue)
			})
		})

		Convey("When the player is blank", func() {
			_, err := query.PlayerStat("  ", metric(model.MetricGoals), query.Filters{})

			Convey("Then the entity is missing", func() {
				So(errors.Is(err, query.ErrMissingEntity), ShouldBeTrue)
			})
		})

		Convey("When a counter property is not an identifier", func() {
			bad := model.Metric{Key: "x", Kind: model.KindCounter, Property: "goals) DETACH DELETE p //"}
			_, err := query.PlayerStat("Luke Bangs", bad, query.Filters{})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, query.ErrUnsupportedMetric), ShouldBeTrue)
			})
		})
	})
}

func TestPlayerEvents(t *testing.T) {
	Convey("Given a per-match listing", t, func() {
		q, err := query.PlayerEvents("Luke Bangs", query.Filters{Season: "2023/24"})

		Convey("Then it returns the event columns in date order", func() {
			So(err, ShouldBeNil)
			So(q.Text, ShouldContainSubstring, "md.class AS position")
			So(q.Text, ShouldContainSubstring, "AS conceded")
			So(q.Text, ShouldEndWith, "ORDER BY f.date")
			So(q.Params["season"], ShouldEqual, "2023/24")
		})
	})
}

func TestTeamStat(t *testing.T) {
	Convey("Given team level metrics", t, func() {
		Convey("When asking for goals", func() {
			q, err := query.TeamStat(metric(model.MetricGoals), query.Filters{Team: "1st XI"})

			Convey("Then fixtures goalsScored is summed", func() {
				So(err, ShouldBeNil)
				So(q.Text, ShouldStartWith, "MATCH (f:Fixture)")
				So(q.Text, ShouldContainSubstring, "sum(coalesce(f.goalsScored, 0)) AS value")
				So(q.Params["team"], ShouldEqual, "1st XI")
			})
		})

		Convey("When asking for losses", func() {
			q, err := query.TeamStat(metric(model.MetricLosses), query.Filters{})

			Convey("Then the result code is L", func() {
				So(err, ShouldBeNil)
				So(q.Params["result"], ShouldEqual, "L")
			})
		})

		Convey("When asking for a player-only counter", func() {
			_, err := query.TeamStat(metric(model.MetricYellowCards), query.Filters{})

			Convey("Then it is unsupported", func() {
				So(errors.Is(err, query.ErrUnsupportedMetric), ShouldBeTrue)
			})
		})
	})
}

func TestLeaderboard(t *testing.T) {
	Convey("Given a leaderboard request", t, func() {
		Convey("When no limit is given", func() {
			q, err := query.Leaderboard(metric(model.MetricGoals), query.Filters{}, 0)

			Convey("Then the default size is used and ties sort by name", func() {
				So(err, ShouldBeNil)
				So(q.Params["limit"], ShouldEqual, query.DefaultLeaderboardSize)
				So(q.Text, ShouldContainSubstring, "ORDER BY value DESC, playerName ASC")
				So(q.Text, ShouldContainSubstring, "WHERE value > 0")
			})
		})

		Convey("When the metric is a ratio", func() {
			_, err := query.Leaderboard(metric(model.MetricMinutesPerGoal), query.Filters{}, 3)

			Convey("Then it is unsupported", func() {
				So(errors.Is(err, query.ErrUnsupportedMetric), ShouldBeTrue)
			})
		})
	})
}

func TestFromQualifiers(t *testing.T) {
	Convey("Given analysis qualifiers", t, func() {
		Convey("When this season is asked", func() {
			f := query.FromQualifiers(model.Qualifiers{
				Timeframe: &model.Timeframe{Kind: model.TimeframeThisSeason},
				Location:  model.LocationHome,
			}, "2nd XI", "2024/25")

			Convey("Then the current season is pinned", func() {
				So(f.Season, ShouldEqual, "2024/25")
				So(f.Team, ShouldEqual, "2nd XI")
				So(f.Location, ShouldEqual, model.LocationHome)
			})
		})

		Convey("When last season is asked", func() {
			f := query.FromQualifiers(model.Qualifiers{Timeframe: &model.Timeframe{Kind: model.TimeframeLastSeason}}, "", "2024/25")
			So(f.Season, ShouldEqual, "2023/24")
		})

		Convey("When an explicit season is given with a timeframe", func() {
			f := query.FromQualifiers(model.Qualifiers{Season: "2019/20", Timeframe: &model.Timeframe{Kind: model.TimeframeThisSeason}}, "", "2024/25")
			So(f.Season, ShouldEqual, "2019/20")
		})

		Convey("When a calendar year is given", func() {
			f := query.FromQualifiers(model.Qualifiers{Timeframe: &model.Timeframe{Kind: model.TimeframeYear, Year: 2021}}, "", "2024/25")
			So(f.From, ShouldEqual, "2021-01-01")
			So(f.To, ShouldEqual, "2022-01-01")
		})

		Convey("When since a year is given", func() {
			f := query.FromQualifiers(model.Qualifiers{Timeframe: &model.Timeframe{Kind: model.TimeframeSince, Year: 2020}}, "", "2024/25")
			So(f.From, ShouldEqual, "2020-01-01")
			So(f.To, ShouldBeEmpty)
		})

		Convey("When nothing is set", func() {
			So(query.FromQualifiers(model.Qualifiers{}, "", "2024/25").Empty(), ShouldBeTrue)
		})
	})
}

func TestSeasons(t *testing.T) {
	Convey("Given season helpers", t, func() {
		So(query.SeasonAt(time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)), ShouldEqual, "2024/25")
		So(query.SeasonAt(time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC)), ShouldEqual, "2024/25")
		So(query.SeasonAt(time.Date(1999, time.September, 1, 0, 0, 0, 0, time.UTC)), ShouldEqual, "1999/00")
		So(query.PreviousSeason("2024/25"), ShouldEqual, "2023/24")
		So(query.PreviousSeason("2000/01"), ShouldEqual, "1999/00")
		So(query.PreviousSeason("junk"), ShouldEqual, "junk")
	})
}

func TestGuard(t *testing.T) {
	Convey("Given query parameters", t, func() {
		Convey("When they are ordinary names", func() {
			q, _ := query.PlayerStat("Luke Bangs", metric(model.MetricGoals), query.Filters{Opposition: "Old Boys"})
			So(query.Guard(q), ShouldBeNil)
		})

		Convey("When a value carries an injection payload", func() {
			q := query.Query{Params: map[string]any{
				"playerName": "x' OR '1'='1",
				"limit":      5,
			}}
			err := query.Guard(q)

			Convey("Then the query is rejected naming the parameter", func() {
				So(errors.Is(err, query.ErrUnsafeParameter), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "playerName")
			})
		})

		Convey("When a slice value is checked", func() {
			v := query.CheckParameter("names", []string{"Luke Bangs", "1 UNION SELECT password FROM users"})
			So(v, ShouldNotBeNil)
			So(v.Param, ShouldEqual, "names")
			So(v.Fingerprint, ShouldNotBeEmpty)
		})

		Convey("When a value is not a string", func() {
			So(query.CheckParameter("limit", 5), ShouldBeNil)
		})
	})
}

func TestRow(t *testing.T) {
	Convey("Given a driver row", t, func() {
		r := query.Row{
			"fixtureId":  "F1",
			"position":   "Goalkeeper",
			"minutes":    int64(90),
			"manOfMatch": true,
			"saves":      int64(4),
			"conceded":   int64(0),
			"value":      1.5,
			"missing":    nil,
		}

		Convey("Then numeric helpers accept int64 and float64", func() {
			So(r.Float("value"), ShouldEqual, 1.5)
			So(r.Int("minutes"), ShouldEqual, 90)
			So(r.Float("missing"), ShouldEqual, 0.0)
			So(r.String("missing"), ShouldBeEmpty)
		})

		Convey("Then it converts to a match event", func() {
			e := r.MatchEvent()
			So(e.FixtureID, ShouldEqual, "F1")
			So(e.Position, ShouldEqual, model.PositionGK)
			So(e.ManOfMatch, ShouldBeTrue)
			So(e.Saves, ShouldEqual, 4)
			So(e.CleanSheet(), ShouldBeTrue)
		})
	})
}
