package graph

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/query"
)

type fakeRunner struct {
	calls atomic.Int32
	rows  []query.Row
	err   error
	last  query.Query
}

func (f *fakeRunner) Run(ctx context.Context, q query.Query) ([]query.Row, error) {
	f.calls.Add(1)
	f.last = q
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.rows, f.err
}

func TestRowsFrom(t *testing.T) {
	Convey("Given driver records", t, func() {
		records := []*neo4j.Record{
			{Keys: []string{"appearances", "value"}, Values: []any{int64(20), int64(12)}},
			nil,
			{Keys: []string{"name", "extra"}, Values: []any{"Luke Bangs"}},
		}

		Convey("When they are converted", func() {
			rows := rowsFrom(records)

			Convey("Then keys map to values and nil records are skipped", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Int("appearances"), ShouldEqual, 20)
				So(rows[0].Float("value"), ShouldEqual, 12.0)
				So(rows[1].String("name"), ShouldEqual, "Luke Bangs")
				_, ok := rows[1]["extra"]
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestBreaker(t *testing.T) {
	Convey("Given a breaker over a failing runner", t, func() {
		ctx := context.Background()
		next := &fakeRunner{err: errors.New("bolt: connection refused")}
		b := NewBreaker(next, WithMaxFailures(2), WithOpenTimeout(time.Minute))
		q := query.Query{Text: "RETURN 1"}

		Convey("When failures reach the limit", func() {
			_, err1 := b.Run(ctx, q)
			_, err2 := b.Run(ctx, q)
			_, err3 := b.Run(ctx, q)

			Convey("Then the circuit opens and stops calling the store", func() {
				So(err1, ShouldNotBeNil)
				So(err2, ShouldNotBeNil)
				So(errors.Is(err3, ErrBreakerOpen), ShouldBeTrue)
				So(next.calls.Load(), ShouldEqual, 2)
				So(b.State(), ShouldEqual, "open")
			})
		})

		Convey("When the caller cancels", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			for i := 0; i < 3; i++ {
				_, _ = b.Run(cctx, q)
			}

			Convey("Then the circuit stays closed", func() {
				So(b.State(), ShouldEqual, "closed")
				So(next.calls.Load(), ShouldEqual, 3)
			})
		})

		Convey("When the runner succeeds", func() {
			ok := &fakeRunner{rows: []query.Row{{"value": int64(1)}}}
			rows, err := NewBreaker(ok).Run(ctx, q)

			Convey("Then rows pass through", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
			})
		})
	})
}

func TestCorpusProvider(t *testing.T) {
	Convey("Given a corpus provider", t, func() {
		ctx := context.Background()
		runner := &fakeRunner{rows: []query.Row{{"name": "Luke Bangs"}, {"name": ""}, {"name": "Sam Jones"}}}
		p := NewCorpusProvider(runner)

		Convey("When listing players", func() {
			names, err := p.ListEntities(ctx, model.EntityPlayer)

			Convey("Then blank names are dropped", func() {
				So(err, ShouldBeNil)
				So(names, ShouldResemble, []string{"Luke Bangs", "Sam Jones"})
				So(runner.last.Text, ShouldContainSubstring, "p.playerName AS name")
			})
		})

		Convey("When listing stat types", func() {
			names, err := p.ListEntities(ctx, model.EntityStatType)

			Convey("Then the metric labels are returned without a query", func() {
				So(err, ShouldBeNil)
				So(names, ShouldContain, "goals")
				So(runner.calls.Load(), ShouldEqual, 0)
			})
		})

		Convey("When the store fails", func() {
			runner.err = errors.New("down")
			_, err := p.ListEntities(ctx, model.EntityTeam)
			So(err, ShouldNotBeNil)
		})

		Convey("When the type is unknown", func() {
			_, err := p.ListEntities(ctx, model.EntityType("referee"))
			So(errors.Is(err, ErrQuery), ShouldBeTrue)
		})
	})
}
