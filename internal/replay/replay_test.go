package replay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clubstats/internal/domain/types"
)

const defaultTestTimeout = 5 * time.Second

func fakeService() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		var q types.Question
		_ = json.NewDecoder(r.Body).Decode(&q)
		ans := types.Answer{Answer: "Luke Bangs has 12 goals.", MatchedMetric: "goals", Outcome: "player_metric", MatchedEntities: []string{}}
		if strings.Contains(q.Question, " I ") && q.UserContext == "" {
			ans = types.Answer{Answer: "Tell me who you are first.", Outcome: "no_user_context", MatchedEntities: []string{}}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ans)
	})
	return httptest.NewServer(mux)
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		srv := fakeService()
		defer srv.Close()
		ctx := context.Background()
		cfg := &Config{BaseURL: srv.URL, Workers: 3, Timeout: defaultTestTimeout}

		Convey("When every case matches", func() {
			cases := []Case{
				{Question: "How many goals has Luke Bangs scored?", ExpectMetric: "goals", ExpectContain: []string{"12"}},
				{Question: "How many goals have I scored?", ExpectOutcome: "no_user_context"},
			}
			results, stats, err := Run(ctx, cfg, cases)

			Convey("Then the run passes and keeps the case order", func() {
				So(err, ShouldBeNil)
				So(stats.Passed, ShouldEqual, 2)
				So(stats.RunID, ShouldNotBeEmpty)
				So(results[1].Outcome, ShouldEqual, "no_user_context")
			})
		})

		Convey("When the default user is set", func() {
			cfg.UserName = "Luke Bangs"
			results, _, err := Run(ctx, cfg, []Case{{Question: "How many goals have I scored?", ExpectOutcome: "no_user_context"}})

			Convey("Then first person cases use it", func() {
				So(errors.Is(err, ErrFailures), ShouldBeTrue)
				So(results[0].Passed, ShouldBeFalse)
				So(results[0].Problems[0], ShouldContainSubstring, "outcome")
			})
		})

		Convey("When an output file is configured", func() {
			cfg.OutputFile = filepath.Join(t.TempDir(), "out", "report.json")
			_, _, err := Run(ctx, cfg, []Case{{Question: "How many goals has Luke Bangs scored?"}})

			Convey("Then the report is written", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(cfg.OutputFile)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "Luke Bangs has 12 goals.")
			})
		})

		Convey("When there are no cases", func() {
			_, _, err := Run(ctx, cfg, nil)

			Convey("Then ErrNoCases is returned", func() {
				So(errors.Is(err, ErrNoCases), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service that is down", t, func() {
		srv := fakeService()
		srv.Close()
		_, _, err := Run(context.Background(), &Config{BaseURL: srv.URL, Workers: 1, Timeout: defaultTestTimeout}, DefaultCases)

		Convey("Then the health check fails", func() {
			So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
		})
	})
}

func TestLoadCases(t *testing.T) {
	Convey("Given a cases file", t, func() {
		path := filepath.Join(t.TempDir(), "cases.yaml")
		content := `cases:
  - question: How many goals has Luke Bangs scored?
    expect_metric: goals
    expect_contains: [Luke Bangs, "12"]
  - question: "  "
  - question: How many assists have I got?
    user_context: Sam Jones
`
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

		Convey("When it is loaded", func() {
			cases, err := LoadCases(path)

			Convey("Then blank questions are dropped", func() {
				So(err, ShouldBeNil)
				So(cases, ShouldHaveLength, 2)
				So(cases[0].ExpectContain, ShouldResemble, []string{"Luke Bangs", "12"})
				So(cases[1].UserContext, ShouldEqual, "Sam Jones")
			})
		})

		Convey("When the file is missing", func() {
			_, err := LoadCases(filepath.Join(t.TempDir(), "nope.yaml"))

			Convey("Then ErrLoadCases is returned", func() {
				So(errors.Is(err, ErrLoadCases), ShouldBeTrue)
			})
		})
	})
}

func TestCheck(t *testing.T) {
	Convey("Given a failed HTTP status", t, func() {
		r := &Result{Status: http.StatusBadRequest}
		check(Case{Question: "q"}, r)

		Convey("Then the case fails", func() {
			So(r.Passed, ShouldBeFalse)
			So(r.Problems, ShouldContain, "status 400")
		})
	})
}
