package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/clubstats/internal/config"
	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/query"
	"github.com/okian/clubstats/internal/domain/resolver"
	"github.com/okian/clubstats/internal/domain/types"
	"github.com/okian/clubstats/pkg/logger"
)

type goalsExecutor struct{}

func (goalsExecutor) Run(_ context.Context, _ query.Query) ([]query.Row, error) {
	return []query.Row{{query.ColValue: int64(7), query.ColAppearances: int64(10)}}, nil
}

func testCorpus() resolver.StaticProvider {
	return resolver.StaticProvider{
		model.EntityPlayer: {"Luke Bangs", "Sam Jones"},
		model.EntityTeam:   {"1st XI", "2nd XI"},
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("CLUBSTATS_ADDR", ":8081")
			_ = os.Setenv("CLUBSTATS_MCP_ENABLED", "false")
			defer func() {
				_ = os.Unsetenv("CLUBSTATS_ADDR")
				_ = os.Unsetenv("CLUBSTATS_MCP_ENABLED")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.MCPEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the service is wired from defaults", func() {
			cfg := config.New()
			cfg.CurrentSeason = "2024/25"
			svc := newService(cfg, goalsExecutor{}, testCorpus(), nil, logger.Nop())

			convey.Convey("Then questions are answered end to end", func() {
				ans := svc.Answer(context.Background(), "How many goals has Luke Bangs scored?", "")
				convey.So(ans.Answer, convey.ShouldContainSubstring, "Luke Bangs")
				convey.So(ans.Answer, convey.ShouldContainSubstring, "7")
				convey.So(ans.MatchedMetric, convey.ShouldEqual, "goals")
			})
		})

		convey.Convey("When the HTTP mux is built", func() {
			cfg := config.New()
			ctx := context.Background()
			svc := newService(cfg, goalsExecutor{}, testCorpus(), nil, logger.Nop())
			mux := newMux(ctx, cfg, svc, logger.Nop())

			convey.Convey("Then /chat answers", func() {
				body, _ := json.Marshal(types.Question{Question: "How many goals has Sam Jones scored?"})
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body)))

				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var ans types.Answer
				convey.So(json.Unmarshal(rec.Body.Bytes(), &ans), convey.ShouldBeNil)
				convey.So(ans.MatchedEntities, convey.ShouldContain, "Sam Jones")
			})

			convey.Convey("And /healthz responds", func() {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And the API docs are served", func() {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And /mcp is mounted only when enabled", func() {
				_, pattern := mux.Handler(httptest.NewRequest(http.MethodPost, "/mcp", nil))
				convey.So(pattern, convey.ShouldEqual, "/mcp")

				cfg.MCPEnabled = false
				_, pattern = newMux(ctx, cfg, svc, logger.Nop()).Handler(httptest.NewRequest(http.MethodPost, "/mcp", nil))
				convey.So(pattern, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When updating system metrics", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
