package templates_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/okian/clubstats/internal/domain/templates"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		m := templates.NewManager()

		Convey("When rendering a player metric", func() {
			out := m.Render(templates.PlayerMetricWithContext, map[string]any{
				"playerName": "Luke Bangs",
				"value":      12,
				"metric":     "goals",
				"context":    "for the 3rd XI",
			})

			Convey("Then every placeholder is substituted", func() {
				So(out, ShouldEqual, "Luke Bangs has 12 goals for the 3rd XI.")
			})
		})

		Convey("When a variable is missing", func() {
			out := m.Render(templates.PlayerMetric, map[string]any{"playerName": "Luke Bangs", "value": 3})

			Convey("Then its placeholder stays literal", func() {
				So(out, ShouldEqual, "Luke Bangs has 3 {{metric}}.")
			})
		})

		Convey("When the key is unknown", func() {
			So(m.Render("nope", nil), ShouldEqual, "Sorry, I couldn't put that answer together.")
		})

		Convey("When asking for a context variant", func() {
			So(m.ContextKey(templates.PlayerMetric), ShouldEqual, templates.PlayerMetricWithContext)
			So(m.ContextKey(templates.PlayerMetricWithContext), ShouldEqual, templates.PlayerMetricWithContext)
			So(m.ContextKey(templates.DatabaseError), ShouldEqual, templates.DatabaseError)
		})

		Convey("Then every catalog entry renders to a non-empty sentence", func() {
			for _, k := range m.Keys() {
				So(m.Render(k, nil), ShouldNotBeEmpty)
			}
			So(m.Has(templates.NoUserContext), ShouldBeTrue)
		})
	})
}

func TestInterpolate(t *testing.T) {
	Convey("Given bodies with placeholders", t, func() {
		vars := map[string]any{"a": "x", "n": 2.5}
		So(templates.Interpolate("{{a}}-{{ n }}-{{a}}", vars), ShouldEqual, "x-2.5-x")
		So(templates.Interpolate("no placeholders", vars), ShouldEqual, "no placeholders")
		So(templates.Interpolate("open {{a", vars), ShouldEqual, "open {{a")
		So(templates.Interpolate("{{missing}} {{a}}", vars), ShouldEqual, "{{missing}} x")
		So(templates.Interpolate("{{a}}", map[string]any{"a": nil}), ShouldEqual, "{{a}}")
	})
}

func TestRenderCache(t *testing.T) {
	Convey("Given a manager with a small cache", t, func() {
		m := templates.NewManager(templates.WithCacheSize(2))
		vars := func(v int) map[string]any {
			return map[string]any{"playerName": "Sam", "value": v, "metric": "goals"}
		}

		Convey("When rendering more distinct answers than the capacity", func() {
			first := m.Render(templates.PlayerMetric, vars(1))
			m.Render(templates.PlayerMetric, vars(2))
			m.Render(templates.PlayerMetric, vars(3))

			Convey("Then the cache stays bounded and results are unchanged", func() {
				So(m.CacheLen(), ShouldEqual, 2)
				So(m.Render(templates.PlayerMetric, vars(1)), ShouldEqual, first)
			})
		})

		Convey("When values differ only by type", func() {
			a := m.Render(templates.PlayerMetric, map[string]any{"value": 1})
			b := m.Render(templates.PlayerMetric, map[string]any{"value": "1"})
			So(a, ShouldEqual, b)
			So(m.CacheLen(), ShouldEqual, 2)
		})

		Convey("When rendered concurrently", func() {
			var wg sync.WaitGroup
			out := make([]string, 50)
			for i := range out {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					out[i] = m.Render(templates.PlayerMetric, vars(i%5))
				}(i)
			}
			wg.Wait()

			for i, s := range out {
				So(s, ShouldEqual, fmt.Sprintf("Sam has %d goals.", i%5))
			}
			So(m.CacheLen(), ShouldBeLessThanOrEqualTo, 2)
		})
	})

	Convey("Given a manager with the cache disabled", t, func() {
		m := templates.NewManager(templates.WithCacheSize(0))
		So(m.Render(templates.PlayerZero, map[string]any{"playerName": "Sam", "metric": "assists"}), ShouldEqual, "Sam has no assists yet.")
		So(m.CacheLen(), ShouldEqual, 0)
	})

	Convey("Given catalog overrides", t, func() {
		m := templates.NewManager(templates.WithTemplates(map[string]string{
			templates.NoData: "Nothing for {{playerName}}.",
			"custom":         "Hi {{name}}",
			"blank":          "  ",
		}))
		So(m.Render(templates.NoData, map[string]any{"playerName": "Sam"}), ShouldEqual, "Nothing for Sam.")
		So(m.Render("custom", map[string]any{"name": "Sam"}), ShouldEqual, "Hi Sam")
		So(m.Has("blank"), ShouldBeFalse)
	})
}
