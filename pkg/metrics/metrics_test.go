package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating a disabled manager", func() {
			manager := NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it reports recording as off", func() {
				So(manager.Enabled(), ShouldBeFalse)
			})
		})

		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the default namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "clubstats")
				So(manager.subsystem, ShouldEqual, "chatbot")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("qa"),
				WithMetricPrefix("p"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.questions.WithLabelValues("player_metric").Inc()

			Convey("Then collectors are registered under the custom names", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_qa_p_questions_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})
		})

		Convey("When empty options are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithRefreshInterval(0), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "clubstats")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			before := testutil.ToFloat64(globalManager.questions.WithLabelValues("no_data"))
			RecordQuestion("no_data")
			RecordSpellingCorrections(2)
			RecordSpellingCorrections(0)
			RecordFallback()
			RecordAnswerLatency(12)

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.questions.WithLabelValues("no_data")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.spellingCorrections), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})

		Convey("When recording resolution and query metrics", func() {
			So(func() {
				RecordCorpusCacheHit("player")
				RecordCorpusCacheMiss("player")
				RecordCorpusFetchError("team")
				UpdateCorpusSize("player", 120)
				RecordEntityResolution("player", "exact")
				RecordResolutionDuration(0.4)
				RecordQueryLatency(3)
				RecordQueryError()
				RecordUnsafeParameter()
				UpdateBreakerState(2)
				RecordTemplateCacheHit()
				RecordTemplateCacheMiss()
				UpdateTemplateCacheSize(10)
			}, ShouldNotPanic)

			Convey("Then gauges hold the last value", func() {
				So(testutil.ToFloat64(globalManager.corpusSize.WithLabelValues("player")), ShouldEqual, 120)
				So(testutil.ToFloat64(globalManager.breakerState), ShouldEqual, 2)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			So(func() {
				RecordHTTPRequest("chat", "POST", "200")
				RecordHTTPRequestDuration("chat", "POST", "200", 15)
				RecordErrorByEndpoint("chat", "POST", "client_error")
				RecordErrorByType("client_error", "medium")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.5)
			}, ShouldNotPanic)
		})

		Convey("When recording is disabled", func() {
			before := testutil.ToFloat64(globalManager.questions.WithLabelValues("fallback"))
			breaker := testutil.ToFloat64(globalManager.breakerState)
			SetEnabled(false)
			RecordQuestion("fallback")
			UpdateBreakerState(int(breaker) + 1)
			SetEnabled(true)

			Convey("Then the helpers leave collectors untouched", func() {
				So(testutil.ToFloat64(globalManager.questions.WithLabelValues("fallback")), ShouldEqual, before)
				So(testutil.ToFloat64(globalManager.breakerState), ShouldEqual, breaker)
			})

			Convey("And re-enabling records again", func() {
				RecordQuestion("fallback")
				So(testutil.ToFloat64(globalManager.questions.WithLabelValues("fallback")), ShouldEqual, before+1)
			})
		})

		Convey("When the refresh interval is changed", func() {
			prev := RefreshInterval()
			SetRefreshInterval(0)
			So(RefreshInterval(), ShouldEqual, prev)
			SetRefreshInterval(3 * time.Second)
			So(RefreshInterval(), ShouldEqual, 3*time.Second)
			SetRefreshInterval(prev)
		})

		Convey("When gathering the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then only service metrics are exposed", func() {
				So(err, ShouldBeNil)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "clubstats_chatbot_"), ShouldBeTrue)
				}
			})
		})
	})
}
