package types_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	types "github.com/okian/clubstats/internal/domain/types"
)

func TestAnswer(t *testing.T) {
	Convey("Given an Answer", t, func() {
		a := types.Answer{
			Answer:          "Luke Bangs has 12 goals.",
			MatchedMetric:   "goals",
			MatchedEntities: []string{"Luke Bangs"},
			RequestID:       "req-1",
		}

		Convey("When encoded as JSON", func() {
			b, err := json.Marshal(a)

			Convey("Then it uses the camelCase wire names", func() {
				So(err, ShouldBeNil)
				s := string(b)
				So(s, ShouldContainSubstring, `"answer":"Luke Bangs has 12 goals."`)
				So(s, ShouldContainSubstring, `"matchedMetric":"goals"`)
				So(s, ShouldContainSubstring, `"matchedEntities":["Luke Bangs"]`)
				So(s, ShouldContainSubstring, `"requestId":"req-1"`)
				So(s, ShouldNotContainSubstring, "outcome")
			})
		})

		Convey("When no metric matched", func() {
			b, _ := json.Marshal(types.Answer{Answer: "Try asking about goals.", MatchedEntities: []string{}})

			Convey("Then matchedMetric is omitted", func() {
				So(string(b), ShouldNotContainSubstring, "matchedMetric")
				So(string(b), ShouldContainSubstring, `"matchedEntities":[]`)
			})
		})
	})
}

func TestQuestion(t *testing.T) {
	Convey("Given a chat request body", t, func() {
		var q types.Question
		err := json.Unmarshal([]byte(`{"question":"How many goals have I scored?","userContext":"Luke Bangs"}`), &q)

		Convey("Then both fields decode", func() {
			So(err, ShouldBeNil)
			So(q.Question, ShouldEqual, "How many goals have I scored?")
			So(q.UserContext, ShouldEqual, "Luke Bangs")
		})
	})
}
