package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clubstats/internal/domain/types"
	"github.com/okian/clubstats/pkg/logger"
)

type stubAnswerer struct {
	question, user string
}

func (s *stubAnswerer) Answer(_ context.Context, question, userContext string) types.Answer {
	s.question, s.user = question, userContext
	return types.Answer{
		Answer:          "Luke Bangs has 12 goals.",
		MatchedMetric:   "goals",
		MatchedEntities: []string{"Luke Bangs"},
		RequestID:       "req-9",
	}
}

func text(res *mcp.CallToolResult, i int) string {
	tc, ok := res.Content[i].(*mcp.TextContent)
	if !ok {
		return ""
	}
	return tc.Text
}

func TestAskHandler(t *testing.T) {
	Convey("Given the ask tool handler", t, func() {
		ctx := context.Background()
		svc := &stubAnswerer{}
		handle := askHandler(svc, logger.Nop())

		Convey("When a question is asked", func() {
			res, _, err := handle(ctx, nil, AskArgs{Question: "How many goals have I scored?", UserContext: "Luke Bangs"})

			Convey("Then the answer and its metadata are returned", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeFalse)
				So(res.Content, ShouldHaveLength, 2)
				So(text(res, 0), ShouldEqual, "Luke Bangs has 12 goals.")
				So(text(res, 1), ShouldContainSubstring, `"requestId":"req-9"`)
				So(svc.user, ShouldEqual, "Luke Bangs")
			})
		})

		Convey("When the question is blank", func() {
			res, _, err := handle(ctx, nil, AskArgs{Question: " "})

			Convey("Then a tool error is returned", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(text(res, 0), ShouldContainSubstring, "question is required")
				So(svc.question, ShouldBeEmpty)
			})
		})
	})
}

func TestServerOverTransport(t *testing.T) {
	Convey("Given a connected MCP client", t, func() {
		ctx := context.Background()
		server := NewServer(&stubAnswerer{}, "test", nil)
		serverTransport, clientTransport := mcp.NewInMemoryTransports()
		ss, err := server.Connect(ctx, serverTransport, nil)
		So(err, ShouldBeNil)
		defer ss.Close()

		client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
		cs, err := client.Connect(ctx, clientTransport, nil)
		So(err, ShouldBeNil)
		defer cs.Close()

		Convey("When the tool is called", func() {
			res, err := cs.CallTool(ctx, &mcp.CallToolParams{
				Name:      ToolName,
				Arguments: map[string]any{"question": "How many goals has Luke Bangs scored?"},
			})

			Convey("Then the sentence comes back", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeFalse)
				So(text(res, 0), ShouldEqual, "Luke Bangs has 12 goals.")
			})
		})

		Convey("Then the HTTP handler can be built", func() {
			So(NewHandler(server), ShouldNotBeNil)
		})
	})
}
