// Package mcp exposes the question answering service as a Model Context
// Protocol tool over streamable HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/clubstats/internal/domain/types"
	"github.com/okian/clubstats/pkg/logger"
)

const (
	serverName = "clubstats"
	// ToolName is the registered tool name.
	ToolName = "ask_club_stats"
)

var errMissingQuestion = errors.New("question is required")

// Answerer answers one question.
type Answerer interface {
	Answer(ctx context.Context, question, userContext string) types.Answer
}

// AskArgs are the tool arguments.
type AskArgs struct {
	Question    string `json:"question" jsonschema:"Natural language question about club statistics (required)"`
	UserContext string `json:"userContext,omitempty" jsonschema:"Name of the asking player, used for questions about me or my stats"`
}

// NewServer builds an MCP server with the ask_club_stats tool.
func NewServer(svc Answerer, version string, log logger.Logger) *mcp.Server {
	if log == nil {
		log = logger.Nop()
	}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Answer a question about club player and team statistics, e.g. \"How many goals has Luke Bangs scored this season?\"",
	}, askHandler(svc, log))
	return server
}

// NewHandler serves server over streamable HTTP with JSON responses.
func NewHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func askHandler(svc Answerer, log logger.Logger) func(context.Context, *mcp.CallToolRequest, AskArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args AskArgs) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(args.Question) == "" {
			return toolError(errMissingQuestion), nil, nil
		}
		ans := svc.Answer(ctx, args.Question, args.UserContext)
		log.Debug(ctx, "mcp question answered",
			logger.String("request_id", ans.RequestID),
			logger.String("outcome", ans.Outcome),
		)
		meta, err := json.Marshal(ans)
		if err != nil {
			return toolError(err), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: ans.Answer},
				&mcp.TextContent{Text: string(meta)},
			},
		}, nil, nil
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: "error: " + err.Error()},
		},
	}
}
