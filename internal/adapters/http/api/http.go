// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ChatDependencies
	CacheDependencies
	StatsProvider
}

// ChatDependencies answers questions.
type ChatDependencies interface {
	Answer(ctx context.Context, question, userContext string) types.Answer
}

// CacheDependencies invalidates entity corpora.
type CacheDependencies interface {
	InvalidateCache(ctx context.Context, t model.EntityType)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	chatHandler   *ChatHandler
	cacheHandler  *CacheHandler
	mcpHandler    http.Handler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMCPHandler mounts h at /mcp.
func WithMCPHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.mcpHandler = h
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		chatHandler:   NewChatHandler(deps),
		cacheHandler:  NewCacheHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/chat", MetricsMiddleware(s.chatHandler.HandleChat, "chat"))
	mux.HandleFunc("/cache/invalidate", MetricsMiddleware(s.cacheHandler.HandleInvalidate, "cache_invalidate"))
	if s.mcpHandler != nil {
		mux.Handle("/mcp", MetricsMiddleware(s.mcpHandler.ServeHTTP, "mcp"))
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
