package api

import (
	"fmt"
	"net/http"

	"github.com/okian/clubstats/internal/domain/model"
)

// CacheHandler handles corpus cache invalidation.
type CacheHandler struct {
	deps CacheDependencies
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(deps CacheDependencies) *CacheHandler {
	return &CacheHandler{deps: deps}
}

type invalidateResponse struct {
	Status string `json:"status"`
	Type   string `json:"type"`
}

// HandleInvalidate handles POST /cache/invalidate?type=T. Without a type
// every corpus is dropped.
func (h *CacheHandler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var t model.EntityType
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, err := model.ParseEntityType(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrUnknownType, err))
			return
		}
		t = parsed
	}
	h.deps.InvalidateCache(r.Context(), t)
	label := string(t)
	if label == "" {
		label = "all"
	}
	writeJSON(w, http.StatusOK, invalidateResponse{Status: "invalidated", Type: label})
}
