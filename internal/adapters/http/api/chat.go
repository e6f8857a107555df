package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/okian/clubstats/internal/domain/types"
)

const (
	maxBodyBytes      = 16 << 10
	maxQuestionLength = 500
)

// ChatHandler handles chat requests.
type ChatHandler struct {
	deps ChatDependencies
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(deps ChatDependencies) *ChatHandler {
	return &ChatHandler{deps: deps}
}

func validate(q types.Question) error {
	switch {
	case strings.TrimSpace(q.Question) == "":
		return fmt.Errorf("%w: missing question", ErrBadRequest)
	case utf8.RuneCountInString(q.Question) > maxQuestionLength:
		return fmt.Errorf("%w: question longer than %d characters", ErrBadRequest, maxQuestionLength)
	}
	return nil
}

// HandleChat handles POST /chat requests.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.Question
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", ErrTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Answer(r.Context(), req.Question, req.UserContext))
}
