package api

import (
	"net/http"
	"strings"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

// handleAssistant handles POST /api/assistant - forward a question to the
// text-generation collaborator.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "prompt is required")
		return
	}

	answer, err := s.assistant.Ask(r.Context(), req.Prompt)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
