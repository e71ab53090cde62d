package api

import (
	"net/http"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

// handleGetSettings handles GET /api/settings - public branding and support
// settings, served without a session so the login page can render them.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.settings.Get(r.Context()))
}

// handleUpdateSettings handles PUT /api/admin/settings
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var settings models.Settings
	if err := parseJSONBody(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	updated, err := s.settings.Update(r.Context(), settings)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
