package api

import (
	"net/http"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/service"
	"github.com/gorilla/mux"
)

// handleListEvents handles GET /api/events - list certified events
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request, _ *models.User) {
	respondJSON(w, http.StatusOK, s.events.List(r.Context()))
}

// handleGetEvent handles GET /api/events/{id} - event with its results
// grouped per offered category, placements derived.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request, _ *models.User) {
	event, results, err := s.events.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"event":      event,
		"resultados": results,
	})
}

// handleCreateEvent handles POST /api/events
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var input service.EventInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	event, err := s.events.Create(r.Context(), input)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

// handleUpdateEvent handles PUT /api/events/{id}
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var input service.EventInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	event, err := s.events.Update(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// handleDeleteEvent handles DELETE /api/events/{id} - removes the event and
// every result recorded for it.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request, _ *models.User) {
	if err := s.events.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAddResult handles POST /api/events/{id}/results - record an athlete's
// score, keyed by credential number.
func (s *Server) handleAddResult(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var req struct {
		IDNorteNumero string          `json:"idNorteNumero"`
		Categoria     models.Category `json:"categoria"`
		Pontuacao     float64         `json:"pontuacao"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	result, err := s.events.AddResult(r.Context(), mux.Vars(r)["id"], req.IDNorteNumero, req.Categoria, req.Pontuacao)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// handleDeleteResult handles DELETE /api/results/{id}
func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request, _ *models.User) {
	if err := s.events.DeleteResult(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
