package api

import (
	"net/http"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/service"
	"github.com/gorilla/mux"
)

// handleSubmitCertification handles POST /api/certification/requests -
// submit a draft event for federation certification.
func (s *Server) handleSubmitCertification(w http.ResponseWriter, r *http.Request, user *models.User) {
	var draft service.CertificationDraft
	if err := parseJSONBody(r, &draft); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	request, err := s.certification.Submit(r.Context(), user.ID, user.Email, draft)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

// handleListCertifications handles GET /api/certification/requests -
// administrators see every request, everyone else sees their own.
func (s *Server) handleListCertifications(w http.ResponseWriter, r *http.Request, user *models.User) {
	if user.Nivel == models.LevelAdmin {
		respondJSON(w, http.StatusOK, s.certification.List(r.Context()))
		return
	}
	respondJSON(w, http.StatusOK, s.certification.ListForUser(r.Context(), user.ID))
}

// handleApproveCertification handles POST /api/certification/requests/{id}/approve -
// approves the request and materializes the certified event.
func (s *Server) handleApproveCertification(w http.ResponseWriter, r *http.Request, admin *models.User) {
	event, err := s.certification.Approve(r.Context(), mux.Vars(r)["id"], admin.Email)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// handleRejectCertification handles POST /api/certification/requests/{id}/reject
func (s *Server) handleRejectCertification(w http.ResponseWriter, r *http.Request, admin *models.User) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	if err := s.certification.Reject(r.Context(), mux.Vars(r)["id"], admin.Email, req.Reason); err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}
