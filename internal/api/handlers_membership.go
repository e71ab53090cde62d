package api

import (
	"net/http"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/gorilla/mux"
)

// handleMembershipRequest handles POST /api/membership/requests - the session
// user asks for an ID Norte credential.
func (s *Server) handleMembershipRequest(w http.ResponseWriter, r *http.Request, user *models.User) {
	request, err := s.membership.Request(r.Context(), user.ID)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

// handleListMembershipRequests handles GET /api/membership/requests -
// administrators see every request, everyone else sees their own.
func (s *Server) handleListMembershipRequests(w http.ResponseWriter, r *http.Request, user *models.User) {
	if user.Nivel == models.LevelAdmin {
		respondJSON(w, http.StatusOK, s.membership.List(r.Context()))
		return
	}
	respondJSON(w, http.StatusOK, s.membership.ListForUser(r.Context(), user.ID))
}

// handleApproveMembership handles POST /api/membership/requests/{id}/approve
func (s *Server) handleApproveMembership(w http.ResponseWriter, r *http.Request, _ *models.User) {
	user, err := s.membership.Approve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// handleRejectMembership handles POST /api/membership/requests/{id}/reject
func (s *Server) handleRejectMembership(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	if err := s.membership.Reject(r.Context(), mux.Vars(r)["id"], req.Reason); err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}
