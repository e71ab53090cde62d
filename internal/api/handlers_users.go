package api

import (
	"net/http"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/service"
	"github.com/gorilla/mux"
)

// handleListUsers handles GET /api/users - list all users (admin)
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, _ *models.User) {
	respondJSON(w, http.StatusOK, s.users.List(r.Context()))
}

// handleGetUser handles GET /api/users/{id} - get a single user
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request, _ *models.User) {
	user, err := s.users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// handleCreateUser handles POST /api/users - admin-created user record
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var input service.NewUserInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	user, err := s.users.Create(r.Context(), input)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// handleUpdateProfile handles PUT /api/profile - update the session user's
// own profile. The session is refreshed with the edited record.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, user *models.User) {
	var update service.ProfileUpdate
	if err := parseJSONBody(r, &update); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	updated, err := s.users.UpdateProfile(r.Context(), user.ID, update)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// handleSetUserLevel handles PUT /api/users/{id}/level - change a user's level
func (s *Server) handleSetUserLevel(w http.ResponseWriter, r *http.Request, admin *models.User) {
	var req struct {
		Nivel models.UserLevel `json:"nivel"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	user, err := s.users.SetLevel(r.Context(), admin.ID, mux.Vars(r)["id"], req.Nivel)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// handleDeleteUser handles DELETE /api/users/{id} - remove a user
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, admin *models.User) {
	if err := s.users.Delete(r.Context(), admin.ID, mux.Vars(r)["id"]); err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
