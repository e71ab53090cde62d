package api

import (
	"net/http"

	"github.com/WilliamRochafnpe/FNPE/internal/auth"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

// sessionResponse is returned whenever a login is established.
type sessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// handleOTPRequest handles POST /api/auth/otp/request - issue a one-time code
func (s *Server) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "email is required")
		return
	}

	code, err := s.strategy.RequestOTP(r.Context(), req.Email)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	resp := map[string]string{"status": "sent"}
	// The local strategy surfaces the code so development setups work
	// without a mail provider.
	if code != "" {
		resp["devCode"] = code
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleOTPVerify handles POST /api/auth/otp/verify - verify a code and, for
// known users, establish a session. Unknown e-mails verify successfully but
// must complete registration before a session exists.
func (s *Server) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	if err := s.strategy.VerifyOTP(r.Context(), req.Email, req.Code); err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	user, err := s.strategy.FindUserByEmail(r.Context(), s.sessions.DB(), req.Email)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	if user == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"registered": false})
		return
	}

	token, err := s.sessions.Login(r.Context(), *user)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{Token: token, User: *s.sessions.UserForToken(token)})
}

// handleRegister handles POST /api/auth/register - complete a profile,
// create the user and log them in.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var profile auth.ProfileData
	if err := parseJSONBody(r, &profile); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	db := s.sessions.DB().Clone()
	user, err := s.strategy.CreateUserFromProfile(r.Context(), db, profile)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	db.Users = append(db.Users, user)
	next, err := s.sessions.Replace(r.Context(), db)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	created := next.UserByID(user.ID)
	if created == nil {
		created = &user
	}
	token, err := s.sessions.Login(r.Context(), *created)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, sessionResponse{Token: token, User: *s.sessions.UserForToken(token)})
}

// handleRecoverRequest handles POST /api/auth/recover/request - start account
// recovery by CPF, returning only the masked e-mail on file.
func (s *Server) handleRecoverRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CPF string `json:"cpf"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	masked, err := s.recovery.Request(s.sessions.DB(), req.CPF)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"maskedEmail": masked})
}

// handleRecoverVerify handles POST /api/auth/recover/verify - finish account
// recovery. A correct code signs the recovered account in.
func (s *Server) handleRecoverVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CPF  string `json:"cpf"`
		Code string `json:"code"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid request body")
		return
	}

	email, err := s.recovery.Verify(req.CPF, req.Code)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}

	user, err := s.strategy.FindUserByEmail(r.Context(), s.sessions.DB(), email)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "recovered account no longer exists")
		return
	}

	token, err := s.sessions.Login(r.Context(), *user)
	if err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{Token: token, User: *s.sessions.UserForToken(token)})
}

// handleLogout handles POST /api/auth/logout - end the current session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ *models.User) {
	if err := s.sessions.Logout(r.Context(), bearerToken(r)); err != nil {
		respondAppError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// handleSession handles GET /api/auth/session - return the session user.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	respondJSON(w, http.StatusOK, user)
}
