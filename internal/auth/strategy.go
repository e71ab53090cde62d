// Package auth implements the authentication strategies: a local one-time-code
// flow with no external dependencies and a hosted flow that delegates to an
// identity service. Exactly one strategy is active for the process lifetime,
// chosen at startup from configuration.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

const (
	otpTTL      = 5 * time.Minute
	maxAttempts = 5
)

// ProfileData is the completed-profile submission used to create a new user.
// Telefone is the only optional field.
type ProfileData struct {
	Email        string `json:"email"`
	NomeCompleto string `json:"nomeCompleto"`
	CPF          string `json:"cpf"`
	Telefone     string `json:"telefone,omitempty"`
	Cidade       string `json:"cidade"`
	Estado       string `json:"estado"`
}

// Strategy is the capability set shared by the local and hosted flows. User
// lookups return (nil, nil) when no user matches. CreateUserFromProfile
// validates the profile and returns the constructed record; persisting it into
// the document is the caller's job.
type Strategy interface {
	// RequestOTP issues a one-time code for email. The local strategy
	// returns the generated code so development setups can surface it; the
	// hosted strategy returns an empty string.
	RequestOTP(ctx context.Context, email string) (string, error)
	VerifyOTP(ctx context.Context, email, code string) error
	FindUserByEmail(ctx context.Context, db *models.Database, email string) (*models.User, error)
	FindUserByCPF(ctx context.Context, db *models.Database, cpf string) (*models.User, error)
	CreateUserFromProfile(ctx context.Context, db *models.Database, profile ProfileData) (models.User, error)
}

// SessionAuthority is implemented by strategies that own session state
// externally. The session manager consults it on startup and on logout.
type SessionAuthority interface {
	CurrentSession(ctx context.Context) (*models.User, error)
	SignOut(ctx context.Context) error
}

// One-time-code failures. Expired and attempts-exceeded clear the transient
// code, so a fresh request is required before retrying.

func NewNotRequestedError() *apperrors.Error {
	return apperrors.New(apperrors.CategoryAuth, http.StatusUnauthorized,
		"OTP_NOT_REQUESTED", "no code was requested or it has already been used")
}

func NewEmailMismatchError() *apperrors.Error {
	return apperrors.New(apperrors.CategoryAuth, http.StatusUnauthorized,
		"OTP_EMAIL_MISMATCH", "email does not match the code request")
}

func NewCPFMismatchError() *apperrors.Error {
	return apperrors.New(apperrors.CategoryAuth, http.StatusUnauthorized,
		"OTP_CPF_MISMATCH", "CPF does not match the code request")
}

func NewExpiredError() *apperrors.Error {
	return apperrors.New(apperrors.CategoryAuth, http.StatusUnauthorized,
		"OTP_EXPIRED", "the code has expired, request a new one")
}

func NewAttemptsExceededError() *apperrors.Error {
	return apperrors.New(apperrors.CategoryAuth, http.StatusUnauthorized,
		"OTP_ATTEMPTS_EXCEEDED", "attempt limit exceeded, request a new code")
}

func NewInvalidCodeError(remaining int) *apperrors.Error {
	return apperrors.New(apperrors.CategoryAuth, http.StatusUnauthorized,
		"OTP_INVALID_CODE", fmt.Sprintf("invalid code, %d attempts remaining", remaining))
}
