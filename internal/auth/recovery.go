package auth

import (
	"sync"
	"time"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/validation"
)

type recoveryState struct {
	cpf       string
	email     string
	code      string
	expiresAt time.Time
	attempts  int
}

// Recovery implements account recovery by CPF. It holds its own one-time-code
// slot, independent of the login flow, with the same five-minute expiry and
// five-attempt limit.
type Recovery struct {
	mu    sync.Mutex
	state *recoveryState

	logger *logging.Logger

	now      func() time.Time
	makeCode func() string
}

// NewRecovery creates the recovery flow.
func NewRecovery(logger *logging.Logger) *Recovery {
	return &Recovery{
		logger:   logger,
		now:      time.Now,
		makeCode: randomCode,
	}
}

// Request looks up the CPF's owner, issues a code bound to that CPF and the
// owner's email, and returns the masked email for display.
func (r *Recovery) Request(db *models.Database, cpf string) (string, error) {
	user := findByCPF(db, cpf)
	if user == nil {
		return "", apperrors.NewNotFoundError("account with this CPF")
	}

	code := r.makeCode()

	r.mu.Lock()
	r.state = &recoveryState{
		cpf:       validation.NormalizeCPF(cpf),
		email:     user.Email,
		code:      code,
		expiresAt: r.now().Add(otpTTL),
	}
	r.mu.Unlock()

	r.logger.WithField("email", validation.MaskEmail(user.Email)).Info("recovery code issued")
	return validation.MaskEmail(user.Email), nil
}

// Verify checks the code against the outstanding recovery request and, on
// success, returns the bound email so the caller can establish a session.
func (r *Recovery) Verify(cpf, code string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return "", NewNotRequestedError()
	}
	if r.state.cpf != validation.NormalizeCPF(cpf) {
		return "", NewCPFMismatchError()
	}
	if r.now().After(r.state.expiresAt) {
		r.state = nil
		return "", NewExpiredError()
	}
	if r.state.attempts >= maxAttempts {
		r.state = nil
		return "", NewAttemptsExceededError()
	}
	if r.state.code != code {
		r.state.attempts++
		return "", NewInvalidCodeError(maxAttempts - r.state.attempts)
	}

	email := r.state.email
	r.state = nil
	return email, nil
}
