package auth

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/validation"
)

type otpState struct {
	email     string
	code      string
	expiresAt time.Time
	attempts  int
}

// LocalStrategy implements the offline one-time-code flow. A single code slot
// is held in process memory; a new request overwrites the previous one. Codes
// expire after five minutes and allow five failed attempts.
type LocalStrategy struct {
	mu  sync.Mutex
	otp *otpState

	logger *logging.Logger

	// injectable for tests
	now      func() time.Time
	makeCode func() string
}

// NewLocalStrategy creates the local strategy.
func NewLocalStrategy(logger *logging.Logger) *LocalStrategy {
	return &LocalStrategy{
		logger:   logger,
		now:      time.Now,
		makeCode: randomCode,
	}
}

func randomCode() string {
	return strconv.Itoa(rand.Intn(900000) + 100000)
}

// RequestOTP issues a fresh six-digit code for email, replacing any
// outstanding code. The code is returned so development setups can surface it
// in place of an email delivery.
func (s *LocalStrategy) RequestOTP(_ context.Context, email string) (string, error) {
	code := s.makeCode()

	s.mu.Lock()
	s.otp = &otpState{
		email:     strings.ToLower(email),
		code:      code,
		expiresAt: s.now().Add(otpTTL),
	}
	s.mu.Unlock()

	s.logger.WithField("email", email).Info("one-time code issued")
	return code, nil
}

func (s *LocalStrategy) VerifyOTP(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.otp == nil {
		return NewNotRequestedError()
	}
	if s.otp.email != strings.ToLower(email) {
		return NewEmailMismatchError()
	}
	if s.now().After(s.otp.expiresAt) {
		s.otp = nil
		return NewExpiredError()
	}
	if s.otp.attempts >= maxAttempts {
		s.otp = nil
		return NewAttemptsExceededError()
	}
	if s.otp.code != code {
		s.otp.attempts++
		return NewInvalidCodeError(maxAttempts - s.otp.attempts)
	}

	s.otp = nil
	return nil
}

func (s *LocalStrategy) FindUserByEmail(_ context.Context, db *models.Database, email string) (*models.User, error) {
	return findByEmail(db, email), nil
}

func (s *LocalStrategy) FindUserByCPF(_ context.Context, db *models.Database, cpf string) (*models.User, error) {
	return findByCPF(db, cpf), nil
}

// CreateUserFromProfile validates the submission and constructs a new user
// with level PESCADOR and no credential. The caller persists the record via a
// document replacement.
func (s *LocalStrategy) CreateUserFromProfile(_ context.Context, db *models.Database, profile ProfileData) (models.User, error) {
	if err := validateProfile(db, profile); err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:            "user-" + uuid.NewString(),
		Email:         strings.ToLower(profile.Email),
		NomeCompleto:  profile.NomeCompleto,
		CPF:           validation.NormalizeCPF(profile.CPF),
		Telefone:      profile.Telefone,
		Cidade:        profile.Cidade,
		Estado:        profile.Estado,
		Nivel:         models.LevelPescador,
		IDNorteStatus: models.CredentialNotRequested,
		CreatedAt:     models.NowISO(),
	}, nil
}

func validateProfile(db *models.Database, profile ProfileData) error {
	for field, value := range map[string]string{
		"email":        profile.Email,
		"nomeCompleto": profile.NomeCompleto,
		"cpf":          profile.CPF,
		"cidade":       profile.Cidade,
		"estado":       profile.Estado,
	} {
		if strings.TrimSpace(value) == "" {
			return apperrors.NewMissingFieldError(field)
		}
	}
	if !validation.IsCPFValid(profile.CPF) {
		return apperrors.NewInvalidCPFError(profile.CPF)
	}
	if findByCPF(db, profile.CPF) != nil {
		return apperrors.NewDuplicateCPFError()
	}
	return nil
}

func findByEmail(db *models.Database, email string) *models.User {
	email = strings.ToLower(email)
	for i := range db.Users {
		if strings.ToLower(db.Users[i].Email) == email {
			return &db.Users[i]
		}
	}
	return nil
}

func findByCPF(db *models.Database, cpf string) *models.User {
	want := validation.NormalizeCPF(cpf)
	if want == "" {
		return nil
	}
	for i := range db.Users {
		if db.Users[i].CPF != "" && validation.NormalizeCPF(db.Users[i].CPF) == want {
			return &db.Users[i]
		}
	}
	return nil
}
