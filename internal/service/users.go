package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/store"
	"github.com/WilliamRochafnpe/FNPE/internal/validation"
)

// ProfileUpdate carries the fields a user may edit on their own profile.
type ProfileUpdate struct {
	NomeCompleto   string `json:"nomeCompleto"`
	CPF            string `json:"cpf"`
	DataNascimento string `json:"dataNascimento"`
	Telefone       string `json:"telefone"`
	Cidade         string `json:"cidade"`
	Estado         string `json:"estado"`
	FotoURL        string `json:"fotoUrl"`
}

// NewUserInput is an admin-created user record.
type NewUserInput struct {
	NomeCompleto string           `json:"nomeCompleto"`
	Email        string           `json:"email"`
	CPF          string           `json:"cpf"`
	Nivel        models.UserLevel `json:"nivel"`
	Cidade       string           `json:"cidade"`
	Estado       string           `json:"estado"`
}

// UserService manages user records and profiles.
type UserService struct {
	state  State
	logger *logging.Logger
}

// NewUserService creates the user service.
func NewUserService(state State, logger *logging.Logger) *UserService {
	return &UserService{state: state, logger: logger}
}

// List returns every user.
func (s *UserService) List(_ context.Context) []models.User {
	db := s.state.DB()
	out := make([]models.User, len(db.Users))
	copy(out, db.Users)
	return out
}

// Get returns one user by identity token.
func (s *UserService) Get(_ context.Context, id string) (*models.User, error) {
	user := s.state.DB().UserByID(id)
	if user == nil {
		return nil, apperrors.NewNotFoundError("user")
	}
	out := *user
	return &out, nil
}

// UpdateProfile applies the user's own profile edits. A CPF, when supplied,
// must pass the checksum and stay unique across users.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	db := s.state.DB().Clone()

	user := db.UserByID(userID)
	if user == nil {
		return nil, apperrors.NewNotFoundError("user")
	}
	if strings.TrimSpace(update.NomeCompleto) == "" {
		return nil, apperrors.NewMissingFieldError("nomeCompleto")
	}

	cpf := validation.NormalizeCPF(update.CPF)
	if cpf != "" {
		if !validation.IsCPFValid(cpf) {
			return nil, apperrors.NewInvalidCPFError(update.CPF)
		}
		for _, u := range db.Users {
			if u.ID != userID && u.CPF != "" && validation.NormalizeCPF(u.CPF) == cpf {
				return nil, apperrors.NewDuplicateCPFError()
			}
		}
	}

	user.NomeCompleto = strings.TrimSpace(update.NomeCompleto)
	user.CPF = cpf
	user.DataNascimento = update.DataNascimento
	user.Telefone = update.Telefone
	user.Cidade = update.Cidade
	user.Estado = strings.ToUpper(update.Estado)
	user.FotoURL = update.FotoURL

	if _, err := s.state.Replace(ctx, db); err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", userID).Info("Profile updated")

	out := *user
	return &out, nil
}

// Create adds a user record on behalf of an administrator. A user created
// directly as ATLETA gets an approved credential status.
func (s *UserService) Create(ctx context.Context, input NewUserInput) (*models.User, error) {
	for field, value := range map[string]string{
		"nomeCompleto": input.NomeCompleto,
		"email":        input.Email,
		"cidade":       input.Cidade,
		"estado":       input.Estado,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, apperrors.NewMissingFieldError(field)
		}
	}

	db := s.state.DB().Clone()

	cpf := validation.NormalizeCPF(input.CPF)
	if cpf != "" {
		if !validation.IsCPFValid(cpf) {
			return nil, apperrors.NewInvalidCPFError(input.CPF)
		}
		for _, u := range db.Users {
			if u.CPF != "" && validation.NormalizeCPF(u.CPF) == cpf {
				return nil, apperrors.NewDuplicateCPFError()
			}
		}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	for _, u := range db.Users {
		if strings.EqualFold(u.Email, email) {
			return nil, apperrors.NewConflictError("a user with this email already exists")
		}
	}

	nivel := input.Nivel
	if nivel == "" {
		nivel = models.LevelPescador
	}
	status := models.CredentialNotRequested
	if nivel == models.LevelAtleta {
		status = models.CredentialApproved
	}

	user := models.User{
		ID:            "user-" + uuid.NewString(),
		NomeCompleto:  strings.TrimSpace(input.NomeCompleto),
		Email:         email,
		CPF:           cpf,
		Nivel:         nivel,
		IDNorteStatus: status,
		Cidade:        strings.TrimSpace(input.Cidade),
		Estado:        strings.ToUpper(strings.TrimSpace(input.Estado)),
		CreatedAt:     models.NowISO(),
	}
	db.Users = append(db.Users, user)

	if _, err := s.state.Replace(ctx, db); err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("User created by administrator")
	return &user, nil
}

// SetLevel changes a user's level. Administrators cannot change their own
// level; promoting to ATLETA also marks the credential approved.
func (s *UserService) SetLevel(ctx context.Context, actorID, targetID string, level models.UserLevel) (*models.User, error) {
	if actorID == targetID {
		return nil, apperrors.NewForbiddenError("you cannot change your own level")
	}
	switch level {
	case models.LevelAdmin, models.LevelPescador, models.LevelAtleta:
	default:
		return nil, apperrors.NewValidationError("unknown level")
	}

	db := s.state.DB().Clone()

	user := db.UserByID(targetID)
	if user == nil {
		return nil, apperrors.NewNotFoundError("user")
	}

	user.Nivel = level
	if level == models.LevelAtleta {
		user.IDNorteStatus = models.CredentialApproved
	}

	if _, err := s.state.Replace(ctx, db); err != nil {
		return nil, err
	}
	s.logger.WithFields(map[string]interface{}{
		"user_id": targetID,
		"nivel":   string(level),
	}).Info("User level changed")

	out := *user
	return &out, nil
}

// Delete removes a user record. The distinguished administrator cannot be
// removed; the invariant would recreate it anyway.
func (s *UserService) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.NewForbiddenError("you cannot remove yourself")
	}

	db := s.state.DB().Clone()

	target := db.UserByID(targetID)
	if target == nil {
		return apperrors.NewNotFoundError("user")
	}
	if strings.EqualFold(target.Email, store.AdminEmail) {
		return apperrors.NewForbiddenError("the administrator account cannot be removed")
	}

	users := db.Users[:0]
	for _, u := range db.Users {
		if u.ID != targetID {
			users = append(users, u)
		}
	}
	db.Users = users

	if _, err := s.state.Replace(ctx, db); err != nil {
		return err
	}
	s.logger.WithField("user_id", targetID).Info("User removed")
	return nil
}
