package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

// MembershipService runs the ID Norte request and approval workflow.
type MembershipService struct {
	state  State
	logger *logging.Logger
}

// NewMembershipService creates the membership workflow service.
func NewMembershipService(state State, logger *logging.Logger) *MembershipService {
	return &MembershipService{state: state, logger: logger}
}

// Request files a credential request for the user and marks the user PENDENTE.
func (s *MembershipService) Request(ctx context.Context, userID string) (*models.MembershipRequest, error) {
	db := s.state.DB().Clone()

	user := db.UserByID(userID)
	if user == nil {
		return nil, apperrors.NewNotFoundError("user")
	}
	if user.IDNorteStatus == models.CredentialPending {
		return nil, apperrors.NewConflictError("a credential request is already pending")
	}
	if user.IDNorteStatus == models.CredentialApproved {
		return nil, apperrors.NewConflictError("the credential has already been approved")
	}

	request := models.MembershipRequest{
		ID:              "req-" + uuid.NewString(),
		UserID:          userID,
		DataSolicitacao: models.NowISO(),
		Status:          models.RequestPending,
	}
	db.Requests = append(db.Requests, request)
	user.IDNorteStatus = models.CredentialPending

	if _, err := s.state.Replace(ctx, db); err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", userID).Info("Credential request filed")
	return &request, nil
}

// List returns every credential request, most recent first.
func (s *MembershipService) List(_ context.Context) []models.MembershipRequest {
	db := s.state.DB()
	out := make([]models.MembershipRequest, len(db.Requests))
	copy(out, db.Requests)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DataSolicitacao > out[j].DataSolicitacao
	})
	return out
}

// ListForUser returns the user's own requests, most recent first.
func (s *MembershipService) ListForUser(_ context.Context, userID string) []models.MembershipRequest {
	var out []models.MembershipRequest
	for _, r := range s.state.DB().Requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DataSolicitacao > out[j].DataSolicitacao
	})
	return out
}

// Approve grants the credential: the next sequential number is allocated, the
// document link and membership dates are stamped and the user becomes an
// ATLETA. Credential fields a user already carries are preserved, so a
// re-approval after expiry keeps the original number.
func (s *MembershipService) Approve(ctx context.Context, requestID string) (*models.User, error) {
	db := s.state.DB().Clone()

	request := findRequest(db, requestID)
	if request == nil {
		return nil, apperrors.NewNotFoundError("credential request")
	}
	if request.Status != models.RequestPending {
		return nil, apperrors.NewConflictError("the request has already been decided")
	}
	user := db.UserByID(request.UserID)
	if user == nil {
		return nil, apperrors.NewNotFoundError("requesting user")
	}

	numbered := 0
	for _, u := range db.Users {
		if u.IDNorteNumero != "" {
			numbered++
		}
	}
	numero := fmt.Sprintf("ID-%05d", numbered+1)

	now := time.Now().UTC()
	request.Status = models.RequestApproved
	user.IDNorteStatus = models.CredentialApproved
	user.Nivel = models.LevelAtleta
	if user.IDNorteNumero == "" {
		user.IDNorteNumero = numero
	}
	if user.IDNortePDFLink == "" {
		user.IDNortePDFLink = fmt.Sprintf("https://example.com/carteirinha-%s.pdf", user.IDNorteNumero)
	}
	if user.IDNorteAdesao == "" {
		user.IDNorteAdesao = now.Format(time.RFC3339)
	}
	if user.IDNorteValidade == "" {
		user.IDNorteValidade = now.AddDate(1, 0, 0).Format(time.RFC3339)
	}
	user.IDNorteAprovadoEm = now.Format(time.RFC3339)

	if _, err := s.state.Replace(ctx, db); err != nil {
		return nil, err
	}
	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"numero":  user.IDNorteNumero,
	}).Info("Credential approved")

	out := *user
	return &out, nil
}

// Reject declines the request with a mandatory reason and marks the user
// REPROVADO.
func (s *MembershipService) Reject(ctx context.Context, requestID, reason string) error {
	if reason == "" {
		return apperrors.NewMissingFieldError("reason")
	}

	db := s.state.DB().Clone()

	request := findRequest(db, requestID)
	if request == nil {
		return apperrors.NewNotFoundError("credential request")
	}
	if request.Status != models.RequestPending {
		return apperrors.NewConflictError("the request has already been decided")
	}

	request.Status = models.RequestRejected
	request.ObservacaoAdmin = reason
	if user := db.UserByID(request.UserID); user != nil {
		user.IDNorteStatus = models.CredentialRejected
	}

	if _, err := s.state.Replace(ctx, db); err != nil {
		return err
	}
	s.logger.WithField("request_id", requestID).Info("Credential request rejected")
	return nil
}

func findRequest(db *models.Database, id string) *models.MembershipRequest {
	for i := range db.Requests {
		if db.Requests[i].ID == id {
			return &db.Requests[i]
		}
	}
	return nil
}
