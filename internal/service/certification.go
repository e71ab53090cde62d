package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/validation"
)

// CertificationDraft is a prospective event submitted for certification.
type CertificationDraft struct {
	NomeEvento      string                     `json:"nomeEvento"`
	DataInicio      string                     `json:"dataInicio"`
	DataFim         string                     `json:"dataFim"`
	Descricao       string                     `json:"descricao"`
	Categorias      []models.Category          `json:"categorias"`
	Cidade          string                     `json:"cidade"`
	Estado          string                     `json:"estado"`
	InstituicaoNome string                     `json:"instituicaoNome"`
	Documento       string                     `json:"documento"`
	DocumentoTipo   models.DocumentType        `json:"documentoTipo"`
	Responsaveis    []models.ResponsiblePerson `json:"responsaveis"`
	Anexos          []models.UploadFile        `json:"anexos"`
	LogoDataURL     string                     `json:"logoDataUrl"`
}

// CertificationService runs the event-certification workflow.
type CertificationService struct {
	state  State
	logger *logging.Logger
}

// NewCertificationService creates the certification workflow service.
func NewCertificationService(state State, logger *logging.Logger) *CertificationService {
	return &CertificationService{state: state, logger: logger}
}

// Submit files a certification request for the requester. The draft is
// validated in full before anything is committed; a rejected draft leaves no
// partial record.
func (s *CertificationService) Submit(ctx context.Context, requesterID, requesterEmail string, draft CertificationDraft) (*models.CertificationRequest, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	db := s.state.DB().Clone()

	request := models.CertificationRequest{
		ID:                "cert-req-" + uuid.NewString(),
		Status:            models.RequestPending,
		RequestedAt:       models.NowISO(),
		RequestedByUserID: requesterID,
		RequestedByEmail:  requesterEmail,
		LogoDataURL:       draft.LogoDataURL,
		NomeEvento:        draft.NomeEvento,
		DataInicio:        draft.DataInicio,
		DataFim:           draft.DataFim,
		Descricao:         draft.Descricao,
		Categorias:        draft.Categorias,
		Cidade:            draft.Cidade,
		Estado:            strings.ToUpper(draft.Estado),
		InstituicaoNome:   draft.InstituicaoNome,
		Documento:         validation.NormalizeDocument(draft.Documento),
		DocumentoTipo:     draft.DocumentoTipo,
		Responsaveis:      draft.Responsaveis,
		Anexos:            draft.Anexos,
	}
	db.CertificationRequests = append(db.CertificationRequests, request)

	if _, err := s.state.Replace(ctx, db); err != nil {
		return nil, err
	}
	s.logger.WithFields(map[string]interface{}{
		"request_id": request.ID,
		"evento":     request.NomeEvento,
	}).Info("Certification request submitted")
	return &request, nil
}

func validateDraft(draft CertificationDraft) error {
	for field, value := range map[string]string{
		"nomeEvento":      draft.NomeEvento,
		"dataInicio":      draft.DataInicio,
		"dataFim":         draft.DataFim,
		"cidade":          draft.Cidade,
		"estado":          draft.Estado,
		"instituicaoNome": draft.InstituicaoNome,
		"documento":       draft.Documento,
	} {
		if strings.TrimSpace(value) == "" {
			return apperrors.NewMissingFieldError(field)
		}
	}
	if len(draft.Categorias) == 0 {
		return apperrors.NewValidationError("select at least one category")
	}
	for _, c := range draft.Categorias {
		if !models.IsValidCategory(c) {
			return apperrors.NewValidationError(fmt.Sprintf("unknown category %q", c))
		}
	}
	if draft.DataInicio > draft.DataFim {
		return apperrors.NewValidationError("the start date cannot be after the end date")
	}

	doc := validation.NormalizeDocument(draft.Documento)
	switch draft.DocumentoTipo {
	case models.DocumentCPF:
		if !validation.IsCPFValid(doc) {
			return apperrors.NewInvalidCPFError(draft.Documento)
		}
	case models.DocumentCNPJ:
		if !validation.IsCNPJValid(doc) {
			return apperrors.NewInvalidCNPJError(draft.Documento)
		}
	default:
		return apperrors.NewValidationError("documentoTipo must be CPF or CNPJ")
	}
	return nil
}

// List returns every certification request, most recent first.
func (s *CertificationService) List(_ context.Context) []models.CertificationRequest {
	db := s.state.DB()
	out := make([]models.CertificationRequest, len(db.CertificationRequests))
	copy(out, db.CertificationRequests)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestedAt > out[j].RequestedAt
	})
	return out
}

// ListForUser returns the user's own requests, most recent first.
func (s *CertificationService) ListForUser(_ context.Context, userID string) []models.CertificationRequest {
	var out []models.CertificationRequest
	for _, r := range s.state.DB().CertificationRequests {
		if r.RequestedByUserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestedAt > out[j].RequestedAt
	})
	return out
}

// Approve certifies the event. The transition is one-way and materializes
// exactly one CertifiedEvent from the request's draft; the new event's
// identity is recorded on the request.
func (s *CertificationService) Approve(ctx context.Context, requestID, adminEmail string) (*models.CertifiedEvent, error) {
	db := s.state.DB().Clone()

	request := findCertificationRequest(db, requestID)
	if request == nil {
		return nil, apperrors.NewNotFoundError("certification request")
	}
	if request.Status != models.RequestPending {
		return nil, apperrors.NewConflictError("the request has already been decided")
	}

	responsaveis := make([]string, 0, len(request.Responsaveis))
	for _, r := range request.Responsaveis {
		responsaveis = append(responsaveis, fmt.Sprintf("%s (%s)", r.Nome, r.Telefone))
	}

	event := models.CertifiedEvent{
		ID:                      "event-" + uuid.NewString(),
		NomeEvento:              request.NomeEvento,
		Descricao:               request.Descricao,
		InstituicaoOrganizadora: request.InstituicaoNome,
		Responsaveis:            strings.Join(responsaveis, ", "),
		Cidade:                  request.Cidade,
		Estado:                  request.Estado,
		DataEvento:              request.DataInicio,
		TemCaiaque:              request.HasCategory(models.CategoryCaiaque),
		TemEmbarcado:            request.HasCategory(models.CategoryEmbarcado),
		TemArremesso:            request.HasCategory(models.CategoryArremesso),
		TemBarranco:             request.HasCategory(models.CategoryBarranco),
		LogoDataURL:             request.LogoDataURL,
		CreatedAt:               models.NowISO(),
	}

	db.Events = append(db.Events, event)
	request.Status = models.RequestApproved
	request.ApprovedAt = models.NowISO()
	request.ApprovedBy = adminEmail
	request.EventID = event.ID

	if _, err := s.state.Replace(ctx, db); err != nil {
		return nil, err
	}
	s.logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"event_id":   event.ID,
	}).Info("Certification approved, event published")
	return &event, nil
}

// Reject declines the request with a mandatory reason.
func (s *CertificationService) Reject(ctx context.Context, requestID, adminEmail, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperrors.NewMissingFieldError("reason")
	}

	db := s.state.DB().Clone()

	request := findCertificationRequest(db, requestID)
	if request == nil {
		return apperrors.NewNotFoundError("certification request")
	}
	if request.Status != models.RequestPending {
		return apperrors.NewConflictError("the request has already been decided")
	}

	request.Status = models.RequestRejected
	request.RejectedAt = models.NowISO()
	request.RejectedBy = adminEmail
	request.RejectReason = reason

	if _, err := s.state.Replace(ctx, db); err != nil {
		return err
	}
	s.logger.WithField("request_id", requestID).Info("Certification request rejected")
	return nil
}

func findCertificationRequest(db *models.Database, id string) *models.CertificationRequest {
	for i := range db.CertificationRequests {
		if db.CertificationRequests[i].ID == id {
			return &db.CertificationRequests[i]
		}
	}
	return nil
}
