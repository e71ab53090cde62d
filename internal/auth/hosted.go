package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/config"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/validation"
)

// HostedStrategy delegates code issuance, verification and the user table to
// an external identity service. The service speaks snake_case JSON; records
// are mapped to the internal User shape at this boundary.
type HostedStrategy struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewHostedStrategy creates a client for the configured identity service.
func NewHostedStrategy(cfg config.AuthConfig, logger *logging.Logger) *HostedStrategy {
	return &HostedStrategy{
		baseURL:    cfg.HostedBaseURL,
		apiKey:     cfg.HostedAPIKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// hostedUser is a user row as the identity service returns it.
type hostedUser struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	NomeCompleto      string `json:"nome_completo"`
	CPF               string `json:"cpf"`
	Telefone          string `json:"telefone"`
	Cidade            string `json:"cidade"`
	Estado            string `json:"estado"`
	FotoURL           string `json:"foto_url"`
	Nivel             string `json:"nivel"`
	IDNorteStatus     string `json:"id_norte_status"`
	IDNorteNumero     string `json:"id_norte_numero"`
	IDNortePDFLink    string `json:"id_norte_pdf_link"`
	IDNorteAprovadoEm string `json:"id_norte_aprovado_em"`
	IDNorteAdesao     string `json:"id_norte_adesao"`
	IDNorteValidade   string `json:"id_norte_validade"`
	CreatedAt         string `json:"created_at"`
}

func (h hostedUser) toUser() models.User {
	return models.User{
		ID:                h.ID,
		Email:             h.Email,
		NomeCompleto:      h.NomeCompleto,
		CPF:               h.CPF,
		Telefone:          h.Telefone,
		Cidade:            h.Cidade,
		Estado:            h.Estado,
		FotoURL:           h.FotoURL,
		Nivel:             models.UserLevel(h.Nivel),
		IDNorteStatus:     models.CredentialStatus(h.IDNorteStatus),
		IDNorteNumero:     h.IDNorteNumero,
		IDNortePDFLink:    h.IDNortePDFLink,
		IDNorteAprovadoEm: h.IDNorteAprovadoEm,
		IDNorteAdesao:     h.IDNorteAdesao,
		IDNorteValidade:   h.IDNorteValidade,
		CreatedAt:         h.CreatedAt,
	}
}

func (s *HostedStrategy) RequestOTP(ctx context.Context, email string) (string, error) {
	err := s.doJSON(ctx, http.MethodPost, "/otp/request", map[string]string{"email": email}, nil)
	return "", err
}

func (s *HostedStrategy) VerifyOTP(ctx context.Context, email, code string) error {
	return s.doJSON(ctx, http.MethodPost, "/otp/verify", map[string]string{"email": email, "code": code}, nil)
}

// FindUserByEmail queries the service's user table. The local document is not
// consulted; the service owns the rows.
func (s *HostedStrategy) FindUserByEmail(ctx context.Context, _ *models.Database, email string) (*models.User, error) {
	return s.lookupUser(ctx, "/users/by-email/"+url.PathEscape(email))
}

func (s *HostedStrategy) FindUserByCPF(ctx context.Context, _ *models.Database, cpf string) (*models.User, error) {
	return s.lookupUser(ctx, "/users/by-cpf/"+url.PathEscape(validation.NormalizeCPF(cpf)))
}

func (s *HostedStrategy) lookupUser(ctx context.Context, path string) (*models.User, error) {
	var row hostedUser
	err := s.doJSON(ctx, http.MethodGet, path, nil, &row)
	if err != nil {
		if appErr := apperrors.AsError(err); appErr.Category == apperrors.CategoryNotFound {
			return nil, nil
		}
		return nil, err
	}
	u := row.toUser()
	return &u, nil
}

func (s *HostedStrategy) CreateUserFromProfile(ctx context.Context, db *models.Database, profile ProfileData) (models.User, error) {
	if err := validateProfile(db, profile); err != nil {
		return models.User{}, err
	}

	body := map[string]string{
		"email":         profile.Email,
		"nome_completo": profile.NomeCompleto,
		"cpf":           validation.NormalizeCPF(profile.CPF),
		"telefone":      profile.Telefone,
		"cidade":        profile.Cidade,
		"estado":        profile.Estado,
	}
	var row hostedUser
	if err := s.doJSON(ctx, http.MethodPost, "/users", body, &row); err != nil {
		return models.User{}, err
	}
	return row.toUser(), nil
}

// CurrentSession resolves the service's active session to a user, or nil when
// no session exists.
func (s *HostedStrategy) CurrentSession(ctx context.Context) (*models.User, error) {
	return s.lookupUser(ctx, "/session")
}

// SignOut terminates the external session.
func (s *HostedStrategy) SignOut(ctx context.Context) error {
	return s.doJSON(ctx, http.MethodPost, "/signout", nil, nil)
}

type hostedErrorResponse struct {
	Error string `json:"error"`
}

func (s *HostedStrategy) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return apperrors.NewExternalServiceError("identity service", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalServiceError("identity service", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.NewExternalServiceError("identity service", err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError("identity record")
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		var msg hostedErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		if msg.Error == "" {
			msg.Error = "authentication rejected by identity service"
		}
		return apperrors.New(apperrors.CategoryAuth, http.StatusUnauthorized, "HOSTED_AUTH_REJECTED", msg.Error)
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.logger.WithField("status", resp.StatusCode).Warn("identity service error response")
		return apperrors.NewExternalServiceError("identity service",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(raw)))
	}
}
