// Package assist is the client for the external text-generation collaborator
// that powers the federation assistant.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/config"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
)

// systemInstruction frames every assistant request.
const systemInstruction = `Você é o Assistente FNPE (Federação Norte de Pesca Esportiva).
Sua função é ajudar com:
1. Criar descrições para eventos de pesca.
2. Escrever textos de divulgação para redes sociais.
3. Tirar dúvidas sobre regras de ranking (Caiaque, Embarcado, Arremesso).
4. Auxiliar administradores na gestão da federação.
Sempre responda de forma profissional, amigável e esportiva.`

const fallbackAnswer = "Desculpe, não consegui processar sua solicitação."

// Client calls the text-generation service.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates the assistant client. Configured reports whether a base
// URL and key are present; an unconfigured client fails every Ask.
func NewClient(cfg config.AssistantConfig, logger *logging.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Configured reports whether the collaborator is reachable by configuration.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type generateRequest struct {
	Model             string `json:"model"`
	Contents          string `json:"contents"`
	SystemInstruction string `json:"systemInstruction"`
}

type generateResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Ask sends the prompt and returns the generated text. Failures are surfaced
// as external-service errors; there is no automatic retry.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", apperrors.NewExternalServiceError("assistant",
			fmt.Errorf("assistant is not configured"))
	}

	payload, err := json.Marshal(generateRequest{
		Model:             c.model,
		Contents:          prompt,
		SystemInstruction: systemInstruction,
	})
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/models/"+c.model+":generateContent", bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewExternalServiceError("assistant", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewExternalServiceError("assistant", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", apperrors.New(apperrors.CategoryExternal, http.StatusTooManyRequests,
			"ASSISTANT_QUOTA_EXCEEDED", "the assistant quota is exhausted, try again later")
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", apperrors.New(apperrors.CategoryExternal, http.StatusBadGateway,
			"ASSISTANT_CREDENTIALS", "the assistant rejected the configured credentials")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WithField("status", resp.StatusCode).Warn("Assistant error response")
		return "", apperrors.NewExternalServiceError("assistant",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(raw)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.NewExternalServiceError("assistant", err)
	}
	if out.Error != "" {
		return "", apperrors.NewExternalServiceError("assistant", fmt.Errorf("%s", out.Error))
	}
	if out.Text == "" {
		return fallbackAnswer, nil
	}
	return out.Text, nil
}
