package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/config"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
)

func setupClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.AssistantConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "gemini-3-flash-preview",
	}, logging.NewLogger(logging.LevelError, logging.FormatText))
}

func TestAsk(t *testing.T) {
	var got generateRequest
	c := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/models/gemini-3-flash-preview:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "Bora pescar!"})
	}))

	answer, err := c.Ask(context.Background(), "Escreva um convite para o torneio")
	require.NoError(t, err)
	assert.Equal(t, "Bora pescar!", answer)
	assert.Equal(t, "Escreva um convite para o torneio", got.Contents)
	assert.Contains(t, got.SystemInstruction, "Assistente FNPE")
}

func TestAskEmptyTextFallsBack(t *testing.T) {
	c := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))

	answer, err := c.Ask(context.Background(), "oi")
	require.NoError(t, err)
	assert.Equal(t, fallbackAnswer, answer)
}

func TestAskQuotaExceeded(t *testing.T) {
	c := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.Ask(context.Background(), "oi")
	assert.Equal(t, "ASSISTANT_QUOTA_EXCEEDED", apperrors.AsError(err).Code)
}

func TestAskBadCredentials(t *testing.T) {
	c := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := c.Ask(context.Background(), "oi")
	assert.Equal(t, "ASSISTANT_CREDENTIALS", apperrors.AsError(err).Code)
}

func TestAskUnconfigured(t *testing.T) {
	c := NewClient(config.AssistantConfig{Model: "gemini-3-flash-preview"},
		logging.NewLogger(logging.LevelError, logging.FormatText))

	assert.False(t, c.Configured())
	_, err := c.Ask(context.Background(), "oi")
	assert.Equal(t, apperrors.CategoryExternal, apperrors.AsError(err).Category)
}
