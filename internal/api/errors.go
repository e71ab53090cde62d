package api

import (
	"encoding/json"
	"net/http"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
)

// ErrorBody is the wire shape of an API error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Common error codes for failures raised by the API layer itself.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
)

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response with an explicit status and code.
func respondError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// respondAppError maps a service-layer error onto the wire. Internal errors
// hide their cause from the client and log it instead.
func respondAppError(w http.ResponseWriter, logger *logging.Logger, err error) {
	e := apperrors.AsError(err)
	if e.Category == apperrors.CategoryInternal {
		logger.WithError(err).Error("request failed")
	}
	respondError(w, e.StatusCode, e.Code, e.Message)
}

// parseJSONBody parses a JSON request body into v.
func parseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
