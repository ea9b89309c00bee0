package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"bistro/internal/model"

	"github.com/rs/zerolog"
)

// APIResponse is the envelope every route answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeOK writes a successful envelope.
func writeOK(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, APIResponse{Success: true, Data: data})
}

// writeError writes an error envelope with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, APIResponse{Success: false, Error: message})
}

// writeServiceError maps a service error to an HTTP status. Domain errors
// carry their own message; anything else answers with the fallback message so
// internals never leak.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg(fallback)
	writeError(w, http.StatusInternalServerError, fallback, logger)
}

// statusForCode maps domain error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeConflict:
		return http.StatusConflict
	case model.ErrCodeValidation, model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeGatewayError:
		return http.StatusBadGateway
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
