package common

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithServiceError is the handler boundary for service errors: known
// errors keep their status and message, anything else becomes a generic 500.
func RespondWithServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: vErr.Fields})
		return
	}

	code := HTTPStatusFromError(err)
	if code == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("unhandled service error", "error", err)
		}
		RespondWithError(w, code, "Internal server error")
		return
	}
	if code == http.StatusBadGateway {
		if logger != nil {
			logger.Error("upstream failure", "error", err)
		}
		RespondWithError(w, code, ErrUpstream.Error())
		return
	}
	RespondWithError(w, code, err.Error())
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
