package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "ripapay/pkg/errors"
)

// Logger is the logging surface handlers need.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain errors to HTTP statuses: caller faults
// are 400, duplicate chain registration is 409, chain-side failures are
// 502, and chain-side deadline misses are 504.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidAmount),
		errors.Is(err, pkgerrors.ErrInvalidAddress),
		errors.Is(err, pkgerrors.ErrMalformedPayload),
		errors.Is(err, pkgerrors.ErrInvalidChainConfig),
		errors.Is(err, pkgerrors.ErrUnsupportedChain),
		errors.Is(err, pkgerrors.ErrPaymentMismatch):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pkgerrors.ErrChainAlreadyRegistered):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, pkgerrors.ErrSubmissionTimeout):
		respondError(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, pkgerrors.ErrSubmissionFailed):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
