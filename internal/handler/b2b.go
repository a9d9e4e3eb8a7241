package handler

import (
	"encoding/json"
	"net/http"

	"ripapay/internal/b2b"
	"ripapay/pkg/validator"
)

type B2BHandler struct {
	service   *b2b.Service
	validator *validator.Validator
	logger    Logger
}

func NewB2BHandler(service *b2b.Service, val *validator.Validator, log Logger) *B2BHandler {
	return &B2BHandler{service: service, validator: val, logger: log}
}

// Transfer moves funds between two registered businesses at the b2b rate.
func (h *B2BHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req b2b.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.BusinessTransfer(r.Context(), &req)
	if err != nil {
		h.logger.Error("B2B transfer failed", map[string]interface{}{
			"error":         err.Error(),
			"from_business": req.FromBusinessID,
			"to_business":   req.ToBusinessID,
		})
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// GetSupportedChains lists registered chains in registration order.
func (h *B2BHandler) GetSupportedChains(w http.ResponseWriter, r *http.Request) {
	chains := h.service.SupportedChains()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"chains": chains,
		"total":  len(chains),
	})
}

// RegisterChain adds a chain to the registry.
func (h *B2BHandler) RegisterChain(w http.ResponseWriter, r *http.Request) {
	var req b2b.RegisterChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.RegisterChain(&req); err != nil {
		h.logger.Error("Chain registration failed", map[string]interface{}{"error": err.Error(), "chain_id": req.ChainID})
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "Chain registered successfully"})
}
