package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ripapay/internal/wallet"
	"ripapay/pkg/validator"
)

type WalletHandler struct {
	service   *wallet.Service
	validator *validator.Validator
	logger    Logger
}

func NewWalletHandler(service *wallet.Service, val *validator.Validator, log Logger) *WalletHandler {
	return &WalletHandler{service: service, validator: val, logger: log}
}

// Connect validates a wallet address with the node.
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Connect(r.Context(), req.Address)
	if err != nil {
		h.logger.Error("Wallet connect failed", map[string]interface{}{"error": err.Error()})
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetBalance returns the on-chain balance of an address.
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	resp, err := h.service.Balance(r.Context(), address)
	if err != nil {
		h.logger.Error("Balance lookup failed", map[string]interface{}{"error": err.Error(), "address": address})
		respondError(w, http.StatusBadGateway, "Failed to fetch balance")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetTransactions returns a page of transactions involving an address.
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	limit := 10
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	records, err := h.service.Transactions(r.Context(), address, limit, offset)
	if err != nil {
		h.logger.Error("Transaction lookup failed", map[string]interface{}{"error": err.Error(), "address": address})
		respondError(w, http.StatusBadGateway, "Failed to fetch transactions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": records,
		"total":        len(records),
		"limit":        limit,
		"offset":       offset,
	})
}
