package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"ripapay/internal/domain"
	"ripapay/internal/payment"
	"ripapay/pkg/validator"
)

type PaymentHandler struct {
	service   *payment.Service
	tracker   *payment.Tracker
	validator *validator.Validator
	logger    Logger
}

func NewPaymentHandler(service *payment.Service, tracker *payment.Tracker, val *validator.Validator, log Logger) *PaymentHandler {
	return &PaymentHandler{service: service, tracker: tracker, validator: val, logger: log}
}

type CreateTransactionRequest struct {
	BusinessID  string               `json:"business_uuid" validate:"required"`
	Amount      decimal.Decimal      `json:"amount" validate:"required,gt=0"`
	Currency    domain.Currency      `json:"currency"`
	Reference   string               `json:"reference"`
	FromAddress string               `json:"from_address" validate:"required"`
	ToAddress   string               `json:"to_address" validate:"required"`
	Class       domain.TransferClass `json:"type" validate:"omitempty,oneof=standard b2b"`
}

// CreateTransaction submits a payment to the chain.
func (h *PaymentHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	class := req.Class
	if class == "" {
		class = domain.TransferStandard
	}
	currency := req.Currency
	if currency == "" {
		currency = domain.QUBIC
	}

	intent := domain.PaymentIntent{
		BusinessID: validator.Sanitize(req.BusinessID),
		Amount:     req.Amount,
		Currency:   currency,
		Reference:  validator.Sanitize(req.Reference),
		CreatedAt:  time.Now().UTC(),
	}

	result, err := h.service.Submit(r.Context(), intent, payment.Addresses{
		From: req.FromAddress,
		To:   req.ToAddress,
	}, class)
	if err != nil {
		h.logger.Error("Transaction submission failed", map[string]interface{}{
			"error":       err.Error(),
			"business_id": intent.BusinessID,
		})
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// GetTransaction returns the ledger's view of a submitted transaction.
func (h *PaymentHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	txID := mux.Vars(r)["id"]
	if txID == "" {
		respondError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	record, err := h.tracker.Details(r.Context(), txID)
	if err != nil {
		h.logger.Error("Failed to fetch transaction", map[string]interface{}{"error": err.Error(), "tx_id": txID})
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// GetInbound returns incoming transactions for an address.
func (h *PaymentHandler) GetInbound(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, payment.DirectionInbound)
}

// GetOutbound returns outgoing transactions for an address.
func (h *PaymentHandler) GetOutbound(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, payment.DirectionOutbound)
}

func (h *PaymentHandler) history(w http.ResponseWriter, r *http.Request, direction payment.Direction) {
	address := mux.Vars(r)["address"]

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	var (
		txs []payment.TrackedTransaction
		err error
	)
	if direction == payment.DirectionInbound {
		txs, err = h.tracker.Inbound(r.Context(), address, limit)
	} else {
		txs, err = h.tracker.Outbound(r.Context(), address, limit)
	}
	if err != nil {
		h.logger.Error("Failed to fetch transaction history", map[string]interface{}{"error": err.Error(), "address": address})
		respondError(w, http.StatusBadGateway, "Failed to fetch transaction history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"total":        len(txs),
		"limit":        limit,
	})
}
