package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"ripapay/internal/domain"
	"ripapay/internal/pos"
	"ripapay/pkg/validator"
)

type POSHandler struct {
	service   *pos.Service
	validator *validator.Validator
	logger    Logger
}

func NewPOSHandler(service *pos.Service, val *validator.Validator, log Logger) *POSHandler {
	return &POSHandler{service: service, validator: val, logger: log}
}

// Create builds a terminal payment request and its scannable payload.
func (h *POSHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req pos.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.CreatePayment(&req)
	if err != nil {
		h.logger.Error("POS payment creation failed", map[string]interface{}{"error": err.Error(), "pos_id": req.POSID})
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Process verifies a scanned payload and submits the payment.
func (h *POSHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QRData      string          `json:"qr_data" validate:"required"`
		BusinessID  string          `json:"business_uuid" validate:"required"`
		Amount      decimal.Decimal `json:"amount" validate:"required"`
		FromAddress string          `json:"from_address" validate:"required"`
		ToAddress   string          `json:"to_address" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.ProcessScan(r.Context(), &pos.ProcessScanRequest{
		Payload: decodePayload(req.QRData),
		Expected: domain.PaymentIntent{
			BusinessID: req.BusinessID,
			Amount:     req.Amount,
		},
		FromAddress: req.FromAddress,
		ToAddress:   req.ToAddress,
	})
	if err != nil {
		h.logger.Error("POS scan processing failed", map[string]interface{}{"error": err.Error(), "business_id": req.BusinessID})
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}
