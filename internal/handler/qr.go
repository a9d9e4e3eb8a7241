package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"ripapay/internal/domain"
	"ripapay/internal/pos"
	"ripapay/internal/qr"
	"ripapay/pkg/validator"
)

type QRHandler struct {
	pos       *pos.Service
	verifier  *qr.Verifier
	validator *validator.Validator
	logger    Logger
}

func NewQRHandler(posService *pos.Service, verifier *qr.Verifier, val *validator.Validator, log Logger) *QRHandler {
	return &QRHandler{pos: posService, verifier: verifier, validator: val, logger: log}
}

// Generate encodes a payment request for QR rendering.
func (h *QRHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req pos.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.pos.CreatePayment(&req)
	if err != nil {
		h.logger.Error("QR generation failed", map[string]interface{}{"error": err.Error(), "business_id": req.BusinessID})
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

type VerifyRequest struct {
	QRData     string          `json:"qr_data" validate:"required"`
	BusinessID string          `json:"business_uuid" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// VerifyPayment checks a scanned payload against the expected payment.
// The answer is a verdict, never an error: a payload that cannot be
// decoded is simply not valid.
func (h *QRHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	valid := h.verifier.Verify(decodePayload(req.QRData), domain.PaymentIntent{
		BusinessID: req.BusinessID,
		Amount:     req.Amount,
	})

	respondJSON(w, http.StatusOK, VerifyResponse{Valid: valid})
}

// decodePayload accepts the payload either as raw JSON or in the base64
// transport form clients embed in rendered codes.
func decodePayload(data string) domain.PaymentPayload {
	trimmed := strings.TrimSpace(data)
	if strings.HasPrefix(trimmed, "{") {
		return domain.PaymentPayload(trimmed)
	}
	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return domain.PaymentPayload(trimmed)
	}
	return domain.PaymentPayload(decoded)
}
