// ==============================================================================
// POS SERVICE - internal/pos/service.go
// ==============================================================================
package pos

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ripapay/internal/domain"
	"ripapay/internal/payment"
	"ripapay/internal/qr"
	pkgerrors "ripapay/pkg/errors"
	"ripapay/pkg/logger"
)

// Submitter is the slice of the payment service the POS flow needs.
type Submitter interface {
	Submit(ctx context.Context, intent domain.PaymentIntent, addrs payment.Addresses, class domain.TransferClass) (*domain.TransactionResult, error)
}

// Service drives the point-of-sale flow: the merchant terminal creates a
// scannable payment request, the customer device scans and verifies it,
// then the payment is submitted at the standard fee rate.
type Service struct {
	codec     *qr.Codec
	verifier  *qr.Verifier
	submitter Submitter
	logger    logger.Logger
}

func NewService(codec *qr.Codec, verifier *qr.Verifier, submitter Submitter, log logger.Logger) *Service {
	return &Service{
		codec:     codec,
		verifier:  verifier,
		submitter: submitter,
		logger:    log,
	}
}

type CreatePaymentRequest struct {
	BusinessID   string          `json:"business_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Currency     domain.Currency `json:"currency"`
	Reference    string          `json:"reference"`
	MerchantName string          `json:"merchant_name"`
	POSID        string          `json:"pos_id" validate:"required"`
	TerminalID   string          `json:"terminal_id"`
}

type CreatePaymentResponse struct {
	Payment domain.PaymentIntent `json:"payment"`
	Payload string               `json:"payload"`
	QRData  string               `json:"qr_data"`
}

// CreatePayment builds the terminal's payment intent and encodes it for
// QR rendering. QRData is the base64 transport form clients embed in the
// rendered code.
func (s *Service) CreatePayment(req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = domain.QUBIC
	}

	intent := domain.PaymentIntent{
		BusinessID:   req.BusinessID,
		Amount:       req.Amount,
		Currency:     currency,
		Reference:    req.Reference,
		MerchantName: req.MerchantName,
		POSID:        req.POSID,
		TerminalID:   req.TerminalID,
		CreatedAt:    time.Now().UTC(),
	}

	payload, err := s.codec.Encode(intent)
	if err != nil {
		return nil, err
	}

	s.logger.Info("POS payment created", map[string]interface{}{
		"business_id": req.BusinessID,
		"pos_id":      req.POSID,
		"amount":      req.Amount.String(),
	})

	return &CreatePaymentResponse{
		Payment: intent,
		Payload: payload.String(),
		QRData:  payload.Base64(),
	}, nil
}

type ProcessScanRequest struct {
	Payload     domain.PaymentPayload `json:"payload" validate:"required"`
	Expected    domain.PaymentIntent  `json:"expected"`
	FromAddress string                `json:"from_address" validate:"required"`
	ToAddress   string                `json:"to_address" validate:"required"`
}

// ProcessScan verifies a scanned payload against the expected payment
// and, on a match, submits the transfer at the standard rate. A failed
// match never reaches the chain.
func (s *Service) ProcessScan(ctx context.Context, req *ProcessScanRequest) (*domain.TransactionResult, error) {
	if !s.verifier.Verify(req.Payload, req.Expected) {
		s.logger.Warn("Scanned payload rejected", map[string]interface{}{
			"business_id": req.Expected.BusinessID,
		})
		return nil, pkgerrors.ErrPaymentMismatch
	}

	intent, err := s.codec.Decode(req.Payload)
	if err != nil {
		return nil, pkgerrors.ErrPaymentMismatch
	}

	return s.submitter.Submit(ctx, intent, payment.Addresses{
		From: req.FromAddress,
		To:   req.ToAddress,
	}, domain.TransferStandard)
}
