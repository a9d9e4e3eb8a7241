// Package domain holds the core payment types shared across RipaPay services.
package domain

import (
	"encoding/base64"
	"time"

	"github.com/shopspring/decimal"
)

// Currency identifies the settlement currency of a payment.
type Currency string

const (
	QUBIC Currency = "QUBIC"
)

// TransferClass determines the fee rate applied to a transfer.
type TransferClass string

const (
	TransferStandard TransferClass = "standard"
	TransferB2B      TransferClass = "b2b"
)

// PaymentIntent describes a payment as created by the initiating party.
// Immutable once created.
type PaymentIntent struct {
	BusinessID   string          `json:"business_uuid"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     Currency        `json:"currency"`
	Reference    string          `json:"reference,omitempty"`
	MerchantName string          `json:"merchant_name,omitempty"`
	POSID        string          `json:"pos_id,omitempty"`
	TerminalID   string          `json:"terminal_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PaymentPayload is the canonical encoded form of a PaymentIntent, suitable
// for out-of-band transport such as a scannable code.
type PaymentPayload []byte

func (p PaymentPayload) String() string {
	return string(p)
}

// Base64 returns the payload in the transport encoding clients embed in
// rendered codes.
func (p PaymentPayload) Base64() string {
	return base64.StdEncoding.EncodeToString(p)
}

// FeeBreakdown is the result of applying a fee rate to a gross amount.
// FeeAmount + NetAmount equals GrossAmount exactly; the smallest-unit
// fields are truncated toward zero, so FeeUnits + NetUnits never exceeds
// GrossUnits.
type FeeBreakdown struct {
	GrossAmount decimal.Decimal `json:"gross_amount"`
	FeeAmount   decimal.Decimal `json:"fee_amount"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	GrossUnits  int64           `json:"gross_units"`
	FeeUnits    int64           `json:"fee_units"`
	NetUnits    int64           `json:"net_units"`
}

// TransferRequest is a chain transaction request built from a validated
// payment intent and resolved wallet addresses. Amounts are in the chain's
// smallest integer unit; the fee is routed separately from the payable
// amount by the ledger gateway.
type TransferRequest struct {
	SourceAddress      string   `json:"source"`
	DestinationAddress string   `json:"destination"`
	AmountUnits        int64    `json:"amount"`
	FeeUnits           int64    `json:"fee"`
	Currency           Currency `json:"currency"`
	Memo               string   `json:"memo,omitempty"`
	ChainID            string   `json:"chain_id"`
}

// TransactionStatus represents the lifecycle state of a submitted
// transaction. Transitions past "submitted" are driven by the ledger,
// not by this service.
type TransactionStatus string

const (
	TransactionSubmitted TransactionStatus = "submitted"
	TransactionConfirmed TransactionStatus = "confirmed"
	TransactionFailed    TransactionStatus = "failed"
)

// TransactionResult is returned after a successful gateway submission.
type TransactionResult struct {
	TransactionID string            `json:"transaction_id"`
	Status        TransactionStatus `json:"status"`
	Fees          FeeBreakdown      `json:"fees"`
	Reference     string            `json:"reference,omitempty"`
	ChainID       string            `json:"chain_id"`
	Timestamp     time.Time         `json:"timestamp"`
}

// LedgerRecord is a transaction record as reported by the ledger gateway.
type LedgerRecord struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Destination   string    `json:"destination"`
	AmountUnits   int64     `json:"amount"`
	FeeUnits      int64     `json:"fee"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	BlockHeight   int64     `json:"block_height"`
	Confirmations int       `json:"confirmations"`
}

// NetworkStatus is the ledger gateway's health report.
type NetworkStatus struct {
	Status string `json:"status"`
	Tick   uint64 `json:"tick"`
	Epoch  uint32 `json:"epoch"`
}
