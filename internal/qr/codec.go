// Package qr encodes payment intents into the canonical scannable payload
// and verifies scanned payloads against expected transactions. Rendering
// the payload as an actual QR image is a presentation concern handled by
// clients; this package ends at the canonical text encoding.
package qr

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ripapay/internal/domain"
	pkgerrors "ripapay/pkg/errors"
)

// document is the wire form of a payment payload. Field order is
// irrelevant on decode; business_uuid and amount are mandatory.
type document struct {
	BusinessUUID string           `json:"business_uuid"`
	Amount       *decimal.Decimal `json:"amount"`
	Currency     string           `json:"currency,omitempty"`
	Reference    string           `json:"reference,omitempty"`
	MerchantName string           `json:"merchant_name,omitempty"`
	POSID        string           `json:"pos_id,omitempty"`
	TerminalID   string           `json:"terminal_id,omitempty"`
	Timestamp    string           `json:"timestamp,omitempty"`
	Digest       string           `json:"digest,omitempty"`
}

// Codec serializes payment intents to and from the canonical payload.
type Codec struct {
	integrityDigest bool
	now             func() time.Time
}

// NewCodec returns the plain codec used by the original payment flow:
// payloads carry no integrity proof beyond field equality.
func NewCodec() *Codec {
	return &Codec{now: time.Now}
}

// NewCodecWithDigest returns a codec that stamps a SHA-256 integrity
// digest into encoded payloads and rejects payloads whose digest is
// missing or does not match. Plain codecs ignore the digest field, so
// both modes interoperate on the wire.
func NewCodecWithDigest() *Codec {
	return &Codec{integrityDigest: true, now: time.Now}
}

// Encode produces the canonical payload for an intent. The embedded
// timestamp is the intent's creation time, or encode-time UTC when the
// intent carries none.
func (c *Codec) Encode(intent domain.PaymentIntent) (domain.PaymentPayload, error) {
	if strings.TrimSpace(intent.BusinessID) == "" {
		return nil, fmt.Errorf("%w: business_uuid is required", pkgerrors.ErrMalformedPayload)
	}
	if intent.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount %s is negative", pkgerrors.ErrInvalidAmount, intent.Amount.String())
	}

	createdAt := intent.CreatedAt
	if createdAt.IsZero() {
		createdAt = c.now().UTC()
	}

	amount := intent.Amount
	doc := document{
		BusinessUUID: intent.BusinessID,
		Amount:       &amount,
		Currency:     string(intent.Currency),
		Reference:    intent.Reference,
		MerchantName: intent.MerchantName,
		POSID:        intent.POSID,
		TerminalID:   intent.TerminalID,
		Timestamp:    createdAt.UTC().Format(time.RFC3339Nano),
	}

	if c.integrityDigest {
		doc.Digest = digest(doc)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to encode payment payload")
	}
	return domain.PaymentPayload(data), nil
}

// Decode parses a payload back into a payment intent. Missing or
// mistyped mandatory fields fail with ErrMalformedPayload.
func (c *Codec) Decode(payload domain.PaymentPayload) (domain.PaymentIntent, error) {
	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("%w: %v", pkgerrors.ErrMalformedPayload, err)
	}

	if strings.TrimSpace(doc.BusinessUUID) == "" {
		return domain.PaymentIntent{}, fmt.Errorf("%w: business_uuid is required", pkgerrors.ErrMalformedPayload)
	}
	if doc.Amount == nil {
		return domain.PaymentIntent{}, fmt.Errorf("%w: amount is required", pkgerrors.ErrMalformedPayload)
	}

	var createdAt time.Time
	if doc.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339Nano, doc.Timestamp)
		if err != nil {
			return domain.PaymentIntent{}, fmt.Errorf("%w: bad timestamp %q", pkgerrors.ErrMalformedPayload, doc.Timestamp)
		}
		createdAt = parsed.UTC()
	}

	if c.integrityDigest {
		want := doc.Digest
		doc.Digest = ""
		if want == "" || digest(doc) != want {
			return domain.PaymentIntent{}, fmt.Errorf("%w: integrity digest mismatch", pkgerrors.ErrMalformedPayload)
		}
	}

	return domain.PaymentIntent{
		BusinessID:   doc.BusinessUUID,
		Amount:       *doc.Amount,
		Currency:     domain.Currency(doc.Currency),
		Reference:    doc.Reference,
		MerchantName: doc.MerchantName,
		POSID:        doc.POSID,
		TerminalID:   doc.TerminalID,
		CreatedAt:    createdAt,
	}, nil
}

// digest hashes the canonical field values. Amount is normalized through
// decimal so "12.50" and "12.5" digest identically.
func digest(doc document) string {
	canonical := strings.Join([]string{
		doc.BusinessUUID,
		doc.Amount.String(),
		doc.Currency,
		doc.Reference,
		doc.MerchantName,
		doc.POSID,
		doc.TerminalID,
		doc.Timestamp,
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
