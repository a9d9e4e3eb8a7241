package qr

import (
	"ripapay/internal/domain"
)

// Verifier decides whether a scanned payload matches an expected payment.
type Verifier struct {
	codec *Codec
}

// NewVerifier returns a Verifier decoding through the given codec.
func NewVerifier(codec *Codec) *Verifier {
	return &Verifier{codec: codec}
}

// Verify reports whether the scanned payload matches the expected intent.
// It is a predicate, not a validation report: decode failures return
// false rather than an error.
//
// Business ID and amount must match exactly; any amount difference fails,
// since a mismatch indicates tampering or a stale code. Reference,
// merchant name and timestamp are informational and not checked.
func (v *Verifier) Verify(scanned domain.PaymentPayload, expected domain.PaymentIntent) bool {
	decoded, err := v.codec.Decode(scanned)
	if err != nil {
		return false
	}

	return decoded.BusinessID == expected.BusinessID &&
		decoded.Amount.Equal(expected.Amount)
}
