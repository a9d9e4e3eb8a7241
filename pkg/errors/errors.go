// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Local validation errors. Detected before any RPC call is made and safe
// to retry after correcting the input.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrMalformedPayload   = errors.New("malformed payment payload")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidChainConfig = errors.New("invalid chain configuration")
)

// Registry errors.
var (
	ErrUnsupportedChain       = errors.New("unsupported chain")
	ErrChainAlreadyRegistered = errors.New("chain already registered")
)

// Gateway-originated errors. Surfaced with the gateway's diagnostic detail
// attached; never retried by the core.
var (
	ErrSubmissionFailed  = errors.New("transaction submission failed")
	ErrSubmissionTimeout = errors.New("transaction submission timed out")
)

// POS verification errors.
var (
	ErrPaymentMismatch = errors.New("scanned payment data does not match transaction")
)

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
