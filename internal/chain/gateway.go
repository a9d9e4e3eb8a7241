// Package chain defines the ledger gateway capability and the registry
// mapping chain identifiers to their registered adapters.
package chain

import (
	"context"

	"github.com/shopspring/decimal"

	"ripapay/internal/domain"
)

// TxFilter narrows an address transaction query. Zero values mean no
// constraint.
type TxFilter struct {
	Source      string
	Destination string
	Limit       int
	Offset      int
}

// Gateway is the external ledger capability a chain adapter submits and
// queries transactions through. Implementations may fail transiently;
// failures are surfaced to callers, never interpreted here.
type Gateway interface {
	CreateTransaction(ctx context.Context, req domain.TransferRequest) (string, error)
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
	GetTransaction(ctx context.Context, id string) (*domain.LedgerRecord, error)
	GetTransactionsByAddress(ctx context.Context, address string, filter TxFilter) ([]domain.LedgerRecord, error)
	GetStatus(ctx context.Context) (*domain.NetworkStatus, error)
	ValidateAddress(ctx context.Context, address string) (bool, error)
}
