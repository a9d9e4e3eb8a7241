// ==============================================================================
// WALLET SERVICE - internal/wallet/service.go
// ==============================================================================
package wallet

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"ripapay/internal/chain"
	"ripapay/internal/domain"
	pkgerrors "ripapay/pkg/errors"
	"ripapay/pkg/logger"
)

// Service answers wallet queries by passing through to the ledger
// gateway. Balances and history live on chain; nothing is stored here.
type Service struct {
	gateway chain.Gateway
	logger  logger.Logger
}

func NewService(gateway chain.Gateway, log logger.Logger) *Service {
	return &Service{
		gateway: gateway,
		logger:  log,
	}
}

type ConnectResponse struct {
	Status  string `json:"status"`
	Address string `json:"address"`
}

// Connect validates an address with the node and acknowledges the
// connection. No credentials are held; key custody stays client-side.
func (s *Service) Connect(ctx context.Context, address string) (*ConnectResponse, error) {
	valid, err := s.gateway.ValidateAddress(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "address validation failed")
	}
	if !valid {
		return nil, fmt.Errorf("%w: %s is not a valid address", pkgerrors.ErrInvalidAddress, address)
	}

	s.logger.Info("Wallet connected", map[string]interface{}{
		"address": address,
	})

	return &ConnectResponse{
		Status:  "connected",
		Address: address,
	}, nil
}

type BalanceResponse struct {
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
}

// Balance returns the on-chain balance of an address.
func (s *Service) Balance(ctx context.Context, address string) (*BalanceResponse, error) {
	balance, err := s.gateway.GetBalance(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get balance")
	}

	return &BalanceResponse{
		Address: address,
		Balance: balance,
	}, nil
}

// Transactions returns a page of transactions involving an address.
func (s *Service) Transactions(ctx context.Context, address string, limit, offset int) ([]domain.LedgerRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	records, err := s.gateway.GetTransactionsByAddress(ctx, address, chain.TxFilter{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get transactions")
	}
	return records, nil
}
