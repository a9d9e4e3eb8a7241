// ==============================================================================
// B2B PAYMENT SERVICE - internal/b2b/service.go
// ==============================================================================
package b2b

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ripapay/internal/chain"
	"ripapay/internal/domain"
	"ripapay/internal/payment"
	pkgerrors "ripapay/pkg/errors"
	"ripapay/pkg/logger"
)

// Directory resolves a business identifier to its primary wallet
// address. Ownership of the business-to-wallet mapping is external.
type Directory interface {
	WalletAddress(ctx context.Context, businessID string) (string, error)
}

// Submitter is the slice of the payment service the B2B flow needs.
type Submitter interface {
	Submit(ctx context.Context, intent domain.PaymentIntent, addrs payment.Addresses, class domain.TransferClass) (*domain.TransactionResult, error)
}

// ChainRegistry is the slice of the chain registry exposed over the B2B
// surface.
type ChainRegistry interface {
	Register(chainID string, cfg chain.Config) error
	List() []chain.Adapter
}

// Service executes business-to-business transfers at the reduced fee
// rate and manages the supported-chain listing.
type Service struct {
	directory Directory
	submitter Submitter
	registry  ChainRegistry
	logger    logger.Logger
}

func NewService(directory Directory, submitter Submitter, registry ChainRegistry, log logger.Logger) *Service {
	return &Service{
		directory: directory,
		submitter: submitter,
		registry:  registry,
		logger:    log,
	}
}

type TransferRequest struct {
	FromBusinessID string          `json:"from_business_id" validate:"required"`
	ToBusinessID   string          `json:"to_business_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Currency       domain.Currency `json:"currency"`
	Memo           string          `json:"memo"`
}

type TransferResponse struct {
	Status       string              `json:"status"`
	TransferID   string              `json:"transfer_id"`
	FromBusiness string              `json:"from_business"`
	ToBusiness   string              `json:"to_business"`
	Amount       decimal.Decimal     `json:"amount"`
	Currency     domain.Currency     `json:"currency"`
	Fees         domain.FeeBreakdown `json:"fees"`
	Timestamp    time.Time           `json:"timestamp"`
}

// BusinessTransfer resolves both business wallets and submits the
// transfer with the b2b fee class.
func (s *Service) BusinessTransfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = domain.QUBIC
	}

	fromAddress, err := s.directory.WalletAddress(ctx, req.FromBusinessID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to resolve sending business wallet")
	}
	toAddress, err := s.directory.WalletAddress(ctx, req.ToBusinessID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to resolve receiving business wallet")
	}

	memo := req.Memo
	if memo == "" {
		memo = fmt.Sprintf("B2B Transfer - %s", time.Now().UTC().Format(time.RFC3339))
	}

	intent := domain.PaymentIntent{
		BusinessID: req.FromBusinessID,
		Amount:     req.Amount,
		Currency:   currency,
		Reference:  memo,
		CreatedAt:  time.Now().UTC(),
	}

	s.logger.Info("Initiating B2B transfer", map[string]interface{}{
		"from_business": req.FromBusinessID,
		"to_business":   req.ToBusinessID,
		"amount":        req.Amount.String(),
		"currency":      currency,
	})

	result, err := s.submitter.Submit(ctx, intent, payment.Addresses{From: fromAddress, To: toAddress}, domain.TransferB2B)
	if err != nil {
		s.logger.Error("B2B transfer failed", map[string]interface{}{
			"from_business": req.FromBusinessID,
			"to_business":   req.ToBusinessID,
			"error":         err.Error(),
		})
		return nil, err
	}

	return &TransferResponse{
		Status:       "success",
		TransferID:   result.TransactionID,
		FromBusiness: req.FromBusinessID,
		ToBusiness:   req.ToBusinessID,
		Amount:       req.Amount,
		Currency:     currency,
		Fees:         result.Fees,
		Timestamp:    result.Timestamp,
	}, nil
}

// SupportedChains lists registered chains in registration order.
func (s *Service) SupportedChains() []chain.Adapter {
	return s.registry.List()
}

type RegisterChainRequest struct {
	ChainID     string `json:"chain_id" validate:"required"`
	DisplayName string `json:"name" validate:"required"`
	Enabled     bool   `json:"enabled"`
}

// RegisterChain adds a chain to the registry. The gateway capability is
// attached out of band when the chain's client is wired; until then the
// chain lists but does not resolve.
func (s *Service) RegisterChain(req *RegisterChainRequest) error {
	err := s.registry.Register(req.ChainID, chain.Config{
		DisplayName: req.DisplayName,
		Enabled:     req.Enabled,
	})
	if err != nil {
		return err
	}

	s.logger.Info("Chain registered", map[string]interface{}{
		"chain_id": req.ChainID,
		"name":     req.DisplayName,
		"enabled":  req.Enabled,
	})
	return nil
}

// StaticDirectory is an in-memory Directory for deployments that pin
// business wallets in configuration.
type StaticDirectory struct {
	wallets map[string]string
}

func NewStaticDirectory(wallets map[string]string) *StaticDirectory {
	return &StaticDirectory{wallets: wallets}
}

func (d *StaticDirectory) WalletAddress(ctx context.Context, businessID string) (string, error) {
	address, ok := d.wallets[businessID]
	if !ok {
		return "", fmt.Errorf("%w: no wallet registered for business %s", pkgerrors.ErrInvalidAddress, businessID)
	}
	return address, nil
}
