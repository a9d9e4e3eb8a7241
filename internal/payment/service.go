// ==============================================================================
// PAYMENT SUBMISSION SERVICE - internal/payment/service.go
// ==============================================================================
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ripapay/internal/chain"
	"ripapay/internal/domain"
	"ripapay/internal/fees"
	pkgerrors "ripapay/pkg/errors"
	"ripapay/pkg/logger"
)

// Addresses carries the resolved wallet addresses for a submission.
// Business-to-wallet resolution happens upstream.
type Addresses struct {
	From string
	To   string
}

// Registry is the chain lookup the submitter resolves adapters through.
type Registry interface {
	Resolve(chainID string) (*chain.Adapter, error)
}

// Service builds chain transactions from validated payment intents and
// submits them through the resolved ledger gateway. It never retries a
// gateway call: steps before submission are deterministic and safe to
// retry by the caller, while gateway failures are surfaced for the
// caller to decide. At-most-once submission is not guaranteed here.
type Service struct {
	registry   Registry
	calculator *fees.Calculator
	logger     logger.Logger
}

// NewService constructs the submitter.
func NewService(registry Registry, calculator *fees.Calculator, log logger.Logger) *Service {
	return &Service{
		registry:   registry,
		calculator: calculator,
		logger:     log,
	}
}

// ChainIDFor maps a currency to its registry key.
func ChainIDFor(currency domain.Currency) string {
	return strings.ToLower(string(currency))
}

// Submit validates the request, computes the fee breakdown, resolves the
// chain adapter for the intent's currency and submits the transfer. The
// net amount is the on-chain transfer amount; the fee rides in the
// ledger's separate fee field. The caller's context is passed through to
// the gateway, and a gateway deadline surfaces as ErrSubmissionTimeout.
func (s *Service) Submit(ctx context.Context, intent domain.PaymentIntent, addrs Addresses, class domain.TransferClass) (*domain.TransactionResult, error) {
	if strings.TrimSpace(addrs.From) == "" || strings.TrimSpace(addrs.To) == "" {
		return nil, fmt.Errorf("%w: source and destination addresses are required", pkgerrors.ErrInvalidAddress)
	}
	if addrs.From == addrs.To {
		return nil, fmt.Errorf("%w: source and destination must differ", pkgerrors.ErrInvalidAddress)
	}

	breakdown, err := s.calculator.Compute(intent.Amount, class)
	if err != nil {
		return nil, err
	}

	reference := intent.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	chainID := ChainIDFor(intent.Currency)
	adapter, err := s.registry.Resolve(chainID)
	if err != nil {
		return nil, err
	}

	req := domain.TransferRequest{
		SourceAddress:      addrs.From,
		DestinationAddress: addrs.To,
		AmountUnits:        breakdown.NetUnits,
		FeeUnits:           breakdown.FeeUnits,
		Currency:           intent.Currency,
		Memo:               reference,
		ChainID:            chainID,
	}

	s.logger.Info("Submitting transaction", map[string]interface{}{
		"chain_id":    chainID,
		"business_id": intent.BusinessID,
		"gross":       breakdown.GrossAmount.String(),
		"fee_units":   breakdown.FeeUnits,
		"net_units":   breakdown.NetUnits,
		"reference":   reference,
		"class":       class,
	})

	txID, err := adapter.Gateway.CreateTransaction(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", pkgerrors.ErrSubmissionTimeout, err)
		}
		s.logger.Error("Gateway submission failed", map[string]interface{}{
			"chain_id":  chainID,
			"reference": reference,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrSubmissionFailed, err)
	}

	result := &domain.TransactionResult{
		TransactionID: txID,
		Status:        domain.TransactionSubmitted,
		Fees:          breakdown,
		Reference:     reference,
		ChainID:       chainID,
		Timestamp:     time.Now().UTC(),
	}

	s.logger.Info("Transaction submitted", map[string]interface{}{
		"transaction_id": txID,
		"chain_id":       chainID,
		"reference":      reference,
	})

	return result, nil
}
