package b2b

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ripapay/internal/chain"
	"ripapay/internal/domain"
	"ripapay/internal/payment"
	pkgerrors "ripapay/pkg/errors"
	"ripapay/pkg/logger"
)

// --- Mocks ---

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, intent domain.PaymentIntent, addrs payment.Addresses, class domain.TransferClass) (*domain.TransactionResult, error) {
	args := m.Called(ctx, intent, addrs, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionResult), args.Error(1)
}

// --- Helpers ---

func testDirectory() *StaticDirectory {
	return NewStaticDirectory(map[string]string{
		"biz-sender":   "ADDR-SENDER",
		"biz-receiver": "ADDR-RECEIVER",
	})
}

// --- Tests ---

func TestBusinessTransferSuccess(t *testing.T) {
	submitter := new(MockSubmitter)
	registry := chain.NewRegistry()
	service := NewService(testDirectory(), submitter, registry, logger.NewNop())
	ctx := context.Background()

	submitter.On("Submit", ctx, mock.MatchedBy(func(intent domain.PaymentIntent) bool {
		return intent.BusinessID == "biz-sender" &&
			intent.Amount.Equal(decimal.NewFromInt(5000)) &&
			intent.Currency == domain.QUBIC &&
			intent.Reference == "PO-2026-0091"
	}), payment.Addresses{From: "ADDR-SENDER", To: "ADDR-RECEIVER"}, domain.TransferB2B).
		Return(&domain.TransactionResult{TransactionID: "tx-b2b-1", Status: domain.TransactionSubmitted}, nil)

	resp, err := service.BusinessTransfer(ctx, &TransferRequest{
		FromBusinessID: "biz-sender",
		ToBusinessID:   "biz-receiver",
		Amount:         decimal.NewFromInt(5000),
		Memo:           "PO-2026-0091",
	})
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "tx-b2b-1", resp.TransferID)
	assert.Equal(t, "biz-sender", resp.FromBusiness)
	assert.Equal(t, "biz-receiver", resp.ToBusiness)
	submitter.AssertExpectations(t)
}

func TestBusinessTransferDefaultsMemo(t *testing.T) {
	submitter := new(MockSubmitter)
	service := NewService(testDirectory(), submitter, chain.NewRegistry(), logger.NewNop())
	ctx := context.Background()

	submitter.On("Submit", ctx, mock.MatchedBy(func(intent domain.PaymentIntent) bool {
		return strings.HasPrefix(intent.Reference, "B2B Transfer - ")
	}), mock.Anything, domain.TransferB2B).
		Return(&domain.TransactionResult{TransactionID: "tx-b2b-2"}, nil)

	_, err := service.BusinessTransfer(ctx, &TransferRequest{
		FromBusinessID: "biz-sender",
		ToBusinessID:   "biz-receiver",
		Amount:         decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	submitter.AssertExpectations(t)
}

func TestBusinessTransferUnknownBusinessFailsWithoutSubmit(t *testing.T) {
	submitter := new(MockSubmitter)
	service := NewService(testDirectory(), submitter, chain.NewRegistry(), logger.NewNop())

	_, err := service.BusinessTransfer(context.Background(), &TransferRequest{
		FromBusinessID: "biz-unknown",
		ToBusinessID:   "biz-receiver",
		Amount:         decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidAddress)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterChainAndList(t *testing.T) {
	registry := chain.NewRegistry()
	service := NewService(testDirectory(), new(MockSubmitter), registry, logger.NewNop())

	require.NoError(t, service.RegisterChain(&RegisterChainRequest{ChainID: "qubic", DisplayName: "Qubic", Enabled: true}))
	require.NoError(t, service.RegisterChain(&RegisterChainRequest{ChainID: "stellar", DisplayName: "Stellar", Enabled: false}))

	chains := service.SupportedChains()
	require.Len(t, chains, 2)
	assert.Equal(t, "qubic", chains[0].ChainID)
	assert.Equal(t, "stellar", chains[1].ChainID)
}

func TestRegisterChainDuplicateRejected(t *testing.T) {
	registry := chain.NewRegistry()
	service := NewService(testDirectory(), new(MockSubmitter), registry, logger.NewNop())

	require.NoError(t, service.RegisterChain(&RegisterChainRequest{ChainID: "qubic", DisplayName: "Qubic", Enabled: true}))

	err := service.RegisterChain(&RegisterChainRequest{ChainID: "qubic", DisplayName: "Qubic Again", Enabled: true})
	assert.ErrorIs(t, err, pkgerrors.ErrChainAlreadyRegistered)
	assert.Len(t, service.SupportedChains(), 1)
}
