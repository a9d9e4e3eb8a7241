package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ripapay/internal/chain"
	"ripapay/internal/domain"
	"ripapay/internal/fees"
	pkgerrors "ripapay/pkg/errors"
	"ripapay/pkg/logger"
)

// --- Mocks ---

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateTransaction(ctx context.Context, req domain.TransferRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockGateway) GetTransaction(ctx context.Context, id string) (*domain.LedgerRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerRecord), args.Error(1)
}

func (m *MockGateway) GetTransactionsByAddress(ctx context.Context, address string, filter chain.TxFilter) ([]domain.LedgerRecord, error) {
	args := m.Called(ctx, address, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerRecord), args.Error(1)
}

func (m *MockGateway) GetStatus(ctx context.Context) (*domain.NetworkStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetworkStatus), args.Error(1)
}

func (m *MockGateway) ValidateAddress(ctx context.Context, address string) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

// --- Helpers ---

func newTestService(t *testing.T, gateway chain.Gateway) *Service {
	t.Helper()
	registry := chain.NewRegistry()
	require.NoError(t, registry.Register("qubic", chain.Config{
		DisplayName: "Qubic",
		Enabled:     true,
		Gateway:     gateway,
	}))
	return NewService(registry, fees.NewCalculator(), logger.NewNop())
}

func testIntent(amount int64) domain.PaymentIntent {
	return domain.PaymentIntent{
		BusinessID: "biz-7f3a",
		Amount:     decimal.NewFromInt(amount),
		Currency:   domain.QUBIC,
		Reference:  "INV-1",
		CreatedAt:  time.Now().UTC(),
	}
}

// --- Tests ---

func TestSubmitSuccess(t *testing.T) {
	gateway := new(MockGateway)
	service := newTestService(t, gateway)
	ctx := context.Background()

	gateway.On("CreateTransaction", ctx, mock.MatchedBy(func(req domain.TransferRequest) bool {
		// 1000 gross standard: 12 fee units, 987 net units after truncation.
		return req.SourceAddress == "ADDR-A" &&
			req.DestinationAddress == "ADDR-B" &&
			req.AmountUnits == 987 &&
			req.FeeUnits == 12 &&
			req.Memo == "INV-1" &&
			req.ChainID == "qubic"
	})).Return("tx-001", nil)

	result, err := service.Submit(ctx, testIntent(1000), Addresses{From: "ADDR-A", To: "ADDR-B"}, domain.TransferStandard)
	require.NoError(t, err)

	assert.Equal(t, "tx-001", result.TransactionID)
	assert.Equal(t, domain.TransactionSubmitted, result.Status)
	assert.Equal(t, "qubic", result.ChainID)
	assert.Equal(t, "INV-1", result.Reference)
	assert.True(t, result.Fees.FeeAmount.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, result.Fees.NetAmount.Equal(decimal.RequireFromString("987.5")))
	gateway.AssertExpectations(t)
}

func TestSubmitB2BClassUsesReducedRate(t *testing.T) {
	gateway := new(MockGateway)
	service := newTestService(t, gateway)
	ctx := context.Background()

	gateway.On("CreateTransaction", ctx, mock.MatchedBy(func(req domain.TransferRequest) bool {
		// 1000 gross b2b: 7 fee units, 992 net units after truncation.
		return req.AmountUnits == 992 && req.FeeUnits == 7
	})).Return("tx-002", nil)

	result, err := service.Submit(ctx, testIntent(1000), Addresses{From: "ADDR-A", To: "ADDR-B"}, domain.TransferB2B)
	require.NoError(t, err)
	assert.True(t, result.Fees.FeeAmount.Equal(decimal.RequireFromString("7.5")))
}

func TestSubmitSameAddressesFailsWithoutGatewayCall(t *testing.T) {
	gateway := new(MockGateway)
	service := newTestService(t, gateway)

	_, err := service.Submit(context.Background(), testIntent(100), Addresses{From: "ADDR-A", To: "ADDR-A"}, domain.TransferStandard)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidAddress)
	gateway.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestSubmitEmptyAddressesFailsWithoutGatewayCall(t *testing.T) {
	gateway := new(MockGateway)
	service := newTestService(t, gateway)

	_, err := service.Submit(context.Background(), testIntent(100), Addresses{From: "", To: "ADDR-B"}, domain.TransferStandard)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidAddress)

	_, err = service.Submit(context.Background(), testIntent(100), Addresses{From: "ADDR-A", To: "  "}, domain.TransferStandard)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidAddress)

	gateway.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestSubmitNegativeAmountFailsWithoutGatewayCall(t *testing.T) {
	gateway := new(MockGateway)
	service := newTestService(t, gateway)

	intent := testIntent(100)
	intent.Amount = decimal.NewFromInt(-5)

	_, err := service.Submit(context.Background(), intent, Addresses{From: "ADDR-A", To: "ADDR-B"}, domain.TransferStandard)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidAmount)
	gateway.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestSubmitUnregisteredChainFailsWithoutGatewayCall(t *testing.T) {
	gateway := new(MockGateway)
	service := newTestService(t, gateway)

	intent := testIntent(100)
	intent.Currency = domain.Currency("STELLAR")

	_, err := service.Submit(context.Background(), intent, Addresses{From: "ADDR-A", To: "ADDR-B"}, domain.TransferStandard)
	assert.ErrorIs(t, err, pkgerrors.ErrUnsupportedChain)
	gateway.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestSubmitDisabledChainFails(t *testing.T) {
	gateway := new(MockGateway)
	registry := chain.NewRegistry()
	require.NoError(t, registry.Register("qubic", chain.Config{
		DisplayName: "Qubic",
		Enabled:     false,
		Gateway:     gateway,
	}))
	service := NewService(registry, fees.NewCalculator(), logger.NewNop())

	_, err := service.Submit(context.Background(), testIntent(100), Addresses{From: "ADDR-A", To: "ADDR-B"}, domain.TransferStandard)
	assert.ErrorIs(t, err, pkgerrors.ErrUnsupportedChain)
	gateway.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestSubmitGatewayFailureSurfacesDetail(t *testing.T) {
	gateway := new(MockGateway)
	service := newTestService(t, gateway)
	ctx := context.Background()

	gateway.On("CreateTransaction", ctx, mock.Anything).Return("", errors.New("node rejected transfer: tick mismatch"))

	_, err := service.Submit(ctx, testIntent(100), Addresses{From: "ADDR-A", To: "ADDR-B"}, domain.TransferStandard)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrSubmissionFailed)
	assert.Contains(t, err.Error(), "tick mismatch")
}

func TestSubmitGatewayTimeout(t *testing.T) {
	gateway := new(MockGateway)
	service := newTestService(t, gateway)
	ctx := context.Background()

	gateway.On("CreateTransaction", ctx, mock.Anything).Return("", context.DeadlineExceeded)

	_, err := service.Submit(ctx, testIntent(100), Addresses{From: "ADDR-A", To: "ADDR-B"}, domain.TransferStandard)
	assert.ErrorIs(t, err, pkgerrors.ErrSubmissionTimeout)
}

func TestSubmitGeneratesReferenceWhenMissing(t *testing.T) {
	gateway := new(MockGateway)
	service := newTestService(t, gateway)
	ctx := context.Background()

	gateway.On("CreateTransaction", ctx, mock.Anything).Return("tx-003", nil)

	intent := testIntent(100)
	intent.Reference = ""

	result, err := service.Submit(ctx, intent, Addresses{From: "ADDR-A", To: "ADDR-B"}, domain.TransferStandard)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Reference)
}
