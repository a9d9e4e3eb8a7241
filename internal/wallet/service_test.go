package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ripapay/internal/chain"
	"ripapay/internal/domain"
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

// --- Tests ---

func TestConnectValidAddress(t *testing.T) {
	gateway := new(MockGateway)
	service := NewService(gateway, logger.NewNop())
	ctx := context.Background()

	gateway.On("ValidateAddress", ctx, "ADDR-GOOD").Return(true, nil)

	resp, err := service.Connect(ctx, "ADDR-GOOD")
	require.NoError(t, err)
	assert.Equal(t, "connected", resp.Status)
	assert.Equal(t, "ADDR-GOOD", resp.Address)
	gateway.AssertExpectations(t)
}

func TestConnectInvalidAddress(t *testing.T) {
	gateway := new(MockGateway)
	service := NewService(gateway, logger.NewNop())
	ctx := context.Background()

	gateway.On("ValidateAddress", ctx, "ADDR-BAD").Return(false, nil)

	_, err := service.Connect(ctx, "ADDR-BAD")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidAddress)
}

func TestConnectGatewayError(t *testing.T) {
	gateway := new(MockGateway)
	service := NewService(gateway, logger.NewNop())
	ctx := context.Background()

	gateway.On("ValidateAddress", ctx, "ADDR-X").Return(false, errors.New("node unreachable"))

	_, err := service.Connect(ctx, "ADDR-X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node unreachable")
}

func TestBalance(t *testing.T) {
	gateway := new(MockGateway)
	service := NewService(gateway, logger.NewNop())
	ctx := context.Background()

	gateway.On("GetBalance", ctx, "ADDR-A").Return(decimal.NewFromInt(424242), nil)

	resp, err := service.Balance(ctx, "ADDR-A")
	require.NoError(t, err)
	assert.True(t, resp.Balance.Equal(decimal.NewFromInt(424242)))
	assert.Equal(t, "ADDR-A", resp.Address)
}

func TestTransactionsDefaultsLimit(t *testing.T) {
	gateway := new(MockGateway)
	service := NewService(gateway, logger.NewNop())
	ctx := context.Background()

	records := []domain.LedgerRecord{{ID: "tx-1"}, {ID: "tx-2"}}
	gateway.On("GetTransactionsByAddress", ctx, "ADDR-A", chain.TxFilter{Limit: 10}).Return(records, nil)

	got, err := service.Transactions(ctx, "ADDR-A", 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	gateway.AssertExpectations(t)
}
