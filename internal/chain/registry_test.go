package chain

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ripapay/internal/domain"
	pkgerrors "ripapay/pkg/errors"
)

// stubGateway satisfies Gateway for registry tests; no call should ever
// reach it.
type stubGateway struct{}

func (stubGateway) CreateTransaction(ctx context.Context, req domain.TransferRequest) (string, error) {
	return "", nil
}
func (stubGateway) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (stubGateway) GetTransaction(ctx context.Context, id string) (*domain.LedgerRecord, error) {
	return nil, nil
}
func (stubGateway) GetTransactionsByAddress(ctx context.Context, address string, filter TxFilter) ([]domain.LedgerRecord, error) {
	return nil, nil
}
func (stubGateway) GetStatus(ctx context.Context) (*domain.NetworkStatus, error) {
	return nil, nil
}
func (stubGateway) ValidateAddress(ctx context.Context, address string) (bool, error) {
	return true, nil
}

func TestRegisterAndResolve(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register("qubic", Config{DisplayName: "Qubic", Enabled: true, Gateway: stubGateway{}})
	require.NoError(t, err)

	adapter, err := registry.Resolve("qubic")
	require.NoError(t, err)
	assert.Equal(t, "qubic", adapter.ChainID)
	assert.Equal(t, "Qubic", adapter.DisplayName)
	assert.True(t, adapter.Enabled)
	assert.NotNil(t, adapter.Gateway)
}

func TestRegisterDuplicateFailsAndLeavesRegistryUnchanged(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register("qubic", Config{DisplayName: "Qubic", Enabled: true, Gateway: stubGateway{}}))

	err := registry.Register("qubic", Config{DisplayName: "Qubic Again", Enabled: false})
	assert.ErrorIs(t, err, pkgerrors.ErrChainAlreadyRegistered)

	adapters := registry.List()
	require.Len(t, adapters, 1)
	assert.Equal(t, "Qubic", adapters[0].DisplayName)
	assert.True(t, adapters[0].Enabled)
}

func TestRegisterInvalidConfigBeforeMutation(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register("stellar", Config{DisplayName: "  "})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidChainConfig)
	assert.Empty(t, registry.List())

	err = registry.Register("", Config{DisplayName: "Nameless"})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidChainConfig)
	assert.Empty(t, registry.List())
}

func TestResolveUnknownChain(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Resolve("ripple")
	assert.ErrorIs(t, err, pkgerrors.ErrUnsupportedChain)
}

func TestResolveDisabledChain(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("qubic", Config{DisplayName: "Qubic", Enabled: false, Gateway: stubGateway{}}))

	_, err := registry.Resolve("qubic")
	assert.ErrorIs(t, err, pkgerrors.ErrUnsupportedChain)

	require.NoError(t, registry.SetEnabled("qubic", true))
	_, err = registry.Resolve("qubic")
	assert.NoError(t, err)
}

func TestResolveChainWithoutGateway(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("stellar", Config{DisplayName: "Stellar", Enabled: true}))

	_, err := registry.Resolve("stellar")
	assert.ErrorIs(t, err, pkgerrors.ErrUnsupportedChain)
}

func TestChainIDsAreCaseSensitive(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("qubic", Config{DisplayName: "Qubic", Enabled: true, Gateway: stubGateway{}}))

	require.NoError(t, registry.Register("Qubic", Config{DisplayName: "Other Qubic", Enabled: true, Gateway: stubGateway{}}))

	_, err := registry.Resolve("QUBIC")
	assert.ErrorIs(t, err, pkgerrors.ErrUnsupportedChain)
}

func TestListInsertionOrder(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("qubic", Config{DisplayName: "Qubic", Enabled: true, Gateway: stubGateway{}}))
	require.NoError(t, registry.Register("stellar", Config{DisplayName: "Stellar", Enabled: false}))
	require.NoError(t, registry.Register("ripple", Config{DisplayName: "Ripple", Enabled: true}))

	adapters := registry.List()
	require.Len(t, adapters, 3)
	assert.Equal(t, "qubic", adapters[0].ChainID)
	assert.Equal(t, "stellar", adapters[1].ChainID)
	assert.Equal(t, "ripple", adapters[2].ChainID)
}

func TestConcurrentAccess(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("qubic", Config{DisplayName: "Qubic", Enabled: true, Gateway: stubGateway{}}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = registry.Resolve("qubic")
			_ = registry.List()
		}()
		go func() {
			defer wg.Done()
			_ = registry.SetEnabled("qubic", true)
		}()
	}
	wg.Wait()

	adapter, err := registry.Resolve("qubic")
	require.NoError(t, err)
	assert.Equal(t, "qubic", adapter.ChainID)
}
