package payment

import (
	"context"
	"time"

	"ripapay/internal/chain"
	"ripapay/internal/domain"
	pkgerrors "ripapay/pkg/errors"
	"ripapay/pkg/logger"
)

// Direction labels a tracked transaction relative to the queried address.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// TrackedTransaction is a ledger record formatted for display, with the
// counterparty resolved from the query direction.
type TrackedTransaction struct {
	ID            string    `json:"id"`
	Timestamp     string    `json:"timestamp,omitempty"`
	AmountUnits   int64     `json:"amount"`
	FeeUnits      int64     `json:"fee"`
	Status        string    `json:"status"`
	Direction     Direction `json:"type"`
	Counterparty  string    `json:"counterparty"`
	Confirmations int       `json:"confirmations"`
}

// Tracker reads transaction activity for an address through the ledger
// gateway. It holds no state; status transitions belong to the ledger.
type Tracker struct {
	gateway chain.Gateway
	logger  logger.Logger
}

// NewTracker constructs a Tracker over a gateway.
func NewTracker(gateway chain.Gateway, log logger.Logger) *Tracker {
	return &Tracker{
		gateway: gateway,
		logger:  log,
	}
}

// Inbound returns incoming transactions for an address.
func (t *Tracker) Inbound(ctx context.Context, address string, limit int) ([]TrackedTransaction, error) {
	records, err := t.gateway.GetTransactionsByAddress(ctx, address, chain.TxFilter{
		Destination: address,
		Limit:       limit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to fetch inbound transactions")
	}
	return format(records, DirectionInbound), nil
}

// Outbound returns outgoing transactions for an address.
func (t *Tracker) Outbound(ctx context.Context, address string, limit int) ([]TrackedTransaction, error) {
	records, err := t.gateway.GetTransactionsByAddress(ctx, address, chain.TxFilter{
		Source: address,
		Limit:  limit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to fetch outbound transactions")
	}
	return format(records, DirectionOutbound), nil
}

// Details returns a single transaction record.
func (t *Tracker) Details(ctx context.Context, txID string) (*domain.LedgerRecord, error) {
	record, err := t.gateway.GetTransaction(ctx, txID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to fetch transaction details")
	}
	return record, nil
}

func format(records []domain.LedgerRecord, direction Direction) []TrackedTransaction {
	out := make([]TrackedTransaction, 0, len(records))
	for _, record := range records {
		counterparty := record.Source
		if direction == DirectionOutbound {
			counterparty = record.Destination
		}

		timestamp := ""
		if !record.Timestamp.IsZero() {
			timestamp = record.Timestamp.UTC().Format(time.RFC3339)
		}

		out = append(out, TrackedTransaction{
			ID:            record.ID,
			Timestamp:     timestamp,
			AmountUnits:   record.AmountUnits,
			FeeUnits:      record.FeeUnits,
			Status:        record.Status,
			Direction:     direction,
			Counterparty:  counterparty,
			Confirmations: record.Confirmations,
		})
	}
	return out
}
