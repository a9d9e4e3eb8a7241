// Package fees computes the RipaPay fee breakdown for a transfer.
package fees

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ripapay/internal/domain"
	pkgerrors "ripapay/pkg/errors"
)

// Default fee rates per transfer class.
var (
	DefaultStandardRate = decimal.RequireFromString("0.0125")
	DefaultB2BRate      = decimal.RequireFromString("0.0075")
)

// Calculator applies a percentage fee to a gross amount. It is pure and
// safe for concurrent use.
type Calculator struct {
	standardRate decimal.Decimal
	b2bRate      decimal.Decimal
}

// NewCalculator returns a Calculator with the default rates: 1.25% for
// standard transfers, 0.75% for business-to-business transfers.
func NewCalculator() *Calculator {
	return &Calculator{
		standardRate: DefaultStandardRate,
		b2bRate:      DefaultB2BRate,
	}
}

// NewCalculatorWithRates returns a Calculator with custom rates.
func NewCalculatorWithRates(standard, b2b decimal.Decimal) *Calculator {
	return &Calculator{
		standardRate: standard,
		b2bRate:      b2b,
	}
}

// Rate returns the fee rate for the given transfer class.
func (c *Calculator) Rate(class domain.TransferClass) (decimal.Decimal, error) {
	switch class {
	case domain.TransferStandard:
		return c.standardRate, nil
	case domain.TransferB2B:
		return c.b2bRate, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("unknown transfer class %q", class)
	}
}

// Compute splits a gross amount into fee and net portions.
//
// The decimal fields satisfy FeeAmount + NetAmount == GrossAmount exactly.
// Smallest-unit fields are truncated toward zero, never rounded up, so
// FeeUnits + NetUnits <= GrossUnits always holds.
func (c *Calculator) Compute(gross decimal.Decimal, class domain.TransferClass) (domain.FeeBreakdown, error) {
	if gross.IsNegative() {
		return domain.FeeBreakdown{}, fmt.Errorf("%w: amount %s is negative", pkgerrors.ErrInvalidAmount, gross.String())
	}

	rate, err := c.Rate(class)
	if err != nil {
		return domain.FeeBreakdown{}, err
	}

	fee := gross.Mul(rate)
	net := gross.Sub(fee)

	return domain.FeeBreakdown{
		GrossAmount: gross,
		FeeAmount:   fee,
		NetAmount:   net,
		GrossUnits:  gross.Truncate(0).IntPart(),
		FeeUnits:    fee.Truncate(0).IntPart(),
		NetUnits:    net.Truncate(0).IntPart(),
	}, nil
}
