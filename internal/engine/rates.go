package engine

import (
	"context"

	"github.com/shopspring/decimal"
)

// FixedRate is a RateSource returning the same conversion rate for every
// vault. The simulated product has no live pricing, so one configured rate
// stands in for the vault's NDLP/USDC exchange value.
type FixedRate struct {
	Rate decimal.Decimal
}

// NewFixedRate creates a fixed rate source. A non-positive rate falls back to 1.
func NewFixedRate(rate decimal.Decimal) FixedRate {
	if rate.LessThanOrEqual(decimal.Zero) {
		rate = decimal.NewFromInt(1)
	}
	return FixedRate{Rate: rate}
}

// ConversionRate returns the configured rate.
func (f FixedRate) ConversionRate(_ context.Context, _ string) (decimal.Decimal, error) {
	return f.Rate, nil
}
