package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PendingWithdrawal is the single in-flight withdrawal request. At most one
// exists account-wide at any time; it is created by withdraw and consumed by a
// successful claim.
type PendingWithdrawal struct {
	ID             string
	VaultID        string
	AmountNDLP     decimal.Decimal
	FeeUSD         decimal.Decimal
	ConversionRate decimal.Decimal
	CreatedAt      time.Time
	CooldownEnd    time.Time
	Recipient      string
}

// NewPendingWithdrawal creates a withdrawal request with its cooldown deadline.
func NewPendingWithdrawal(id, vaultID string, amount, fee, rate decimal.Decimal, createdAt time.Time, cooldown time.Duration, recipient string) (*PendingWithdrawal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("withdrawal amount must be greater than zero")
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("conversion rate must be greater than zero")
	}

	return &PendingWithdrawal{
		ID:             id,
		VaultID:        vaultID,
		AmountNDLP:     amount,
		FeeUSD:         fee,
		ConversionRate: rate,
		CreatedAt:      createdAt,
		CooldownEnd:    createdAt.Add(cooldown),
		Recipient:      recipient,
	}, nil
}

// Claimable reports whether the cooldown has elapsed. The claimable state is
// derived from wall-clock time on every read, never stored.
func (w *PendingWithdrawal) Claimable(now time.Time) bool {
	return !now.Before(w.CooldownEnd)
}

// Payout is the stable-asset amount credited on claim:
// amount in receipt units converted at the recorded rate, minus the fee.
func (w *PendingWithdrawal) Payout() decimal.Decimal {
	return w.AmountNDLP.Mul(w.ConversionRate).Sub(w.FeeUSD)
}
