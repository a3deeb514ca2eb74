package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityType kind of ledger event an activity record describes.
type ActivityType string

const (
	ActivityDeposit         ActivityType = "deposit"
	ActivityWithdraw        ActivityType = "withdraw"
	ActivityClaim           ActivityType = "claim"
	ActivityAddLiquidity    ActivityType = "add_liquidity"
	ActivityRemoveLiquidity ActivityType = "remove_liquidity"
	ActivitySwap            ActivityType = "swap"
)

// String returns the string representation.
func (t ActivityType) String() string {
	return string(t)
}

// IsValid checks if the ActivityType value is valid.
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityDeposit, ActivityWithdraw, ActivityClaim,
		ActivityAddLiquidity, ActivityRemoveLiquidity, ActivitySwap:
		return true
	}
	return false
}

// ActivityStatus lifecycle status of an activity record.
type ActivityStatus string

const (
	// ActivityStatusPending the operation is awaiting settlement.
	ActivityStatusPending ActivityStatus = "pending"
	// ActivityStatusCompleted the operation has settled.
	ActivityStatusCompleted ActivityStatus = "completed"
)

// ActivityRecord one immutable log entry describing a ledger event.
// The only allowed in-place change after insertion is the
// pending -> completed status transition applied by id lookup.
type ActivityRecord struct {
	ID        string          `json:"id"`
	Type      ActivityType    `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"ts"`
	VaultID   string          `json:"vault_id,omitempty"`
	Status    ActivityStatus  `json:"status"`
	TxRef     string          `json:"tx_ref,omitempty"`
}

// ActivityFilter narrows an activity query by type and/or vault.
// Zero-value fields match everything.
type ActivityFilter struct {
	Type    ActivityType
	VaultID string
}

// Matches reports whether the record passes the filter.
func (f ActivityFilter) Matches(r ActivityRecord) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.VaultID != "" && r.VaultID != f.VaultID {
		return false
	}
	return true
}
