// Package domain defines core data structures used throughout the vault ledger.
package domain

import (
	"github.com/shopspring/decimal"
)

// Stable-value and receipt asset identifiers used by the simulated account.
const (
	AssetUSDC = "USDC"
	AssetNDLP = "NDLP"
)

// AssetBalance is the spendable balance of a single asset.
type AssetBalance struct {
	// Asset asset identifier, e.g. USDC.
	Asset string
	// Amount human-readable amount.
	Amount decimal.Decimal
	// Decimals decimal precision of the asset.
	Decimals int32
}

// NewAssetBalance creates a balance for the given asset.
func NewAssetBalance(asset string, amount decimal.Decimal, decimals int32) AssetBalance {
	return AssetBalance{Asset: asset, Amount: amount, Decimals: decimals}
}

// Raw returns the integer representation of the amount scaled by the asset's
// decimal precision.
func (b AssetBalance) Raw() int64 {
	return b.Amount.Shift(b.Decimals).Round(0).IntPart()
}
