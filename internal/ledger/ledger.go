// Package ledger owns per-asset balances and per-vault deposited positions
// for the single simulated account.
package ledger

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vaultsim/internal/domain"
	"go.uber.org/zap"
)

const defaultDecimals int32 = 6

// Ledger holds asset balances and vault positions. Credit, Debit and the
// position mutators are atomic with respect to each other; reads return
// copies so callers never observe a partially applied mutation.
type Ledger struct {
	mu        sync.RWMutex
	logger    *zap.Logger
	balances  map[string]decimal.Decimal
	decimals  map[string]int32
	positions map[string]decimal.Decimal
}

// New creates a ledger seeded with the given stable-asset balance.
func New(logger *zap.Logger, startingBalance decimal.Decimal) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Ledger{
		logger: logger,
		balances: map[string]decimal.Decimal{
			domain.AssetUSDC: startingBalance,
			domain.AssetNDLP: decimal.Zero,
		},
		decimals: map[string]int32{
			domain.AssetUSDC: defaultDecimals,
			domain.AssetNDLP: defaultDecimals,
		},
		positions: make(map[string]decimal.Decimal),
	}
}

// Balance returns the current balance of the asset. Pure read.
func (l *Ledger) Balance(asset string) domain.AssetBalance {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return domain.NewAssetBalance(asset, l.balances[asset], l.decimalsFor(asset))
}

// Credit increases the asset balance by amount.
func (l *Ledger) Credit(asset string, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[asset] = l.balances[asset].Add(amount)
	l.logger.Debug("ledger credit",
		zap.String("asset", asset),
		zap.String("amount", amount.String()),
		zap.String("balance", l.balances[asset].String()))
}

// Debit decreases the asset balance by amount. The sufficiency check and the
// mutation happen under one lock so the balance can never go negative.
func (l *Ledger) Debit(asset string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[asset].LessThan(amount) {
		return errors.Wrapf(domain.ErrInsufficientBalance, "%s: have %s need %s",
			asset, l.balances[asset].String(), amount.String())
	}

	l.balances[asset] = l.balances[asset].Sub(amount)
	l.logger.Debug("ledger debit",
		zap.String("asset", asset),
		zap.String("amount", amount.String()),
		zap.String("balance", l.balances[asset].String()))
	return nil
}

// Position returns the amount currently deposited in the vault.
func (l *Ledger) Position(vaultID string) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.positions[vaultID]
}

// AddPosition increases the vault position by amount.
func (l *Ledger) AddPosition(vaultID string, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.positions[vaultID] = l.positions[vaultID].Add(amount)
}

// ReducePosition decreases the vault position by exactly amount after
// confirming sufficient deposited balance.
func (l *Ledger) ReducePosition(vaultID string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.positions[vaultID].LessThan(amount) {
		return errors.Wrapf(domain.ErrInsufficientVaultBalance, "%s: have %s need %s",
			vaultID, l.positions[vaultID].String(), amount.String())
	}

	l.positions[vaultID] = l.positions[vaultID].Sub(amount)
	return nil
}

// Balances returns a copy of all asset balances.
func (l *Ledger) Balances() map[string]domain.AssetBalance {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]domain.AssetBalance, len(l.balances))
	for asset, amount := range l.balances {
		out[asset] = domain.NewAssetBalance(asset, amount, l.decimalsFor(asset))
	}
	return out
}

// Positions returns a copy of all vault positions.
func (l *Ledger) Positions() map[string]decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]decimal.Decimal, len(l.positions))
	for vaultID, amount := range l.positions {
		out[vaultID] = amount
	}
	return out
}

func (l *Ledger) decimalsFor(asset string) int32 {
	if d, ok := l.decimals[asset]; ok {
		return d
	}
	return defaultDecimals
}
