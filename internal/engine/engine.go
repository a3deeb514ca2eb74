// Package engine implements the ledger and withdrawal cooldown engine:
// deposit/withdraw/claim orchestration over the asset ledger, the single-slot
// withdrawal lifecycle and the bounded activity feed.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vaultsim/internal/activity"
	"github.com/vadiminshakov/vaultsim/internal/domain"
	"github.com/vadiminshakov/vaultsim/internal/events"
	"github.com/vadiminshakov/vaultsim/internal/ledger"
	"github.com/vadiminshakov/vaultsim/internal/storage/journal"
	"github.com/vadiminshakov/vaultsim/internal/storage/slot"
	"github.com/vadiminshakov/vaultsim/internal/withdrawal"
	"go.uber.org/zap"
)

// RateSource defines an interface for getting the receipt-to-stable
// conversion rate of a vault at claim pricing time.
type RateSource interface {
	ConversionRate(ctx context.Context, vaultID string) (decimal.Decimal, error)
}

// Config carries the engine knobs. Zero values fall back to defaults.
type Config struct {
	// StartingBalance initial stable-asset balance of the simulated account.
	StartingBalance decimal.Decimal
	// Cooldown mandatory wait between withdrawal request and claimability.
	Cooldown time.Duration
	// ActivityCapacity bound of the activity feed.
	ActivityCapacity int
	// LatencyMin and LatencyMax bound the simulated settlement delay.
	// A negative LatencyMax disables the delay entirely.
	LatencyMin time.Duration
	LatencyMax time.Duration
	// FeeUSD flat withdrawal fee charged at claim time.
	FeeUSD decimal.Decimal
	// Recipient address recorded on withdrawal requests.
	Recipient string
	// Now overrides the wall clock, used by tests.
	Now func() time.Time
}

const (
	defaultCooldown   = 24 * time.Hour
	defaultLatencyMin = 600 * time.Millisecond
	defaultLatencyMax = 1000 * time.Millisecond
)

// Engine owns the ledger, the withdrawal lifecycle and the activity feed.
// Mutating operations are serialized: a new call does not begin reading state
// until the previous one has committed, so commit order, not invocation
// order, defines the activity feed ordering.
type Engine struct {
	// opMu is held for the whole validate -> latency -> commit window of a
	// mutating operation.
	opMu sync.Mutex

	logger      *zap.Logger
	ledger      *ledger.Ledger
	lifecycle   *withdrawal.Lifecycle
	log         *activity.Log
	journal     *journal.WALStore
	broadcaster *events.Broadcaster
	rates       RateSource

	cooldown  time.Duration
	cooldowns map[string]time.Duration
	fee       decimal.Decimal
	recipient string
	latency   latencyWindow
	now       func() time.Time
}

// New creates an engine. The slot store and journal may be nil, in which case
// the withdrawal slot is ephemeral and the feed is not journaled.
func New(logger *zap.Logger, cfg Config, rates RateSource, slotStore *slot.Store, wal *journal.WALStore) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rates == nil {
		return nil, errors.New("rate source is required")
	}

	if cfg.StartingBalance.IsZero() {
		cfg.StartingBalance = decimal.NewFromInt(100000)
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}
	switch {
	case cfg.LatencyMax == 0:
		cfg.LatencyMin = defaultLatencyMin
		cfg.LatencyMax = defaultLatencyMax
	case cfg.LatencyMax < 0:
		cfg.LatencyMin = 0
		cfg.LatencyMax = 0
	}
	if cfg.FeeUSD.IsZero() {
		cfg.FeeUSD = decimal.NewFromFloat(0.5)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	e := &Engine{
		logger:      logger,
		ledger:      ledger.New(logger, cfg.StartingBalance),
		lifecycle:   withdrawal.NewLifecycle(logger, slotStore),
		log:         activity.NewLog(cfg.ActivityCapacity),
		journal:     wal,
		broadcaster: events.NewBroadcaster(256),
		rates:       rates,
		cooldown:    cfg.Cooldown,
		cooldowns:   make(map[string]time.Duration),
		fee:         cfg.FeeUSD,
		recipient:   cfg.Recipient,
		latency:     latencyWindow{min: cfg.LatencyMin, max: cfg.LatencyMax},
		now:         cfg.Now,
	}

	logger.Info("engine init",
		zap.String("starting_balance", cfg.StartingBalance.String()),
		zap.Duration("cooldown", cfg.Cooldown),
		zap.Duration("latency_min", cfg.LatencyMin),
		zap.Duration("latency_max", cfg.LatencyMax))

	return e, nil
}

// Ledger exposes the asset ledger for read-only collaborators.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.ledger
}

// Pending returns the in-flight withdrawal, or nil when none exists.
func (e *Engine) Pending() *domain.PendingWithdrawal {
	return e.lifecycle.Pending()
}

// QueryActivity returns a newest-first view of the activity feed.
func (e *Engine) QueryActivity(filter domain.ActivityFilter) []domain.ActivityRecord {
	return e.log.Query(filter)
}

// AppendActivity feeds an externally produced record (e.g. ambient market
// activity) into the log and journal. It never touches balances or positions.
func (e *Engine) AppendActivity(record domain.ActivityRecord) {
	e.log.Append(record)
	e.journalRecord(record)
}

// Subscribe returns a channel that receives a full state snapshot after every
// committed mutation.
func (e *Engine) Subscribe() chan events.StateSnapshot {
	return e.broadcaster.Subscribe()
}

// Unsubscribe removes the subscriber channel and closes it.
func (e *Engine) Unsubscribe(ch chan events.StateSnapshot) {
	e.broadcaster.Unsubscribe(ch)
}

// Snapshot returns the current ledger state.
func (e *Engine) Snapshot() events.StateSnapshot {
	now := e.now()

	balances := make(map[string]string)
	for asset, balance := range e.ledger.Balances() {
		balances[asset] = balance.Amount.String()
	}

	positions := make(map[string]string)
	for vaultID, amount := range e.ledger.Positions() {
		positions[vaultID] = amount.String()
	}

	snapshot := events.StateSnapshot{
		Timestamp: now,
		Balances:  balances,
		Positions: positions,
	}

	if pending := e.lifecycle.Pending(); pending != nil {
		snapshot.Pending = &events.PendingWithdrawalView{
			ID:          pending.ID,
			VaultID:     pending.VaultID,
			AmountNDLP:  pending.AmountNDLP.String(),
			CooldownEnd: pending.CooldownEnd,
			Claimable:   pending.Claimable(now),
		}
	}

	return snapshot
}

// Close releases the journal.
func (e *Engine) Close() error {
	if e.journal == nil {
		return nil
	}
	return e.journal.Close()
}

func (e *Engine) cooldownFor(vaultID string) time.Duration {
	if d, ok := e.cooldowns[vaultID]; ok {
		return d
	}
	return e.cooldown
}

func (e *Engine) journalRecord(record domain.ActivityRecord) {
	if e.journal == nil {
		return
	}
	if err := e.journal.Append(record); err != nil {
		e.logger.Warn("failed to journal activity record", zap.Error(err))
	}
}

func (e *Engine) publish() {
	e.broadcaster.Publish(e.Snapshot())
}
