// Package withdrawal implements the single-slot withdrawal lifecycle:
// NONE -> PENDING -> (cooldown elapses) -> CLAIMABLE -> NONE.
package withdrawal

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/vaultsim/internal/domain"
	"github.com/vadiminshakov/vaultsim/internal/storage/slot"
	"go.uber.org/zap"
)

// Lifecycle owns the single pending-withdrawal slot. The claimable state is
// derived from the cooldown deadline on every read; only the PENDING record
// itself is stored, and it survives restarts through the slot store.
type Lifecycle struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	store   *slot.Store
	pending *domain.PendingWithdrawal
}

// NewLifecycle creates a lifecycle store and restores any persisted
// withdrawal so the cooldown clock keeps running across restarts.
func NewLifecycle(logger *zap.Logger, store *slot.Store) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}

	lc := &Lifecycle{logger: logger, store: store}

	if store != nil {
		pending, err := store.Load()
		if err != nil {
			logger.Warn("failed to restore withdrawal slot", zap.Error(err))
		} else if pending != nil {
			lc.pending = pending
			logger.Info("restored pending withdrawal",
				zap.String("id", pending.ID),
				zap.String("vault", pending.VaultID),
				zap.Time("cooldown_end", pending.CooldownEnd))
		}
	}

	return lc
}

// Pending returns a copy of the in-flight withdrawal, or nil when the slot is empty.
func (lc *Lifecycle) Pending() *domain.PendingWithdrawal {
	lc.mu.RLock()
	defer lc.mu.RUnlock()

	if lc.pending == nil {
		return nil
	}
	clone := *lc.pending
	return &clone
}

// Create occupies the slot with a new withdrawal. Fails with
// ErrWithdrawalAlreadyPending while another withdrawal is in flight,
// regardless of vault or amount.
func (lc *Lifecycle) Create(w *domain.PendingWithdrawal) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if lc.pending != nil {
		return errors.Wrapf(domain.ErrWithdrawalAlreadyPending, "id %s", lc.pending.ID)
	}

	lc.pending = w
	lc.persist()
	return nil
}

// Take validates and consumes the slot for a claim. Fails with
// ErrWithdrawalNotFound on empty slot or id mismatch, ErrStillLocked before
// the cooldown deadline. On success the slot is cleared and the withdrawal
// returned for settlement.
func (lc *Lifecycle) Take(id string, now time.Time) (*domain.PendingWithdrawal, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if lc.pending == nil || lc.pending.ID != id {
		return nil, errors.Wrapf(domain.ErrWithdrawalNotFound, "id %s", id)
	}

	if !lc.pending.Claimable(now) {
		return nil, errors.Wrapf(domain.ErrStillLocked, "claimable at %s", lc.pending.CooldownEnd.Format(time.RFC3339))
	}

	taken := lc.pending
	lc.pending = nil

	if lc.store != nil {
		if err := lc.store.Clear(); err != nil {
			lc.logger.Warn("failed to clear withdrawal slot", zap.Error(err))
		}
	}

	return taken, nil
}

func (lc *Lifecycle) persist() {
	if lc.store == nil {
		return
	}

	if err := lc.store.Save(lc.pending); err != nil {
		lc.logger.Warn("failed to persist withdrawal slot", zap.Error(err))
	}
}
