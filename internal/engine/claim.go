package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/vaultsim/internal/domain"
	"go.uber.org/zap"
)

// Claim finalizes the withdrawal with the given id: it validates cooldown
// expiry, consumes the slot, credits the stable asset with
// amountNdlp × conversionRate − feeUsd, marks the originating withdraw record
// completed and appends a claim record. A second claim with the same id fails
// with ErrWithdrawalNotFound because the slot is already cleared.
func (e *Engine) Claim(ctx context.Context, withdrawalID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if withdrawalID == "" {
		return errors.Wrap(domain.ErrWithdrawalNotFound, "empty withdrawal id")
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	// Validate before the latency window so failures never partially commit.
	pending := e.lifecycle.Pending()
	if pending == nil || pending.ID != withdrawalID {
		return errors.Wrapf(domain.ErrWithdrawalNotFound, "id %s", withdrawalID)
	}
	if !pending.Claimable(e.now()) {
		return errors.Wrapf(domain.ErrStillLocked, "claimable at %s", pending.CooldownEnd)
	}

	e.latency.wait()

	// Take re-checks under the lifecycle lock and clears the slot.
	w, err := e.lifecycle.Take(withdrawalID, e.now())
	if err != nil {
		return err
	}

	payout := w.Payout()
	e.ledger.Credit(domain.AssetUSDC, payout)

	e.log.MarkCompleted(w.ID)

	record := domain.ActivityRecord{
		ID:        uuid.NewString(),
		Type:      domain.ActivityClaim,
		Amount:    payout,
		Timestamp: e.now(),
		VaultID:   w.VaultID,
		Status:    domain.ActivityStatusCompleted,
		TxRef:     uuid.NewString(),
	}
	e.log.Append(record)
	e.journalRecord(record)

	e.logger.Info("claim committed",
		zap.String("withdrawal_id", w.ID),
		zap.String("vault", w.VaultID),
		zap.String("payout", payout.String()))

	e.publish()
	return nil
}
