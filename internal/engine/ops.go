package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vaultsim/internal/domain"
	"go.uber.org/zap"
)

// Deposit moves amount of the stable asset into the vault position.
// cooldownHours, when positive, sets the cooldown applied to subsequent
// withdrawals from this vault; zero keeps the configured default.
//
// The call blocks for the simulated settlement latency; run it in its own
// goroutine when the caller must stay responsive.
func (e *Engine) Deposit(ctx context.Context, vaultID string, amount decimal.Decimal, cooldownHours int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if vaultID == "" {
		return errors.New("vault id is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.Errorf("deposit amount must be positive, got %s", amount.String())
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	// Validation precedes the latency window; nothing is mutated on failure.
	if e.ledger.Balance(domain.AssetUSDC).Amount.LessThan(amount) {
		return errors.Wrapf(domain.ErrInsufficientBalance, "%s: have %s need %s",
			domain.AssetUSDC, e.ledger.Balance(domain.AssetUSDC).Amount.String(), amount.String())
	}

	e.latency.wait()

	if err := e.ledger.Debit(domain.AssetUSDC, amount); err != nil {
		return err
	}
	e.ledger.AddPosition(vaultID, amount)

	if cooldownHours > 0 {
		e.cooldowns[vaultID] = time.Duration(cooldownHours) * time.Hour
	}

	record := domain.ActivityRecord{
		ID:        uuid.NewString(),
		Type:      domain.ActivityDeposit,
		Amount:    amount,
		Timestamp: e.now(),
		VaultID:   vaultID,
		Status:    domain.ActivityStatusCompleted,
		TxRef:     uuid.NewString(),
	}
	e.log.Append(record)
	e.journalRecord(record)

	e.logger.Info("deposit committed",
		zap.String("vault", vaultID),
		zap.String("amount", amount.String()),
		zap.String("position", e.ledger.Position(vaultID).String()))

	e.publish()
	return nil
}

// Withdraw moves amount (in receipt-token units) out of the vault position
// and opens the single withdrawal slot with its cooldown deadline. Returns
// the withdrawal id the caller passes to Claim after the cooldown elapses.
func (e *Engine) Withdraw(ctx context.Context, vaultID string, amount decimal.Decimal) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if vaultID == "" {
		return "", errors.New("vault id is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return "", errors.Errorf("withdraw amount must be positive, got %s", amount.String())
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	// The slot check comes first: a second withdraw is rejected regardless
	// of vault or amount while one is in flight.
	if pending := e.lifecycle.Pending(); pending != nil {
		return "", errors.Wrapf(domain.ErrWithdrawalAlreadyPending, "id %s", pending.ID)
	}
	if e.ledger.Position(vaultID).LessThan(amount) {
		return "", errors.Wrapf(domain.ErrInsufficientVaultBalance, "%s: have %s need %s",
			vaultID, e.ledger.Position(vaultID).String(), amount.String())
	}

	rate, err := e.rates.ConversionRate(ctx, vaultID)
	if err != nil {
		return "", errors.Wrap(err, "get conversion rate")
	}

	// The claim payout is amount × rate − fee; a request whose converted
	// value cannot cover the fee would drive the stable balance negative at
	// claim time, so it is rejected here before anything is mutated.
	if amount.Mul(rate).LessThanOrEqual(e.fee) {
		return "", errors.Errorf("withdraw amount too small: %s at rate %s does not cover the %s fee",
			amount.String(), rate.String(), e.fee.String())
	}

	e.latency.wait()

	if err := e.ledger.ReducePosition(vaultID, amount); err != nil {
		return "", err
	}

	now := e.now()
	w, err := domain.NewPendingWithdrawal(uuid.NewString(), vaultID, amount, e.fee, rate, now, e.cooldownFor(vaultID), e.recipient)
	if err != nil {
		return "", errors.Wrap(err, "create pending withdrawal")
	}

	if err := e.lifecycle.Create(w); err != nil {
		return "", err
	}

	// The withdraw record shares the withdrawal id so claim can flip it to
	// completed by lookup.
	record := domain.ActivityRecord{
		ID:        w.ID,
		Type:      domain.ActivityWithdraw,
		Amount:    amount,
		Timestamp: now,
		VaultID:   vaultID,
		Status:    domain.ActivityStatusPending,
		TxRef:     uuid.NewString(),
	}
	e.log.Append(record)
	e.journalRecord(record)

	e.logger.Info("withdraw committed",
		zap.String("vault", vaultID),
		zap.String("amount", amount.String()),
		zap.String("withdrawal_id", w.ID),
		zap.Time("cooldown_end", w.CooldownEnd))

	e.publish()
	return w.ID, nil
}
