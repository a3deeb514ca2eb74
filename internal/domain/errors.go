package domain

import "github.com/pkg/errors"

// Error taxonomy of the ledger engine. All are precondition violations
// surfaced before any mutation; callers may retry after correcting the input.
var (
	// ErrInsufficientBalance the spendable asset balance cannot cover the amount.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientVaultBalance the vault position cannot cover the amount.
	ErrInsufficientVaultBalance = errors.New("insufficient vault balance")
	// ErrWithdrawalAlreadyPending a withdrawal is already in flight.
	ErrWithdrawalAlreadyPending = errors.New("withdrawal already pending")
	// ErrWithdrawalNotFound no pending withdrawal matches the id.
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	// ErrStillLocked the withdrawal cooldown has not elapsed yet.
	ErrStillLocked = errors.New("withdrawal still in cooldown")
)
