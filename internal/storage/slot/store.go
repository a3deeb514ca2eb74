// Package slot persists the single pending-withdrawal record so cooldown
// timing stays wall-clock based across process restarts.
package slot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vaultsim/internal/domain"
)

const (
	defaultStateDir = "./state/withdrawals"
	slotFileName    = "pending.json"
)

// Store persists the withdrawal slot as a single JSON record on disk.
type Store struct {
	path string
}

func getStateDir() string {
	if stateDir := os.Getenv("VAULTSIM_STATE_DIR"); stateDir != "" {
		return stateDir
	}
	return defaultStateDir
}

// NewStore creates a withdrawal slot store under the state directory.
func NewStore() (*Store, error) {
	stateDir := getStateDir()
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create withdrawal state dir")
	}

	return &Store{path: filepath.Join(stateDir, slotFileName)}, nil
}

// StoredWithdrawal is the serializable form of domain.PendingWithdrawal.
// Decimal fields are strings to avoid precision loss in JSON.
type StoredWithdrawal struct {
	ID             string    `json:"id"`
	VaultID        string    `json:"vaultId"`
	AmountNDLP     string    `json:"amountNdlp"`
	FeeUSD         string    `json:"feeUsd"`
	ConversionRate string    `json:"conversionRate"`
	CreatedAt      time.Time `json:"createdAt"`
	CooldownEnd    time.Time `json:"cooldownEnd"`
	Recipient      string    `json:"recipient"`
}

// Load reads the pending withdrawal from disk. Returns nil when the slot is empty.
func (s *Store) Load() (*domain.PendingWithdrawal, error) {
	if s == nil || s.path == "" {
		return nil, nil
	}

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "read withdrawal slot")
	}

	if len(payload) == 0 {
		return nil, nil
	}

	var stored StoredWithdrawal
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, errors.Wrap(err, "decode withdrawal slot")
	}

	return stored.ToWithdrawal()
}

// Save writes the pending withdrawal to disk atomically via temp file.
func (s *Store) Save(w *domain.PendingWithdrawal) error {
	if s == nil || s.path == "" {
		return nil
	}

	payload, err := json.MarshalIndent(NewStoredWithdrawal(w), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode withdrawal slot")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write withdrawal slot temp file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist withdrawal slot")
	}

	return nil
}

// Clear removes the persisted slot after a successful claim.
func (s *Store) Clear() error {
	if s == nil || s.path == "" {
		return nil
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "clear withdrawal slot")
	}

	return nil
}

// NewStoredWithdrawal converts domain.PendingWithdrawal into its stored form.
func NewStoredWithdrawal(w *domain.PendingWithdrawal) *StoredWithdrawal {
	if w == nil {
		return nil
	}

	return &StoredWithdrawal{
		ID:             w.ID,
		VaultID:        w.VaultID,
		AmountNDLP:     w.AmountNDLP.String(),
		FeeUSD:         w.FeeUSD.String(),
		ConversionRate: w.ConversionRate.String(),
		CreatedAt:      w.CreatedAt,
		CooldownEnd:    w.CooldownEnd,
		Recipient:      w.Recipient,
	}
}

// ToWithdrawal reconstructs domain.PendingWithdrawal from stored data.
func (sw *StoredWithdrawal) ToWithdrawal() (*domain.PendingWithdrawal, error) {
	if sw == nil {
		return nil, nil
	}

	amount, err := decimal.NewFromString(sw.AmountNDLP)
	if err != nil {
		return nil, errors.Wrap(err, "decode withdrawal amount")
	}

	fee := decimal.Zero
	if sw.FeeUSD != "" {
		fee, err = decimal.NewFromString(sw.FeeUSD)
		if err != nil {
			return nil, errors.Wrap(err, "decode withdrawal fee")
		}
	}

	rate, err := decimal.NewFromString(sw.ConversionRate)
	if err != nil {
		return nil, errors.Wrap(err, "decode conversion rate")
	}

	return &domain.PendingWithdrawal{
		ID:             sw.ID,
		VaultID:        sw.VaultID,
		AmountNDLP:     amount,
		FeeUSD:         fee,
		ConversionRate: rate,
		CreatedAt:      sw.CreatedAt,
		CooldownEnd:    sw.CooldownEnd,
		Recipient:      sw.Recipient,
	}, nil
}
