package withdrawal

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/vaultsim/internal/domain"
	"github.com/vadiminshakov/vaultsim/internal/storage/slot"
	"go.uber.org/zap"
)

func newWithdrawal(t *testing.T, id string, createdAt time.Time) *domain.PendingWithdrawal {
	t.Helper()

	w, err := domain.NewPendingWithdrawal(
		id, "vault-A",
		decimal.NewFromInt(2000),
		decimal.NewFromFloat(0.5),
		decimal.NewFromInt(1),
		createdAt, 24*time.Hour, "0xrecipient")
	require.NoError(t, err)
	return w
}

func TestLifecycle_SingleSlot(t *testing.T) {
	lc := NewLifecycle(zap.NewNop(), nil)
	createdAt := time.Now()

	require.Nil(t, lc.Pending())
	require.NoError(t, lc.Create(newWithdrawal(t, "w-1", createdAt)))

	// second withdrawal rejected while the slot is occupied
	err := lc.Create(newWithdrawal(t, "w-2", createdAt))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWithdrawalAlreadyPending))

	pending := lc.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, "w-1", pending.ID)
}

func TestLifecycle_TakeBeforeCooldown(t *testing.T) {
	lc := NewLifecycle(zap.NewNop(), nil)
	createdAt := time.Now()
	require.NoError(t, lc.Create(newWithdrawal(t, "w-1", createdAt)))

	_, err := lc.Take("w-1", createdAt.Add(time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStillLocked))

	// slot still occupied after a failed claim
	require.NotNil(t, lc.Pending())
}

func TestLifecycle_TakeAfterCooldown(t *testing.T) {
	lc := NewLifecycle(zap.NewNop(), nil)
	createdAt := time.Now()
	require.NoError(t, lc.Create(newWithdrawal(t, "w-1", createdAt)))

	after := createdAt.Add(24*time.Hour + time.Second)

	taken, err := lc.Take("w-1", after)
	require.NoError(t, err)
	assert.Equal(t, "w-1", taken.ID)
	assert.Nil(t, lc.Pending())

	// a second take with the same id fails: the slot is already cleared
	_, err = lc.Take("w-1", after)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWithdrawalNotFound))
}

func TestLifecycle_TakeIDMismatch(t *testing.T) {
	lc := NewLifecycle(zap.NewNop(), nil)
	createdAt := time.Now()
	require.NoError(t, lc.Create(newWithdrawal(t, "w-1", createdAt)))

	_, err := lc.Take("other", createdAt.Add(48*time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWithdrawalNotFound))
}

func TestLifecycle_ClaimableIsDerived(t *testing.T) {
	createdAt := time.Now()
	w := newWithdrawal(t, "w-1", createdAt)

	assert.False(t, w.Claimable(createdAt))
	assert.False(t, w.Claimable(createdAt.Add(23*time.Hour)))
	assert.True(t, w.Claimable(createdAt.Add(24*time.Hour)))
	assert.True(t, w.Claimable(createdAt.Add(48*time.Hour)))
}

func TestLifecycle_RestoresFromStore(t *testing.T) {
	t.Setenv("VAULTSIM_STATE_DIR", t.TempDir())

	store, err := slot.NewStore()
	require.NoError(t, err)

	createdAt := time.Now()
	lc := NewLifecycle(zap.NewNop(), store)
	require.NoError(t, lc.Create(newWithdrawal(t, "w-1", createdAt)))

	// simulate process restart: cooldown deadline survives
	restarted := NewLifecycle(zap.NewNop(), store)
	restored := restarted.Pending()
	require.NotNil(t, restored)
	assert.Equal(t, "w-1", restored.ID)
	assert.WithinDuration(t, createdAt.Add(24*time.Hour), restored.CooldownEnd, time.Second)

	// claiming after restore clears the persisted slot too
	_, err = restarted.Take("w-1", createdAt.Add(25*time.Hour))
	require.NoError(t, err)

	again := NewLifecycle(zap.NewNop(), store)
	assert.Nil(t, again.Pending())
}
