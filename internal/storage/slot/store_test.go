package slot

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/vaultsim/internal/domain"
)

func testWithdrawal(t *testing.T) *domain.PendingWithdrawal {
	t.Helper()

	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	w, err := domain.NewPendingWithdrawal(
		"w-1", "vault-A",
		decimal.NewFromInt(2000),
		decimal.NewFromFloat(0.5),
		decimal.NewFromInt(1),
		createdAt, 24*time.Hour, "0xrecipient")
	require.NoError(t, err)
	return w
}

func TestStore_RoundTrip(t *testing.T) {
	t.Setenv("VAULTSIM_STATE_DIR", t.TempDir())

	store, err := NewStore()
	require.NoError(t, err)

	w := testWithdrawal(t)
	require.NoError(t, store.Save(w))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, w.ID, loaded.ID)
	assert.Equal(t, w.VaultID, loaded.VaultID)
	assert.True(t, loaded.AmountNDLP.Equal(w.AmountNDLP))
	assert.True(t, loaded.FeeUSD.Equal(w.FeeUSD))
	assert.True(t, loaded.ConversionRate.Equal(w.ConversionRate))
	assert.True(t, loaded.CooldownEnd.Equal(w.CooldownEnd))
	assert.Equal(t, w.Recipient, loaded.Recipient)
}

func TestStore_LoadEmptySlot(t *testing.T) {
	t.Setenv("VAULTSIM_STATE_DIR", t.TempDir())

	store, err := NewStore()
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_Clear(t *testing.T) {
	t.Setenv("VAULTSIM_STATE_DIR", t.TempDir())

	store, err := NewStore()
	require.NoError(t, err)

	require.NoError(t, store.Save(testWithdrawal(t)))
	require.NoError(t, store.Clear())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// clearing an empty slot is fine
	require.NoError(t, store.Clear())
}

func TestStore_SurvivesReopen(t *testing.T) {
	t.Setenv("VAULTSIM_STATE_DIR", t.TempDir())

	store, err := NewStore()
	require.NoError(t, err)
	require.NoError(t, store.Save(testWithdrawal(t)))

	reopened, err := NewStore()
	require.NoError(t, err)

	loaded, err := reopened.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "w-1", loaded.ID)
}
