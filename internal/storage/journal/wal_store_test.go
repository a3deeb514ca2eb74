package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/vaultsim/internal/domain"
)

func testRecord(id string, typ domain.ActivityType) domain.ActivityRecord {
	return domain.ActivityRecord{
		ID:        id,
		Type:      typ,
		Amount:    decimal.NewFromInt(100),
		Timestamp: time.Now().UTC(),
		VaultID:   "vault-A",
		Status:    domain.ActivityStatusCompleted,
	}
}

func TestWALStore_AppendAndReplay(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Append(testRecord("a", domain.ActivityDeposit)))
	require.NoError(t, store.Append(testRecord("b", domain.ActivitySwap)))

	records, err := store.RecordsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Record.ID)
	assert.Equal(t, "b", records[1].Record.ID)
	assert.Greater(t, records[1].Index, records[0].Index)
}

func TestWALStore_RecordsAfterIndex(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Append(testRecord("a", domain.ActivityDeposit)))
	first := store.CurrentIndex()
	require.NoError(t, store.Append(testRecord("b", domain.ActivityWithdraw)))

	records, err := store.RecordsAfter(first)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].Record.ID)

	none, err := store.RecordsAfter(store.CurrentIndex())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWALStore_RejectsInvalidType(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	record := testRecord("a", domain.ActivityType("bogus"))
	assert.Error(t, store.Append(record))
}
