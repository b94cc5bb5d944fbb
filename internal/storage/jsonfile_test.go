package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/soquy/internal/common"
	"github.com/phamduc/soquy/internal/model"
)

func TestNewStore(t *testing.T) {
	t.Run("creates data directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "data")
		_, err := NewStore(dir)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects empty directory", func(t *testing.T) {
		_, err := NewStore("")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file degrades to empty", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		var txns []model.Transaction
		store.Load(CollectionTransactions, &txns)
		assert.Empty(t, txns)
	})

	t.Run("empty file degrades to empty", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "transactions.json"), []byte("  \n"), 0600))

		var txns []model.Transaction
		store.Load(CollectionTransactions, &txns)
		assert.Empty(t, txns)
	})

	t.Run("malformed file degrades to empty", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "transactions.json"), []byte(`[{"transaction_id": "txn_001"`), 0600))

		var txns []model.Transaction
		store.Load(CollectionTransactions, &txns)
		assert.Empty(t, txns)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	in := []model.Transaction{
		{ID: "txn_001", UserID: "u1", Type: model.TypeExpense, Amount: 200000, CategoryID: "cat_001", Date: "2025-06-10T00:00:00"},
		{ID: "txn_002", UserID: "u1", Type: model.TypeIncome, Amount: 15000000, CategoryID: "cat_009", Date: "2025-06-01T09:00:00"},
	}
	require.NoError(t, store.Save(CollectionTransactions, in))

	var out []model.Transaction
	store.Load(CollectionTransactions, &out)
	assert.Equal(t, in, out)

	// No stray temp file left behind.
	_, err = os.Stat(filepath.Join(store.Dir(), "transactions.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveOverwritesWholeFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(CollectionCategories, []model.Category{
		{ID: "cat_001", Name: "Ăn uống"},
		{ID: "cat_002", Name: "Di chuyển"},
	}))
	require.NoError(t, store.Save(CollectionCategories, []model.Category{
		{ID: "cat_001", Name: "Ăn uống"},
	}))

	var cats []model.Category
	store.Load(CollectionCategories, &cats)
	require.Len(t, cats, 1)
	assert.Equal(t, "cat_001", cats[0].ID)
}
