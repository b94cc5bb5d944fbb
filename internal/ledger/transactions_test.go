package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/soquy/internal/common"
	"github.com/phamduc/soquy/internal/ledger"
	"github.com/phamduc/soquy/internal/model"
	"github.com/phamduc/soquy/internal/storage"
	"github.com/phamduc/soquy/internal/testutil"
)

func remainingFor(t *testing.T, tl *testutil.TestLedger, key model.BudgetKey) float64 {
	t.Helper()
	remaining, found, err := tl.Budgets.Remaining(context.Background(), key)
	require.NoError(t, err)
	require.True(t, found)
	return remaining
}

func TestAddExpenseChargesBudget(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)
	key := juneBudget(t, tl, 1000000)

	txn, err := tl.Transactions.Add(ctx, model.Transaction{
		UserID: "u1", Type: model.TypeExpense, Amount: 200000,
		CategoryID: "cat_001", Date: "2025-06-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "txn_001", txn.ID)
	assert.Equal(t, "2025-06-10T00:00:00", txn.Date)
	assert.NotEmpty(t, txn.CreatedAt)

	assert.Equal(t, 800000.0, remainingFor(t, tl, key))
}

func TestDeleteExpenseRestoresBudget(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)
	key := juneBudget(t, tl, 1000000)

	txn, err := tl.Transactions.Add(ctx, model.Transaction{
		UserID: "u1", Type: model.TypeExpense, Amount: 200000,
		CategoryID: "cat_001", Date: "2025-06-10",
	})
	require.NoError(t, err)

	ok, err := tl.Transactions.Delete(ctx, txn.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 1000000.0, remainingFor(t, tl, key))
}

func TestBudgetConservation(t *testing.T) {
	// After any sequence of creates and deletes, remaining equals the
	// limit minus the expenses still attributed to the key.
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)
	key := juneBudget(t, tl, 1000000)

	var ids []string
	for _, amount := range []float64{100000, 250000, 50000, 300000} {
		txn, err := tl.Transactions.Add(ctx, model.Transaction{
			UserID: "u1", Type: model.TypeExpense, Amount: amount,
			CategoryID: "cat_001", Date: "2025-06-15",
		})
		require.NoError(t, err)
		ids = append(ids, txn.ID)
	}

	// Drop two of them.
	for _, id := range ids[:2] {
		ok, err := tl.Transactions.Delete(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
	}

	total, err := tl.Transactions.TotalExpenses(ctx, "u1", "cat_001", 2025, 6)
	require.NoError(t, err)
	assert.Equal(t, 350000.0, total)
	assert.Equal(t, 1000000.0-total, remainingFor(t, tl, key))
}

func TestUpdateRevertsOldEffectBeforeApplyingNew(t *testing.T) {
	ctx := context.Background()

	t.Run("amount change", func(t *testing.T) {
		tl := testutil.NewTestLedger(t)
		key := juneBudget(t, tl, 1000000)

		txn, err := tl.Transactions.Add(ctx, model.Transaction{
			UserID: "u1", Type: model.TypeExpense, Amount: 200000,
			CategoryID: "cat_001", Date: "2025-06-10",
		})
		require.NoError(t, err)

		updated := *txn
		updated.Amount = 300000
		_, err = tl.Transactions.Update(ctx, updated)
		require.NoError(t, err)

		// Not 1000000-200000-300000: the old effect was reverted first.
		assert.Equal(t, 700000.0, remainingFor(t, tl, key))
	})

	t.Run("category move", func(t *testing.T) {
		tl := testutil.NewTestLedger(t)
		foodKey := juneBudget(t, tl, 1000000)
		_, err := tl.Budgets.Set(ctx, ledger.BudgetDefinition{
			UserID: "u1", CategoryID: "cat_002", Year: 2025, Month: 6, Limit: 500000,
		})
		require.NoError(t, err)
		travelKey := model.BudgetKey{UserID: "u1", CategoryID: "cat_002", Year: 2025, Month: 6}

		txn, err := tl.Transactions.Add(ctx, model.Transaction{
			UserID: "u1", Type: model.TypeExpense, Amount: 200000,
			CategoryID: "cat_001", Date: "2025-06-10",
		})
		require.NoError(t, err)

		updated := *txn
		updated.CategoryID = "cat_002"
		_, err = tl.Transactions.Update(ctx, updated)
		require.NoError(t, err)

		// Old key restored, new key decremented.
		assert.Equal(t, 1000000.0, remainingFor(t, tl, foodKey))
		assert.Equal(t, 300000.0, remainingFor(t, tl, travelKey))
	})

	t.Run("month move", func(t *testing.T) {
		tl := testutil.NewTestLedger(t)
		juneKey := juneBudget(t, tl, 1000000)
		_, err := tl.Budgets.Set(ctx, ledger.BudgetDefinition{
			UserID: "u1", CategoryID: "cat_001", Year: 2025, Month: 7, Limit: 1000000,
		})
		require.NoError(t, err)
		julyKey := model.BudgetKey{UserID: "u1", CategoryID: "cat_001", Year: 2025, Month: 7}

		txn, err := tl.Transactions.Add(ctx, model.Transaction{
			UserID: "u1", Type: model.TypeExpense, Amount: 200000,
			CategoryID: "cat_001", Date: "2025-06-10",
		})
		require.NoError(t, err)

		updated := *txn
		updated.Date = "2025-07-10"
		_, err = tl.Transactions.Update(ctx, updated)
		require.NoError(t, err)

		assert.Equal(t, 1000000.0, remainingFor(t, tl, juneKey))
		assert.Equal(t, 800000.0, remainingFor(t, tl, julyKey))
	})

	t.Run("expense to income releases the charge", func(t *testing.T) {
		tl := testutil.NewTestLedger(t)
		key := juneBudget(t, tl, 1000000)

		txn, err := tl.Transactions.Add(ctx, model.Transaction{
			UserID: "u1", Type: model.TypeExpense, Amount: 200000,
			CategoryID: "cat_001", Date: "2025-06-10",
		})
		require.NoError(t, err)

		updated := *txn
		updated.Type = model.TypeIncome
		_, err = tl.Transactions.Update(ctx, updated)
		require.NoError(t, err)

		assert.Equal(t, 1000000.0, remainingFor(t, tl, key))
	})
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	txn, err := tl.Transactions.Add(ctx, model.Transaction{
		UserID: "u1", Type: model.TypeExpense, Amount: 100,
		CategoryID: "cat_001", Date: "2025-06-10",
	})
	require.NoError(t, err)

	updated, err := tl.Transactions.Update(ctx, model.Transaction{
		ID: txn.ID, UserID: "u1", Type: model.TypeExpense, Amount: 150,
		CategoryID: "cat_001",
	})
	require.NoError(t, err)
	assert.Equal(t, txn.CreatedAt, updated.CreatedAt)
	assert.Equal(t, txn.Date, updated.Date, "empty date keeps the prior one")
	assert.NotEmpty(t, updated.UpdatedAt)
}

func TestUpdateUnknownTransaction(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	_, err := tl.Transactions.Update(ctx, model.Transaction{
		ID: "txn_404", UserID: "u1", Type: model.TypeExpense, Amount: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteUnknownTransaction(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	ok, err := tl.Transactions.Delete(ctx, "txn_404")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	_, err := tl.Transactions.Add(ctx, model.Transaction{Type: model.TypeExpense, Amount: 1})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = tl.Transactions.Add(ctx, model.Transaction{UserID: "u1", Type: "transfer", Amount: 1})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = tl.Transactions.Add(ctx, model.Transaction{UserID: "u1", Type: model.TypeExpense, Amount: -1})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestAddWithUnparseableDateStillSaves(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)
	key := juneBudget(t, tl, 1000000)

	txn, err := tl.Transactions.Add(ctx, model.Transaction{
		UserID: "u1", Type: model.TypeExpense, Amount: 200000,
		CategoryID: "cat_001", Date: "someday",
	})
	require.NoError(t, err)
	assert.Equal(t, "someday", txn.Date)

	// The budget could not be reconciled, but the transaction exists.
	assert.Equal(t, 1000000.0, remainingFor(t, tl, key))
	all, err := tl.Transactions.ByMonth(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIncomeDoesNotTouchBudgets(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)
	key := juneBudget(t, tl, 1000000)

	_, err := tl.Transactions.Add(ctx, model.Transaction{
		UserID: "u1", Type: model.TypeIncome, Amount: 5000000,
		CategoryID: "cat_001", Date: "2025-06-10",
	})
	require.NoError(t, err)

	assert.Equal(t, 1000000.0, remainingFor(t, tl, key))
}

func TestByMonthSentinel(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	for _, date := range []string{"2025-05-01", "2025-06-10", "2025-06-20", "2025-07-01"} {
		_, err := tl.Transactions.Add(ctx, model.Transaction{
			UserID: "u1", Type: model.TypeExpense, Amount: 1000,
			CategoryID: "cat_001", Date: date,
		})
		require.NoError(t, err)
	}

	t.Run("zero month returns everything", func(t *testing.T) {
		all, err := tl.Transactions.ByMonth(ctx, 2025, 0)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("zero year returns everything", func(t *testing.T) {
		all, err := tl.Transactions.ByMonth(ctx, 0, 6)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("specific month filters", func(t *testing.T) {
		june, err := tl.Transactions.ByMonth(ctx, 2025, 6)
		require.NoError(t, err)
		assert.Len(t, june, 2)
	})
}

func TestInRangeInclusiveBounds(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	for user, date := range map[string]string{
		"u1": "2025-06-01",
		"u2": "2025-06-15",
	} {
		_, err := tl.Transactions.Add(ctx, model.Transaction{
			UserID: user, Type: model.TypeExpense, Amount: 1000,
			CategoryID: "cat_001", Date: date,
		})
		require.NoError(t, err)
	}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	all, err := tl.Transactions.InRange(ctx, start, end, "")
	require.NoError(t, err)
	assert.Len(t, all, 2, "both endpoints are inclusive")

	mine, err := tl.Transactions.InRange(ctx, start, end, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestTotalExpensesToleratesMixedDateFormats(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	// Seed the collection directly to simulate a long-lived data file
	// with several date formats and one rotten record.
	require.NoError(t, tl.Store.Save(storage.CollectionTransactions, []model.Transaction{
		{ID: "txn_001", UserID: "u1", Type: model.TypeExpense, Amount: 100000, CategoryID: "cat_001", Date: "2025-06-10T00:00:00"},
		{ID: "txn_002", UserID: "u1", Type: model.TypeExpense, Amount: 50000, CategoryID: "cat_001", Date: "10/06/2025"},
		{ID: "txn_003", UserID: "u1", Type: model.TypeExpense, Amount: 25000, CategoryID: "cat_001", Date: "2025-06-20 08:30:00"},
		{ID: "txn_004", UserID: "u1", Type: model.TypeExpense, Amount: 999999, CategoryID: "cat_001", Date: "corrupted"},
		{ID: "txn_005", UserID: "u1", Type: model.TypeIncome, Amount: 77777, CategoryID: "cat_001", Date: "2025-06-10"},
		{ID: "txn_006", UserID: "u2", Type: model.TypeExpense, Amount: 11111, CategoryID: "cat_001", Date: "2025-06-10"},
	}))

	total, err := tl.Transactions.TotalExpenses(ctx, "u1", "cat_001", 2025, 6)
	require.NoError(t, err)
	assert.Equal(t, 175000.0, total)
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	dates := []string{"2025-06-01", "2025-06-20", "2025-06-10"}
	for _, date := range dates {
		_, err := tl.Transactions.Add(ctx, model.Transaction{
			UserID: "u1", Type: model.TypeExpense, Amount: 1000,
			CategoryID: "cat_001", Date: date,
		})
		require.NoError(t, err)
	}

	recent, err := tl.Transactions.Recent(ctx, 2, "u1")
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2025-06-20T00:00:00", recent[0].Date)
	assert.Equal(t, "2025-06-10T00:00:00", recent[1].Date)
}

func TestSequentialIDsSkipNoGaps(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	first, err := tl.Transactions.Add(ctx, model.Transaction{
		UserID: "u1", Type: model.TypeExpense, Amount: 1, CategoryID: "cat_001", Date: "2025-06-01",
	})
	require.NoError(t, err)
	second, err := tl.Transactions.Add(ctx, model.Transaction{
		UserID: "u1", Type: model.TypeExpense, Amount: 1, CategoryID: "cat_001", Date: "2025-06-02",
	})
	require.NoError(t, err)

	assert.Equal(t, "txn_001", first.ID)
	assert.Equal(t, "txn_002", second.ID)
}

func TestAddRollsBackOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	budgets := ledger.NewBudgets(tl.Store)
	failing := ledger.NewTransactions(&testutil.FailingPersister{Inner: tl.Store}, budgets)

	_, err := failing.Add(ctx, model.Transaction{
		UserID: "u1", Type: model.TypeExpense, Amount: 1000,
		CategoryID: "cat_001", Date: "2025-06-10",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPersistence)

	// Nothing reached the collection.
	all, err := tl.Transactions.ByMonth(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}
