package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/soquy/internal/common"
	"github.com/phamduc/soquy/internal/model"
	"github.com/phamduc/soquy/internal/testutil"
)

func spend(t *testing.T, tl *testutil.TestLedger, amount float64) {
	t.Helper()
	_, err := tl.Transactions.Add(context.Background(), model.Transaction{
		UserID: "u1", Type: model.TypeExpense, Amount: amount,
		CategoryID: "cat_001", Date: "2025-06-10",
	})
	require.NoError(t, err)
}

func TestCheckHealthyBudget(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)
	key := juneBudget(t, tl, 1000000)
	spend(t, tl, 300000)

	note, err := tl.Alerts.Check(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, note)

	notes, err := tl.Notifications.List(ctx, "u1", false)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestCheckLowBudgetWarns(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)
	key := juneBudget(t, tl, 1000000)
	spend(t, tl, 850000)

	note, err := tl.Alerts.Check(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "notif_001", note.ID)
	assert.Equal(t, "u1", note.UserID)
	assert.Equal(t, model.NotificationBudgetWarning, note.Kind)
	assert.Contains(t, note.Message, "150000 of 1000000 left")
}

func TestCheckOverspentBudget(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)
	key := juneBudget(t, tl, 1000000)
	spend(t, tl, 1200000)

	note, err := tl.Alerts.Check(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Contains(t, note.Message, "overspent by 200000")
}

func TestCheckMissingBudget(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	note, err := tl.Alerts.Check(ctx, model.BudgetKey{
		UserID: "u1", CategoryID: "cat_001", Year: 2025, Month: 6,
	})
	require.NoError(t, err)
	assert.Nil(t, note)
}

func TestNotificationsAddValidation(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	_, err := tl.Notifications.Add(ctx, "", model.NotificationBudgetWarning, "message")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = tl.Notifications.Add(ctx, "u1", model.NotificationBudgetWarning, "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestNotificationsListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	tl := testutil.NewTestLedger(t)

	first, err := tl.Notifications.Add(ctx, "u1", model.NotificationBudgetWarning, "first")
	require.NoError(t, err)
	_, err = tl.Notifications.Add(ctx, "u1", model.NotificationBudgetWarning, "second")
	require.NoError(t, err)
	_, err = tl.Notifications.Add(ctx, "u2", model.NotificationBudgetWarning, "other user")
	require.NoError(t, err)

	require.NoError(t, tl.Notifications.MarkRead(ctx, first.ID))

	all, err := tl.Notifications.List(ctx, "u1", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unread, err := tl.Notifications.List(ctx, "u1", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "second", unread[0].Message)

	err = tl.Notifications.MarkRead(ctx, "notif_404")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
