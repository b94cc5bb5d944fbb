// Package testutil provides test helpers for exercising the ledger
// against a throwaway data directory.
package testutil

import (
	"fmt"
	"testing"

	"github.com/phamduc/soquy/internal/common"
	"github.com/phamduc/soquy/internal/ledger"
	"github.com/phamduc/soquy/internal/service"
	"github.com/phamduc/soquy/internal/storage"
)

// TestLedger bundles a fully wired ledger rooted in a temp directory.
type TestLedger struct {
	Store         *storage.Store
	Categories    *ledger.Categories
	Budgets       *ledger.Budgets
	Transactions  *ledger.Transactions
	Recurring     *ledger.Recurring
	Notifications *ledger.Notifications
	Alerts        *ledger.BudgetAlerts
}

// NewTestLedger creates a ledger backed by t.TempDir. The directory is
// cleaned up with the test; no default categories are seeded.
func NewTestLedger(t *testing.T) *TestLedger {
	t.Helper()

	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	return WireLedger(store)
}

// WireLedger connects the stores the way production does, against any
// persister-backed storage.
func WireLedger(store *storage.Store) *TestLedger {
	budgets := ledger.NewBudgets(store)
	transactions := ledger.NewTransactions(store, budgets)
	notifications := ledger.NewNotifications(store)

	return &TestLedger{
		Store:         store,
		Categories:    ledger.NewCategories(store),
		Budgets:       budgets,
		Transactions:  transactions,
		Recurring:     ledger.NewRecurring(store, transactions),
		Notifications: notifications,
		Alerts:        ledger.NewBudgetAlerts(budgets, notifications),
	}
}

// FailingPersister reads through to the wrapped persister but fails
// every save, for exercising rollback paths.
type FailingPersister struct {
	Inner service.Persister
}

// Load delegates to the wrapped persister.
func (f *FailingPersister) Load(collection string, dst any) {
	f.Inner.Load(collection, dst)
}

// Save always fails with a persistence error.
func (f *FailingPersister) Save(string, any) error {
	return fmt.Errorf("%w: simulated write failure", common.ErrPersistence)
}
