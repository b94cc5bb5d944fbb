// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/phamduc/soquy/internal/model"
)

// Persister defines the contract for our persistence layer: whole-
// collection reads that degrade to an empty dataset and whole-
// collection writes that either fully replace the file or leave it
// untouched.
type Persister interface {
	Load(collection string, dst any)
	Save(collection string, records any) error
}

// BudgetReconciler is the slice of the budget store the transaction
// store drives to keep remaining balances consistent.
type BudgetReconciler interface {
	ApplyExpense(ctx context.Context, key model.BudgetKey, amount float64) error
	RevertExpense(ctx context.Context, key model.BudgetKey, amount float64) error
}

// TransactionAdder records a new transaction through the full add
// path, including budget reconciliation. Consumed by the recurring
// sweep and by statement import.
type TransactionAdder interface {
	Add(ctx context.Context, txn model.Transaction) (*model.Transaction, error)
}

// Actor identifies who is performing a mutation. Permission-sensitive
// operations take the actor explicitly; there is no ambient
// current-user state on the stores.
type Actor struct {
	UserID string
	Admin  bool
}
