// Package ledger keeps transactions, categories, and budgets mutually
// consistent. Every public operation runs load-validate-mutate-persist
// to completion; cross-store consistency comes from the transaction
// store calling the budget store in the same call stack, not from any
// shared transaction or lock. The whole package assumes a single
// writer process.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/phamduc/soquy/internal/common"
	"github.com/phamduc/soquy/internal/model"
	"github.com/phamduc/soquy/internal/service"
	"github.com/phamduc/soquy/internal/storage"
)

const transactionIDPrefix = "txn"

// Transactions owns the transaction collection and orchestrates budget
// reconciliation: apply on create, revert-then-apply on update, revert
// on delete. Each expense mutation triggers exactly one apply and, for
// update and delete, exactly one revert of the prior effect.
type Transactions struct {
	store   service.Persister
	budgets service.BudgetReconciler
}

// NewTransactions creates a transaction store that reconciles expenses
// against the given budget store.
func NewTransactions(store service.Persister, budgets service.BudgetReconciler) *Transactions {
	return &Transactions{store: store, budgets: budgets}
}

func (t *Transactions) collection() []model.Transaction {
	var txns []model.Transaction
	t.store.Load(storage.CollectionTransactions, &txns)
	return txns
}

// Add validates and persists a transaction, assigning a sequential ID
// when the caller did not supply one and normalizing the date to the
// canonical layout. A complete expense immediately charges the
// matching budget. Reconciliation failures are logged and swallowed:
// the transaction is saved even when the budget could not be updated.
func (t *Transactions) Add(ctx context.Context, txn model.Transaction) (*model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if txn.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", common.ErrValidation)
	}
	if !txn.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be income or expense, got %q", common.ErrValidation, txn.Type)
	}
	if txn.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", common.ErrValidation)
	}

	txns := t.collection()
	if txn.ID == "" {
		txn.ID = storage.NextID(transactionIDPrefix, transactionIDs(txns))
	}
	if txn.Date == "" {
		txn.Date = model.Now()
	} else {
		txn.Date = model.NormalizeDate(txn.Date)
	}
	now := model.Now()
	if txn.CreatedAt == "" {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now

	txns = append(txns, txn)
	if err := t.store.Save(storage.CollectionTransactions, txns); err != nil {
		return nil, err
	}

	t.applyToBudget(ctx, &txn)

	slog.Info("added transaction", "id", txn.ID, "type", txn.Type, "amount", txn.Amount)
	return &txn, nil
}

// Update overwrites the transaction matching updated.ID. The prior
// record's budget effect is reverted before the new effect is applied,
// so changing an expense's amount, category, or month never
// double-counts and never leaves a stale balance behind. CreatedAt is
// preserved from the prior record when the caller omits it; UpdatedAt
// always refreshes.
func (t *Transactions) Update(ctx context.Context, updated model.Transaction) (*model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !updated.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be income or expense, got %q", common.ErrValidation, updated.Type)
	}
	if updated.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", common.ErrValidation)
	}

	txns := t.collection()
	idx := transactionIndex(txns, updated.ID)
	if idx < 0 {
		slog.Warn("transaction to update not found", "id", updated.ID)
		return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, updated.ID)
	}
	prior := txns[idx]

	if updated.UserID == "" {
		updated.UserID = prior.UserID
	}
	if updated.CreatedAt == "" {
		updated.CreatedAt = prior.CreatedAt
	}
	if updated.Date == "" {
		updated.Date = prior.Date
	} else {
		updated.Date = model.NormalizeDate(updated.Date)
	}
	updated.UpdatedAt = model.Now()

	txns[idx] = updated
	if err := t.store.Save(storage.CollectionTransactions, txns); err != nil {
		return nil, err
	}

	t.revertFromBudget(ctx, &prior)
	t.applyToBudget(ctx, &updated)

	slog.Info("updated transaction", "id", updated.ID)
	return &updated, nil
}

// Delete removes the matching transaction and, for an expense, reverts
// its effect from the corresponding budget using the stored category,
// year, month, and amount. Reports false when no record matched.
func (t *Transactions) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	txns := t.collection()
	idx := transactionIndex(txns, id)
	if idx < 0 {
		return false, nil
	}
	prior := txns[idx]

	txns = append(txns[:idx], txns[idx+1:]...)
	if err := t.store.Save(storage.CollectionTransactions, txns); err != nil {
		return false, err
	}

	t.revertFromBudget(ctx, &prior)

	slog.Info("deleted transaction", "id", id)
	return true, nil
}

// ByUser returns every transaction owned by userID.
func (t *Transactions) ByUser(ctx context.Context, userID string) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var mine []model.Transaction
	for _, txn := range t.collection() {
		if txn.UserID == userID {
			mine = append(mine, txn)
		}
	}
	return mine, nil
}

// ByMonth returns the transactions dated in the given calendar month.
// A zero year or month is the "all" sentinel and returns the whole
// collection. Records whose dates cannot be parsed are logged and
// skipped.
func (t *Transactions) ByMonth(ctx context.Context, year, month int) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txns := t.collection()
	if year == 0 || month == 0 {
		return txns, nil
	}

	var matched []model.Transaction
	for _, txn := range txns {
		when, err := txn.When()
		if err != nil {
			slog.Warn("skipping transaction with unparseable date", "id", txn.ID, "date", txn.Date)
			continue
		}
		if when.Year() == year && int(when.Month()) == month {
			matched = append(matched, txn)
		}
	}
	return matched, nil
}

// InRange returns the transactions dated within [start, end],
// inclusive on both bounds. Offsets were already stripped at parse
// time, so naive and aware timestamps compare uniformly. An empty
// userID matches every user.
func (t *Transactions) InRange(ctx context.Context, start, end time.Time, userID string) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matched []model.Transaction
	for _, txn := range t.collection() {
		if userID != "" && txn.UserID != userID {
			continue
		}
		when, err := txn.When()
		if err != nil {
			slog.Warn("skipping transaction with unparseable date", "id", txn.ID, "date", txn.Date)
			continue
		}
		if when.Before(start) || when.After(end) {
			continue
		}
		matched = append(matched, txn)
	}
	return matched, nil
}

// TotalExpenses sums the expense amounts attributed to (user,
// category, year, month). One bad date never aborts the whole
// aggregate; the offending record is skipped.
func (t *Transactions) TotalExpenses(ctx context.Context, userID, categoryID string, year, month int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var total float64
	for _, txn := range t.collection() {
		if txn.Type != model.TypeExpense || txn.UserID != userID || txn.CategoryID != categoryID {
			continue
		}
		when, err := txn.When()
		if err != nil {
			slog.Warn("skipping transaction with unparseable date", "id", txn.ID, "date", txn.Date)
			continue
		}
		if when.Year() == year && int(when.Month()) == month {
			total += txn.Amount
		}
	}
	return total, nil
}

// Recent returns up to limit transactions sorted by date descending.
// Transactions with unparseable dates sort last. An empty userID
// matches every user.
func (t *Transactions) Recent(ctx context.Context, limit int, userID string) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matched []model.Transaction
	for _, txn := range t.collection() {
		if userID != "" && txn.UserID != userID {
			continue
		}
		matched = append(matched, txn)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ti, erri := matched[i].When()
		tj, errj := matched[j].When()
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return ti.After(tj)
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// applyToBudget charges a complete expense against its budget. Any
// failure here is deliberately non-fatal: the transaction itself is
// already on disk.
func (t *Transactions) applyToBudget(ctx context.Context, txn *model.Transaction) {
	if txn.Type != model.TypeExpense {
		return
	}
	key, ok := txn.BudgetKey()
	if !ok {
		slog.Warn("cannot reconcile budget for transaction", "id", txn.ID, "date", txn.Date)
		return
	}
	if err := t.budgets.ApplyExpense(ctx, key, txn.Amount); err != nil {
		common.LogError(err, "failed to apply expense to budget", common.Fields{"transaction": txn.ID})
	}
}

// revertFromBudget undoes a previously applied expense effect.
func (t *Transactions) revertFromBudget(ctx context.Context, txn *model.Transaction) {
	if txn.Type != model.TypeExpense {
		return
	}
	key, ok := txn.BudgetKey()
	if !ok {
		slog.Warn("cannot reconcile budget for transaction", "id", txn.ID, "date", txn.Date)
		return
	}
	if err := t.budgets.RevertExpense(ctx, key, txn.Amount); err != nil {
		common.LogError(err, "failed to revert expense from budget", common.Fields{"transaction": txn.ID})
	}
}

func transactionIndex(txns []model.Transaction, id string) int {
	for i := range txns {
		if txns[i].ID == id {
			return i
		}
	}
	return -1
}

func transactionIDs(txns []model.Transaction) []string {
	ids := make([]string, len(txns))
	for i := range txns {
		ids[i] = txns[i].ID
	}
	return ids
}
