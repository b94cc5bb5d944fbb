package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phamduc/soquy/internal/common"
	"github.com/phamduc/soquy/internal/model"
	"github.com/phamduc/soquy/internal/service"
	"github.com/phamduc/soquy/internal/storage"
)

const budgetIDPrefix = "budget"

// Budgets owns the budget collection, keyed by (user, category, year,
// month). The remaining balance on each budget is maintained as a
// running counter through ApplyExpense and RevertExpense rather than
// recomputed from transaction history, which keeps updates O(1) at the
// cost of silent drift if a transaction is mutated outside the engine.
type Budgets struct {
	store service.Persister
}

// NewBudgets creates a budget store backed by the given persister.
func NewBudgets(store service.Persister) *Budgets {
	return &Budgets{store: store}
}

func (b *Budgets) collection() []model.Budget {
	var budgets []model.Budget
	b.store.Load(storage.CollectionBudgets, &budgets)
	return budgets
}

// ApplyExpense shrinks the remaining balance of the budget matching
// key by amount. When no budget exists for the key there is nothing to
// update and the call is a no-op, not an error.
func (b *Budgets) ApplyExpense(ctx context.Context, key model.BudgetKey, amount float64) error {
	return b.adjust(ctx, key, -amount)
}

// RevertExpense is the exact inverse of ApplyExpense: it restores the
// remaining balance by amount. Used to undo a previously applied
// effect before re-applying a changed one, and when a transaction is
// deleted.
func (b *Budgets) RevertExpense(ctx context.Context, key model.BudgetKey, amount float64) error {
	return b.adjust(ctx, key, amount)
}

func (b *Budgets) adjust(ctx context.Context, key model.BudgetKey, delta float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	budgets := b.collection()
	idx := indexByKey(budgets, key)
	if idx < 0 {
		slog.Debug("no budget for key, skipping adjustment",
			"user", key.UserID, "category", key.CategoryID,
			"year", key.Year, "month", key.Month)
		return nil
	}

	budgets[idx].Remaining += delta
	budgets[idx].UpdatedAt = model.Now()
	if err := b.store.Save(storage.CollectionBudgets, budgets); err != nil {
		return err
	}

	slog.Debug("adjusted budget",
		"budget", budgets[idx].ID, "delta", delta, "remaining", budgets[idx].Remaining)
	return nil
}

// BudgetDefinition carries the caller-editable budget fields.
type BudgetDefinition struct {
	UserID     string
	CategoryID string
	Year       int
	Month      int
	Limit      float64
}

// Set creates or overwrites the budget for the definition's key. A new
// budget starts with the full limit remaining. Changing the limit of
// an existing budget shifts the remaining balance by the same delta,
// preserving whatever has already been spent; history is never
// replayed.
func (b *Budgets) Set(ctx context.Context, def BudgetDefinition) (*model.Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if def.UserID == "" || def.CategoryID == "" {
		return nil, fmt.Errorf("%w: user_id and category_id are required", common.ErrValidation)
	}
	if def.Month < 1 || def.Month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range", common.ErrValidation, def.Month)
	}
	if def.Limit < 0 {
		return nil, fmt.Errorf("%w: limit cannot be negative", common.ErrValidation)
	}

	budgets := b.collection()
	key := model.BudgetKey{UserID: def.UserID, CategoryID: def.CategoryID, Year: def.Year, Month: def.Month}
	now := model.Now()

	idx := indexByKey(budgets, key)
	if idx >= 0 {
		delta := def.Limit - budgets[idx].Limit
		budgets[idx].Limit = def.Limit
		budgets[idx].Remaining += delta
		budgets[idx].UpdatedAt = now
	} else {
		budgets = append(budgets, model.Budget{
			ID:         storage.NextID(budgetIDPrefix, budgetIDs(budgets)),
			UserID:     def.UserID,
			CategoryID: def.CategoryID,
			Year:       def.Year,
			Month:      def.Month,
			Limit:      def.Limit,
			Remaining:  def.Limit,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		idx = len(budgets) - 1
	}

	if err := b.store.Save(storage.CollectionBudgets, budgets); err != nil {
		return nil, err
	}

	budget := budgets[idx]
	slog.Info("set budget", "id", budget.ID, "limit", budget.Limit,
		"year", budget.Year, "month", budget.Month)
	return &budget, nil
}

// Get returns the budget for key, or nil when none exists.
func (b *Budgets) Get(ctx context.Context, key model.BudgetKey) (*model.Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	budgets := b.collection()
	if idx := indexByKey(budgets, key); idx >= 0 {
		return &budgets[idx], nil
	}
	return nil, nil
}

// Remaining exposes the post-mutation remaining balance for key so
// collaborators (budget warnings, audit logging) can act on it. The
// bool reports whether a budget exists for the key.
func (b *Budgets) Remaining(ctx context.Context, key model.BudgetKey) (float64, bool, error) {
	budget, err := b.Get(ctx, key)
	if err != nil {
		return 0, false, err
	}
	if budget == nil {
		return 0, false, nil
	}
	return budget.Remaining, true, nil
}

// List returns every budget owned by userID, or all budgets when
// userID is empty.
func (b *Budgets) List(ctx context.Context, userID string) ([]model.Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	budgets := b.collection()
	if userID == "" {
		return budgets, nil
	}

	mine := make([]model.Budget, 0, len(budgets))
	for _, budget := range budgets {
		if budget.UserID == userID {
			mine = append(mine, budget)
		}
	}
	return mine, nil
}

// indexByKey finds the unique budget consulted for a reconciliation
// key, or -1.
func indexByKey(budgets []model.Budget, key model.BudgetKey) int {
	for i := range budgets {
		if budgets[i].Key() == key {
			return i
		}
	}
	return -1
}

func budgetIDs(budgets []model.Budget) []string {
	ids := make([]string, len(budgets))
	for i := range budgets {
		ids[i] = budgets[i].ID
	}
	return ids
}
