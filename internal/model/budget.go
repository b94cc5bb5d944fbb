package model

// BudgetKey identifies the single budget a given expense charges
// against. At most one budget record exists per key.
type BudgetKey struct {
	UserID     string
	CategoryID string
	Year       int
	Month      int
}

// Budget caps spending for one category in one calendar month.
// Remaining is a running counter, not a derived value: it starts at
// Limit and is decremented or restored incrementally as expense
// transactions are applied and reverted. It is never recomputed from
// transaction history.
type Budget struct {
	ID         string  `json:"budget_id"`
	UserID     string  `json:"user_id"`
	CategoryID string  `json:"category_id"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Limit      float64 `json:"limit"`
	Remaining  float64 `json:"current_amount"`
	CreatedAt  string  `json:"created_at,omitempty"`
	UpdatedAt  string  `json:"updated_at,omitempty"`
}

// Key returns the budget's reconciliation key.
func (b *Budget) Key() BudgetKey {
	return BudgetKey{UserID: b.UserID, CategoryID: b.CategoryID, Year: b.Year, Month: b.Month}
}
