package model

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	// TypeIncome marks a transaction that adds funds.
	TypeIncome TransactionType = "income"
	// TypeExpense marks a transaction that spends funds.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the two known values.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single ledger entry owned by exactly one user.
// CategoryID is a soft reference: the category may have been deleted
// after the transaction was recorded.
type Transaction struct {
	ID         string          `json:"transaction_id"`
	UserID     string          `json:"user_id"`
	Type       TransactionType `json:"type"`
	Amount     float64         `json:"amount"`
	CategoryID string          `json:"category_id"`
	Date       string          `json:"date"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  string          `json:"created_at,omitempty"`
	UpdatedAt  string          `json:"updated_at,omitempty"`
}

// When parses the transaction date, accepting any of the historical
// on-disk formats.
func (t *Transaction) When() (time.Time, error) {
	return ParseDate(t.Date)
}

// BudgetKey returns the budget key this transaction charges against,
// or false if the date cannot be parsed or a field is missing.
func (t *Transaction) BudgetKey() (BudgetKey, bool) {
	if t.UserID == "" || t.CategoryID == "" || t.Date == "" {
		return BudgetKey{}, false
	}
	when, err := t.When()
	if err != nil {
		return BudgetKey{}, false
	}
	return BudgetKey{
		UserID:     t.UserID,
		CategoryID: t.CategoryID,
		Year:       when.Year(),
		Month:      int(when.Month()),
	}, true
}
