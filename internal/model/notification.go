package model

// NotificationBudgetWarning flags that a budget's remaining balance
// dropped below the warning threshold or went negative.
const NotificationBudgetWarning = "budget_warning"

// Notification is a message recorded for a user, surfaced by whatever
// front end consumes the ledger.
type Notification struct {
	ID        string `json:"notification_id"`
	UserID    string `json:"user_id"`
	Kind      string `json:"type"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at,omitempty"`
}
