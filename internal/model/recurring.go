package model

// RecurringFrequency is how often a recurring rule fires.
type RecurringFrequency string

const (
	// FrequencyWeekly fires every seven days.
	FrequencyWeekly RecurringFrequency = "weekly"
	// FrequencyMonthly fires once per calendar month.
	FrequencyMonthly RecurringFrequency = "monthly"
)

// Valid reports whether the frequency is a known value.
func (f RecurringFrequency) Valid() bool {
	return f == FrequencyWeekly || f == FrequencyMonthly
}

// RecurringRule is a template transaction materialized on a schedule.
// Sweeping a due rule records a real transaction through the normal
// add path, so budgets reconcile the same way they do for manual
// entries.
type RecurringRule struct {
	ID         string             `json:"recurring_id"`
	UserID     string             `json:"user_id"`
	Type       TransactionType    `json:"type"`
	Amount     float64            `json:"amount"`
	CategoryID string             `json:"category_id"`
	Note       string             `json:"note,omitempty"`
	Frequency  RecurringFrequency `json:"frequency"`
	NextRun    string             `json:"next_run"`
	IsActive   bool               `json:"is_active"`
	CreatedAt  string             `json:"created_at,omitempty"`
	UpdatedAt  string             `json:"updated_at,omitempty"`
}
