package model

// SystemUserID is the pseudo-user that owns the built-in categories.
// System categories are visible to every user but may only be mutated
// by admins.
const SystemUserID = "system"

// Category labels transactions and anchors budgets. Name uniqueness is
// enforced case-insensitively within the union of the system namespace
// and the owning user's namespace.
type Category struct {
	ID          string          `json:"category_id"`
	Name        string          `json:"name"`
	Type        TransactionType `json:"type"`
	Icon        string          `json:"icon,omitempty"`
	Color       string          `json:"color,omitempty"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"is_active"`
	UserID      string          `json:"user_id"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

// SystemOwned reports whether the category belongs to the system
// namespace rather than to a specific user.
func (c *Category) SystemOwned() bool {
	return c.UserID == SystemUserID
}
