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

const notificationIDPrefix = "notif"

// warnFraction is how much of the limit may remain before a budget
// warning fires.
const warnFraction = 0.2

// Notifications owns the notification collection.
type Notifications struct {
	store service.Persister
}

// NewNotifications creates a notification store backed by the given
// persister.
func NewNotifications(store service.Persister) *Notifications {
	return &Notifications{store: store}
}

func (n *Notifications) collection() []model.Notification {
	var notes []model.Notification
	n.store.Load(storage.CollectionNotifications, &notes)
	return notes
}

// Add records a notification for a user.
func (n *Notifications) Add(ctx context.Context, userID, kind, message string) (*model.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" || message == "" {
		return nil, fmt.Errorf("%w: user_id and message are required", common.ErrValidation)
	}

	notes := n.collection()
	note := model.Notification{
		ID:        storage.NextID(notificationIDPrefix, notificationIDs(notes)),
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: model.Now(),
	}

	notes = append(notes, note)
	if err := n.store.Save(storage.CollectionNotifications, notes); err != nil {
		return nil, err
	}
	return &note, nil
}

// List returns userID's notifications, optionally only the unread
// ones.
func (n *Notifications) List(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var mine []model.Notification
	for _, note := range n.collection() {
		if note.UserID != userID {
			continue
		}
		if unreadOnly && note.IsRead {
			continue
		}
		mine = append(mine, note)
	}
	return mine, nil
}

// MarkRead flags a notification as read.
func (n *Notifications) MarkRead(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	notes := n.collection()
	for i := range notes {
		if notes[i].ID != id {
			continue
		}
		notes[i].IsRead = true
		return n.store.Save(storage.CollectionNotifications, notes)
	}
	return fmt.Errorf("%w: notification %s", common.ErrNotFound, id)
}

func notificationIDs(notes []model.Notification) []string {
	ids := make([]string, len(notes))
	for i := range notes {
		ids[i] = notes[i].ID
	}
	return ids
}

// BudgetAlerts inspects remaining balances after expense-affecting
// mutations and records a warning notification when a budget runs low.
// The transaction store never calls this itself; the consuming layer
// decides when to check, matching how the desktop front end worked.
type BudgetAlerts struct {
	budgets       *Budgets
	notifications *Notifications
}

// NewBudgetAlerts wires budget lookups to notification output.
func NewBudgetAlerts(budgets *Budgets, notifications *Notifications) *BudgetAlerts {
	return &BudgetAlerts{budgets: budgets, notifications: notifications}
}

// Check looks up the budget for key and records a warning when the
// remaining balance is overspent or below the warning fraction of the
// limit. Returns the recorded notification, or nil when the budget is
// healthy or absent.
func (a *BudgetAlerts) Check(ctx context.Context, key model.BudgetKey) (*model.Notification, error) {
	budget, err := a.budgets.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if budget == nil || budget.Limit <= 0 {
		return nil, nil
	}

	var message string
	switch {
	case budget.Remaining < 0:
		message = fmt.Sprintf("Budget %s for %d-%02d is overspent by %.0f",
			budget.CategoryID, budget.Year, budget.Month, -budget.Remaining)
	case budget.Remaining <= budget.Limit*warnFraction:
		message = fmt.Sprintf("Budget %s for %d-%02d has only %.0f of %.0f left",
			budget.CategoryID, budget.Year, budget.Month, budget.Remaining, budget.Limit)
	default:
		return nil, nil
	}

	slog.Info("budget warning", "budget", budget.ID, "remaining", budget.Remaining)
	return a.notifications.Add(ctx, budget.UserID, model.NotificationBudgetWarning, message)
}
