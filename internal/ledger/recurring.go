package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phamduc/soquy/internal/common"
	"github.com/phamduc/soquy/internal/model"
	"github.com/phamduc/soquy/internal/service"
	"github.com/phamduc/soquy/internal/storage"
)

const recurringIDPrefix = "rec"

// Recurring owns the recurring-rule collection. Rules are templates;
// Sweep turns the due ones into real transactions through the normal
// add path so budget reconciliation happens exactly as it would for a
// manual entry.
type Recurring struct {
	store service.Persister
	adder service.TransactionAdder
}

// NewRecurring creates a recurring-rule store that materializes due
// rules through adder.
func NewRecurring(store service.Persister, adder service.TransactionAdder) *Recurring {
	return &Recurring{store: store, adder: adder}
}

func (r *Recurring) collection() []model.RecurringRule {
	var rules []model.RecurringRule
	r.store.Load(storage.CollectionRecurring, &rules)
	return rules
}

// NewRule carries the fields for a recurring-rule create.
type NewRule struct {
	UserID     string
	Type       model.TransactionType
	Amount     float64
	CategoryID string
	Note       string
	Frequency  model.RecurringFrequency
	Start      time.Time
}

// Create validates and persists a recurring rule. The first run is
// scheduled for Start, or immediately when Start is zero.
func (r *Recurring) Create(ctx context.Context, in NewRule) (*model.RecurringRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.UserID == "" || in.CategoryID == "" {
		return nil, fmt.Errorf("%w: user_id and category_id are required", common.ErrValidation)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be income or expense, got %q", common.ErrValidation, in.Type)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", common.ErrValidation)
	}
	if !in.Frequency.Valid() {
		return nil, fmt.Errorf("%w: frequency must be weekly or monthly, got %q", common.ErrValidation, in.Frequency)
	}

	start := in.Start
	if start.IsZero() {
		start = time.Now()
	}

	rules := r.collection()
	now := model.Now()
	rule := model.RecurringRule{
		ID:         storage.NextID(recurringIDPrefix, ruleIDs(rules)),
		UserID:     in.UserID,
		Type:       in.Type,
		Amount:     in.Amount,
		CategoryID: in.CategoryID,
		Note:       in.Note,
		Frequency:  in.Frequency,
		NextRun:    model.FormatDate(start),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	rules = append(rules, rule)
	if err := r.store.Save(storage.CollectionRecurring, rules); err != nil {
		return nil, err
	}

	slog.Info("created recurring rule", "id", rule.ID, "frequency", rule.Frequency)
	return &rule, nil
}

// List returns the recurring rules owned by userID, or all rules when
// userID is empty.
func (r *Recurring) List(ctx context.Context, userID string) ([]model.RecurringRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rules := r.collection()
	if userID == "" {
		return rules, nil
	}

	mine := make([]model.RecurringRule, 0, len(rules))
	for _, rule := range rules {
		if rule.UserID == userID {
			mine = append(mine, rule)
		}
	}
	return mine, nil
}

// SetActive pauses or resumes a rule.
func (r *Recurring) SetActive(ctx context.Context, id string, active bool) (*model.RecurringRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rules := r.collection()
	for i := range rules {
		if rules[i].ID != id {
			continue
		}
		rules[i].IsActive = active
		rules[i].UpdatedAt = model.Now()
		if err := r.store.Save(storage.CollectionRecurring, rules); err != nil {
			return nil, err
		}
		return &rules[i], nil
	}
	return nil, fmt.Errorf("%w: recurring rule %s", common.ErrNotFound, id)
}

// Delete removes a rule. Transactions already materialized from it are
// untouched.
func (r *Recurring) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rules := r.collection()
	for i := range rules {
		if rules[i].ID != id {
			continue
		}
		rules = append(rules[:i], rules[i+1:]...)
		return r.store.Save(storage.CollectionRecurring, rules)
	}
	return fmt.Errorf("%w: recurring rule %s", common.ErrNotFound, id)
}

// Sweep materializes every active rule due at or before now, advancing
// each rule's next-run past now. A rule several periods overdue
// produces one transaction per missed period. Returns how many
// transactions were recorded.
func (r *Recurring) Sweep(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	rules := r.collection()
	created := 0
	changed := false

	for i := range rules {
		rule := &rules[i]
		if !rule.IsActive {
			continue
		}
		due, err := model.ParseDate(rule.NextRun)
		if err != nil {
			slog.Warn("skipping recurring rule with unparseable next run",
				"id", rule.ID, "next_run", rule.NextRun)
			continue
		}

		for !due.After(now) {
			_, err := r.adder.Add(ctx, model.Transaction{
				UserID:     rule.UserID,
				Type:       rule.Type,
				Amount:     rule.Amount,
				CategoryID: rule.CategoryID,
				Date:       model.FormatDate(due),
				Note:       rule.Note,
			})
			if err != nil {
				common.LogError(err, "failed to materialize recurring rule", common.Fields{"rule": rule.ID})
				break
			}
			created++
			due = advance(due, rule.Frequency)
			rule.NextRun = model.FormatDate(due)
			rule.UpdatedAt = model.Now()
			changed = true
		}
	}

	if changed {
		if err := r.store.Save(storage.CollectionRecurring, rules); err != nil {
			return created, err
		}
	}

	if created > 0 {
		slog.Info("swept recurring rules", "created", created)
	}
	return created, nil
}

func advance(t time.Time, freq model.RecurringFrequency) time.Time {
	if freq == model.FrequencyWeekly {
		return t.AddDate(0, 0, 7)
	}
	return t.AddDate(0, 1, 0)
}

func ruleIDs(rules []model.RecurringRule) []string {
	ids := make([]string, len(rules))
	for i := range rules {
		ids[i] = rules[i].ID
	}
	return ids
}
