package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phamduc/soquy/internal/common"
	"github.com/phamduc/soquy/internal/model"
	"github.com/phamduc/soquy/internal/service"
	"github.com/phamduc/soquy/internal/storage"
)

const categoryIDPrefix = "cat"

// Categories owns the category collection. It enforces case-insensitive
// name uniqueness across the system namespace plus the owning user's
// namespace, and the two-tier ownership rules: system categories belong
// to everyone but may only be reshaped by admins.
type Categories struct {
	store service.Persister
}

// NewCategories creates a category store backed by the given persister.
func NewCategories(store service.Persister) *Categories {
	return &Categories{store: store}
}

func (c *Categories) collection() []model.Category {
	var cats []model.Category
	c.store.Load(storage.CollectionCategories, &cats)
	return cats
}

// List returns the active system categories together with the user's
// own, optionally narrowed by type. Pass activeOnly=false to include
// deactivated categories. An empty userID returns the full unfiltered
// collection, which aggregate reporting relies on.
func (c *Categories) List(ctx context.Context, userID string, catType model.TransactionType, activeOnly bool) ([]model.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cats := c.collection()
	if userID == "" {
		return cats, nil
	}

	visible := make([]model.Category, 0, len(cats))
	for _, cat := range cats {
		if cat.UserID != model.SystemUserID && cat.UserID != userID {
			continue
		}
		if activeOnly && !cat.IsActive {
			continue
		}
		if catType != "" && cat.Type != catType {
			continue
		}
		visible = append(visible, cat)
	}
	return visible, nil
}

// GetByID returns the category with the given ID, or nil when absent.
func (c *Categories) GetByID(ctx context.Context, id string) (*model.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cats := c.collection()
	if idx := indexByID(cats, id); idx >= 0 {
		return &cats[idx], nil
	}
	return nil, nil
}

// GetByName finds a category by case-insensitive name match. A
// non-empty userID restricts the search to that user's categories plus
// the system ones; a non-empty catType narrows further. Returns nil
// when nothing matches.
func (c *Categories) GetByName(ctx context.Context, name, userID string, catType model.TransactionType) (*model.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, cat := range c.collection() {
		if !strings.EqualFold(cat.Name, name) {
			continue
		}
		if userID != "" && cat.UserID != model.SystemUserID && cat.UserID != userID {
			continue
		}
		if catType != "" && cat.Type != catType {
			continue
		}
		found := cat
		return &found, nil
	}
	return nil, nil
}

// NewCategory carries the fields for a category create.
type NewCategory struct {
	UserID      string
	Name        string
	Type        model.TransactionType
	Icon        string
	Color       string
	Description string
	IsActive    bool
}

// Create validates and persists a new category. The name must not
// collide, case-insensitively, with a system category or another
// category owned by the same user.
func (c *Categories) Create(ctx context.Context, in NewCategory) (*model.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", common.ErrValidation)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be income or expense, got %q", common.ErrValidation, in.Type)
	}

	cats := c.collection()
	if nameTaken(cats, in.Name, in.UserID, "") {
		return nil, fmt.Errorf("%w: category name %q already exists", common.ErrValidation, in.Name)
	}

	now := model.Now()
	cat := model.Category{
		ID:          storage.NextID(categoryIDPrefix, categoryIDs(cats)),
		Name:        strings.TrimSpace(in.Name),
		Type:        in.Type,
		Icon:        in.Icon,
		Color:       in.Color,
		Description: in.Description,
		IsActive:    in.IsActive,
		UserID:      in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	cats = append(cats, cat)
	if err := c.store.Save(storage.CollectionCategories, cats); err != nil {
		return nil, err
	}

	slog.Info("created category", "id", cat.ID, "name", cat.Name, "owner", cat.UserID)
	return &cat, nil
}

// CategoryChanges lists the mutable category fields. Nil pointers
// leave the current value untouched; everything outside this set is
// immutable through Update.
type CategoryChanges struct {
	Name        *string
	Type        *model.TransactionType
	Icon        *string
	Color       *string
	Description *string
	IsActive    *bool
}

// Update applies the requested changes to a category on behalf of
// actor. Reshaping a system category or another user's category
// requires admin rights; non-admins may only toggle a system
// category's active flag. Returns nil with no error when nothing
// actually changed.
func (c *Categories) Update(ctx context.Context, id string, actor service.Actor, changes CategoryChanges) (*model.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cats := c.collection()
	idx := indexByID(cats, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	cat := cats[idx]

	if err := checkEditAllowed(&cat, actor, changes); err != nil {
		return nil, err
	}

	changed := false
	if changes.Name != nil && !strings.EqualFold(*changes.Name, cat.Name) {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", common.ErrValidation)
		}
		// Uniqueness is re-validated against the owner's namespace,
		// not the actor's: an admin renaming a user category must not
		// collide with that user's other names.
		if nameTaken(cats, name, cat.UserID, cat.ID) {
			return nil, fmt.Errorf("%w: category name %q already exists", common.ErrValidation, name)
		}
		cat.Name = name
		changed = true
	}
	if changes.Type != nil && *changes.Type != cat.Type {
		if !changes.Type.Valid() {
			return nil, fmt.Errorf("%w: type must be income or expense, got %q", common.ErrValidation, *changes.Type)
		}
		cat.Type = *changes.Type
		changed = true
	}
	if changes.Icon != nil && *changes.Icon != cat.Icon {
		cat.Icon = *changes.Icon
		changed = true
	}
	if changes.Color != nil && *changes.Color != cat.Color {
		cat.Color = *changes.Color
		changed = true
	}
	if changes.Description != nil && *changes.Description != cat.Description {
		cat.Description = *changes.Description
		changed = true
	}
	if changes.IsActive != nil && *changes.IsActive != cat.IsActive {
		cat.IsActive = *changes.IsActive
		changed = true
	}

	if !changed {
		return nil, nil
	}

	cat.UpdatedAt = model.Now()
	cats[idx] = cat
	if err := c.store.Save(storage.CollectionCategories, cats); err != nil {
		return nil, err
	}

	slog.Info("updated category", "id", cat.ID, "actor", actor.UserID)
	return &cat, nil
}

// Delete physically removes a category. System categories require
// admin rights to delete; non-admin owners should deactivate instead.
// Deleting another user's category also requires admin rights.
func (c *Categories) Delete(ctx context.Context, id string, actor service.Actor) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cats := c.collection()
	idx := indexByID(cats, id)
	if idx < 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	cat := cats[idx]

	if cat.SystemOwned() && !actor.Admin {
		return fmt.Errorf("%w: only admins may delete system category %q; deactivate it instead", common.ErrPermission, cat.Name)
	}
	if !cat.SystemOwned() && cat.UserID != actor.UserID && !actor.Admin {
		return fmt.Errorf("%w: category %s belongs to another user", common.ErrPermission, id)
	}

	cats = append(cats[:idx], cats[idx+1:]...)
	if err := c.store.Save(storage.CollectionCategories, cats); err != nil {
		return err
	}

	slog.Info("deleted category", "id", id, "name", cat.Name, "actor", actor.UserID)
	return nil
}

// checkEditAllowed applies the ownership rules for Update. Non-admins
// may toggle IsActive on a system category but touch nothing else.
func checkEditAllowed(cat *model.Category, actor service.Actor, changes CategoryChanges) error {
	if actor.Admin {
		return nil
	}
	if cat.SystemOwned() {
		if changes.Type != nil {
			return fmt.Errorf("%w: only admins may change the type of system category %q", common.ErrPermission, cat.Name)
		}
		if changes.Name != nil || changes.Icon != nil || changes.Color != nil || changes.Description != nil {
			return fmt.Errorf("%w: only admins may edit system category %q", common.ErrPermission, cat.Name)
		}
		return nil
	}
	if cat.UserID != actor.UserID {
		return fmt.Errorf("%w: category %s belongs to another user", common.ErrPermission, cat.ID)
	}
	return nil
}

// nameTaken reports whether name collides, case-insensitively, with a
// category in owner's effective namespace (owner's own plus system).
// skipID exempts the record being renamed.
func nameTaken(cats []model.Category, name, ownerID, skipID string) bool {
	for _, cat := range cats {
		if cat.ID == skipID {
			continue
		}
		if cat.UserID != model.SystemUserID && cat.UserID != ownerID {
			continue
		}
		if strings.EqualFold(cat.Name, name) {
			return true
		}
	}
	return false
}

func indexByID(cats []model.Category, id string) int {
	for i := range cats {
		if cats[i].ID == id {
			return i
		}
	}
	return -1
}

func categoryIDs(cats []model.Category) []string {
	ids := make([]string, len(cats))
	for i := range cats {
		ids[i] = cats[i].ID
	}
	return ids
}
