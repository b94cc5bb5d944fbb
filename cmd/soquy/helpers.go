package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/viper"

	"github.com/phamduc/soquy/internal/common"
	"github.com/phamduc/soquy/internal/config"
	"github.com/phamduc/soquy/internal/ledger"
	"github.com/phamduc/soquy/internal/service"
	"github.com/phamduc/soquy/internal/storage"
)

// app bundles the wired stores a command works against.
type app struct {
	Categories    *ledger.Categories
	Budgets       *ledger.Budgets
	Transactions  *ledger.Transactions
	Recurring     *ledger.Recurring
	Notifications *ledger.Notifications
	Alerts        *ledger.BudgetAlerts
}

// openLedger builds the store stack against the configured data
// directory and seeds the default categories on first run.
func openLedger(ctx context.Context) (*app, error) {
	dir := viper.GetString("data.dir")
	if dir == "" {
		dir = config.DefaultDataDir()
	}

	store, err := storage.NewStore(config.ExpandPath(dir))
	if err != nil {
		return nil, common.NewUserError("failed to open ledger", err)
	}

	categories := ledger.NewCategories(store)
	budgets := ledger.NewBudgets(store)
	transactions := ledger.NewTransactions(store, budgets)
	notifications := ledger.NewNotifications(store)

	if err := categories.EnsureDefaults(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	return &app{
		Categories:    categories,
		Budgets:       budgets,
		Transactions:  transactions,
		Recurring:     ledger.NewRecurring(store, transactions),
		Notifications: notifications,
		Alerts:        ledger.NewBudgetAlerts(budgets, notifications),
	}, nil
}

// actor returns who is running the command, from --user/--admin or
// their config equivalents.
func actor() service.Actor {
	return service.Actor{
		UserID: viper.GetString("user.id"),
		Admin:  viper.GetBool("user.admin"),
	}
}

// requireUser returns the acting user id, failing when none was given.
func requireUser() (string, error) {
	id := viper.GetString("user.id")
	if id == "" {
		return "", fmt.Errorf("--user is required (or set user.id in the config)")
	}
	return id, nil
}

// formatAmount renders an amount without a trailing zero tail.
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
