package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/phamduc/soquy/internal/cli"
	"github.com/phamduc/soquy/internal/ledger"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage monthly category budgets",
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(listBudgetsCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	var (
		category string
		year     int
		month    int
		limit    float64
	)

	now := time.Now()

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or change a budget",
		Long: `Set the spending limit for one category in one month. A new budget
starts with the full limit remaining; raising or lowering the limit of
an existing budget keeps what was already spent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			userID, err := requireUser()
			if err != nil {
				return err
			}

			app, err := openLedger(ctx)
			if err != nil {
				return err
			}

			budget, err := app.Budgets.Set(ctx, ledger.BudgetDefinition{
				UserID:     userID,
				CategoryID: category,
				Year:       year,
				Month:      month,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Budget for %s %d-%02d set to %s (%s remaining)",
				budget.CategoryID, budget.Year, budget.Month,
				formatAmount(budget.Limit), formatAmount(budget.Remaining))))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category id")
	cmd.Flags().IntVar(&year, "year", now.Year(), "budget year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "budget month")
	cmd.Flags().Float64Var(&limit, "limit", 0, "spending limit")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("limit")

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			userID, err := requireUser()
			if err != nil {
				return err
			}

			app, err := openLedger(ctx)
			if err != nil {
				return err
			}

			budgets, err := app.Budgets.List(ctx, userID)
			if err != nil {
				return err
			}

			if len(budgets) == 0 {
				fmt.Println(cli.FormatInfo("No budgets found. Use 'soquy budgets set' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Month"),
				cli.HeaderStyle.Render("Limit"),
				cli.HeaderStyle.Render("Remaining"),
				cli.HeaderStyle.Render(""))

			for _, budget := range budgets {
				remaining := formatAmount(budget.Remaining)
				note := ""
				switch {
				case budget.Remaining < 0:
					remaining = cli.ErrorStyle.Render(remaining)
					note = cli.ErrorStyle.Render("overspent")
				case budget.Limit > 0 && budget.Remaining <= budget.Limit*0.2:
					remaining = cli.WarningStyle.Render(remaining)
					note = cli.WarningStyle.Render("running low")
				}
				fmt.Fprintf(w, "%s\t%d-%02d\t%s\t%s\t%s\n",
					budget.CategoryID, budget.Year, budget.Month,
					formatAmount(budget.Limit), remaining, note)
			}

			return nil
		},
	}
}
