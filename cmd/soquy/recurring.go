package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/phamduc/soquy/internal/cli"
	"github.com/phamduc/soquy/internal/ledger"
	"github.com/phamduc/soquy/internal/model"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring transactions",
		Long:  `Recurring rules record a transaction on a schedule; run 'sweep' to materialize the due ones.`,
	}

	cmd.AddCommand(addRecurringCmd())
	cmd.AddCommand(listRecurringCmd())
	cmd.AddCommand(sweepRecurringCmd())
	cmd.AddCommand(deleteRecurringCmd())

	return cmd
}

func addRecurringCmd() *cobra.Command {
	var (
		txnType   string
		amount    float64
		category  string
		note      string
		frequency string
		start     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recurring rule",
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

			var startAt time.Time
			if start != "" {
				startAt, err = model.ParseDate(start)
				if err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}

			rule, err := app.Recurring.Create(ctx, ledger.NewRule{
				UserID:     userID,
				Type:       model.TransactionType(txnType),
				Amount:     amount,
				CategoryID: category,
				Note:       note,
				Frequency:  model.RecurringFrequency(frequency),
				Start:      startAt,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Recurring %s of %s created (%s), next run %s",
				rule.Type, formatAmount(rule.Amount), rule.ID, rule.NextRun)))
			return nil
		},
	}

	cmd.Flags().StringVar(&txnType, "type", "expense", "transaction type (income, expense)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount per occurrence")
	cmd.Flags().StringVar(&category, "category", "", "category id")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	cmd.Flags().StringVar(&frequency, "frequency", "monthly", "weekly or monthly")
	cmd.Flags().StringVar(&start, "start", "", "first occurrence (default: now)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func listRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring rules",
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

			rules, err := app.Recurring.List(ctx, userID)
			if err != nil {
				return err
			}

			if len(rules) == 0 {
				fmt.Println(cli.FormatInfo("No recurring rules."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Frequency"),
				cli.HeaderStyle.Render("Next run"),
				cli.HeaderStyle.Render("Active"))

			for _, rule := range rules {
				active := "yes"
				if !rule.IsActive {
					active = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					rule.ID, rule.Type, formatAmount(rule.Amount),
					rule.CategoryID, rule.Frequency, rule.NextRun, active)
			}

			return nil
		},
	}
}

func sweepRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Materialize due recurring rules",
		Long:  `Record a transaction for every active rule whose next run is due, advancing its schedule.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := openLedger(ctx)
			if err != nil {
				return err
			}

			created, err := app.Recurring.Sweep(ctx, time.Now())
			if err != nil {
				return err
			}

			if created == 0 {
				fmt.Println(cli.FormatInfo("Nothing due."))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %d transaction(s)", created)))
			return nil
		},
	}
}

func deleteRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recurring rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := openLedger(ctx)
			if err != nil {
				return err
			}

			if err := app.Recurring.Delete(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted recurring rule %s", args[0])))
			return nil
		},
	}
}
