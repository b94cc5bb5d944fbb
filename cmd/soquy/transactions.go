package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phamduc/soquy/internal/cli"
	"github.com/phamduc/soquy/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txn"},
		Short:   "Record and browse transactions",
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(updateTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func addTransactionCmd() *cobra.Command {
	var (
		txnType  string
		amount   float64
		category string
		date     string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new transaction",
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

			txn, err := app.Transactions.Add(ctx, model.Transaction{
				UserID:     userID,
				Type:       model.TransactionType(txnType),
				Amount:     amount,
				CategoryID: category,
				Date:       date,
				Note:       note,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %s (%s)", txn.Type, formatAmount(txn.Amount), txn.ID)))

			// An expense may have pushed its budget under the warning
			// threshold; surface that right away.
			if key, ok := txn.BudgetKey(); ok && txn.Type == model.TypeExpense {
				note, err := app.Alerts.Check(ctx, key)
				if err != nil {
					return err
				}
				if note != nil {
					fmt.Println(cli.FormatWarning(note.Message))
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&txnType, "type", "expense", "transaction type (income, expense)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount")
	cmd.Flags().StringVar(&category, "category", "", "category id")
	cmd.Flags().StringVar(&date, "date", "", "date (default: now)")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		year   int
		month  int
		recent int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `List transactions for a month, or the most recent ones. Year or month 0 means "all".`,
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

			var txns []model.Transaction
			if recent > 0 {
				txns, err = app.Transactions.Recent(ctx, recent, userID)
			} else {
				txns, err = app.Transactions.ByMonth(ctx, year, month)
			}
			if err != nil {
				return err
			}

			if len(txns) == 0 {
				fmt.Println(cli.FormatInfo("No transactions found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Note"))

			for _, txn := range txns {
				if recent == 0 && txn.UserID != userID {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					txn.ID, txn.Date, txn.Type, formatAmount(txn.Amount), txn.CategoryID, txn.Note)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year filter (0 = all)")
	cmd.Flags().IntVar(&month, "month", 0, "month filter (0 = all)")
	cmd.Flags().IntVar(&recent, "recent", 0, "show the N most recent instead")

	return cmd
}

func updateTransactionCmd() *cobra.Command {
	var (
		txnType  string
		amount   float64
		category string
		date     string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a transaction",
		Long: `Replace a transaction's fields. The old budget effect is reverted and
the new one applied, so amounts and categories can be moved safely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			userID, err := requireUser()
			if err != nil {
				return err
			}

			app, err := openLedger(ctx)
			if err != nil {
				return err
			}

			txn, err := app.Transactions.Update(ctx, model.Transaction{
				ID:         args[0],
				UserID:     userID,
				Type:       model.TransactionType(txnType),
				Amount:     amount,
				CategoryID: category,
				Date:       date,
				Note:       note,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %s", txn.ID)))

			if key, ok := txn.BudgetKey(); ok && txn.Type == model.TypeExpense {
				warning, err := app.Alerts.Check(ctx, key)
				if err != nil {
					return err
				}
				if warning != nil {
					fmt.Println(cli.FormatWarning(warning.Message))
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&txnType, "type", "expense", "transaction type (income, expense)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount")
	cmd.Flags().StringVar(&category, "category", "", "category id")
	cmd.Flags().StringVar(&date, "date", "", "date (empty keeps the current one)")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := openLedger(ctx)
			if err != nil {
				return err
			}

			ok, err := app.Transactions.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("No transaction %s", args[0])))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %s", args[0])))
			return nil
		},
	}
}
