package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/phamduc/soquy/internal/cli"
	"github.com/phamduc/soquy/internal/model"
	"github.com/phamduc/soquy/internal/ofx"
)

func importCmd() *cobra.Command {
	var (
		expenseCategory string
		incomeCategory  string
	)

	cmd := &cobra.Command{
		Use:   "import <file.ofx>",
		Short: "Import an OFX/QFX bank statement",
		Long: `Parse a bank statement export and record each line as a transaction.
Debits become expenses and credits become income; every imported
expense reconciles against its budget like a manual entry.`,
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

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer file.Close()

			entries, err := ofx.NewParser().Parse(file)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(cli.FormatInfo("Statement contains no transactions."))
				return nil
			}

			bar := progressbar.Default(int64(len(entries)), "importing")
			imported := 0
			for _, entry := range entries {
				category := expenseCategory
				if entry.Type == model.TypeIncome {
					category = incomeCategory
				}

				_, err := app.Transactions.Add(ctx, model.Transaction{
					UserID:     userID,
					Type:       entry.Type,
					Amount:     entry.Amount,
					CategoryID: category,
					Date:       entry.Date,
					Note:       entry.Note,
				})
				if err != nil {
					return fmt.Errorf("failed to import entry %q: %w", entry.Note, err)
				}
				imported++
				_ = bar.Add(1)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transaction(s)", imported)))
			return nil
		},
	}

	cmd.Flags().StringVar(&expenseCategory, "category", "", "category id for imported expenses")
	cmd.Flags().StringVar(&incomeCategory, "income-category", "", "category id for imported income")

	return cmd
}
