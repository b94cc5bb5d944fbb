package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phamduc/soquy/internal/cli"
	"github.com/phamduc/soquy/internal/ledger"
	"github.com/phamduc/soquy/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage transaction categories",
		Long:    `List, add, update, and delete the categories transactions are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var (
		catType string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible categories",
		Long:  `Show the system categories plus your own. --all includes deactivated ones.`,
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

			cats, err := app.Categories.List(ctx, userID, model.TransactionType(catType), !all)
			if err != nil {
				return err
			}

			if len(cats) == 0 {
				fmt.Println(cli.FormatInfo("No categories found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Owner"),
				cli.HeaderStyle.Render("Active"),
				cli.HeaderStyle.Render("Description"))

			for _, cat := range cats {
				active := "yes"
				if !cat.IsActive {
					active = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\t%s\n",
					cat.ID, cat.Icon, cat.Name, cat.Type, cat.UserID, active, cat.Description)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&catType, "type", "", "filter by type (income, expense)")
	cmd.Flags().BoolVar(&all, "all", false, "include deactivated categories")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		catType     string
		icon        string
		color       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
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

			cat, err := app.Categories.Create(ctx, ledger.NewCategory{
				UserID:      userID,
				Name:        args[0],
				Type:        model.TransactionType(catType),
				Icon:        icon,
				Color:       color,
				Description: description,
				IsActive:    true,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (%s)", cat.Name, cat.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&catType, "type", "expense", "category type (income, expense)")
	cmd.Flags().StringVar(&icon, "icon", "", "icon")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().StringVar(&description, "description", "", "description")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name        string
		catType     string
		icon        string
		color       string
		description string
		active      bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Long: `Change a category's fields. Only flags you pass are applied; system
categories require --admin for anything beyond --active.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := openLedger(ctx)
			if err != nil {
				return err
			}

			var changes ledger.CategoryChanges
			if cmd.Flags().Changed("name") {
				changes.Name = &name
			}
			if cmd.Flags().Changed("type") {
				t := model.TransactionType(catType)
				changes.Type = &t
			}
			if cmd.Flags().Changed("icon") {
				changes.Icon = &icon
			}
			if cmd.Flags().Changed("color") {
				changes.Color = &color
			}
			if cmd.Flags().Changed("description") {
				changes.Description = &description
			}
			if cmd.Flags().Changed("active") {
				changes.IsActive = &active
			}

			cat, err := app.Categories.Update(ctx, args[0], actor(), changes)
			if err != nil {
				return err
			}
			if cat == nil {
				fmt.Println(cli.FormatInfo("Nothing to change."))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %q", cat.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&catType, "type", "", "new type (income, expense)")
	cmd.Flags().StringVar(&icon, "icon", "", "new icon")
	cmd.Flags().StringVar(&color, "color", "", "new color")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().BoolVar(&active, "active", true, "activate or deactivate")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Physically remove a category. System categories require --admin; prefer deactivating with 'update --active=false'.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := openLedger(ctx)
			if err != nil {
				return err
			}

			if err := app.Categories.Delete(ctx, args[0], actor()); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %s", args[0])))
			return nil
		},
	}
}
