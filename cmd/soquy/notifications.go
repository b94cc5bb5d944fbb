package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phamduc/soquy/internal/cli"
)

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Review budget warnings and other messages",
	}

	cmd.AddCommand(listNotificationsCmd())
	cmd.AddCommand(markReadCmd())

	return cmd
}

func listNotificationsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
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

			notes, err := app.Notifications.List(ctx, userID, !all)
			if err != nil {
				return err
			}

			if len(notes) == 0 {
				fmt.Println(cli.FormatInfo("No notifications."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			for _, note := range notes {
				marker := cli.WarningStyle.Render("●")
				if note.IsRead {
					marker = cli.SubtleStyle.Render("○")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, note.ID, note.CreatedAt, note.Message)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include read notifications")

	return cmd
}

func markReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := openLedger(ctx)
			if err != nil {
				return err
			}

			if err := app.Notifications.MarkRead(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Marked as read"))
			return nil
		},
	}
}
