package cli

import (
	"fmt"

	"github.com/alexanderramin/scopecurve/internal/cli/formatter"
	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Record and review aggregate progress readings",
	}

	cmd.AddCommand(
		newHistoryRecordCmd(app),
		newHistoryListCmd(app),
		newHistoryClearCmd(app),
	)

	return cmd
}

func newHistoryRecordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "record [DATE]",
		Short: "Record the current project total for a date (default today)",
		Long: `Record the current cost-weighted total in history for DATE and capture a
snapshot of every scope and section under that date.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := dates.Truncate(app.now())
			if len(args) == 1 {
				d, err := parseDate(args[0])
				if err != nil {
					return err
				}
				date = d
			}
			_, total, err := app.Workspace.RecordHistory(cmd.Context(), date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s\n", formatter.Pct(total), dates.Format(date))
			return nil
		},
	}
}

func newHistoryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.Workspace.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(ws.Model.History))
			return nil
		},
	}
}

func newHistoryClearCmd(app *App) *cobra.Command {
	var timeSeries bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear recorded history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.Workspace.ClearHistory(ctx); err != nil {
				return err
			}
			if timeSeries {
				if _, err := app.Workspace.ClearTimeSeries(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared history and snapshots")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared history")
			return nil
		},
	}

	cmd.Flags().BoolVar(&timeSeries, "snapshots", false, "Also clear the scope, section and project snapshots")

	return cmd
}
