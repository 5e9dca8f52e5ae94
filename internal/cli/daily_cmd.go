package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/scopecurve/internal/cli/formatter"
	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/spf13/cobra"
)

func newDailyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Manage per-day actual progress overrides",
	}

	cmd.AddCommand(
		newDailySetCmd(app),
		newDailyClearCmd(app),
		newDailyListCmd(app),
	)

	return cmd
}

func newDailySetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set DATE PERCENT",
		Short: "Set the project actual percent for a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(args[0])
			if err != nil {
				return err
			}
			pct, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			ws, err := app.Workspace.SetDailyActual(cmd.Context(), date, pct)
			if err != nil {
				return err
			}
			key := dates.Format(date)
			fmt.Fprintf(cmd.OutOrStdout(), "Daily actual %s = %s\n", key, formatter.Pct(ws.Model.DailyActuals[key]))
			return nil
		},
	}
}

func newDailyClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [DATE]",
		Short: "Clear one daily actual, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date *time.Time
			if len(args) == 1 {
				d, err := parseDate(args[0])
				if err != nil {
					return err
				}
				date = &d
			}
			if _, err := app.Workspace.ClearDailyActuals(cmd.Context(), date); err != nil {
				return err
			}
			if date == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared all daily actuals")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared daily actual %s\n", dates.Format(*date))
			return nil
		},
	}
}

func newDailyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List daily actuals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.Workspace.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDailyActuals(ws.Model.DailyActuals))
			return nil
		},
	}
}
