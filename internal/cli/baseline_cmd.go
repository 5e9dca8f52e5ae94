package cli

import (
	"fmt"

	"github.com/alexanderramin/scopecurve/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBaselineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Freeze or drop the baseline curve",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "take",
			Short: "Freeze the current planned curve as the baseline",
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := app.Workspace.TakeBaseline(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Baseline taken over %d days at %s\n",
					len(ws.Model.Baseline.Days), formatter.Stamp(ws.Model.Baseline.TakenAt))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Drop the baseline; the baseline curve mirrors the plan again",
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := app.Workspace.ClearBaseline(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Baseline cleared")
				return nil
			},
		},
	)

	return cmd
}
