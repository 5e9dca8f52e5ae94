package cli

import (
	"fmt"

	"github.com/alexanderramin/scopecurve/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the legend summary of the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.Workspace.Current(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatStatus(ws.Model, ws.Derived))
			if !all {
				return nil
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.Header("Scopes"))
			fmt.Fprint(out, formatter.FormatScopes(ws.Model, ws.Derived, ws.Derived.Legend.AsOf))
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.Header("Sections"))
			fmt.Fprint(out, formatter.FormatSections(ws.Derived.Sections))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Also list scopes and sections")

	return cmd
}

func newSeriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "Print the daily baseline, planned and actual curves",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.Workspace.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSeries(ws.Derived))
			return nil
		},
	}
}
