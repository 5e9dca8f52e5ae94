package cli

import (
	"fmt"

	"github.com/alexanderramin/scopecurve/internal/cli/formatter"
	"github.com/alexanderramin/scopecurve/internal/preset"
	"github.com/spf13/cobra"
)

func newPresetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Start from a preset project",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List available presets",
			RunE: func(cmd *cobra.Command, args []string) error {
				presets, err := app.Presets.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPresetList(presets))
				return nil
			},
		},
		&cobra.Command{
			Use:   "load [ID|NAME|#]",
			Short: "Replace the current project with a preset (default: built-in sample)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				selector := preset.DefaultID
				if len(args) == 1 {
					selector = args[0]
				}
				res, err := app.Presets.Load(cmd.Context(), selector)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded preset %s: %d scopes\n",
					res.Workspace.Model.Project.DisplayName(), len(res.Workspace.Model.Scopes))
				return nil
			},
		},
	)

	return cmd
}
