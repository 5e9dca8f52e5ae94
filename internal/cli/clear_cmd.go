package cli

import (
	"fmt"

	"github.com/alexanderramin/scopecurve/internal/preset"
	"github.com/spf13/cobra"
)

func newClearCmd(app *App) *cobra.Command {
	var toDefault, yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard the current project",
		Long: `Discard the current project and start blank, or from the built-in sample
with --default. Asks for confirmation in a terminal unless --yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to clear without --yes outside a terminal")
				}
				ok, err := app.confirm("Discard the current project?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if toDefault {
				if _, err := app.Presets.Load(cmd.Context(), preset.DefaultID); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Project reset to the built-in sample")
				return nil
			}
			if _, err := app.Workspace.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Project cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&toDefault, "default", false, "Start from the built-in sample project")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation")

	return cmd
}
