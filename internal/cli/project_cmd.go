package cli

import (
	"fmt"

	"github.com/alexanderramin/scopecurve/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Edit project settings",
	}
	cmd.AddCommand(newProjectSetCmd(app))
	return cmd
}

func newProjectSetCmd(app *App) *cobra.Command {
	var (
		name, marker                          string
		patch                                 service.ProjectPatch
		showBaseline, showPlanned, showActual bool
		showVariance                          bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the project name, startup marker and legend visibility",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if fs.NFlag() == 0 {
				return fmt.Errorf("nothing to change: pass at least one flag")
			}
			if fs.Changed("name") {
				patch.Name = &name
			}
			if fs.Changed("marker") {
				patch.MarkerLabel = &marker
			}
			for flag, dst := range map[string]**bool{
				"legend-baseline": &patch.LegendBaseline,
				"legend-planned":  &patch.LegendPlanned,
				"legend-actual":   &patch.LegendActual,
				"legend-variance": &patch.LegendVariance,
			} {
				if !fs.Changed(flag) {
					continue
				}
				v, err := fs.GetBool(flag)
				if err != nil {
					return err
				}
				*dst = &v
			}

			ws, err := app.Workspace.SetProject(cmd.Context(), patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", ws.Model.Project.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().Var(&dateChange{&patch.Startup}, "startup", "Startup marker date (YYYY-MM-DD, none to clear)")
	cmd.Flags().StringVar(&marker, "marker", "", "Label shown at the startup marker")
	cmd.Flags().BoolVar(&showBaseline, "legend-baseline", true, "Show the baseline curve")
	cmd.Flags().BoolVar(&showPlanned, "legend-planned", true, "Show the planned curve")
	cmd.Flags().BoolVar(&showActual, "legend-actual", true, "Show the actual curve")
	cmd.Flags().BoolVar(&showVariance, "legend-variance", true, "Show the schedule variance")

	return cmd
}
