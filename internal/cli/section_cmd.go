package cli

import (
	"fmt"

	"github.com/alexanderramin/scopecurve/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSectionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Group adjacent scopes into sections",
		Long: `Sections are runs of adjacent scopes sharing a name. Rows are addressed by
the ROW number shown by "scope list"; a section is addressed by its first row.`,
	}

	cmd.AddCommand(
		newSectionAddCmd(app),
		newSectionRemoveCmd(app),
		newSectionRenameCmd(app),
		newSectionMoveRowCmd(app),
		newSectionMoveHeaderCmd(app),
		newSectionListCmd(app),
	)

	return cmd
}

func newSectionAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add ROW",
		Short: "Start a new section at ROW",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseRow(args[0])
			if err != nil {
				return err
			}
			_, sec, created, err := app.Workspace.AddSection(cmd.Context(), row)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "A section already starts at row %d\n", row)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) over rows %d-%d\n", sec.Name, sec.ID, sec.Start, sec.End-1)
			return nil
		},
	}
}

func newSectionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ROW",
		Aliases: []string{"remove"},
		Short:   "Dissolve the section starting at ROW into the one above",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseRow(args[0])
			if err != nil {
				return err
			}
			if _, err := app.Workspace.RemoveSection(cmd.Context(), row); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed section at row %d\n", row)
			return nil
		},
	}
}

func newSectionRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ROW NAME",
		Short: "Rename the section starting at ROW; its ID is kept",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseRow(args[0])
			if err != nil {
				return err
			}
			if _, err := app.Workspace.RenameSection(cmd.Context(), row, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed section at row %d to %s\n", row, args[1])
			return nil
		},
	}
}

func newSectionMoveRowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move-row FROM TO",
		Short: "Move one scope; it joins the section of its new neighbours",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseRow(args[0])
			if err != nil {
				return err
			}
			to, err := parseRow(args[1])
			if err != nil {
				return err
			}
			if _, err := app.Workspace.MoveRow(cmd.Context(), from, to); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved row %d to %d\n", from, to)
			return nil
		},
	}
}

func newSectionMoveHeaderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move-header ROW TO",
		Short: "Move the section starting at ROW, with all its scopes, to TO",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseRow(args[0])
			if err != nil {
				return err
			}
			to, err := parseRow(args[1])
			if err != nil {
				return err
			}
			if _, err := app.Workspace.MoveHeader(cmd.Context(), row, to); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved section at row %d to %d\n", row, to)
			return nil
		},
	}
}

func newSectionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sections with their rollups",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.Workspace.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSections(ws.Derived.Sections))
			return nil
		},
	}
}
