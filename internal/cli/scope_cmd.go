package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/scopecurve/internal/cli/formatter"
	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/service"
	"github.com/spf13/cobra"
)

func newScopeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Manage scopes of work",
	}

	cmd.AddCommand(
		newScopeAddCmd(app),
		newScopeEditCmd(app),
		newScopeRemoveCmd(app),
		newScopeListCmd(app),
	)

	return cmd
}

func newScopeAddCmd(app *App) *cobra.Command {
	var (
		id, label, units string
		patch            service.ScopePatch
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a scope at the end of the list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("id") {
				ws, err := app.Workspace.Current(cmd.Context())
				if err != nil {
					return err
				}
				if ws.Model.ScopeIndex(id) >= 0 {
					return fmt.Errorf("scope %q already exists; use \"scope edit\"", id)
				}
			}
			finishScopePatch(cmd.Flags(), &patch, label, units)

			newID, err := upsertScope(cmd, app, id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added scope %s\n", newID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Scope ID (generated when omitted)")
	scopePatchFlags(cmd.Flags(), &patch, &label, &units)

	return cmd
}

func newScopeEditCmd(app *App) *cobra.Command {
	var (
		label, units string
		patch        service.ScopePatch
	)

	cmd := &cobra.Command{
		Use:   "edit SCOPE_ID",
		Short: "Change fields of a scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.Workspace.Current(cmd.Context())
			if err != nil {
				return err
			}
			if ws.Model.ScopeIndex(args[0]) < 0 {
				return fmt.Errorf("%w: %s", service.ErrScopeNotFound, args[0])
			}
			finishScopePatch(cmd.Flags(), &patch, label, units)

			if _, err := upsertScope(cmd, app, args[0], patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated scope %s\n", args[0])
			return nil
		},
	}

	scopePatchFlags(cmd.Flags(), &patch, &label, &units)

	return cmd
}

// upsertScope applies the patch, going through the history-date prompt
// when progress is part of the edit.
func upsertScope(cmd *cobra.Command, app *App, id string, patch service.ScopePatch) (string, error) {
	if !patch.Progress.Set {
		_, id, err := app.Workspace.UpsertScope(cmd.Context(), id, patch)
		return id, err
	}
	_, err := editProgress(cmd, app, func(ctx context.Context) (*service.Workspace, error) {
		ws, newID, err := app.Workspace.UpsertScope(ctx, id, patch)
		id = newID
		return ws, err
	})
	return id, err
}

func newScopeRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm SCOPE_ID",
		Aliases: []string{"remove"},
		Short:   "Remove a scope",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Workspace.RemoveScope(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed scope %s\n", args[0])
			return nil
		},
	}
}

func newScopeListCmd(app *App) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scopes with their weights and derived progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.Workspace.Current(cmd.Context())
			if err != nil {
				return err
			}
			at := dates.Truncate(app.now())
			if asOf != "" {
				if at, err = parseDate(asOf); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScopes(ws.Model, ws.Derived, at))
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Date for the planned column (YYYY-MM-DD, default today)")

	return cmd
}

