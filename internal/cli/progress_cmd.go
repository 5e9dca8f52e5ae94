package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/scopecurve/internal/cli/formatter"
	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/service"
	"github.com/spf13/cobra"
)

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Record scope progress",
	}
	cmd.AddCommand(newProgressSetCmd(app))
	return cmd
}

func newProgressSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set SCOPE_ID VALUE",
		Short: "Set percent complete, or units to date for unit-tracked scopes",
		Long: `Set the raw progress of one scope. VALUE is a percentage for percent-tracked
scopes and units to date for unit-tracked ones; "none" clears it.

In an interactive terminal a changed project total asks which date the
reading belongs to and records it in history.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			var value *float64
			if !clearWords[args[1]] {
				v, err := parseNumber(args[1])
				if err != nil {
					return err
				}
				value = &v
			}

			ws, err := editProgress(cmd, app, func(ctx context.Context) (*service.Workspace, error) {
				return app.Workspace.SetProgress(ctx, id, value)
			})
			if err != nil {
				return err
			}
			i := ws.Model.ScopeIndex(id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  project total %s\n",
				id, formatter.ProgressText(ws.Model.Scopes[i].Progress), formatter.Pct(ws.Derived.TotalActual))
			return nil
		},
	}
}

// editProgress runs a raw progress edit through the history-date prompt:
// arm, edit, then feed the new total back and ask for a date when the
// prompt fires. Without a terminal the edit is applied alone.
func editProgress(cmd *cobra.Command, app *App, edit func(ctx context.Context) (*service.Workspace, error)) (*service.Workspace, error) {
	ctx := cmd.Context()
	if app.Prompt == nil || !app.PromptEnabled || !app.interactive() {
		return edit(ctx)
	}

	if err := app.Prompt.Arm(ctx); err != nil {
		return nil, err
	}
	ws, err := edit(ctx)
	if err != nil {
		return nil, err
	}
	show, err := app.Prompt.Observe(ctx, ws.Derived.TotalActual)
	if err != nil || !show {
		return ws, err
	}

	date, ok, err := app.askDate(ctx, dates.Truncate(app.now()))
	if err != nil {
		return nil, err
	}
	if !ok {
		return ws, app.Prompt.Dismiss(ctx)
	}
	total, err := app.Prompt.Select(ctx, date)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s in history\n", formatter.Pct(total), dates.Format(date))
	return app.Workspace.Current(ctx)
}
