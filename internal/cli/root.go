package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/scopecurve/internal/service"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// App holds the service ports and terminal hooks used by CLI commands.
type App struct {
	Workspace service.WorkspaceService
	Prompt    service.PromptService
	Presets   service.PresetService

	// PromptEnabled turns on the history-date prompt after progress edits.
	PromptEnabled bool
	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// The hooks below default to huh forms, the system clipboard and the
	// wall clock. Tests replace them.
	Now      func() time.Time
	AskDate  func(ctx context.Context, suggested time.Time) (date time.Time, ok bool, err error)
	Confirm  func(title string) (bool, error)
	CopyText func(text string) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) askDate(ctx context.Context, suggested time.Time) (time.Time, bool, error) {
	if a.AskDate != nil {
		return a.AskDate(ctx, suggested)
	}
	return askHistoryDate(ctx, suggested)
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	return confirm(title)
}

func (a *App) copyText(text string) error {
	if a.CopyText != nil {
		return a.CopyText(text)
	}
	return clipboard.WriteAll(text)
}

// NewRootCmd creates the top-level "scopecurve" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "scopecurve",
		Short: "Cost-weighted S-curve progress tracker",
		Long: `scopecurve tracks a construction-style project as weighted scopes of work
and derives cumulative planned, baseline and actual progress curves.

Each terminal session keeps its own project; edits are saved after every command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newStatusCmd(app),
		newSeriesCmd(app),
		newProjectCmd(app),
		newScopeCmd(app),
		newProgressCmd(app),
		newDailyCmd(app),
		newHistoryCmd(app),
		newBaselineCmd(app),
		newSectionCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newPresetCmd(app),
		newClearCmd(app),
	)

	return root
}
