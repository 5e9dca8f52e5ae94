package service

import (
	"context"
	"time"

	"github.com/alexanderramin/scopecurve/internal/codec"
	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/preset"
	"github.com/alexanderramin/scopecurve/internal/progress"
	"github.com/alexanderramin/scopecurve/internal/section"
)

// Workspace is a model together with everything derived from it.
type Workspace struct {
	Model   *domain.Model
	Derived *progress.Derived
}

// LoadResult holds the outcome of a load.
type LoadResult struct {
	Workspace *Workspace
	Format    codec.Format
	Mode      domain.LoadMode
	Sections  []codec.Section
	Scopes    int
}

type WorkspaceService interface {
	Current(ctx context.Context) (*Workspace, error)
	Load(ctx context.Context, data []byte, format codec.Format, mode domain.LoadMode) (*LoadResult, error)
	Export(ctx context.Context, format codec.Format) ([]byte, error)
	Reset(ctx context.Context) (*Workspace, error)

	SetProject(ctx context.Context, patch ProjectPatch) (*Workspace, error)
	UpsertScope(ctx context.Context, id string, patch ScopePatch) (*Workspace, string, error)
	RemoveScope(ctx context.Context, id string) (*Workspace, error)
	SetProgress(ctx context.Context, id string, value *float64) (*Workspace, error)

	SetDailyActual(ctx context.Context, date time.Time, pct float64) (*Workspace, error)
	ClearDailyActuals(ctx context.Context, date *time.Time) (*Workspace, error)
	RecordHistory(ctx context.Context, date time.Time) (*Workspace, float64, error)
	ClearHistory(ctx context.Context) (*Workspace, error)
	ClearTimeSeries(ctx context.Context) (*Workspace, error)
	TakeBaseline(ctx context.Context) (*Workspace, error)
	ClearBaseline(ctx context.Context) (*Workspace, error)

	AddSection(ctx context.Context, row int) (*Workspace, section.Section, bool, error)
	RemoveSection(ctx context.Context, row int) (*Workspace, error)
	RenameSection(ctx context.Context, row int, name string) (*Workspace, error)
	MoveRow(ctx context.Context, from, to int) (*Workspace, error)
	MoveHeader(ctx context.Context, row, to int) (*Workspace, error)
}

type PromptService interface {
	// Arm marks that a raw progress edit happened.
	Arm(ctx context.Context) error
	// Observe feeds the recomputed total and reports whether to ask for a
	// history date now.
	Observe(ctx context.Context, total float64) (bool, error)
	// Select records history for the chosen date and suppresses prompting.
	Select(ctx context.Context, date time.Time) (float64, error)
	// Dismiss closes the prompt without recording anything.
	Dismiss(ctx context.Context) error
}

type PresetService interface {
	List(ctx context.Context) ([]preset.Preset, error)
	Load(ctx context.Context, selector string) (*LoadResult, error)
}
