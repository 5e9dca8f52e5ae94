package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/scopecurve/internal/preset"
	"github.com/alexanderramin/scopecurve/internal/repository"
	"github.com/alexanderramin/scopecurve/internal/service"
	"github.com/alexanderramin/scopecurve/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	kv := repository.NewSQLiteKVRepo(db)
	clock := func() time.Time { return testNow }

	ws := service.NewWorkspaceService(kv, testutil.NewTestUoW(db), "cli", service.WithClock(clock))
	return &App{
		Workspace:     ws,
		Prompt:        service.NewPromptService(kv, ws, "cli", service.WithClock(clock)),
		Presets:       service.NewPresetService(preset.NewCatalog(""), ws),
		PromptEnabled: true,
		Now:           clock,
		AskDate: func(context.Context, time.Time) (time.Time, bool, error) {
			t.Fatal("unexpected history-date prompt")
			return time.Time{}, false, nil
		},
		Confirm: func(string) (bool, error) {
			t.Fatal("unexpected confirmation")
			return false, nil
		},
		CopyText: func(string) error { return errors.New("no clipboard in tests") },
	}
}

func interactive() bool { return true }

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExec(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, "scopecurve %s", strings.Join(args, " "))
	return out
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	out := mustExec(t, testApp(t))
	assert.Contains(t, out, "scopecurve")
	assert.Contains(t, out, "progress")
}

func TestScopeCmd_AddListEdit(t *testing.T) {
	app := testApp(t)

	out := mustExec(t, app, "scope", "add", "--id", "dig", "--label", "Excavate",
		"--start", "2024-01-01", "--end", "2024-01-11", "--cost", "100")
	assert.Equal(t, "Added scope dig\n", out)

	out = mustExec(t, app, "scope", "list")
	assert.Contains(t, out, "Excavate")
	assert.Contains(t, out, "100.00%")
	assert.Contains(t, out, "50.00%")

	mustExec(t, app, "scope", "edit", "dig", "--cost", "none", "--label", "Dig")
	ws, err := app.Workspace.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dig", ws.Model.Scopes[0].Label)
	assert.Nil(t, ws.Model.Scopes[0].Cost)
	assert.NotNil(t, ws.Model.Scopes[0].Start)
}

func TestScopeCmd_AddGeneratesID(t *testing.T) {
	app := testApp(t)
	out := mustExec(t, app, "scope", "add", "--label", "Anon")
	assert.Regexp(t, `^Added scope scope_[0-9a-f]{8}\n$`, out)
}

func TestScopeCmd_Errors(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "scope", "add", "--id", "a")

	_, err := executeCmd(t, app, "scope", "add", "--id", "a")
	assert.ErrorContains(t, err, "already exists")

	_, err = executeCmd(t, app, "scope", "edit", "zzz", "--label", "x")
	assert.ErrorIs(t, err, service.ErrScopeNotFound)

	_, err = executeCmd(t, app, "scope", "edit", "a", "--cost", "abc")
	assert.ErrorContains(t, err, "invalid number")

	_, err = executeCmd(t, app, "scope", "edit", "a", "--start", "2024-02-01", "--end", "2024-01-01")
	assert.ErrorIs(t, err, service.ErrInvalidWindow)

	_, err = executeCmd(t, app, "scope", "rm", "zzz")
	assert.ErrorIs(t, err, service.ErrScopeNotFound)
}

func TestScopeCmd_UnitTracking(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "scope", "add", "--id", "pipe", "--cost", "1", "--units", "Feet", "--total", "200")

	out := mustExec(t, app, "progress", "set", "pipe", "50")
	assert.Equal(t, "pipe 50/200 Feet  project total 25.00%\n", out)
}

func TestProgressCmd_PromptRecordsHistory(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = interactive
	var asked []time.Time
	app.AskDate = func(_ context.Context, suggested time.Time) (time.Time, bool, error) {
		asked = append(asked, suggested)
		return testutil.Day("2024-01-05"), true, nil
	}
	mustExec(t, app, "scope", "add", "--id", "a", "--cost", "1")

	out := mustExec(t, app, "progress", "set", "a", "40")
	assert.Contains(t, out, "Recorded 40.00% for 2024-01-05 in history")
	require.Len(t, asked, 1)
	assert.Equal(t, testutil.Day("2024-01-06"), asked[0])

	ws, err := app.Workspace.Current(context.Background())
	require.NoError(t, err)
	require.Len(t, ws.Model.History, 1)
	assert.Equal(t, 40.0, ws.Model.History[0].ActualPct)

	// answered: no second prompt in the same session today
	mustExec(t, app, "progress", "set", "a", "60")
	assert.Len(t, asked, 1)
}

func TestProgressCmd_DismissSuppresses(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = interactive
	calls := 0
	app.AskDate = func(context.Context, time.Time) (time.Time, bool, error) {
		calls++
		return time.Time{}, false, nil
	}
	mustExec(t, app, "scope", "add", "--id", "a", "--cost", "1")

	mustExec(t, app, "scope", "edit", "a", "--progress", "30")
	mustExec(t, app, "progress", "set", "a", "45")
	assert.Equal(t, 1, calls)

	ws, err := app.Workspace.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ws.Model.History)
}

func TestProgressCmd_NoPromptOutsideTerminal(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "scope", "add", "--id", "a", "--cost", "1")
	out := mustExec(t, app, "progress", "set", "a", "40")
	assert.Equal(t, "a 40.00%  project total 40.00%\n", out)

	out = mustExec(t, app, "progress", "set", "a", "none")
	assert.Equal(t, "a --  project total 0.00%\n", out)
}

func TestProgressCmd_PromptDisabled(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = interactive
	app.PromptEnabled = false
	mustExec(t, app, "scope", "add", "--id", "a", "--cost", "1")
	mustExec(t, app, "progress", "set", "a", "40")
}

func TestProjectCmd_Set(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "set")
	assert.ErrorContains(t, err, "nothing to change")

	out := mustExec(t, app, "project", "set", "--name", "Depot", "--startup", "2024-03-01",
		"--marker", "Handover", "--legend-variance=false")
	assert.Equal(t, "Updated project Depot\n", out)

	out = mustExec(t, app, "status")
	assert.Contains(t, out, "Depot")
	assert.Contains(t, out, "Handover")
	assert.NotContains(t, out, "Variance")
	assert.Contains(t, out, "Planned")
}

func TestDailyCmd(t *testing.T) {
	app := testApp(t)

	assert.Equal(t, "Daily actual 2024-01-03 = 12.50%\n", mustExec(t, app, "daily", "set", "2024-01-03", "12.5%"))
	mustExec(t, app, "daily", "set", "2024-01-04", "20")
	assert.Contains(t, mustExec(t, app, "daily", "list"), "2024-01-04")

	assert.Equal(t, "Cleared daily actual 2024-01-03\n", mustExec(t, app, "daily", "clear", "2024-01-03"))
	assert.Equal(t, "Cleared all daily actuals\n", mustExec(t, app, "daily", "clear"))
	assert.Contains(t, mustExec(t, app, "daily", "list"), "No daily actuals")

	_, err := executeCmd(t, app, "daily", "set", "Jan 3", "5")
	assert.ErrorContains(t, err, "invalid date")
}

func TestHistoryCmd(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "scope", "add", "--id", "a", "--cost", "1", "--progress", "20")

	assert.Equal(t, "Recorded 20.00% for 2024-01-06\n", mustExec(t, app, "history", "record"))
	assert.Equal(t, "Recorded 20.00% for 2024-01-02\n", mustExec(t, app, "history", "record", "2024-01-02"))
	out := mustExec(t, app, "history", "list")
	assert.Less(t, strings.Index(out, "2024-01-02"), strings.Index(out, "2024-01-06"))

	mustExec(t, app, "history", "clear")
	ws, err := app.Workspace.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ws.Model.History)
	assert.Len(t, ws.Model.TimeSeriesScopes, 2)

	assert.Equal(t, "Cleared history and snapshots\n", mustExec(t, app, "history", "clear", "--snapshots"))
	ws, err = app.Workspace.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ws.Model.TimeSeriesScopes)
}

func TestBaselineCmd(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "scope", "add", "--id", "a", "--cost", "1", "--start", "2024-01-01", "--end", "2024-01-04")

	out := mustExec(t, app, "baseline", "take")
	assert.Contains(t, out, "Baseline taken over 5 days")
	assert.Equal(t, "Baseline cleared\n", mustExec(t, app, "baseline", "clear"))

	ws, err := app.Workspace.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ws.Model.Baseline)
}

func TestSectionCmd(t *testing.T) {
	app := testApp(t)
	for _, id := range []string{"a", "b", "c"} {
		mustExec(t, app, "scope", "add", "--id", id)
	}

	out := mustExec(t, app, "section", "add", "1")
	assert.Regexp(t, `^Added Section #1 \(sec_[0-9a-f]{6}\) over rows 1-2\n$`, out)
	assert.Equal(t, "A section already starts at row 1\n", mustExec(t, app, "section", "add", "1"))

	mustExec(t, app, "section", "rename", "1", "Civil")
	assert.Contains(t, mustExec(t, app, "section", "list"), "Civil")

	mustExec(t, app, "section", "move-row", "0", "2")
	ws, err := app.Workspace.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", ws.Model.Scopes[2].ID)
	assert.Equal(t, "Civil", ws.Model.Scopes[2].SectionName)

	mustExec(t, app, "section", "rm", "0")
	assert.Contains(t, mustExec(t, app, "section", "list"), "No sections")

	_, err = executeCmd(t, app, "section", "add", "x")
	assert.ErrorContains(t, err, "invalid row")
	_, err = executeCmd(t, app, "section", "rm", "2")
	assert.Error(t, err)
}

func TestSeriesCmd(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "scope", "add", "--id", "a", "--cost", "100", "--start", "2024-01-01", "--end", "2024-01-11")
	mustExec(t, app, "daily", "set", "2024-01-06", "50")

	out := mustExec(t, app, "series")
	assert.Contains(t, out, "2023-12-31")
	assert.Contains(t, out, "2024-01-11")
	assert.Contains(t, out, "50.00%")
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := testApp(t)
	mustExec(t, src, "preset", "load")
	path := filepath.Join(t.TempDir(), "site.json")

	out := mustExec(t, src, "export", "--format", "json", "--out", path)
	assert.Contains(t, out, "Wrote "+path)

	dst := testApp(t)
	out = mustExec(t, dst, "import", path)
	assert.True(t, strings.HasPrefix(out, "Loaded json (overwrite): 6 scopes; sections PROJECT, SCOPES"), out)

	want, err := src.Workspace.Current(context.Background())
	require.NoError(t, err)
	got, err := dst.Workspace.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.Model.Scopes, got.Model.Scopes)
}

func TestExportCmd_Stdout(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "scope", "add", "--id", "a", "--label", "x, y")

	out := mustExec(t, app, "export")
	assert.True(t, strings.HasPrefix(out, "#PROJECT\n"))
	assert.Contains(t, out, `a,"x, y"`)

	_, err := executeCmd(t, app, "export", "--format", "yaml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestExportCmd_CopyFallsBackToFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "copy.csv")

	out := mustExec(t, app, "export", "--copy", "--out", path)
	assert.Contains(t, out, "Clipboard unavailable")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("#PROJECT")))

	var copied string
	app.CopyText = func(s string) error { copied = s; return nil }
	out = mustExec(t, app, "export", "--copy", "--format", "xml")
	assert.Contains(t, out, "Copied xml export to clipboard")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(copied), "<"))
}

func TestImportCmd_AppendAndErrors(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "scope", "add", "--id", "keep")
	dir := t.TempDir()

	extra := filepath.Join(dir, "extra.csv")
	require.NoError(t, os.WriteFile(extra, []byte("#SCOPES\nscopeId,label\nnew,Added\n"), 0o644))
	out := mustExec(t, app, "import", extra, "--append")
	assert.Equal(t, "Loaded csv (append): 1 scopes; sections SCOPES\n", out)

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("#SCOPES\nscopeId,label\n,nameless\n"), 0o644))
	_, err := executeCmd(t, app, "import", bad)
	assert.ErrorContains(t, err, "scopeId is required")

	_, err = executeCmd(t, app, "import", filepath.Join(dir, "missing.csv"))
	assert.ErrorContains(t, err, "reading")

	ws, err := app.Workspace.Current(context.Background())
	require.NoError(t, err)
	assert.Len(t, ws.Model.Scopes, 2)
}

func TestImportCmd_Stdin(t *testing.T) {
	app := testApp(t)
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetIn(strings.NewReader(`{"scopes": {"scopeId": ["x"], "label": ["From pipe"]}}`))
	root.SetArgs([]string{"import", "-"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Loaded json")
}

func TestPresetCmd(t *testing.T) {
	app := testApp(t)
	assert.Contains(t, mustExec(t, app, "preset", "list"), "Sample site build")
	assert.Equal(t, "Loaded preset Sample site build: 6 scopes\n", mustExec(t, app, "preset", "load", "1"))

	_, err := executeCmd(t, app, "preset", "load", "nope")
	assert.ErrorIs(t, err, preset.ErrNotFound)
}

func TestClearCmd(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "scope", "add", "--id", "a")

	_, err := executeCmd(t, app, "clear")
	assert.ErrorContains(t, err, "--yes")

	app.IsInteractive = interactive
	app.Confirm = func(string) (bool, error) { return false, nil }
	assert.Equal(t, "Cancelled\n", mustExec(t, app, "clear"))

	app.Confirm = func(string) (bool, error) { return true, nil }
	assert.Equal(t, "Project cleared\n", mustExec(t, app, "clear"))
	ws, err := app.Workspace.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ws.Model.Scopes)

	mustExec(t, app, "clear", "--default", "--yes")
	ws, err = app.Workspace.Current(context.Background())
	require.NoError(t, err)
	assert.Len(t, ws.Model.Scopes, 6)
}
