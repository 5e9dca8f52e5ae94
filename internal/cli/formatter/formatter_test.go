package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/preset"
	"github.com/alexanderramin/scopecurve/internal/progress"
	"github.com/alexanderramin/scopecurve/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderProgress_Clamps(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		width int
		want  string
	}{
		{"empty", 0, 4, "[░░░░]   0.00%"},
		{"half", 50, 4, "[██░░]  50.00%"},
		{"full", 100, 4, "[████] 100.00%"},
		{"over", 150, 4, "[████] 100.00%"},
		{"negative", -3, 4, "[░░░░]   0.00%"},
		{"tiny width", 50, 1, "[█░]  50.00%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderProgress(tt.pct, tt.width)))
		})
	}
}

func TestTable_RightAlignsNumbers(t *testing.T) {
	out := stripANSI(Table{
		Headers: []string{"A", "N"},
		Rows:    [][]string{{"x", "1"}, {"yy", "100"}},
		Right:   map[int]bool{1: true},
	}.Render())

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A     N", lines[0])
	assert.Equal(t, "──  ───", lines[1])
	assert.Equal(t, "x     1", lines[2])
	assert.Equal(t, "yy  100", lines[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestProgressText(t *testing.T) {
	assert.Equal(t, "40.00%", ProgressText(domain.PercentProgress{Pct: domain.Float64Ptr(40)}))
	assert.Equal(t, Blank, ProgressText(domain.PercentProgress{}))
	assert.Equal(t, "50/200 Feet", ProgressText(domain.UnitProgress{ToDate: domain.Float64Ptr(50), Total: 200, Label: domain.UnitsFeet}))
	assert.Equal(t, "--/12.5 Qty", ProgressText(domain.UnitProgress{Total: 12.5, Label: domain.UnitsQty}))
}

func TestFormatLegend_HonoursVisibility(t *testing.T) {
	stats := progress.LegendStats{PlannedPct: 50, ActualPct: 25, DaysRelText: "2.0 days behind"}

	all := stripANSI(FormatLegend(domain.DefaultLegend(), stats))
	assert.Contains(t, all, "Baseline")
	assert.Contains(t, all, Blank)
	assert.Contains(t, all, "50.00%")
	assert.Contains(t, all, "2.0 days behind")

	some := stripANSI(FormatLegend(domain.Legend{Actual: true}, stats))
	assert.NotContains(t, some, "Planned")
	assert.Contains(t, some, "25.00%")

	assert.Contains(t, FormatLegend(domain.Legend{}, stats), "legend hidden")
}

func TestFormatStatus(t *testing.T) {
	m := testutil.RichModel()
	d := progress.Recompute(m, testutil.Day("2024-01-06"))

	out := stripANSI(FormatStatus(m, d))
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "Tower, B")
	assert.Contains(t, out, "Go-live: 2024-02-01")
	assert.Contains(t, out, "4 scopes, 2 sections, 1 history, 2 daily actuals")
	assert.NotContains(t, out, "Variance")
}

func TestFormatScopes(t *testing.T) {
	m := testutil.RichModel()
	asOf := testutil.Day("2024-01-06")
	d := progress.Recompute(m, asOf)

	out := stripANSI(FormatScopes(m, d, asOf))
	assert.Contains(t, out, "PER DAY")
	assert.Contains(t, out, "50/200 Feet")
	assert.Contains(t, out, "25.00%")
	assert.Contains(t, out, "Electrical")

	assert.Contains(t, FormatScopes(domain.NewModel(), progress.Recompute(domain.NewModel(), asOf), asOf), "No scopes")
}

func TestFormatSections(t *testing.T) {
	m := testutil.RichModel()
	d := progress.Recompute(m, testutil.Day("2024-01-06"))

	out := stripANSI(FormatSections(d.Sections))
	assert.Contains(t, out, "sec_aaa111")
	assert.Contains(t, out, "Civil")
	assert.Contains(t, out, "2024-01-20")
	assert.Contains(t, FormatSections(nil), "No sections")
}

func TestFormatSeries_OneRowPerDay(t *testing.T) {
	m := testutil.NewTestModel(testutil.NewTestScope("a", testutil.WithWindow("2024-01-01", "2024-01-11"), testutil.WithCost(100)))
	m.DailyActuals["2024-01-06"] = 50
	d := progress.Recompute(m, testutil.Day("2024-01-06"))

	out := stripANSI(FormatSeries(d))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, len(d.Days)+2)
	assert.True(t, strings.HasPrefix(lines[2], "2023-12-31"))
	assert.Contains(t, lines[2], "0.00%")
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], Blank))
}

func TestFormatHistoryAndDaily(t *testing.T) {
	m := testutil.RichModel()
	assert.Contains(t, stripANSI(FormatHistory(m.History)), "20.25%")
	assert.Contains(t, FormatHistory(nil), "No history")

	daily := stripANSI(FormatDailyActuals(m.DailyActuals))
	assert.Less(t, strings.Index(daily, "2024-01-04"), strings.Index(daily, "2024-01-08"))
	assert.Contains(t, FormatDailyActuals(nil), "No daily actuals")
}

func TestFormatPresetList(t *testing.T) {
	out := stripANSI(FormatPresetList([]preset.Preset{
		{Index: 1, ID: "default", Name: "Sample site build", Description: "Built-in"},
		{Index: 2, ID: "pipe", Name: "Pipe job"},
	}))
	assert.Contains(t, out, "Sample site build")
	assert.Contains(t, out, "pipe")
	assert.Contains(t, out, Blank)
}
