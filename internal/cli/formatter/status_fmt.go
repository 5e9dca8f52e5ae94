package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/progress"
)

const statusProgressBarWidth = 20

// FormatStatus renders the project summary: identity, the legend stats
// honouring the legend visibility flags, and counts of stored readings.
func FormatStatus(m *domain.Model, d *progress.Derived) string {
	var b strings.Builder

	b.WriteString(Bold(m.Project.DisplayName()) + "\n")
	if m.Project.Startup != nil {
		label := domain.CoalesceStr(m.Project.MarkerLabel, "Startup")
		fmt.Fprintf(&b, "%s %s\n", Dim(label+":"), dates.Format(*m.Project.Startup))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s\n\n", Dim("As of"), dates.Format(d.Legend.AsOf))
	b.WriteString(FormatLegend(m.Project.Legend, d.Legend))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s\n", Dim("Total"), RenderProgress(d.TotalActual, statusProgressBarWidth))
	fmt.Fprintf(&b, "%s %d scopes, %d sections, %d history, %d daily actuals\n",
		Dim("Holds"), len(m.Scopes), len(d.Sections), len(m.History), len(m.DailyActuals))
	if m.Baseline != nil {
		fmt.Fprintf(&b, "%s taken %s\n", Dim("Baseline"), Stamp(m.Baseline.TakenAt))
	}

	return RenderBox("Status", b.String())
}

// FormatLegend lists the visible legend entries.
func FormatLegend(show domain.Legend, s progress.LegendStats) string {
	var rows [][]string
	if show.Baseline {
		rows = append(rows, []string{StyleBaseline.Render("Baseline"), OptPct(s.BaselinePct)})
	}
	if show.Planned {
		rows = append(rows, []string{StylePlanned.Render("Planned"), Pct(s.PlannedPct)})
	}
	if show.Actual {
		rows = append(rows, []string{StyleActual.Render("Actual"), Pct(s.ActualPct)})
	}
	if show.Variance {
		rows = append(rows, []string{Bold("Variance"), VarianceStyle(s.DaysRelative).Render(s.DaysRelText)})
	}
	if len(rows) == 0 {
		return Dim("(legend hidden)") + "\n"
	}

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "  %-10s %s\n", r[0], r[1])
	}
	return b.String()
}
