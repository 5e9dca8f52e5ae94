package formatter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/progress"
)

// ProgressText renders the raw progress of a scope: a percentage, or units
// to date over the total with the unit label.
func ProgressText(p domain.Progress) string {
	if u, ok := p.(domain.UnitProgress); ok {
		return fmt.Sprintf("%s/%s %s", Number(u.ToDate), strconv.FormatFloat(u.Total, 'f', -1, 64), u.Label)
	}
	return OptPct(domain.ProgressValue(p))
}

// FormatScopes renders the scope grid in display order with the derived
// weight, actual, planned and per-day columns.
func FormatScopes(m *domain.Model, d *progress.Derived, asOf time.Time) string {
	if len(m.Scopes) == 0 {
		return Dim("No scopes.") + "\n"
	}
	rows := make([][]string, 0, len(m.Scopes))
	for i, s := range m.Scopes {
		section := Dim(Blank)
		if !s.Unsectioned() {
			section = s.SectionName
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			s.ID,
			s.Label,
			section,
			Date(s.Start),
			Date(s.End),
			Number(s.Cost),
			Pct(d.Weights[i] * 100),
			ProgressText(s.Progress),
			Pct(s.ActualPct()),
			Pct(progress.ScopePlannedPctToDate(s, asOf)),
			Rate(d.PerDay[i]),
		})
	}
	return Table{
		Headers: []string{"ROW", "ID", "LABEL", "SECTION", "START", "END", "COST", "WEIGHT", "PROGRESS", "ACTUAL", "PLANNED", "PER DAY"},
		Rows:    rows,
		Right:   map[int]bool{0: true, 6: true, 7: true, 8: true, 9: true, 10: true, 11: true},
	}.Render()
}

// FormatSections renders the section rollups.
func FormatSections(rollups []progress.SectionRollup) string {
	if len(rollups) == 0 {
		return Dim("No sections.") + "\n"
	}
	rows := make([][]string, 0, len(rollups))
	for _, r := range rollups {
		rows = append(rows, []string{
			strconv.Itoa(r.Section.Start),
			r.ID,
			r.Name,
			strconv.Itoa(r.Len()),
			Date(r.Start),
			Date(r.End),
			Pct(r.Weight * 100),
			Pct(r.ActualPct),
			Pct(r.PlannedPct),
		})
	}
	return Table{
		Headers: []string{"ROW", "ID", "NAME", "SCOPES", "START", "END", "WEIGHT", "ACTUAL", "PLANNED"},
		Rows:    rows,
		Right:   map[int]bool{0: true, 3: true, 6: true, 7: true, 8: true},
	}.Render()
}
