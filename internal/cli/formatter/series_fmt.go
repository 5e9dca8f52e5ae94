package formatter

import (
	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/progress"
)

// FormatSeries renders the daily table behind the chart: one row per day
// of the axis with the cumulative baseline, planned and actual curves.
func FormatSeries(d *progress.Derived) string {
	rows := make([][]string, 0, len(d.Days))
	for i, day := range d.Days {
		date := dates.Format(day)
		if day.Equal(d.Legend.AsOf) {
			date = Bold(date)
		}
		rows = append(rows, []string{
			date,
			StyleBaseline.Render(OptPct(d.Baseline[i])),
			StylePlanned.Render(Pct(d.Planned[i])),
			StyleActual.Render(OptPct(d.Actual[i])),
		})
	}
	return Table{
		Headers: []string{"DATE", "BASELINE", "PLANNED", "ACTUAL"},
		Rows:    rows,
		Right:   map[int]bool{1: true, 2: true, 3: true},
	}.Render()
}

// FormatHistory renders the recorded history readings, oldest first.
func FormatHistory(history []domain.HistoryEntry) string {
	if len(history) == 0 {
		return Dim("No history recorded.") + "\n"
	}
	rows := make([][]string, 0, len(history))
	for _, h := range history {
		rows = append(rows, []string{dates.Format(h.Date), Pct(h.ActualPct)})
	}
	return Table{
		Headers: []string{"DATE", "ACTUAL"},
		Rows:    rows,
		Right:   map[int]bool{1: true},
	}.Render()
}

// FormatDailyActuals renders the per-day actual overrides in date order.
func FormatDailyActuals(daily map[string]float64) string {
	if len(daily) == 0 {
		return Dim("No daily actuals.") + "\n"
	}
	keys := domain.SortedKeys(daily)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, Pct(daily[k])})
	}
	return Table{
		Headers: []string{"DATE", "ACTUAL"},
		Rows:    rows,
		Right:   map[int]bool{1: true},
	}.Render()
}
