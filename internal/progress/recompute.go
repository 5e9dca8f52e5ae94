package progress

import (
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
)

// LegendStats is the summary shown next to the chart.
type LegendStats struct {
	AsOf         time.Time
	BaselinePct  *float64
	PlannedPct   float64
	ActualPct    float64
	// DaysRelative is the schedule variance in days; nil when unknown.
	DaysRelative *float64
	DaysRelText  string
}

// Derived is everything the render layer draws. The four series are
// index-aligned with Days.
type Derived struct {
	Days        []time.Time
	Baseline    []*float64
	Planned     []float64
	Actual      []*float64
	Weights     []float64
	PerDay      []float64
	TotalActual float64

	// DaysRelative is nil when no actual reading exists.
	DaysRelative *float64
	Legend       LegendStats
	Sections     []SectionRollup
}

// Recompute derives every series from the model. It does not modify the model.
func Recompute(m *domain.Model, today time.Time) *Derived {
	today = dates.Truncate(today)
	weights := ScopeWeightings(m.Scopes)
	perDay := PlannedDailyOverall(m.Scopes, weights)
	d := &Derived{
		Weights:     weights,
		PerDay:      perDay,
		TotalActual: TotalActualProgress(m.Scopes, weights),
		Sections:    SectionRollups(m.Scopes, weights, today),
	}

	days := BuildDateRange(m)
	if len(days) == 0 {
		zero := 0.0
		d.Days = []time.Time{today}
		d.Planned = []float64{0}
		d.Actual = []*float64{&zero}
		d.Baseline = BaselineSeries(m.Baseline, d.Days, d.Planned)
		d.DaysRelative = DaysRelativeToPlan(d.Planned, d.Actual)
		d.Legend = legend(d, today)
		return d
	}

	d.Days = days
	d.Planned = PlannedSeriesByDay(days, m.Scopes, perDay)
	d.Actual = ActualSeriesByDay(days, KnownActuals(m))
	d.Baseline = BaselineSeries(m.Baseline, days, d.Planned)
	d.DaysRelative = DaysRelativeToPlan(d.Planned, d.Actual)
	d.Legend = legend(d, today)
	return d
}

// legend reads the curves at today, clamped into the day axis.
func legend(d *Derived, today time.Time) LegendStats {
	idx := len(d.Days) - 1
	for i, day := range d.Days {
		if day.After(today) {
			idx = max(i-1, 0)
			break
		}
	}
	return LegendStats{
		AsOf:         d.Days[idx],
		BaselinePct:  d.Baseline[idx],
		PlannedPct:   d.Planned[idx],
		ActualPct:    d.TotalActual,
		DaysRelative: d.DaysRelative,
		DaysRelText:  DaysRelativeText(d.DaysRelative),
	}
}
