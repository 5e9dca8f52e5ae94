package progress

import (
	"sort"
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
)

// KnownActuals merges every actual reading into one date-keyed map: a zero
// seed the day before the earliest start, then daily actuals, then history.
// History wins over a daily actual on the same date.
func KnownActuals(m *domain.Model) map[string]float64 {
	known := map[string]float64{}
	if earliest := EarliestStart(m.Scopes); earliest != nil {
		known[dates.Format(dates.AddDays(*earliest, -1))] = 0
	}
	for key, v := range m.DailyActuals {
		d, ok := dates.Parse(key)
		if !ok {
			continue
		}
		known[dates.Format(d)] = domain.ClampPct(v)
	}
	for _, h := range m.History {
		known[dates.Format(h.Date)] = domain.ClampPct(h.ActualPct)
	}
	return known
}

// LastActualDate is the newest date carrying a known actual, nil if none.
func LastActualDate(known map[string]float64) *time.Time {
	var last *time.Time
	for key := range known {
		d, ok := dates.Parse(key)
		if ok && (last == nil || d.After(*last)) {
			last = &d
		}
	}
	return last
}

type anchor struct {
	day time.Time
	pct float64
}

// ActualSeriesByDay lays the known readings onto the day axis, linearly
// interpolating between consecutive readings that fall inside the axis.
// Readings outside it are ignored. Days before the first or after the last
// reading stay nil; the curve never extrapolates.
func ActualSeriesByDay(days []time.Time, known map[string]float64) []*float64 {
	out := make([]*float64, len(days))
	if len(days) == 0 {
		return out
	}
	from, to := days[0], days[len(days)-1]
	anchors := make([]anchor, 0, len(known))
	for key, v := range known {
		d, ok := dates.Parse(key)
		if !ok || d.Before(from) || d.After(to) {
			continue
		}
		anchors = append(anchors, anchor{day: d, pct: v})
	}
	if len(anchors) == 0 {
		return out
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].day.Before(anchors[j].day) })

	first, last := anchors[0].day, anchors[len(anchors)-1].day
	k := 0
	for i, d := range days {
		if d.Before(first) || d.After(last) {
			continue
		}
		for k+1 < len(anchors) && !anchors[k+1].day.After(d) {
			k++
		}
		a := anchors[k]
		if a.day.Equal(d) || k+1 == len(anchors) {
			v := a.pct
			out[i] = &v
			continue
		}
		b := anchors[k+1]
		t := dates.Fraction(a.day, b.day, d)
		v := a.pct + (b.pct-a.pct)*t
		out[i] = &v
	}
	return out
}

// TotalActualProgress is the live project total: every scope's own percent
// complete weighted by its cost share. It does not depend on history.
func TotalActualProgress(scopes []domain.Scope, weights []float64) float64 {
	var total float64
	for i := range scopes {
		total += weights[i] * scopes[i].ActualPct()
	}
	return total
}
