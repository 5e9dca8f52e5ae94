// Package progress turns a scope plan and sparse progress readings into the
// dense daily series drawn by the chart: planned, actual and baseline.
package progress

import (
	"math"
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
)

// ScopeWeightings returns cost_i / Σcost for every scope. The weights sum to
// 1, or are all 0 when the total cost is 0.
func ScopeWeightings(scopes []domain.Scope) []float64 {
	weights := make([]float64, len(scopes))
	var total float64
	for i := range scopes {
		total += scopes[i].CostValue()
	}
	if total == 0 {
		return weights
	}
	for i := range scopes {
		weights[i] = scopes[i].CostValue() / total
	}
	return weights
}

// ScopePlannedPctToDate is the linear planned percent complete of one scope
// as of a date: 0 before or on the start, 100 after the end.
func ScopePlannedPctToDate(s domain.Scope, asOf time.Time) float64 {
	if !s.Scheduled() {
		return 0
	}
	asOf = dates.Truncate(asOf)
	start, end := *s.Start, *s.End
	if asOf.Before(start) || asOf.Equal(start) {
		return 0
	}
	if asOf.After(end) {
		return 100
	}
	elapsed := dates.DaysBetween(start, asOf) - 1
	duration := dates.DaysBetween(start, end) - 1
	if duration <= 0 {
		return 0
	}
	return domain.ClampPct(float64(elapsed) / float64(duration) * 100)
}

// PlannedDailyOverall returns, per scope, the percentage points of the whole
// project planned per active day: weight*100 / inclusive window length.
// Unscheduled scopes and empty windows contribute 0.
func PlannedDailyOverall(scopes []domain.Scope, weights []float64) []float64 {
	perDay := make([]float64, len(scopes))
	for i := range scopes {
		s := &scopes[i]
		if !s.Scheduled() {
			continue
		}
		n := dates.DaysBetween(*s.Start, *s.End)
		if n <= 0 {
			continue
		}
		perDay[i] = weights[i] * 100 / float64(n)
	}
	return perDay
}

// PlannedSeriesByDay accumulates the per-day contributions of every scope
// active on each day into the cumulative planned curve, clamped to [0,100].
func PlannedSeriesByDay(days []time.Time, scopes []domain.Scope, perDay []float64) []float64 {
	out := make([]float64, len(days))
	var cum float64
	for i, d := range days {
		for j := range scopes {
			s := &scopes[j]
			if perDay[j] == 0 || !s.Scheduled() {
				continue
			}
			if d.Before(*s.Start) || d.After(*s.End) {
				continue
			}
			cum += perDay[j]
		}
		out[i] = math.Max(0, math.Min(100, cum))
	}
	return out
}
