package progress

import (
	"time"

	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/section"
)

// SectionRollup is the derived summary of one section. Nothing here is stored.
type SectionRollup struct {
	section.Section
	Start      *time.Time
	End        *time.Time
	Weight     float64
	ActualPct  float64
	PlannedPct float64
}

// SectionRollups summarizes every inferred section as of a date: date range
// of its members, summed weight, and weight-averaged actual and planned
// percentages (0 when the section carries no weight).
func SectionRollups(scopes []domain.Scope, weights []float64, asOf time.Time) []SectionRollup {
	sections := section.Infer(scopes)
	out := make([]SectionRollup, 0, len(sections))
	for _, sec := range sections {
		r := SectionRollup{Section: sec}
		var actual, planned float64
		for i := sec.Start; i < sec.End; i++ {
			s := scopes[i]
			if s.Start != nil && (r.Start == nil || s.Start.Before(*r.Start)) {
				r.Start = s.Start
			}
			if s.End != nil && (r.End == nil || s.End.After(*r.End)) {
				r.End = s.End
			}
			r.Weight += weights[i]
			actual += weights[i] * s.ActualPct()
			planned += weights[i] * ScopePlannedPctToDate(s, asOf)
		}
		if r.Weight > 0 {
			r.ActualPct = actual / r.Weight
			r.PlannedPct = planned / r.Weight
		}
		out = append(out, r)
	}
	return out
}
