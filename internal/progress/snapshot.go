package progress

import (
	"strconv"
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
)

// Project-level keys captured into time-series snapshots.
const (
	KeyName         = "name"
	KeyStartup      = "startup"
	KeyMarkerLabel  = "markerLabel"
	KeyTotalActual  = "totalActualPct"
	KeyPlanned      = "plannedPct"
	KeyDaysRelative = "daysRelativeToPlan"
	KeyScopeCount   = "scopeCount"
)

// IdentityKeys are project keys that reveal which project a snapshot is from.
var IdentityKeys = map[string]bool{KeyName: true, KeyMarkerLabel: true, KeyStartup: true}

// Snapshot is the persisted form of the current state with every derived
// field computed once. All encoders and time-series captures read it, so the
// derived numbers are identical in every format.
type Snapshot struct {
	Scopes   []domain.ScopeSnapshot
	Sections []domain.SectionSnapshot
	Project  []domain.ProjectKV
}

// DeriveSnapshot computes the persisted snapshot as of a date, rounding
// percentages to 2 decimals and rates to 3.
func DeriveSnapshot(m *domain.Model, asOf time.Time) Snapshot {
	d := Recompute(m, asOf)
	snap := Snapshot{
		Scopes:   make([]domain.ScopeSnapshot, len(m.Scopes)),
		Sections: make([]domain.SectionSnapshot, 0, len(d.Sections)),
	}
	for i := range m.Scopes {
		s := m.Scopes[i].Clone()
		snap.Scopes[i] = domain.ScopeSnapshot{
			ScopeID:       s.ID,
			Label:         s.Label,
			Start:         s.Start,
			End:           s.End,
			Cost:          s.Cost,
			UnitsLabel:    domain.UnitsLabel(s.Progress),
			TotalUnits:    domain.TotalUnits(s.Progress),
			ProgressValue: domain.ProgressValue(s.Progress),
			ActualPct:     domain.RoundPct(s.ActualPct()),
			PlannedPct:    domain.RoundPct(ScopePlannedPctToDate(s, asOf)),
			PerDay:        domain.RoundRate(d.PerDay[i]),
			SectionName:   s.SectionName,
			SectionID:     s.SectionID,
		}
	}
	for _, r := range d.Sections {
		snap.Sections = append(snap.Sections, domain.SectionSnapshot{
			SectionID:   r.ID,
			SectionName: r.Name,
			Start:       copyDate(r.Start),
			End:         copyDate(r.End),
			WeightPct:   domain.RoundPct(r.Weight * 100),
			ActualPct:   domain.RoundPct(r.ActualPct),
			PlannedPct:  domain.RoundPct(r.PlannedPct),
		})
	}

	rel := ""
	if d.DaysRelative != nil {
		rel = strconv.FormatFloat(domain.RoundPct(*d.DaysRelative), 'f', -1, 64)
	}
	snap.Project = []domain.ProjectKV{
		{Key: KeyName, Value: m.Project.Name},
		{Key: KeyStartup, Value: dates.FormatPtr(m.Project.Startup)},
		{Key: KeyMarkerLabel, Value: m.Project.MarkerLabel},
		{Key: KeyTotalActual, Value: strconv.FormatFloat(domain.RoundPct(d.TotalActual), 'f', -1, 64)},
		{Key: KeyPlanned, Value: strconv.FormatFloat(domain.RoundPct(d.Legend.PlannedPct), 'f', -1, 64)},
		{Key: KeyDaysRelative, Value: rel},
		{Key: KeyScopeCount, Value: strconv.Itoa(len(m.Scopes))},
	}
	return snap
}

// CaptureTimeSeries records the snapshot as of date into the model's time
// series, replacing anything captured earlier for the same date.
func CaptureTimeSeries(m *domain.Model, date time.Time) {
	snap := DeriveSnapshot(m, date)
	key := dates.Format(date)
	m.TimeSeriesScopes[key] = snap.Scopes
	m.TimeSeriesSections[key] = snap.Sections
	m.TimeSeriesProject[key] = snap.Project
}

// RecordHistory stores the live total as the history reading for date and
// captures the matching time-series snapshot.
func RecordHistory(m *domain.Model, date time.Time) float64 {
	date = dates.Truncate(date)
	total := domain.RoundPct(TotalActualProgress(m.Scopes, ScopeWeightings(m.Scopes)))
	m.UpsertHistory(date, total)
	CaptureTimeSeries(m, date)
	return total
}

func copyDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
