package domain

import (
	"sort"
	"time"
)

// HistoryEntry is one manually snapshotted aggregate progress reading.
type HistoryEntry struct {
	Date      time.Time
	ActualPct float64
}

// Baseline is an immutable capture of the planned curve. Days[i] pairs with
// Planned[i].
type Baseline struct {
	Days    []time.Time
	Planned []float64
	TakenAt time.Time
}

// ScopeSnapshot is the persisted state of one scope on a snapshot date.
// Derived fields are frozen at capture time and never recomputed on load.
type ScopeSnapshot struct {
	ScopeID       string
	Label         string
	Start         *time.Time
	End           *time.Time
	Cost          *float64
	UnitsLabel    string
	TotalUnits    *float64
	ProgressValue *float64
	ActualPct     float64
	PlannedPct    float64
	PerDay        float64
	SectionName   string
	SectionID     string
}

// SectionSnapshot is the persisted rollup of one section on a snapshot date.
type SectionSnapshot struct {
	SectionID   string
	SectionName string
	Start       *time.Time
	End         *time.Time
	WeightPct   float64
	ActualPct   float64
	PlannedPct  float64
}

// ProjectKV is one project-level value captured on a snapshot date.
type ProjectKV struct {
	Key   string
	Value string
}

// Model is the aggregate root of one open project. It is passed explicitly
// to every operation; nothing holds it globally.
type Model struct {
	Project      Project
	Scopes       []Scope
	History      []HistoryEntry
	DailyActuals map[string]float64
	Baseline     *Baseline

	// Snapshot maps are keyed by the ISO date the snapshot was taken on.
	TimeSeriesScopes   map[string][]ScopeSnapshot
	TimeSeriesSections map[string][]SectionSnapshot
	TimeSeriesProject  map[string][]ProjectKV

	// DaysRelativeToPlan caches the last computed schedule variance.
	DaysRelativeToPlan *float64

	SectionIDs SectionIDRegistry
}

// NewModel returns a blank project.
func NewModel() *Model {
	return &Model{
		Project:            Project{Legend: DefaultLegend()},
		DailyActuals:       map[string]float64{},
		TimeSeriesScopes:   map[string][]ScopeSnapshot{},
		TimeSeriesSections: map[string][]SectionSnapshot{},
		TimeSeriesProject:  map[string][]ProjectKV{},
	}
}

// ScopeIndex returns the position of the scope with the given ID, or -1.
func (m *Model) ScopeIndex(id string) int {
	for i := range m.Scopes {
		if m.Scopes[i].ID == id {
			return i
		}
	}
	return -1
}

// UpsertHistory records a reading for a date, replacing any reading already
// stored for that date. History stays sorted by date.
func (m *Model) UpsertHistory(date time.Time, pct float64) {
	for i := range m.History {
		if m.History[i].Date.Equal(date) {
			m.History[i].ActualPct = pct
			return
		}
	}
	m.History = append(m.History, HistoryEntry{Date: date, ActualPct: pct})
	sort.Slice(m.History, func(i, j int) bool {
		return m.History[i].Date.Before(m.History[j].Date)
	})
}

// LatestHistoryDate returns the newest history date, or nil without history.
func (m *Model) LatestHistoryDate() *time.Time {
	if len(m.History) == 0 {
		return nil
	}
	latest := m.History[0].Date
	for _, h := range m.History[1:] {
		if h.Date.After(latest) {
			latest = h.Date
		}
	}
	return &latest
}

// ClearTimeSeries drops every time-series snapshot.
func (m *Model) ClearTimeSeries() {
	m.TimeSeriesScopes = map[string][]ScopeSnapshot{}
	m.TimeSeriesSections = map[string][]SectionSnapshot{}
	m.TimeSeriesProject = map[string][]ProjectKV{}
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	out := NewModel()
	out.Project = m.Project
	out.Project.Startup = cloneTime(m.Project.Startup)
	out.Scopes = make([]Scope, len(m.Scopes))
	for i, s := range m.Scopes {
		out.Scopes[i] = s.Clone()
	}
	out.History = append([]HistoryEntry(nil), m.History...)
	for k, v := range m.DailyActuals {
		out.DailyActuals[k] = v
	}
	if m.Baseline != nil {
		out.Baseline = &Baseline{
			Days:    append([]time.Time(nil), m.Baseline.Days...),
			Planned: append([]float64(nil), m.Baseline.Planned...),
			TakenAt: m.Baseline.TakenAt,
		}
	}
	for k, v := range m.TimeSeriesScopes {
		rows := make([]ScopeSnapshot, len(v))
		for i, r := range v {
			r.Start, r.End = cloneTime(r.Start), cloneTime(r.End)
			r.Cost, r.TotalUnits, r.ProgressValue = cloneFloat(r.Cost), cloneFloat(r.TotalUnits), cloneFloat(r.ProgressValue)
			rows[i] = r
		}
		out.TimeSeriesScopes[k] = rows
	}
	for k, v := range m.TimeSeriesSections {
		rows := make([]SectionSnapshot, len(v))
		for i, r := range v {
			r.Start, r.End = cloneTime(r.Start), cloneTime(r.End)
			rows[i] = r
		}
		out.TimeSeriesSections[k] = rows
	}
	for k, v := range m.TimeSeriesProject {
		out.TimeSeriesProject[k] = append([]ProjectKV(nil), v...)
	}
	out.DaysRelativeToPlan = cloneFloat(m.DaysRelativeToPlan)
	out.SectionIDs = m.SectionIDs.Clone()
	return out
}

// SortedKeys returns the keys of a date-keyed map in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
