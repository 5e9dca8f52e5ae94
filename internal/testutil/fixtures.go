package testutil

import (
	"strings"
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/google/uuid"
)

// Scope options
type ScopeOption func(*domain.Scope)

// WithWindow schedules the scope over [start, end] (YYYY-MM-DD).
func WithWindow(start, end string) ScopeOption {
	return func(s *domain.Scope) {
		s.Start = dates.ParsePtr(start)
		s.End = dates.ParsePtr(end)
	}
}

func WithCost(c float64) ScopeOption {
	return func(s *domain.Scope) {
		s.Cost = &c
	}
}

func WithPct(p float64) ScopeOption {
	return func(s *domain.Scope) {
		s.Progress = domain.PercentProgress{Pct: &p}
	}
}

func WithUnits(label string, total, toDate float64) ScopeOption {
	return func(s *domain.Scope) {
		s.Progress = domain.UnitProgress{ToDate: &toDate, Total: total, Label: label}
	}
}

func WithSection(name, id string) ScopeOption {
	return func(s *domain.Scope) {
		s.SectionName = name
		s.SectionID = id
	}
}

func WithLabel(label string) ScopeOption {
	return func(s *domain.Scope) {
		s.Label = label
	}
}

// NewTestScope returns a percent-mode scope with cost 1. A blank id gets a
// random one.
func NewTestScope(id string, opts ...ScopeOption) domain.Scope {
	if id == "" {
		id = "scope_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	s := domain.Scope{
		ID:       id,
		Label:    "Scope " + id,
		Cost:     domain.Float64Ptr(1),
		Progress: domain.PercentProgress{Pct: domain.Float64Ptr(0)},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewTestModel returns a rehydrated model holding the given scopes.
func NewTestModel(scopes ...domain.Scope) *domain.Model {
	m := domain.NewModel()
	m.Project.Name = "Test Project"
	m.Scopes = scopes
	m.Rehydrate()
	return m
}

// Day parses a YYYY-MM-DD fixture date.
func Day(s string) time.Time {
	return dates.Must(s)
}

// RichModel is a model exercising every persisted section: units and
// percent scopes, blanks, sections, daily actuals, history, baseline and
// time-series snapshots. Text fields contain characters that need quoting.
func RichModel() *domain.Model {
	m := NewTestModel(
		NewTestScope("s1", WithLabel(`Site prep, "phase" A`), WithWindow("2024-01-01", "2024-01-10"),
			WithCost(100), WithPct(62.5), WithSection("Civil", "sec_aaa111")),
		NewTestScope("s2", WithLabel("Trenching\nnorth"), WithWindow("2024-01-05", "2024-01-20"),
			WithCost(300), WithUnits(domain.UnitsFeet, 200, 50), WithSection("Civil", "sec_aaa111")),
		NewTestScope("s3", WithLabel("Unscheduled"), WithSection("Electrical", "sec_bbb222")),
		domain.Scope{ID: "s4", Label: "Blank cost", Progress: domain.PercentProgress{}},
	)
	m.Project.Name = "Tower, B"
	m.Project.Startup = dates.Ptr(Day("2024-02-01"))
	m.Project.MarkerLabel = "Go-live"
	m.Project.Legend.Variance = false
	m.DailyActuals["2024-01-04"] = 12.5
	m.DailyActuals["2024-01-08"] = 30
	m.UpsertHistory(Day("2024-01-06"), 20.25)
	m.Baseline = &domain.Baseline{
		Days:    []time.Time{Day("2023-12-31"), Day("2024-01-01"), Day("2024-01-02")},
		Planned: []float64{0, 1.67, 3.33},
		TakenAt: time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
	}
	m.TimeSeriesScopes["2024-01-06"] = []domain.ScopeSnapshot{{
		ScopeID: "s1", Label: "Site prep", Start: dates.Ptr(Day("2024-01-01")), End: dates.Ptr(Day("2024-01-10")),
		Cost: domain.Float64Ptr(100), UnitsLabel: domain.PercentLabel, ProgressValue: domain.Float64Ptr(40),
		ActualPct: 40, PlannedPct: 55.56, PerDay: 2.5, SectionName: "Civil", SectionID: "sec_aaa111",
	}, {
		ScopeID: "s2", Label: "Trenching", UnitsLabel: domain.UnitsFeet, TotalUnits: domain.Float64Ptr(200),
		ActualPct: 0, PerDay: 4.688,
	}}
	m.TimeSeriesSections["2024-01-06"] = []domain.SectionSnapshot{{
		SectionID: "sec_aaa111", SectionName: "Civil", Start: dates.Ptr(Day("2024-01-01")), End: dates.Ptr(Day("2024-01-20")),
		WeightPct: 100, ActualPct: 10, PlannedPct: 20.83,
	}}
	m.TimeSeriesProject["2024-01-06"] = []domain.ProjectKV{
		{Key: "name", Value: "Tower, B"},
		{Key: "totalActualPct", Value: "20.25"},
	}
	m.Rehydrate()
	return m
}
