package codec

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/section"
)

// Payload is a decoded, not yet applied, model fragment. Present records
// which sections the input carried; absent sections are left alone by an
// append load.
type Payload struct {
	Present map[Section]bool

	Project      *domain.Project
	Scopes       []domain.Scope
	DailyActuals map[string]float64
	History      []domain.HistoryEntry
	Baseline     *domain.Baseline

	TimeSeriesScopes   map[string][]domain.ScopeSnapshot
	TimeSeriesSections map[string][]domain.SectionSnapshot
	TimeSeriesProject  map[string][]domain.ProjectKV

	problems []error
}

func newPayload() *Payload {
	return &Payload{
		Present:            map[Section]bool{},
		DailyActuals:       map[string]float64{},
		TimeSeriesScopes:   map[string][]domain.ScopeSnapshot{},
		TimeSeriesSections: map[string][]domain.SectionSnapshot{},
		TimeSeriesProject:  map[string][]domain.ProjectKV{},
	}
}

func (p *Payload) badDate(sec Section, row int, value string) {
	p.problems = append(p.problems, fmt.Errorf("%s row %d: invalid date %q", sec, row+1, value))
}

func (p *Payload) snapshotDate(sec Section, row int, value string) (string, bool) {
	day, ok := dates.Parse(value)
	if !ok {
		p.badDate(sec, row, value)
		return "", false
	}
	return dates.Format(day), true
}

// Validate checks a payload before anything is applied and returns every
// problem found: scope IDs must be present and unique, in the scope list and
// per snapshot date.
func Validate(p *Payload) []error {
	errs := append([]error(nil), p.problems...)

	seen := map[string]int{}
	for i, s := range p.Scopes {
		if strings.TrimSpace(s.ID) == "" {
			errs = append(errs, fmt.Errorf("%s row %d: %w", SectionScopes, i+1, ErrMissingScopeID))
			continue
		}
		if first, dup := seen[s.ID]; dup {
			errs = append(errs, fmt.Errorf("%s row %d: %w %q (first at row %d)", SectionScopes, i+1, ErrDuplicateScopeID, s.ID, first))
			continue
		}
		seen[s.ID] = i + 1
	}

	for _, date := range domain.SortedKeys(p.TimeSeriesScopes) {
		ids := map[string]bool{}
		for _, r := range p.TimeSeriesScopes[date] {
			if r.ScopeID == "" {
				errs = append(errs, fmt.Errorf("%s %s: %w", SectionTimeSeriesScopes, date, ErrMissingScopeID))
				continue
			}
			if ids[r.ScopeID] {
				errs = append(errs, fmt.Errorf("%s %s: %w %q", SectionTimeSeriesScopes, date, ErrDuplicateScopeID, r.ScopeID))
				continue
			}
			ids[r.ScopeID] = true
		}
	}
	return errs
}

// Merge applies a validated payload to a copy of m and returns the copy; m
// is never modified. Overwrite replaces the whole model. Append upserts
// scopes by ID, history and daily actuals by date, and snapshots by date and
// ID or key; nothing already present is deleted.
func Merge(m *domain.Model, p *Payload, mode domain.LoadMode) *domain.Model {
	var out *domain.Model
	if mode == domain.LoadOverwrite || m == nil {
		out = domain.NewModel()
	} else {
		out = m.Clone()
	}

	if p.Project != nil {
		proj := *p.Project
		out.Project = proj
	}

	for _, s := range p.Scopes {
		s = s.Clone()
		if i := out.ScopeIndex(s.ID); i >= 0 {
			out.Scopes[i] = s
			continue
		}
		out.Scopes = insertScope(out.Scopes, s)
	}
	out.Scopes = section.Normalize(out.Scopes)

	for k, v := range p.DailyActuals {
		out.DailyActuals[k] = v
	}
	for _, h := range p.History {
		out.UpsertHistory(h.Date, h.ActualPct)
	}
	if p.Baseline != nil {
		b := *p.Baseline
		out.Baseline = &b
	}

	for date, rows := range p.TimeSeriesScopes {
		for _, r := range rows {
			out.TimeSeriesScopes[date] = upsertBy(out.TimeSeriesScopes[date], r, func(x domain.ScopeSnapshot) bool {
				return x.ScopeID == r.ScopeID
			})
		}
	}
	for date, rows := range p.TimeSeriesSections {
		for _, r := range rows {
			out.TimeSeriesSections[date] = upsertBy(out.TimeSeriesSections[date], r, func(x domain.SectionSnapshot) bool {
				return sameSection(x, r)
			})
		}
	}
	for date, rows := range p.TimeSeriesProject {
		for _, r := range rows {
			out.TimeSeriesProject[date] = upsertBy(out.TimeSeriesProject[date], r, func(x domain.ProjectKV) bool {
				return x.Key == r.Key
			})
		}
	}

	out.Rehydrate()
	return out
}

// insertScope appends s, or places it after the last row of its section so
// the section stays one run.
// sameSection matches snapshots by section ID, which survives renames. Rows
// without an ID fall back to the name.
func sameSection(a, b domain.SectionSnapshot) bool {
	if a.SectionID != "" || b.SectionID != "" {
		return a.SectionID == b.SectionID
	}
	return a.SectionName == b.SectionName
}

func insertScope(scopes []domain.Scope, s domain.Scope) []domain.Scope {
	if s.SectionName != "" {
		for i := len(scopes) - 1; i >= 0; i-- {
			if scopes[i].SectionName == s.SectionName {
				scopes = append(scopes, domain.Scope{})
				copy(scopes[i+2:], scopes[i+1:])
				scopes[i+1] = s
				return scopes
			}
		}
	}
	return append(scopes, s)
}

func upsertBy[T any](rows []T, v T, match func(T) bool) []T {
	for i := range rows {
		if match(rows[i]) {
			rows[i] = v
			return rows
		}
	}
	return append(rows, v)
}
