package domain

import "sort"

// SectionIDRegistry is the per-project set of section IDs ever handed out.
// IDs stay reserved after their section disappears so historical snapshots
// keyed by them are never reattributed.
type SectionIDRegistry struct {
	used map[string]struct{}
}

// Register reserves id. Blank IDs are ignored.
func (r *SectionIDRegistry) Register(id string) {
	if id == "" {
		return
	}
	if r.used == nil {
		r.used = map[string]struct{}{}
	}
	r.used[id] = struct{}{}
}

// Has reports whether id is already reserved.
func (r *SectionIDRegistry) Has(id string) bool {
	_, ok := r.used[id]
	return ok
}

// Len returns the number of reserved IDs.
func (r *SectionIDRegistry) Len() int {
	return len(r.used)
}

// IDs lists the reserved IDs in sorted order.
func (r *SectionIDRegistry) IDs() []string {
	out := make([]string, 0, len(r.used))
	for id := range r.used {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone copies the registry.
func (r SectionIDRegistry) Clone() SectionIDRegistry {
	out := SectionIDRegistry{}
	for id := range r.used {
		out.Register(id)
	}
	return out
}

// Rehydrate reserves every section ID referenced by the model's scopes and
// section snapshots.
func (m *Model) Rehydrate() {
	for _, s := range m.Scopes {
		m.SectionIDs.Register(s.SectionID)
	}
	for _, rows := range m.TimeSeriesSections {
		for _, r := range rows {
			m.SectionIDs.Register(r.SectionID)
		}
	}
	for _, rows := range m.TimeSeriesScopes {
		for _, r := range rows {
			m.SectionIDs.Register(r.SectionID)
		}
	}
	if m.DailyActuals == nil {
		m.DailyActuals = map[string]float64{}
	}
	if m.TimeSeriesScopes == nil {
		m.TimeSeriesScopes = map[string][]ScopeSnapshot{}
	}
	if m.TimeSeriesSections == nil {
		m.TimeSeriesSections = map[string][]SectionSnapshot{}
	}
	if m.TimeSeriesProject == nil {
		m.TimeSeriesProject = map[string][]ProjectKV{}
	}
}
