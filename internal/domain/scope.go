package domain

import "time"

// Progress is the recorded progress of a scope. It is either a
// PercentProgress or a UnitProgress; use PercentOf to read it as a percentage.
type Progress interface {
	percent() float64
	value() *float64
}

// PercentProgress records progress directly as a percentage. A nil Pct is a
// blank cell. Label keeps a units label entered before any total was set.
type PercentProgress struct {
	Pct   *float64
	Label string
}

func (p PercentProgress) percent() float64 {
	if p.Pct == nil {
		return 0
	}
	return ClampPct(*p.Pct)
}

func (p PercentProgress) value() *float64 { return p.Pct }

// UnitProgress records progress as a count of units against a positive total.
type UnitProgress struct {
	ToDate *float64
	Total  float64
	Label  string
}

func (p UnitProgress) percent() float64 {
	if p.ToDate == nil || p.Total <= 0 {
		return 0
	}
	return ClampPct(*p.ToDate / p.Total * 100)
}

func (p UnitProgress) value() *float64 { return p.ToDate }

// NewProgress picks the progress mode from the stored fields: a positive
// total selects unit mode, anything else percent mode.
func NewProgress(label string, total, pct, toDate *float64) Progress {
	if total != nil && Finite(*total) > 0 {
		if label == "" || label == PercentLabel {
			label = UnitsQty
		}
		return UnitProgress{ToDate: toDate, Total: *total, Label: label}
	}
	if label == PercentLabel {
		label = ""
	}
	return PercentProgress{Pct: pct, Label: label}
}

// PercentOf derives the percent complete of any progress value, clamped to [0,100].
func PercentOf(p Progress) float64 {
	if p == nil {
		return 0
	}
	return p.percent()
}

// ProgressValue is the raw stored progress number: the percentage in percent
// mode, units to date in unit mode.
func ProgressValue(p Progress) *float64 {
	if p == nil {
		return nil
	}
	return p.value()
}

// UnitsLabel reports the label of a progress value. Percent mode reports
// PercentLabel unless a units label was kept.
func UnitsLabel(p Progress) string {
	switch v := p.(type) {
	case UnitProgress:
		return v.Label
	case PercentProgress:
		if v.Label != "" {
			return v.Label
		}
	}
	return PercentLabel
}

// TotalUnits returns the unit total, nil in percent mode.
func TotalUnits(p Progress) *float64 {
	if u, ok := p.(UnitProgress); ok {
		total := u.Total
		return &total
	}
	return nil
}

// Scope is one weighted unit of work.
type Scope struct {
	ID          string
	Label       string
	Start       *time.Time
	End         *time.Time
	Cost        *float64
	Progress    Progress
	SectionName string
	SectionID   string
}

// Scheduled reports whether both ends of the planned window are set.
func (s *Scope) Scheduled() bool {
	return s.Start != nil && s.End != nil
}

// CostValue returns the cost, treating blank and non-finite values as 0.
func (s *Scope) CostValue() float64 {
	return Finite(Float64FromPtrWithDefault(0, s.Cost))
}

// ActualPct is the derived percent complete of the scope.
func (s *Scope) ActualPct() float64 {
	return PercentOf(s.Progress)
}

// Unsectioned reports whether the scope sits outside every section.
func (s *Scope) Unsectioned() bool {
	return s.SectionName == ""
}

// Clone returns a deep copy of the scope.
func (s Scope) Clone() Scope {
	out := s
	out.Start = cloneTime(s.Start)
	out.End = cloneTime(s.End)
	out.Cost = cloneFloat(s.Cost)
	switch p := s.Progress.(type) {
	case PercentProgress:
		out.Progress = PercentProgress{Pct: cloneFloat(p.Pct), Label: p.Label}
	case UnitProgress:
		out.Progress = UnitProgress{ToDate: cloneFloat(p.ToDate), Total: p.Total, Label: p.Label}
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
