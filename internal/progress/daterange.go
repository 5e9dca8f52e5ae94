package progress

import (
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
)

// EarliestStart returns the earliest scope start, or nil when no scope has one.
func EarliestStart(scopes []domain.Scope) *time.Time {
	var earliest *time.Time
	for i := range scopes {
		if s := scopes[i].Start; s != nil && (earliest == nil || s.Before(*earliest)) {
			earliest = s
		}
	}
	return earliest
}

// LatestEnd returns the latest scope end, or nil when no scope has one.
func LatestEnd(scopes []domain.Scope) *time.Time {
	var latest *time.Time
	for i := range scopes {
		if e := scopes[i].End; e != nil && (latest == nil || e.After(*latest)) {
			latest = e
		}
	}
	return latest
}

// BuildDateRange spans one padding day before the earliest scope start
// through the later of the latest scope end and the latest history date.
// It is empty when no scope is scheduled. Spans longer than MaxSpanDays keep
// their end and slide the start forward.
func BuildDateRange(m *domain.Model) []time.Time {
	earliest := EarliestStart(m.Scopes)
	if earliest == nil {
		return nil
	}
	from := dates.AddDays(*earliest, -1)
	to := from
	if end := LatestEnd(m.Scopes); end != nil && end.After(to) {
		to = *end
	}
	if h := m.LatestHistoryDate(); h != nil && h.After(to) {
		to = dates.Truncate(*h)
	}
	if dates.DaysBetween(from, to) > dates.MaxSpanDays {
		from = dates.AddDays(to, -(dates.MaxSpanDays - 1))
	}
	return dates.Range(from, to)
}
