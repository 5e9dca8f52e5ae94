package progress

import (
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
)

// TakeBaseline freezes a copy of the current planned curve.
func TakeBaseline(days []time.Time, planned []float64, now time.Time) *domain.Baseline {
	n := min(len(days), len(planned))
	return &domain.Baseline{
		Days:    append([]time.Time(nil), days[:n]...),
		Planned: append([]float64(nil), planned[:n]...),
		TakenAt: now,
	}
}

// BaselineSeries maps a stored baseline onto the current day axis by date.
// Days missing from the baseline are nil. Without a baseline the curve
// mirrors the live plan.
func BaselineSeries(b *domain.Baseline, days []time.Time, planned []float64) []*float64 {
	out := make([]*float64, len(days))
	if b == nil {
		for i := range days {
			if i < len(planned) {
				v := planned[i]
				out[i] = &v
			}
		}
		return out
	}
	byDate := make(map[string]float64, len(b.Days))
	for i, d := range b.Days {
		if i < len(b.Planned) {
			byDate[dates.Format(d)] = b.Planned[i]
		}
	}
	for i, d := range days {
		if v, ok := byDate[dates.Format(d)]; ok {
			out[i] = &v
		}
	}
	return out
}
