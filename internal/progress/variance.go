package progress

import (
	"fmt"
	"math"
)

// DaysRelativeToPlan measures how far the latest actual reading sits from
// the day the plan reaches the same percentage. Positive means ahead.
//
// When the plan never reaches the actual percentage, or already meets it on
// the first day, the planned-equivalent day snaps to that edge without
// interpolating. Returns nil when there is no actual reading.
func DaysRelativeToPlan(planned []float64, actual []*float64) *float64 {
	aIdx := -1
	for i := len(actual) - 1; i >= 0; i-- {
		if actual[i] != nil {
			aIdx = i
			break
		}
	}
	if aIdx < 0 || len(planned) == 0 {
		return nil
	}
	aPct := *actual[aIdx]

	j := -1
	for i, p := range planned {
		if p >= aPct {
			j = i
			break
		}
	}

	var pStar float64
	switch {
	case j < 0:
		pStar = float64(len(planned) - 1)
	case j == 0:
		pStar = 0
	default:
		lo, hi := planned[j-1], planned[j]
		t := 0.0
		if hi != lo {
			t = (aPct - lo) / (hi - lo)
		}
		pStar = float64(j-1) + t
	}
	rel := pStar - float64(aIdx)
	return &rel
}

// DaysRelativeText renders a schedule variance for the legend.
func DaysRelativeText(rel *float64) string {
	if rel == nil {
		return "no actuals yet"
	}
	v := *rel
	if math.Abs(v) < 0.05 {
		return "on plan"
	}
	unit := "days"
	if math.Abs(v) >= 0.95 && math.Abs(v) < 1.05 {
		unit = "day"
	}
	if v > 0 {
		return fmt.Sprintf("%.1f %s ahead", v, unit)
	}
	return fmt.Sprintf("%.1f %s behind", -v, unit)
}
