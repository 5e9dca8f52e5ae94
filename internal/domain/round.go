package domain

import "math"

const (
	// PctPlaces is the persisted precision of percentage-like values.
	PctPlaces = 2
	// RatePlaces is the persisted precision of per-day rates.
	RatePlaces = 3
)

// RoundTo rounds v half away from zero to the given number of decimals.
func RoundTo(v float64, places int) float64 {
	v = Finite(v)
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // no negative zero
	}
	return r
}

// RoundPct rounds a percentage-like value to two decimals.
func RoundPct(v float64) float64 { return RoundTo(v, PctPlaces) }

// RoundRate rounds a per-day rate to three decimals.
func RoundRate(v float64) float64 { return RoundTo(v, RatePlaces) }
