package codec

import (
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/scopecurve/internal/domain"
)

// fullPrecision leaves a number unrounded (costs, unit counts).
const fullPrecision = -1

// formatNumber renders v rounded to places decimals. Values within 1e-9 of
// an integer are written as integers.
func formatNumber(v float64, places int) string {
	v = domain.Finite(v)
	if places >= 0 {
		v = domain.RoundTo(v, places)
	}
	if r := math.Round(v); math.Abs(v-r) < 1e-9 {
		if r == 0 {
			return "0"
		}
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOpt renders an optional number; nil and non-finite values are blank.
func formatOpt(v *float64, places int) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return ""
	}
	return formatNumber(*v, places)
}

func formatPct(v float64) string  { return formatNumber(v, domain.PctPlaces) }
func formatRate(v float64) string { return formatNumber(v, domain.RatePlaces) }

// parseOpt reads an optional number. Blank and unparsable text is blank.
func parseOpt(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseNum reads a required number, coercing anything unreadable to 0.
func parseNum(s string) float64 {
	if v := parseOpt(s); v != nil {
		return *v
	}
	return 0
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// parseBool reads a legend flag; blank keeps the default.
func parseBool(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	case "false", "0", "no", "n":
		return false
	}
	return fallback
}
