package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/charmbracelet/lipgloss"
)

// Blank is shown for an empty optional value.
const Blank = "--"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Pct renders a percentage with two decimals.
func Pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// OptPct renders an optional percentage, Blank when nil.
func OptPct(v *float64) string {
	if v == nil {
		return Blank
	}
	return Pct(*v)
}

// Number renders an optional quantity without trailing zeros.
func Number(v *float64) string {
	if v == nil {
		return Blank
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Rate renders a per-day rate with three decimals.
func Rate(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// Date renders an optional calendar date.
func Date(t *time.Time) string {
	if t == nil {
		return Blank
	}
	return dates.Format(*t)
}

// Stamp renders an instant in local time to the minute.
func Stamp(t time.Time) string {
	if t.IsZero() {
		return Blank
	}
	return t.Local().Format("2006-01-02 15:04")
}
