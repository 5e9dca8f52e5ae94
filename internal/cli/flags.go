package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/scopecurve/internal/codec"
	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/service"
	"github.com/spf13/pflag"
)

// clearWords blank an optional field when passed as a flag value.
var clearWords = map[string]bool{"": true, "none": true, "-": true}

// formatValue is a --format flag restricted to the codec formats.
type formatValue struct {
	format *codec.Format
}

func newFormatValue(f *codec.Format) *formatValue { return &formatValue{format: f} }

func (v *formatValue) String() string { return string(*v.format) }
func (v *formatValue) Type() string   { return "format" }

func (v *formatValue) Set(s string) error {
	f, err := codec.ParseFormat(s)
	if err != nil {
		return err
	}
	*v.format = f
	return nil
}

// floatChange is an optional number flag; "none" clears the field.
type floatChange struct {
	change *service.Change[float64]
}

func (v *floatChange) Type() string { return "number" }

func (v *floatChange) String() string {
	if v.change == nil || !v.change.Set || v.change.Value == nil {
		return ""
	}
	return strconv.FormatFloat(*v.change.Value, 'f', -1, 64)
}

func (v *floatChange) Set(s string) error {
	s = strings.TrimSpace(s)
	if clearWords[strings.ToLower(s)] {
		*v.change = service.Clear[float64]()
		return nil
	}
	f, err := parseNumber(s)
	if err != nil {
		return err
	}
	*v.change = service.SetTo(f)
	return nil
}

// dateChange is an optional date flag; "none" clears the field.
type dateChange struct {
	change *service.Change[time.Time]
}

func (v *dateChange) Type() string { return "date" }

func (v *dateChange) String() string {
	if v.change == nil || !v.change.Set || v.change.Value == nil {
		return ""
	}
	return dates.Format(*v.change.Value)
}

func (v *dateChange) Set(s string) error {
	s = strings.TrimSpace(s)
	if clearWords[strings.ToLower(s)] {
		*v.change = service.Clear[time.Time]()
		return nil
	}
	d, err := parseDate(s)
	if err != nil {
		return err
	}
	*v.change = service.SetTo(d)
	return nil
}

var (
	_ pflag.Value = (*formatValue)(nil)
	_ pflag.Value = (*floatChange)(nil)
	_ pflag.Value = (*dateChange)(nil)
)

func parseDate(s string) (time.Time, error) {
	d, ok := dates.Parse(s)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return d, nil
}

// parseNumber accepts a finite number with an optional trailing %.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

// parseRow reads a zero-based row index as shown by "scope list".
func parseRow(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid row %q: use the ROW number from \"scope list\"", s)
	}
	return n, nil
}

// scopePatchFlags binds the scope field flags shared by "scope add" and
// "scope edit".
func scopePatchFlags(fs *pflag.FlagSet, p *service.ScopePatch, label, units *string) {
	fs.StringVar(label, "label", "", "Scope label")
	fs.Var(&dateChange{&p.Start}, "start", "Planned start (YYYY-MM-DD, none to clear)")
	fs.Var(&dateChange{&p.End}, "end", "Planned end (YYYY-MM-DD, none to clear)")
	fs.Var(&floatChange{&p.Cost}, "cost", "Cost weight (none to clear)")
	fs.StringVar(units, "units", "", "Unit label for unit tracking (Feet, Inches, Qty, Meters, Centimeters)")
	fs.Var(&floatChange{&p.TotalUnits}, "total", "Total units; a positive total tracks units, none tracks percent")
	fs.Var(&floatChange{&p.Progress}, "progress", "Percent complete, or units to date when tracking units")
}

// finishScopePatch copies string flags the user actually passed.
func finishScopePatch(fs *pflag.FlagSet, p *service.ScopePatch, label, units string) {
	if fs.Changed("label") {
		p.Label = &label
	}
	if fs.Changed("units") {
		p.UnitsLabel = &units
	}
}
