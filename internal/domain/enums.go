package domain

// UnitsLabel values offered for scope progress entry. PercentLabel selects
// percent mode; every other label is a unit of measure.
const (
	PercentLabel     = "%"
	UnitsFeet        = "Feet"
	UnitsInches      = "Inches"
	UnitsQty         = "Qty"
	UnitsMeters      = "Meters"
	UnitsCentimeters = "Centimeters"
)

// KnownUnitsLabels is the canonical set of labels offered by the editors.
// Labels outside the set are still accepted verbatim on load.
var KnownUnitsLabels = map[string]bool{
	PercentLabel: true, UnitsFeet: true, UnitsInches: true,
	UnitsQty: true, UnitsMeters: true, UnitsCentimeters: true,
}

// LoadMode selects how an incoming payload is merged into the open model.
type LoadMode string

const (
	LoadOverwrite LoadMode = "overwrite"
	LoadAppend    LoadMode = "append"
)
