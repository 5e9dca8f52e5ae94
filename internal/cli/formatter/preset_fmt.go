package formatter

import (
	"strconv"

	"github.com/alexanderramin/scopecurve/internal/preset"
)

// FormatPresetList renders the numbered preset catalog.
func FormatPresetList(presets []preset.Preset) string {
	rows := make([][]string, 0, len(presets))
	for _, p := range presets {
		desc := p.Description
		if desc == "" {
			desc = Dim(Blank)
		}
		rows = append(rows, []string{strconv.Itoa(p.Index), p.ID, p.Name, desc})
	}
	return Table{
		Headers: []string{"#", "ID", "NAME", "DESCRIPTION"},
		Rows:    rows,
		Right:   map[int]bool{0: true},
	}.Render()
}
