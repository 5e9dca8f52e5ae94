package domain

import (
	"strings"
	"time"
)

// Legend holds the visibility flags of the four chart legend entries.
type Legend struct {
	Baseline bool
	Planned  bool
	Actual   bool
	Variance bool
}

// DefaultLegend shows every series.
func DefaultLegend() Legend {
	return Legend{Baseline: true, Planned: true, Actual: true, Variance: true}
}

type Project struct {
	Name        string
	Startup     *time.Time
	MarkerLabel string
	Legend      Legend
}

// DisplayName returns the project name, or a placeholder when blank.
func (p *Project) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return "Untitled project"
}
