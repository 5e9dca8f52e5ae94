package service

import (
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/google/uuid"
)

var (
	// ErrScopeNotFound reports an edit addressed to an unknown scopeId.
	ErrScopeNotFound = errors.New("scope not found")
	// ErrInvalidWindow reports an end date before the start date.
	ErrInvalidWindow = errors.New("end date is before start date")
)

// Change is an optional edit to a nullable field. The zero value leaves the
// field alone; a set Change with a nil Value clears it.
type Change[T any] struct {
	Set   bool
	Value *T
}

// SetTo returns a Change that stores v.
func SetTo[T any](v T) Change[T] {
	return Change[T]{Set: true, Value: &v}
}

// Clear returns a Change that blanks the field.
func Clear[T any]() Change[T] {
	return Change[T]{Set: true}
}

func (c Change[T]) apply(dst **T) {
	if !c.Set {
		return
	}
	if c.Value == nil {
		*dst = nil
		return
	}
	v := *c.Value
	*dst = &v
}

// ProjectPatch edits project fields; nil pointers are left unchanged.
type ProjectPatch struct {
	Name           *string
	Startup        Change[time.Time]
	MarkerLabel    *string
	LegendBaseline *bool
	LegendPlanned  *bool
	LegendActual   *bool
	LegendVariance *bool
}

// ScopePatch edits one scope. Setting TotalUnits to a positive number
// switches the scope to unit mode; clearing it switches to percent mode.
// Progress is the percentage in percent mode and units to date in unit mode.
type ScopePatch struct {
	Label      *string
	Start      Change[time.Time]
	End        Change[time.Time]
	Cost       Change[float64]
	UnitsLabel *string
	TotalUnits Change[float64]
	Progress   Change[float64]
}

func newScopeID() string {
	return "scope_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func truncPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := dates.Truncate(*t)
	return &v
}
