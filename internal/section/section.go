// Package section infers sections from contiguous runs of scopes and keeps
// them contiguous through every edit. A section is not stored on its own: it
// exists directly above the first scope of each run of equal non-blank
// section names.
package section

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrOutOfRange = errors.New("row index out of range")
	ErrNoHeader   = errors.New("no section header at row")
	ErrNameTaken  = errors.New("section name already in use")
	ErrBlankName  = errors.New("section name is required")
)

var numberedName = regexp.MustCompile(`^Section #(\d+)$`)

// Section is one inferred run of scopes, rows [Start, End).
type Section struct {
	ID    string
	Name  string
	Start int
	End   int
}

// Len is the number of member rows.
func (s Section) Len() int { return s.End - s.Start }

// Infer lists the sections of a scope list in display order.
func Infer(scopes []domain.Scope) []Section {
	var out []Section
	for i := 0; i < len(scopes); {
		name := scopes[i].SectionName
		j := i + 1
		for j < len(scopes) && scopes[j].SectionName == name {
			j++
		}
		if name != "" {
			out = append(out, Section{ID: scopes[i].SectionID, Name: name, Start: i, End: j})
		}
		i = j
	}
	return out
}

// HeaderAt reports whether a section header sits directly above row i.
func HeaderAt(scopes []domain.Scope, i int) bool {
	if i < 0 || i >= len(scopes) || scopes[i].SectionName == "" {
		return false
	}
	return i == 0 || scopes[i-1].SectionName != scopes[i].SectionName
}

// runAt returns the bounds of the run (named or blank) containing row i.
func runAt(scopes []domain.Scope, i int) (int, int) {
	name := scopes[i].SectionName
	start, end := i, i+1
	for start > 0 && scopes[start-1].SectionName == name {
		start--
	}
	for end < len(scopes) && scopes[end].SectionName == name {
		end++
	}
	return start, end
}

// NextName returns "Section #N" with N one past the largest numbered section.
func NextName(scopes []domain.Scope) string {
	maxN := 0
	for _, s := range scopes {
		if m := numberedName.FindStringSubmatch(s.SectionName); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > maxN {
				maxN = n
			}
		}
	}
	return fmt.Sprintf("Section #%d", maxN+1)
}

// NewID generates a section ID that is not yet reserved in the model and
// reserves it.
func NewID(m *domain.Model) string {
	for {
		id := "sec_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
		if !m.SectionIDs.Has(id) {
			m.SectionIDs.Register(id)
			return id
		}
	}
}

func assign(scopes []domain.Scope, from, to int, name, id string) {
	for i := from; i < to; i++ {
		scopes[i].SectionName = name
		scopes[i].SectionID = id
	}
}

// Add starts a new section at row index. Rows from index through the end
// of the run containing it move into a freshly named section. It is a no-op
// returning false when a header already sits at index.
func Add(m *domain.Model, index int) (Section, bool, error) {
	if index < 0 || index >= len(m.Scopes) {
		return Section{}, false, fmt.Errorf("adding section at %d: %w", index, ErrOutOfRange)
	}
	if HeaderAt(m.Scopes, index) {
		return Section{}, false, nil
	}
	_, end := runAt(m.Scopes, index)
	name := NextName(m.Scopes)
	id := NewID(m)
	assign(m.Scopes, index, end, name, id)
	return Section{ID: id, Name: name, Start: index, End: end}, true, nil
}

// Remove dissolves the section whose header sits at start. Its rows join the
// section directly above, taking its name and ID, or become unsectioned.
func Remove(m *domain.Model, start int) error {
	if !HeaderAt(m.Scopes, start) {
		return fmt.Errorf("removing section at %d: %w", start, ErrNoHeader)
	}
	_, end := runAt(m.Scopes, start)
	name, id := "", ""
	if start > 0 && m.Scopes[start-1].SectionName != "" {
		name, id = m.Scopes[start-1].SectionName, m.Scopes[start-1].SectionID
	}
	assign(m.Scopes, start, end, name, id)
	return nil
}

// Rename changes the name of the section at start. The section ID is kept so
// snapshots recorded under it stay attributed to the section.
func Rename(m *domain.Model, start int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankName
	}
	if !HeaderAt(m.Scopes, start) {
		return fmt.Errorf("renaming section at %d: %w", start, ErrNoHeader)
	}
	_, end := runAt(m.Scopes, start)
	id := m.Scopes[start].SectionID
	for i, s := range m.Scopes {
		if (i < start || i >= end) && s.SectionName == name {
			return fmt.Errorf("renaming to %q: %w", name, ErrNameTaken)
		}
	}
	assign(m.Scopes, start, end, name, id)
	return nil
}

// MoveRow moves one scope to position to (index in the list after removal)
// and places it in the section of its new neighbours: the one above, else
// the one below, else none.
func MoveRow(m *domain.Model, from, to int) error {
	n := len(m.Scopes)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("moving row %d to %d: %w", from, to, ErrOutOfRange)
	}
	row := m.Scopes[from]
	rest := append(append([]domain.Scope(nil), m.Scopes[:from]...), m.Scopes[from+1:]...)
	scopes := make([]domain.Scope, 0, n)
	scopes = append(scopes, rest[:to]...)
	scopes = append(scopes, row)
	scopes = append(scopes, rest[to:]...)

	row.SectionName, row.SectionID = "", ""
	switch {
	case to > 0 && scopes[to-1].SectionName != "":
		row.SectionName, row.SectionID = scopes[to-1].SectionName, scopes[to-1].SectionID
	case to+1 < n && scopes[to+1].SectionName != "":
		row.SectionName, row.SectionID = scopes[to+1].SectionName, scopes[to+1].SectionID
	}
	scopes[to] = row
	m.Scopes = scopes
	return nil
}

type header struct {
	pos      int
	name, id string
}

// MoveHeader moves the header of the section at start so it sits above row
// to (len(scopes) places it after the last row). Rows do not move; instead
// every row is reassigned to the nearest header above it in the new header
// order. Rows above the first header become unsectioned.
func MoveHeader(m *domain.Model, start, to int) error {
	if !HeaderAt(m.Scopes, start) {
		return fmt.Errorf("moving section at %d: %w", start, ErrNoHeader)
	}
	if to < 0 || to > len(m.Scopes) {
		return fmt.Errorf("moving section to %d: %w", to, ErrOutOfRange)
	}

	var headers []header
	var moved header
	for _, s := range Infer(m.Scopes) {
		h := header{pos: s.Start, name: s.Name, id: s.ID}
		if s.Start == start {
			moved = h
			continue
		}
		headers = append(headers, h)
	}
	moved.pos = to

	// The moved header lands directly above row to, below any header
	// already sitting there.
	for i := range m.Scopes {
		var owner *header
		for k := range headers {
			if headers[k].pos <= i && (owner == nil || headers[k].pos >= owner.pos) {
				owner = &headers[k]
			}
		}
		if moved.pos <= i && (owner == nil || moved.pos >= owner.pos) {
			owner = &moved
		}
		if owner == nil {
			m.Scopes[i].SectionName, m.Scopes[i].SectionID = "", ""
			continue
		}
		m.Scopes[i].SectionName, m.Scopes[i].SectionID = owner.name, owner.id
	}
	return nil
}

// Contiguous reports whether every section name occupies a single run.
func Contiguous(scopes []domain.Scope) bool {
	seen := map[string]bool{}
	for _, s := range Infer(scopes) {
		if seen[s.Name] {
			return false
		}
		seen[s.Name] = true
	}
	return true
}

// Normalize regroups rows so each section name forms one run, placed where
// the name first appears. Order within a section and among unsectioned rows
// is kept.
func Normalize(scopes []domain.Scope) []domain.Scope {
	if Contiguous(scopes) {
		return scopes
	}
	groups := map[string][]domain.Scope{}
	for _, s := range scopes {
		if s.SectionName != "" {
			groups[s.SectionName] = append(groups[s.SectionName], s)
		}
	}
	out := make([]domain.Scope, 0, len(scopes))
	placed := map[string]bool{}
	for _, s := range scopes {
		if s.SectionName == "" {
			out = append(out, s)
			continue
		}
		if placed[s.SectionName] {
			continue
		}
		placed[s.SectionName] = true
		out = append(out, groups[s.SectionName]...)
	}
	return out
}
