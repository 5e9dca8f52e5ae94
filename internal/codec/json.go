package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/progress"
)

// Dialect selects what a JSON export contains.
type Dialect string

const (
	// DialectFull carries every section.
	DialectFull Dialect = "full"
	// DialectAI carries only the time series, with project identity removed
	// and scope cost normalized to percent of the date's total.
	DialectAI Dialect = "ai"
)

const (
	jsonFormatTag = "scopecurve"
	jsonVersion   = 1
)

var jsonKeys = map[Section]string{
	SectionProject:            "project",
	SectionScopes:             "scopes",
	SectionDailyActuals:       "dailyActuals",
	SectionHistory:            "history",
	SectionBaseline:           "baseline",
	SectionTimeSeriesProject:  "timeSeriesProject",
	SectionTimeSeriesScopes:   "timeSeriesScopes",
	SectionTimeSeriesSections: "timeSeriesSections",
}

var aiSections = []Section{SectionTimeSeriesProject, SectionTimeSeriesScopes, SectionTimeSeriesSections}

// EncodeJSON writes the model as columnar JSON: one object per section, each
// column an array with one element per row. Blank cells are null.
func EncodeJSON(m *domain.Model, asOf time.Time, dialect Dialect) ([]byte, error) {
	tables := encodeTables(m, asOf)
	sections := AllSections
	if dialect == DialectAI {
		sections = aiSections
		tables[SectionTimeSeriesProject] = withoutIdentity(tables[SectionTimeSeriesProject])
		tables[SectionTimeSeriesScopes] = aiScopeSnapshots(m)
	} else {
		dialect = DialectFull
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "{\n  \"format\": %q,\n  \"version\": %d,\n  \"dialect\": %q,\n  \"asOf\": %q",
		jsonFormatTag, jsonVersion, dialect, dates.Format(asOf))
	for _, sec := range sections {
		fmt.Fprintf(&buf, ",\n  %q: ", jsonKeys[sec])
		if err := writeColumnar(&buf, sec, tables[sec]); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", sec, err)
		}
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

func writeColumnar(buf *bytes.Buffer, sec Section, t *table) error {
	buf.WriteString("{")
	for ci, col := range t.columns {
		if ci > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(buf, "\n    %q: [", col)
		k := columnKind(sec, col)
		for ri, row := range t.rows {
			if ri > 0 {
				buf.WriteString(", ")
			}
			cell := t.get(row, col)
			switch {
			case cell == "" && k != kindText:
				buf.WriteString("null")
			case k == kindNumber:
				buf.WriteString(cell)
			case k == kindBool:
				buf.WriteString(formatBool(parseBool(cell, false)))
			default:
				enc, err := json.Marshal(cell)
				if err != nil {
					return err
				}
				buf.Write(enc)
			}
		}
		buf.WriteString("]")
	}
	buf.WriteString("\n  }")
	return nil
}

func withoutIdentity(t *table) *table {
	out := tableWithColumns(t.columns)
	for _, row := range t.rows {
		if !progress.IdentityKeys[t.get(row, "key")] {
			out.add(row...)
		}
	}
	return out
}

// aiScopeSnapshots renders scope snapshots with cost replaced by its share
// of the total cost captured on the same date.
func aiScopeSnapshots(m *domain.Model) *table {
	t := newTable(SectionTimeSeriesScopes)
	for _, date := range domain.SortedKeys(m.TimeSeriesScopes) {
		rows := m.TimeSeriesScopes[date]
		total := 0.0
		for _, r := range rows {
			if r.Cost != nil {
				total += domain.Finite(*r.Cost)
			}
		}
		for _, r := range rows {
			share := ""
			if r.Cost != nil {
				v := 0.0
				if total > 0 {
					v = domain.Finite(*r.Cost) / total * 100
				}
				share = formatPct(v)
			}
			t.add(scopeSnapshotRow(date, r, share)...)
		}
	}
	return t
}

// DecodeJSON parses columnar JSON of either dialect. Every column of a
// section must have the same length.
func DecodeJSON(data []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var top map[string]json.RawMessage
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw, ok := top["format"]; ok {
		var tag string
		if err := json.Unmarshal(raw, &tag); err != nil || tag != jsonFormatTag {
			return nil, fmt.Errorf("%w: unexpected format tag %s", ErrMalformed, raw)
		}
	}

	tables := map[Section]*table{}
	for _, sec := range AllSections {
		raw, ok := top[jsonKeys[sec]]
		if !ok || string(bytes.TrimSpace(raw)) == "null" {
			continue
		}
		t, err := readColumnar(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", jsonKeys[sec], err)
		}
		tables[sec] = t
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no recognizable sections", ErrMalformed)
	}
	return decodeTables(tables), nil
}

func readColumnar(raw json.RawMessage) (*table, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var cols map[string][]any
	if err := dec.Decode(&cols); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	n := -1
	for _, name := range names {
		if n >= 0 && len(cols[name]) != n {
			return nil, fmt.Errorf("%w: %q has %d values, expected %d", ErrColumnLength, name, len(cols[name]), n)
		}
		n = len(cols[name])
	}

	t := tableWithColumns(names)
	for i := 0; i < n; i++ {
		row := make([]string, len(names))
		for c, name := range names {
			cell, err := cellText(cols[name][i])
			if err != nil {
				return nil, fmt.Errorf("%q[%d]: %w", name, i, err)
			}
			row[c] = cell
		}
		t.add(row...)
	}
	return t, nil
}

func cellText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return formatBool(x), nil
	default:
		return "", fmt.Errorf("%w: unsupported value %v", ErrMalformed, v)
	}
}
