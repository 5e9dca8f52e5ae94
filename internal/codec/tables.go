package codec

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/progress"
)

// Section names a persisted section of a payload.
type Section string

const (
	SectionProject            Section = "PROJECT"
	SectionScopes             Section = "SCOPES"
	SectionDailyActuals       Section = "DAILY_ACTUALS"
	SectionHistory            Section = "HISTORY"
	SectionBaseline           Section = "BASELINE"
	SectionTimeSeriesProject  Section = "TIMESERIES_PROJECT"
	SectionTimeSeriesScopes   Section = "TIMESERIES_SCOPES"
	SectionTimeSeriesSections Section = "TIMESERIES_SECTIONS"
)

// AllSections is the order sections are written in.
var AllSections = []Section{
	SectionProject, SectionScopes, SectionDailyActuals, SectionHistory, SectionBaseline,
	SectionTimeSeriesProject, SectionTimeSeriesScopes, SectionTimeSeriesSections,
}

type kind int

const (
	kindText kind = iota
	kindNumber
	kindBool
)

type column struct {
	name string
	kind kind
}

func text(name string) column { return column{name, kindText} }
func num(name string) column  { return column{name, kindNumber} }
func flag(name string) column { return column{name, kindBool} }

var schema = map[Section][]column{
	SectionProject: {
		text("name"), text("startup"), text("markerLabel"),
		flag("legendBaseline"), flag("legendPlanned"), flag("legendActual"), flag("legendVariance"),
	},
	SectionScopes: {
		text("scopeId"), text("label"), text("start"), text("end"), num("cost"),
		text("unitsLabel"), num("totalUnits"), num("unitsToDate"), num("actualPct"),
		num("progressValue"), num("perDay"), num("plannedPct"), text("sectionName"), text("sectionID"),
	},
	SectionDailyActuals: {text("date"), num("actualPct")},
	SectionHistory:      {text("date"), num("actualPct")},
	SectionBaseline:     {text("date"), num("planned"), num("ts")},
	SectionTimeSeriesProject: {
		text("historyDate"), text("key"), text("value"),
	},
	SectionTimeSeriesScopes: {
		text("historyDate"), text("scopeId"), text("label"), text("start"), text("end"), num("cost"),
		text("unitsLabel"), num("totalUnits"), num("progressValue"), num("actualPct"),
		num("plannedPct"), num("perDay"), text("sectionName"), text("sectionID"),
	},
	SectionTimeSeriesSections: {
		text("historyDate"), text("sectionID"), text("sectionName"), text("start"), text("end"),
		num("weightPct"), num("actualPct"), num("plannedPct"),
	},
}

// table is the format-neutral form of one section: column names plus rows
// of cell text. A blank cell is "".
type table struct {
	columns []string
	rows    [][]string
	index   map[string]int
}

func newTable(sec Section) *table {
	cols := schema[sec]
	t := &table{columns: make([]string, len(cols))}
	for i, c := range cols {
		t.columns[i] = c.name
	}
	return t
}

func tableWithColumns(columns []string) *table {
	return &table{columns: columns}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// get reads a cell by column name; unknown columns and short rows are blank.
func (t *table) get(row []string, name string) string {
	if t.index == nil {
		t.index = make(map[string]int, len(t.columns))
		for i, c := range t.columns {
			t.index[strings.TrimSpace(c)] = i
		}
	}
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (t *table) has(name string) bool {
	t.get(nil, name)
	_, ok := t.index[name]
	return ok
}

func columnKind(sec Section, name string) kind {
	for _, c := range schema[sec] {
		if c.name == name {
			return c.kind
		}
	}
	return kindText
}

// encodeTables renders every section of the model. Derived scope fields come
// from the canonical snapshot as of asOf.
func encodeTables(m *domain.Model, asOf time.Time) map[Section]*table {
	snap := progress.DeriveSnapshot(m, asOf)
	out := make(map[Section]*table, len(AllSections))

	p := newTable(SectionProject)
	lg := m.Project.Legend
	p.add(m.Project.Name, dates.FormatPtr(m.Project.Startup), m.Project.MarkerLabel,
		formatBool(lg.Baseline), formatBool(lg.Planned), formatBool(lg.Actual), formatBool(lg.Variance))
	out[SectionProject] = p

	sc := newTable(SectionScopes)
	for i, s := range m.Scopes {
		ss := snap.Scopes[i]
		unitsToDate, actual := "", ""
		switch pr := s.Progress.(type) {
		case domain.UnitProgress:
			unitsToDate = formatOpt(pr.ToDate, fullPrecision)
			actual = formatPct(ss.ActualPct)
		case domain.PercentProgress:
			actual = formatOpt(pr.Pct, domain.PctPlaces)
		}
		sc.add(s.ID, s.Label, dates.FormatPtr(s.Start), dates.FormatPtr(s.End),
			formatOpt(s.Cost, fullPrecision), ss.UnitsLabel, formatOpt(ss.TotalUnits, fullPrecision),
			unitsToDate, actual, formatOpt(ss.ProgressValue, domain.PctPlaces),
			formatRate(ss.PerDay), formatPct(ss.PlannedPct), s.SectionName, s.SectionID)
	}
	out[SectionScopes] = sc

	da := newTable(SectionDailyActuals)
	for _, k := range domain.SortedKeys(m.DailyActuals) {
		da.add(k, formatPct(m.DailyActuals[k]))
	}
	out[SectionDailyActuals] = da

	h := newTable(SectionHistory)
	for _, e := range m.History {
		h.add(dates.Format(e.Date), formatPct(e.ActualPct))
	}
	out[SectionHistory] = h

	b := newTable(SectionBaseline)
	if m.Baseline != nil {
		ts := strconv.FormatInt(m.Baseline.TakenAt.UnixMilli(), 10)
		for i, d := range m.Baseline.Days {
			planned := 0.0
			if i < len(m.Baseline.Planned) {
				planned = m.Baseline.Planned[i]
			}
			b.add(dates.Format(d), formatPct(planned), ts)
		}
	}
	out[SectionBaseline] = b

	tp := newTable(SectionTimeSeriesProject)
	for _, date := range domain.SortedKeys(m.TimeSeriesProject) {
		for _, kv := range m.TimeSeriesProject[date] {
			tp.add(date, kv.Key, kv.Value)
		}
	}
	out[SectionTimeSeriesProject] = tp

	ts := newTable(SectionTimeSeriesScopes)
	for _, date := range domain.SortedKeys(m.TimeSeriesScopes) {
		for _, r := range m.TimeSeriesScopes[date] {
			ts.add(scopeSnapshotRow(date, r, formatOpt(r.Cost, fullPrecision))...)
		}
	}
	out[SectionTimeSeriesScopes] = ts

	tsec := newTable(SectionTimeSeriesSections)
	for _, date := range domain.SortedKeys(m.TimeSeriesSections) {
		for _, r := range m.TimeSeriesSections[date] {
			tsec.add(date, r.SectionID, r.SectionName, dates.FormatPtr(r.Start), dates.FormatPtr(r.End),
				formatPct(r.WeightPct), formatPct(r.ActualPct), formatPct(r.PlannedPct))
		}
	}
	out[SectionTimeSeriesSections] = tsec
	return out
}

func scopeSnapshotRow(date string, r domain.ScopeSnapshot, cost string) []string {
	return []string{
		date, r.ScopeID, r.Label, dates.FormatPtr(r.Start), dates.FormatPtr(r.End), cost,
		r.UnitsLabel, formatOpt(r.TotalUnits, fullPrecision), formatOpt(r.ProgressValue, domain.PctPlaces),
		formatPct(r.ActualPct), formatPct(r.PlannedPct), formatRate(r.PerDay), r.SectionName, r.SectionID,
	}
}

// decodeTables turns parsed tables back into a payload. Unparsable numbers
// become blank (optional fields) or 0 (required fields); invalid key dates
// are reported by Validate.
func decodeTables(tables map[Section]*table) *Payload {
	p := newPayload()
	for sec, t := range tables {
		p.Present[sec] = true
		switch sec {
		case SectionProject:
			p.Project = decodeProject(t)
		case SectionScopes:
			for _, row := range t.rows {
				p.Scopes = append(p.Scopes, decodeScope(t, row))
			}
		case SectionDailyActuals:
			for i, row := range t.rows {
				d := t.get(row, "date")
				if day, ok := dates.Parse(d); ok {
					p.DailyActuals[dates.Format(day)] = parseNum(t.get(row, "actualPct"))
				} else {
					p.badDate(sec, i, d)
				}
			}
		case SectionHistory:
			for i, row := range t.rows {
				d := t.get(row, "date")
				if day, ok := dates.Parse(d); ok {
					p.History = append(p.History, domain.HistoryEntry{Date: day, ActualPct: parseNum(t.get(row, "actualPct"))})
				} else {
					p.badDate(sec, i, d)
				}
			}
		case SectionBaseline:
			p.Baseline = decodeBaseline(t, p)
		case SectionTimeSeriesProject:
			for i, row := range t.rows {
				date, ok := p.snapshotDate(sec, i, t.get(row, "historyDate"))
				if !ok {
					continue
				}
				p.TimeSeriesProject[date] = append(p.TimeSeriesProject[date],
					domain.ProjectKV{Key: t.get(row, "key"), Value: t.get(row, "value")})
			}
		case SectionTimeSeriesScopes:
			for i, row := range t.rows {
				date, ok := p.snapshotDate(sec, i, t.get(row, "historyDate"))
				if !ok {
					continue
				}
				p.TimeSeriesScopes[date] = append(p.TimeSeriesScopes[date], decodeScopeSnapshot(t, row))
			}
		case SectionTimeSeriesSections:
			for i, row := range t.rows {
				date, ok := p.snapshotDate(sec, i, t.get(row, "historyDate"))
				if !ok {
					continue
				}
				p.TimeSeriesSections[date] = append(p.TimeSeriesSections[date], domain.SectionSnapshot{
					SectionID:   t.get(row, "sectionID"),
					SectionName: t.get(row, "sectionName"),
					Start:       dates.ParsePtr(t.get(row, "start")),
					End:         dates.ParsePtr(t.get(row, "end")),
					WeightPct:   parseNum(t.get(row, "weightPct")),
					ActualPct:   parseNum(t.get(row, "actualPct")),
					PlannedPct:  parseNum(t.get(row, "plannedPct")),
				})
			}
		}
	}
	return p
}

func decodeProject(t *table) *domain.Project {
	proj := &domain.Project{Legend: domain.DefaultLegend()}
	if len(t.rows) == 0 {
		return proj
	}
	row := t.rows[0]
	proj.Name = t.get(row, "name")
	proj.Startup = dates.ParsePtr(t.get(row, "startup"))
	proj.MarkerLabel = t.get(row, "markerLabel")
	proj.Legend.Baseline = parseBool(t.get(row, "legendBaseline"), true)
	proj.Legend.Planned = parseBool(t.get(row, "legendPlanned"), true)
	proj.Legend.Actual = parseBool(t.get(row, "legendActual"), true)
	proj.Legend.Variance = parseBool(t.get(row, "legendVariance"), true)
	return proj
}

func decodeScope(t *table, row []string) domain.Scope {
	value := parseOpt(t.get(row, "progressValue"))
	pct := parseOpt(t.get(row, "actualPct"))
	if pct == nil {
		pct = value
	}
	toDate := parseOpt(t.get(row, "unitsToDate"))
	if toDate == nil {
		toDate = value
	}
	label := strings.TrimSpace(t.get(row, "unitsLabel"))
	return domain.Scope{
		ID:          strings.TrimSpace(t.get(row, "scopeId")),
		Label:       t.get(row, "label"),
		Start:       dates.ParsePtr(t.get(row, "start")),
		End:         dates.ParsePtr(t.get(row, "end")),
		Cost:        parseOpt(t.get(row, "cost")),
		Progress:    domain.NewProgress(label, parseOpt(t.get(row, "totalUnits")), pct, toDate),
		SectionName: strings.TrimSpace(t.get(row, "sectionName")),
		SectionID:   strings.TrimSpace(t.get(row, "sectionID")),
	}
}

func decodeScopeSnapshot(t *table, row []string) domain.ScopeSnapshot {
	return domain.ScopeSnapshot{
		ScopeID:       strings.TrimSpace(t.get(row, "scopeId")),
		Label:         t.get(row, "label"),
		Start:         dates.ParsePtr(t.get(row, "start")),
		End:           dates.ParsePtr(t.get(row, "end")),
		Cost:          parseOpt(t.get(row, "cost")),
		UnitsLabel:    t.get(row, "unitsLabel"),
		TotalUnits:    parseOpt(t.get(row, "totalUnits")),
		ProgressValue: parseOpt(t.get(row, "progressValue")),
		ActualPct:     parseNum(t.get(row, "actualPct")),
		PlannedPct:    parseNum(t.get(row, "plannedPct")),
		PerDay:        parseNum(t.get(row, "perDay")),
		SectionName:   strings.TrimSpace(t.get(row, "sectionName")),
		SectionID:     strings.TrimSpace(t.get(row, "sectionID")),
	}
}

func decodeBaseline(t *table, p *Payload) *domain.Baseline {
	if len(t.rows) == 0 {
		return nil
	}
	b := &domain.Baseline{}
	for i, row := range t.rows {
		d := t.get(row, "date")
		day, ok := dates.Parse(d)
		if !ok {
			p.badDate(SectionBaseline, i, d)
			continue
		}
		b.Days = append(b.Days, day)
		b.Planned = append(b.Planned, parseNum(t.get(row, "planned")))
		if b.TakenAt.IsZero() {
			if ms := parseOpt(t.get(row, "ts")); ms != nil {
				b.TakenAt = time.UnixMilli(int64(*ms)).UTC()
			}
		}
	}
	return b
}
