package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/scopecurve/internal/domain"
)

const (
	xmlNamespace = "http://schemas.microsoft.com/project"
	xmlStartTime = "T08:00:00"
	xmlEndTime   = "T17:00:00"
	csvAttrTail  = "CSV"
)

type xmlAttr struct {
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

type xmlTask struct {
	UID             int       `xml:"UID"`
	ID              int       `xml:"ID"`
	Name            string    `xml:"Name"`
	Start           string    `xml:"Start,omitempty"`
	Finish          string    `xml:"Finish,omitempty"`
	PercentComplete string    `xml:"PercentComplete,omitempty"`
	Cost            string    `xml:"Cost,omitempty"`
	Attrs           []xmlAttr `xml:"ExtendedAttribute"`
}

type xmlTasks struct {
	Tasks []xmlTask `xml:"Task"`
}

type xmlProject struct {
	XMLName   xml.Name  `xml:"Project"`
	Namespace string    `xml:"xmlns,attr,omitempty"`
	Name      string    `xml:"Name"`
	StartDate string    `xml:"StartDate,omitempty"`
	Attrs     []xmlAttr `xml:"ExtendedAttributes>ExtendedAttribute"`
	Tasks     *xmlTasks `xml:"Tasks"`
}

// scope columns carried natively by a task; the rest travel as attributes.
var nativeTaskColumns = map[string]bool{
	"label": true, "start": true, "end": true, "cost": true, "actualPct": true,
}

// tabular sections embedded in project attributes as CSV text.
var embeddedSections = []Section{
	SectionDailyActuals, SectionHistory, SectionBaseline,
	SectionTimeSeriesProject, SectionTimeSeriesScopes, SectionTimeSeriesSections,
}

// EncodeXML writes the model as project/task XML. Scopes become tasks; the
// remaining sections ride in project extended attributes as CSV text.
func EncodeXML(m *domain.Model, asOf time.Time) ([]byte, error) {
	tables := encodeTables(m, asOf)

	proj := tables[SectionProject]
	prow := proj.rows[0]
	doc := xmlProject{
		Namespace: xmlNamespace,
		Name:      proj.get(prow, "name"),
		Tasks:     &xmlTasks{},
	}
	if startup := proj.get(prow, "startup"); startup != "" {
		doc.StartDate = startup + xmlStartTime
	}
	for _, col := range proj.columns[2:] {
		doc.Attrs = append(doc.Attrs, xmlAttr{Name: col, Value: proj.get(prow, col)})
	}
	for _, sec := range embeddedSections {
		var buf bytes.Buffer
		if err := writeTable(&buf, tables[sec]); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", sec, err)
		}
		doc.Attrs = append(doc.Attrs, xmlAttr{Name: jsonKeys[sec] + csvAttrTail, Value: buf.String()})
	}

	sc := tables[SectionScopes]
	for i, row := range sc.rows {
		task := xmlTask{
			UID:             i + 1,
			ID:              i + 1,
			Name:            sc.get(row, "label"),
			PercentComplete: sc.get(row, "actualPct"),
			Cost:            sc.get(row, "cost"),
		}
		if s := sc.get(row, "start"); s != "" {
			task.Start = s + xmlStartTime
		}
		if e := sc.get(row, "end"); e != "" {
			task.Finish = e + xmlEndTime
		}
		for _, col := range sc.columns {
			if nativeTaskColumns[col] {
				continue
			}
			if v := sc.get(row, col); v != "" {
				task.Attrs = append(task.Attrs, xmlAttr{Name: col, Value: v})
			}
		}
		doc.Tasks.Tasks = append(doc.Tasks.Tasks, task)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding xml: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// DecodeXML parses project/task XML written by EncodeXML. Every task must
// carry a scopeId extended attribute; Decode rejects the load otherwise.
func DecodeXML(data []byte) (*Payload, error) {
	var doc xmlProject
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	attrs := map[string]string{}
	for _, a := range doc.Attrs {
		attrs[strings.TrimSpace(a.Name)] = a.Value
	}

	tables := map[Section]*table{}
	proj := newTable(SectionProject)
	prow := make([]string, len(proj.columns))
	for i, col := range proj.columns {
		switch col {
		case "name":
			prow[i] = doc.Name
		case "startup":
			prow[i] = doc.StartDate
		default:
			prow[i] = attrs[col]
		}
	}
	proj.add(prow...)
	tables[SectionProject] = proj

	if doc.Tasks != nil {
		sc := newTable(SectionScopes)
		for _, task := range doc.Tasks.Tasks {
			ta := map[string]string{}
			for _, a := range task.Attrs {
				ta[strings.TrimSpace(a.Name)] = a.Value
			}
			row := make([]string, len(sc.columns))
			for i, col := range sc.columns {
				switch col {
				case "label":
					row[i] = task.Name
				case "start":
					row[i] = task.Start
				case "end":
					row[i] = task.Finish
				case "cost":
					row[i] = task.Cost
				case "actualPct":
					row[i] = task.PercentComplete
				default:
					row[i] = ta[col]
				}
			}
			sc.add(row...)
		}
		tables[SectionScopes] = sc
	}

	for _, sec := range embeddedSections {
		raw, ok := attrs[jsonKeys[sec]+csvAttrTail]
		if !ok {
			continue
		}
		t, err := readTable(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sec, err)
		}
		if t == nil {
			t = newTable(sec)
		}
		tables[sec] = t
	}
	return decodeTables(tables), nil
}
