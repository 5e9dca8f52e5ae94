package codec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/scopecurve/internal/domain"
)

const sectionMarker = "#"

// EncodeCSV writes the model as sectioned CSV: each section is a "#NAME"
// line, a column-name line and its data rows, separated by blank lines.
func EncodeCSV(m *domain.Model, asOf time.Time) ([]byte, error) {
	tables := encodeTables(m, asOf)
	var buf bytes.Buffer
	for i, sec := range AllSections {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(sectionMarker + string(sec) + "\n")
		if err := writeTable(&buf, tables[sec]); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", sec, err)
		}
	}
	return buf.Bytes(), nil
}

// writeTable writes a column-name line and the rows of t as plain CSV.
func writeTable(w io.Writer, t *table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return err
	}
	return cw.Error()
}

// readTable parses a column-name line plus rows, as written by writeTable.
func readTable(data string) (*table, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	t := tableWithColumns(records[0])
	for _, rec := range records[1:] {
		if len(rec) > len(t.columns) {
			return nil, fmt.Errorf("%w: row has %d fields, header has %d", ErrMalformed, len(rec), len(t.columns))
		}
		t.add(rec...)
	}
	return t, nil
}

// DecodeCSV parses sectioned CSV. Unknown sections are skipped; rows before
// the first section marker are an error.
func DecodeCSV(data []byte) (*Payload, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1

	tables := map[Section]*table{}
	var (
		current   Section
		skipping  bool
		cur       *table
		wantNames bool
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if isBlankRecord(rec) {
			continue
		}
		if len(rec) == 1 && strings.HasPrefix(strings.TrimSpace(rec[0]), sectionMarker) {
			name := Section(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(rec[0]), sectionMarker)))
			_, known := schema[name]
			current, skipping, wantNames, cur = name, !known, known, nil
			continue
		}
		switch {
		case current == "":
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: data before the first section marker", ErrMalformed, line)
		case skipping:
			continue
		case wantNames:
			cols := make([]string, len(rec))
			for i, c := range rec {
				cols[i] = strings.TrimSpace(c)
			}
			cur = tableWithColumns(cols)
			tables[current] = cur
			wantNames = false
		default:
			if len(rec) > len(cur.columns) {
				line, _ := r.FieldPos(0)
				return nil, fmt.Errorf("%w: line %d: %d fields under a %d-column %s header",
					ErrMalformed, line, len(rec), len(cur.columns), current)
			}
			cur.add(rec...)
		}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no recognizable sections", ErrMalformed)
	}
	return decodeTables(tables), nil
}

func isBlankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
