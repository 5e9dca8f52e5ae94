package codec

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = testutil.Day("2024-01-06")

func encode(t *testing.T, m *domain.Model, f Format) []byte {
	t.Helper()
	var (
		out []byte
		err error
	)
	switch f {
	case FormatCSV:
		out, err = EncodeCSV(m, asOf)
	case FormatJSON:
		out, err = EncodeJSON(m, asOf, DialectFull)
	case FormatJSONAI:
		out, err = EncodeJSON(m, asOf, DialectAI)
	case FormatXML:
		out, err = EncodeXML(m, asOf)
	}
	require.NoError(t, err)
	return out
}

func TestRoundTrip_AllFormats(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatJSON, FormatXML} {
		t.Run(string(f), func(t *testing.T) {
			want := testutil.RichModel()
			data := encode(t, want, f)

			p, err := Decode(data, f)
			require.NoError(t, err)
			got := Merge(nil, p, domain.LoadOverwrite)

			assert.Equal(t, want.Project, got.Project)
			assert.Equal(t, want.Scopes, got.Scopes)
			assert.Equal(t, want.History, got.History)
			assert.Equal(t, want.DailyActuals, got.DailyActuals)
			assert.Equal(t, want.Baseline, got.Baseline)
			assert.Equal(t, want.TimeSeriesScopes, got.TimeSeriesScopes)
			assert.Equal(t, want.TimeSeriesSections, got.TimeSeriesSections)
			assert.Equal(t, want.TimeSeriesProject, got.TimeSeriesProject)
			assert.True(t, got.SectionIDs.Has("sec_aaa111"))
		})
	}
}

func TestRoundTrip_Idempotent(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatJSON, FormatXML} {
		t.Run(string(f), func(t *testing.T) {
			first := encode(t, testutil.RichModel(), f)
			p, err := Decode(first, f)
			require.NoError(t, err)
			second := encode(t, Merge(nil, p, domain.LoadOverwrite), f)
			assert.Equal(t, string(first), string(second))
		})
	}
}

func TestRoundTrip_UnitsLabelWithoutTotal(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatJSON, FormatXML} {
		t.Run(string(f), func(t *testing.T) {
			s := testutil.NewTestScope("a", testutil.WithCost(1))
			s.Progress = domain.NewProgress(domain.UnitsFeet, nil, domain.Float64Ptr(30), nil)
			data := encode(t, testutil.NewTestModel(s), f)
			if f == FormatCSV {
				assert.Contains(t, string(data), ",Feet,,,30,30,")
			}

			p, err := Decode(data, f)
			require.NoError(t, err)
			got := Merge(nil, p, domain.LoadOverwrite)
			require.Len(t, got.Scopes, 1)
			pr := got.Scopes[0].Progress
			_, isPct := pr.(domain.PercentProgress)
			assert.True(t, isPct)
			assert.Equal(t, domain.UnitsFeet, domain.UnitsLabel(pr))
			assert.Equal(t, 30.0, domain.PercentOf(pr))
		})
	}
}

func TestEncodeCSV_SectionsAndQuoting(t *testing.T) {
	out := string(encode(t, testutil.RichModel(), FormatCSV))

	for _, sec := range AllSections {
		assert.Contains(t, out, "#"+string(sec)+"\n")
	}
	assert.Contains(t, out, `"Tower, B"`)
	assert.Contains(t, out, `"Site prep, ""phase"" A"`)
	assert.Contains(t, out, "\"Trenching\nnorth\"")
	// s4 has blank cost and progress.
	assert.Contains(t, out, "s4,Blank cost,,,,%,,,,,0,0,,")
}

func TestEncodeCSV_DerivedScopeFields(t *testing.T) {
	m := testutil.NewTestModel(
		testutil.NewTestScope("a", testutil.WithWindow("2024-01-01", "2024-01-11"), testutil.WithCost(1), testutil.WithPct(10)),
	)
	out := string(encode(t, m, FormatCSV))
	// weight 1 over 11 days: 9.091 per day; 5 of 10 elapsed days at 01-06.
	assert.Contains(t, out, "a,Scope a,2024-01-01,2024-01-11,1,%,,,10,10,9.091,50,,")
}

func TestEncodeJSON_ColumnarWithNulls(t *testing.T) {
	out := encode(t, testutil.RichModel(), FormatJSON)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "scopecurve", doc["format"])
	assert.Equal(t, "full", doc["dialect"])

	scopes := doc["scopes"].(map[string]any)
	ids := scopes["scopeId"].([]any)
	costs := scopes["cost"].([]any)
	require.Len(t, ids, 4)
	require.Len(t, costs, 4)
	assert.Equal(t, "s4", ids[3])
	assert.Nil(t, costs[3])
	assert.Equal(t, 100.0, costs[0])

	project := doc["project"].(map[string]any)
	assert.Equal(t, []any{false}, project["legendVariance"])
}

func TestEncodeJSON_AIDialect(t *testing.T) {
	m := testutil.RichModel()
	m.TimeSeriesScopes["2024-01-06"][1].Cost = domain.Float64Ptr(300)
	out := encode(t, m, FormatJSONAI)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.NotContains(t, doc, "project")
	assert.NotContains(t, doc, "scopes")
	assert.NotContains(t, doc, "history")
	assert.NotContains(t, string(out), "Tower, B")

	p, err := DecodeJSON(out)
	require.NoError(t, err)
	assert.False(t, p.Present[SectionProject])
	assert.True(t, p.Present[SectionTimeSeriesScopes])

	rows := p.TimeSeriesScopes["2024-01-06"]
	require.Len(t, rows, 2)
	assert.InDelta(t, 25.0, *rows[0].Cost, 1e-9)
	assert.InDelta(t, 75.0, *rows[1].Cost, 1e-9)

	kvs := p.TimeSeriesProject["2024-01-06"]
	require.Len(t, kvs, 1)
	assert.Equal(t, "totalActualPct", kvs[0].Key)
}

func TestDecodeJSON_ColumnLengthMismatch(t *testing.T) {
	data := []byte(`{"scopes": {"scopeId": ["a", "b"], "label": ["only one"]}}`)
	_, err := Decode(data, FormatJSON)
	assert.ErrorIs(t, err, ErrColumnLength)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"scopes": [`), FormatJSON)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`{"format": "other", "scopes": {}}`), FormatJSON)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeCSV_DataBeforeMarker(t *testing.T) {
	_, err := Decode([]byte("scopeId,label\na,b\n"), FormatCSV)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeCSV_SkipsUnknownSections(t *testing.T) {
	data := "#FUTURE\nx,y\n1,2\n\n#SCOPES\nscopeId,label,cost\na,Alpha,3\n"
	p, err := Decode([]byte(data), FormatCSV)
	require.NoError(t, err)
	require.Len(t, p.Scopes, 1)
	assert.Equal(t, "Alpha", p.Scopes[0].Label)
	assert.Equal(t, 3.0, *p.Scopes[0].Cost)
	assert.False(t, p.Present[SectionProject])
}

func TestDecodeCSV_UnparsableNumbersCoerce(t *testing.T) {
	data := "#SCOPES\nscopeId,cost,actualPct\na,lots,NaN\n\n#HISTORY\ndate,actualPct\n2024-01-02,oops\n"
	p, err := Decode([]byte(data), FormatCSV)
	require.NoError(t, err)
	assert.Nil(t, p.Scopes[0].Cost)
	assert.Nil(t, domain.ProgressValue(p.Scopes[0].Progress))
	assert.Equal(t, 0.0, p.History[0].ActualPct)
}

func TestValidate_ScopeIDs(t *testing.T) {
	data := "#SCOPES\nscopeId,label\na,one\n,two\na,three\n"
	_, err := Decode([]byte(data), FormatCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingScopeID)
	assert.ErrorIs(t, err, ErrDuplicateScopeID)
	assert.Contains(t, err.Error(), "2 errors")
}

func TestValidate_TimeSeriesScopeIDsPerDate(t *testing.T) {
	data := "#TIMESERIES_SCOPES\nhistoryDate,scopeId\n2024-01-01,a\n2024-01-02,a\n2024-01-02,a\n"
	_, err := Decode([]byte(data), FormatCSV)
	assert.ErrorIs(t, err, ErrDuplicateScopeID)
	assert.Contains(t, err.Error(), "2024-01-02")
}

func TestValidate_BadKeyDate(t *testing.T) {
	_, err := Decode([]byte("#DAILY_ACTUALS\ndate,actualPct\nsoon,10\n"), FormatCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid date "soon"`)
}

func TestMerge_AppendNeverDeletes(t *testing.T) {
	base := testutil.RichModel()
	data := "#SCOPES\nscopeId,label,cost,actualPct\ns1,Renamed,100,80\ns5,New,10,0\n\n#HISTORY\ndate,actualPct\n2024-01-09,40\n"
	p, err := Decode([]byte(data), FormatCSV)
	require.NoError(t, err)

	got := Merge(base, p, domain.LoadAppend)

	require.Len(t, got.Scopes, 5)
	assert.Equal(t, "Renamed", got.Scopes[0].Label)
	assert.Equal(t, 80.0, got.Scopes[0].ActualPct())
	assert.Equal(t, "s5", got.Scopes[4].ID)
	assert.Len(t, got.History, 2)
	assert.Equal(t, base.DailyActuals, got.DailyActuals)
	assert.Equal(t, base.Baseline, got.Baseline)
	assert.Equal(t, base.Project, got.Project)
	assert.Equal(t, base.TimeSeriesScopes, got.TimeSeriesScopes)

	// the input model is untouched
	assert.Equal(t, `Site prep, "phase" A`, base.Scopes[0].Label)
	assert.Len(t, base.History, 1)
}

func TestMerge_AppendKeepsSectionsContiguous(t *testing.T) {
	base := testutil.NewTestModel(
		testutil.NewTestScope("a", testutil.WithSection("A", "sec_a")),
		testutil.NewTestScope("b", testutil.WithSection("A", "sec_a")),
		testutil.NewTestScope("c"),
	)
	p, err := Decode([]byte("#SCOPES\nscopeId,sectionName,sectionID\nd,A,sec_a\n"), FormatCSV)
	require.NoError(t, err)

	got := Merge(base, p, domain.LoadAppend)
	ids := []string{}
	for _, s := range got.Scopes {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a", "b", "d", "c"}, ids)
}

func TestMerge_AppendUpsertsSnapshotsByID(t *testing.T) {
	base := testutil.RichModel()
	data := "#TIMESERIES_SCOPES\nhistoryDate,scopeId,label,actualPct\n2024-01-06,s2,Trenching,12\n2024-01-07,s1,Site prep,50\n"
	p, err := Decode([]byte(data), FormatCSV)
	require.NoError(t, err)

	got := Merge(base, p, domain.LoadAppend)
	day6 := got.TimeSeriesScopes["2024-01-06"]
	require.Len(t, day6, 2)
	assert.Equal(t, 40.0, day6[0].ActualPct)
	assert.Equal(t, 12.0, day6[1].ActualPct)
	assert.Len(t, got.TimeSeriesScopes["2024-01-07"], 1)
}

func TestMerge_AppendMatchesSectionSnapshotsByIDAcrossRename(t *testing.T) {
	base := testutil.NewTestModel()
	base.TimeSeriesSections["2024-01-06"] = []domain.SectionSnapshot{
		{SectionID: "sec_abc123", SectionName: "Phase 1", ActualPct: 10},
		{SectionID: "sec_def456", SectionName: "Phase 2", ActualPct: 5},
	}
	data := "#TIMESERIES_SECTIONS\nhistoryDate,sectionID,sectionName,actualPct\n2024-01-06,sec_abc123,Phase One,30\n"
	p, err := Decode([]byte(data), FormatCSV)
	require.NoError(t, err)

	got := Merge(base, p, domain.LoadAppend)
	day6 := got.TimeSeriesSections["2024-01-06"]
	require.Len(t, day6, 2)
	assert.Equal(t, "sec_abc123", day6[0].SectionID)
	assert.Equal(t, "Phase One", day6[0].SectionName)
	assert.Equal(t, 30.0, day6[0].ActualPct)
	assert.Equal(t, 5.0, day6[1].ActualPct)
}

func TestMerge_OverwriteReplaces(t *testing.T) {
	base := testutil.RichModel()
	p, err := Decode([]byte("#SCOPES\nscopeId,label\nz,Only\n"), FormatCSV)
	require.NoError(t, err)

	got := Merge(base, p, domain.LoadOverwrite)
	require.Len(t, got.Scopes, 1)
	assert.Empty(t, got.History)
	assert.Nil(t, got.Baseline)
	assert.Equal(t, domain.DefaultLegend(), got.Project.Legend)
	assert.Len(t, base.Scopes, 4)
}

func TestDecodeXML_TasksWithoutScopeIDAbort(t *testing.T) {
	data := `<?xml version="1.0"?>
<Project xmlns="http://schemas.microsoft.com/project">
  <Name>Imported</Name>
  <Tasks>
    <Task><UID>1</UID><Name>Pour slab</Name><Start>2024-03-01T08:00:00</Start>
      <Finish>2024-03-05T17:00:00</Finish><PercentComplete>40</PercentComplete><Cost>250</Cost></Task>
    <Task><UID>2</UID><Name>Frame walls</Name></Task>
  </Tasks>
</Project>`
	p, err := Decode([]byte(data), FormatXML)
	assert.ErrorIs(t, err, ErrMissingScopeID)
	assert.Nil(t, p)
}

func TestDecodeXML_TaskFieldsWithScopeID(t *testing.T) {
	data := `<?xml version="1.0"?>
<Project xmlns="http://schemas.microsoft.com/project">
  <Name>Imported</Name>
  <Tasks>
    <Task><UID>7</UID><Name>Pour slab</Name><Start>2024-03-01T08:00:00</Start>
      <Finish>2024-03-05T17:00:00</Finish><PercentComplete>40</PercentComplete><Cost>250</Cost>
      <ExtendedAttribute><Name>scopeId</Name><Value>slab</Value></ExtendedAttribute></Task>
  </Tasks>
</Project>`
	p, err := Decode([]byte(data), FormatXML)
	require.NoError(t, err)
	require.Len(t, p.Scopes, 1)

	s := p.Scopes[0]
	assert.Equal(t, "slab", s.ID)
	assert.Equal(t, "Pour slab", s.Label)
	assert.Equal(t, testutil.Day("2024-03-01"), *s.Start)
	assert.Equal(t, testutil.Day("2024-03-05"), *s.End)
	assert.Equal(t, 40.0, s.ActualPct())
	assert.Equal(t, "Imported", p.Project.Name)
}

func TestDecodeXML_Malformed(t *testing.T) {
	_, err := Decode([]byte("<Project><Name>x</Project>"), FormatXML)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatJSON, Detect([]byte("  \n{\"scopes\":{}}")))
	assert.Equal(t, FormatXML, Detect([]byte("\xef\xbb\xbf<?xml version=\"1.0\"?>")))
	assert.Equal(t, FormatCSV, Detect([]byte("#PROJECT\n")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON-AI ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSONAI, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in     float64
		places int
		want   string
	}{
		{3, domain.PctPlaces, "3"},
		{33.33333, domain.PctPlaces, "33.33"},
		{4.6875, domain.RatePlaces, "4.688"},
		{2.9999999999, domain.PctPlaces, "3"},
		{-0.001, domain.PctPlaces, "0"},
		{1234.5678, fullPrecision, "1234.5678"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatNumber(c.in, c.places), "%v", c.in)
	}
	assert.Equal(t, "", formatOpt(nil, domain.PctPlaces))
	nan := math.NaN()
	assert.Equal(t, "", formatOpt(&nan, domain.PctPlaces))
}

func TestParseOpt(t *testing.T) {
	assert.Nil(t, parseOpt(""))
	assert.Nil(t, parseOpt("abc"))
	assert.Nil(t, parseOpt("Inf"))
	assert.Equal(t, 12.5, *parseOpt(" 12.5% "))
	assert.Equal(t, 0.0, parseNum("bad"))
	assert.True(t, strings.EqualFold(formatBool(parseBool("", true)), "true"))
}
