package dashboard

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/tipdash/internal/chart"
	"github.com/KaramelBytes/tipdash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tipRows = []string{
	"total_bill,tip,sex,smoker,day,time,size",
	"16.99,1.01,Female,No,Sun,Dinner,2",
	"10.34,1.66,Male,No,Sun,Dinner,3",
	"21.01,3.5,Male,No,Sun,Dinner,3",
	"25.29,4.71,Male,Yes,Sat,Dinner,4",
	"8.77,2.0,Male,Yes,Thur,Lunch,2",
	"26.88,3.12,Male,Yes,Fri,Lunch,4",
	"15.04,1.96,Male,No,Sat,Dinner,2",
}

func writeTips(t *testing.T, lines []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tip.csv")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")), 0o644))
	return p
}

func load(t *testing.T, lines []string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Load(writeTips(t, lines), dataset.DefaultOptions())
	require.NoError(t, err)
	return tbl
}

// dropColumn removes one column from a CSV fixture.
func dropColumn(lines []string, name string) []string {
	idx := -1
	for i, h := range strings.Split(lines[0], ",") {
		if h == name {
			idx = i
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		cells := strings.Split(l, ",")
		cells = append(cells[:idx:idx], cells[idx+1:]...)
		out[i] = strings.Join(cells, ",")
	}
	return out
}

func TestRunMissingFile(t *testing.T) {
	p, err := Run(filepath.Join(t.TempDir(), "tip.csv"), Request{}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrFileNotFound))
	assert.Contains(t, p.Error, "tip.csv")
	assert.Empty(t, p.Sections)
	assert.Empty(t, p.Charts())
	assert.Empty(t, p.Warnings())
	assert.Nil(t, p.Sample)
}

func TestBuildFullPage(t *testing.T) {
	p := Build(load(t, tipRows), Request{}, DefaultOptions())

	assert.Empty(t, p.Error)
	assert.NotEmpty(t, p.RunID)
	assert.Equal(t, SelectAll, p.Request.Smoker)
	assert.Empty(t, p.Warnings())
	ids := []string{}
	for _, c := range p.Charts() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{ChartBillHistogram, ChartTipByDay, ChartBillVsTip, ChartTipByTime}, ids)
	assert.Equal(t, Selections, p.Sidebar.Options)
	assert.Empty(t, p.Sidebar.Info)
	assert.Nil(t, p.Sample)

	day, ok := p.Chart(ChartTipByDay)
	require.True(t, ok)
	assert.Equal(t, []string{"Thur", "Fri", "Sat", "Sun"}, day.Categories())

	scatter, ok := p.Chart(ChartBillVsTip)
	require.True(t, ok)
	assert.Equal(t, []string{"total_bill", "tip", "size"}, scatter.Tooltip)
	assert.Len(t, scatter.Points, 7)

	byTime, ok := p.Chart(ChartTipByTime)
	require.True(t, ok)
	assert.True(t, byTime.ColorByCategory)
	assert.Equal(t, []string{"Dinner", "Lunch"}, byTime.Categories())
	assert.Contains(t, byTime.Title, "Smokers: All")
}

func TestBuildMissingTotalBill(t *testing.T) {
	p := Build(load(t, dropColumn(tipRows, "total_bill")), Request{}, DefaultOptions())

	hist := p.Sections[0]
	assert.Nil(t, hist.Chart)
	assert.Equal(t, "Column 'total_bill' not found in the CSV.", hist.Warning)

	_, ok := p.Chart(ChartTipByDay)
	assert.True(t, ok, "day chart renders without total_bill")
	_, ok = p.Chart(ChartTipByTime)
	assert.True(t, ok, "filtered chart renders without total_bill")
	assert.Contains(t, p.Sections[2].Warning, "'total_bill'")
}

func TestBuildMissingDayAndTip(t *testing.T) {
	lines := dropColumn(dropColumn(tipRows, "day"), "tip")
	p := Build(load(t, lines), Request{Smoker: SelectYes}, DefaultOptions())
	assert.Equal(t, "Columns 'day', 'tip' not found in the CSV.", p.Sections[1].Warning)
	_, ok := p.Chart(ChartBillHistogram)
	assert.True(t, ok)
	require.Len(t, p.Sections, 4)
	assert.Equal(t, "Analysis for smokers: Yes", p.Sections[3].Header)
	assert.Equal(t, "Column 'tip' not found for the filtered chart.", p.Sections[3].Warning)
}

func TestBuildMissingTimeWithAllSelectionIsSilent(t *testing.T) {
	p := Build(load(t, dropColumn(tipRows, "time")), Request{Smoker: SelectAll}, DefaultOptions())
	assert.Len(t, p.Sections, 3)
	assert.Empty(t, p.Warnings())
}

func TestBuildWithoutSmokerColumn(t *testing.T) {
	p := Build(load(t, dropColumn(tipRows, "smoker")), Request{Smoker: SelectNo}, DefaultOptions())
	assert.Len(t, p.Sections, 3)
	assert.Contains(t, p.Sidebar.Info, "'smoker'")
	assert.Empty(t, p.Sidebar.Options)
	_, ok := p.Chart(ChartTipByTime)
	assert.False(t, ok)
}

func TestSmokerFilter(t *testing.T) {
	tbl := load(t, tipRows)
	opts := DefaultOptions()

	yes := FilterBySmoker(tbl, SelectYes, opts)
	assert.Equal(t, 3, yes.Len())
	for i := 0; i < yes.Len(); i++ {
		assert.Equal(t, "Yes", yes.Value(i, ColSmoker))
	}
	assert.Equal(t, 4, FilterBySmoker(tbl, SelectNo, opts).Len())
	assert.Equal(t, tbl.Len(), FilterBySmoker(tbl, SelectAll, opts).Len())

	p := Build(tbl, Request{Smoker: SelectYes}, opts)
	byTime, ok := p.Chart(ChartTipByTime)
	require.True(t, ok)
	require.Len(t, byTime.Bars, 2)
	assert.Equal(t, chart.Bar{Label: "Dinner", Value: 4.71, Count: 1}, byTime.Bars[0])
	assert.InDelta(t, 2.56, byTime.Bars[1].Value, 1e-9)
	assert.Equal(t, "Analysis for smokers: Yes", p.Sections[3].Header)
}

func TestBuildNormalizesUnknownSelection(t *testing.T) {
	tbl := load(t, tipRows)
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"smoker":"maybe"}`), &req))

	p := Build(tbl, req, DefaultOptions())
	assert.Equal(t, SelectAll, p.Request.Smoker)
	assert.Equal(t, SelectAll, p.Sidebar.Selected)
	require.Len(t, p.Sections, 4)
	assert.Empty(t, p.Sections[3].Header)
	byTime, ok := p.Chart(ChartTipByTime)
	require.True(t, ok)
	assert.Contains(t, byTime.Title, "Smokers: All")

	// Aliases resolve to their canonical selection.
	p = Build(tbl, Request{Smoker: "Smokers"}, DefaultOptions())
	assert.Equal(t, SelectYes, p.Request.Smoker)
	assert.Equal(t, "Analysis for smokers: Yes", p.Sections[3].Header)
}

func TestScatterTooltipWithoutSize(t *testing.T) {
	p := Build(load(t, dropColumn(tipRows, ColSize)), Request{}, DefaultOptions())
	assert.Empty(t, p.Warnings())

	scatter, ok := p.Chart(ChartBillVsTip)
	require.True(t, ok)
	assert.Equal(t, []string{"total_bill", "tip", "total_bill"}, scatter.Tooltip)
	assert.Len(t, scatter.Points, 7)
	for _, pt := range scatter.Points {
		assert.Empty(t, pt.Extra["size"])
	}
}

func TestSmokerLiteralsAreConfigurable(t *testing.T) {
	lines := []string{"smoker,time,tip", "S,Dinner,2", "N,Dinner,4", "Yes,Lunch,9"}
	opts := DefaultOptions()
	opts.SmokerYes, opts.SmokerNo = "S", "N"
	tbl := load(t, lines)
	assert.Equal(t, 1, FilterBySmoker(tbl, SelectYes, opts).Len())
	assert.Equal(t, "S", FilterBySmoker(tbl, SelectYes, opts).Value(0, ColSmoker))
}

func TestParseSelection(t *testing.T) {
	assert.Equal(t, SelectYes, ParseSelection("Yes"))
	assert.Equal(t, SelectNo, ParseSelection(" no "))
	assert.Equal(t, SelectAll, ParseSelection(""))
	assert.Equal(t, SelectAll, ParseSelection("maybe"))
	assert.Equal(t, "All", SelectAll.Label())
}

func TestBuildRawSample(t *testing.T) {
	p := Build(load(t, tipRows), Request{ShowRaw: true}, DefaultOptions())
	require.NotNil(t, p.Sample)
	assert.Len(t, p.Sample.Rows, 5)
	assert.Equal(t, "total_bill", p.Sample.Columns[0])
	assert.Equal(t, "16.99", p.Sample.Rows[0][0])
}

func TestRunIsDeterministic(t *testing.T) {
	path := writeTips(t, tipRows)
	req := Request{Smoker: SelectNo, ShowRaw: true}
	a, err := Run(path, req, DefaultOptions())
	require.NoError(t, err)
	b, err := Run(path, req, DefaultOptions())
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	a.RunID, b.RunID = "", ""
	assert.Equal(t, a, b)
}
