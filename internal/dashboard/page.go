// Package dashboard assembles the tip analysis page from a dataset.
//
// A page is rebuilt from scratch on every interaction: Run loads the file and
// Build maps (Table, Request) to an ordered list of sections. Nothing is cached
// between passes.
package dashboard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tipdash/internal/chart"
	"github.com/KaramelBytes/tipdash/internal/dataset"
	"github.com/google/uuid"
)

// Column names the dashboard reads.
const (
	ColTotalBill = "total_bill"
	ColTip       = "tip"
	ColDay       = "day"
	ColTime      = "time"
	ColSmoker    = "smoker"
	ColSize      = "size"
)

// Chart IDs, stable across passes.
const (
	ChartBillHistogram = "total-bill-histogram"
	ChartTipByDay      = "tip-by-day"
	ChartBillVsTip     = "bill-vs-tip"
	ChartTipByTime     = "tip-by-time"
)

// Options carries the knobs that shape a page.
type Options struct {
	MaxBins    int
	SampleRows int
	DayOrder   []string
	SmokerYes  string
	SmokerNo   string
	Load       dataset.Options
}

// DefaultOptions returns the tips dataset conventions.
func DefaultOptions() Options {
	return Options{
		MaxBins:    chart.DefaultMaxBins,
		SampleRows: 5,
		DayOrder:   []string{"Thur", "Fri", "Sat", "Sun"},
		SmokerYes:  "Yes",
		SmokerNo:   "No",
	}
}

// Request is the UI state of one interaction.
type Request struct {
	Smoker  Selection `json:"smoker"`
	ShowRaw bool      `json:"show_raw"`
}

// Page is the full output of one render pass.
type Page struct {
	Title    string    `json:"title"`
	RunID    string    `json:"run_id"`
	Error    string    `json:"error,omitempty"`
	Request  Request   `json:"request"`
	Rows     int       `json:"rows"`
	Sample   *Sample   `json:"sample,omitempty"`
	Sections []Section `json:"sections,omitempty"`
	Sidebar  Sidebar   `json:"sidebar"`
	Footer   string    `json:"footer,omitempty"`
}

// Sample is the raw data preview shown under the checkbox.
type Sample struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Section is one chart slot: either a chart or a warning, possibly under a header.
type Section struct {
	Header  string       `json:"header,omitempty"`
	Chart   *chart.Chart `json:"chart,omitempty"`
	Warning string       `json:"warning,omitempty"`
}

// Sidebar describes the filter controls.
type Sidebar struct {
	Header   string      `json:"header"`
	Label    string      `json:"label,omitempty"`
	Options  []Selection `json:"options,omitempty"`
	Selected Selection   `json:"selected"`
	Info     string      `json:"info,omitempty"`
}

const pageTitle = "Tip Analysis"

// Run loads path and builds the page. When the file cannot be read the page
// carries only the error message and the error is returned as well.
func Run(path string, req Request, opts Options) (Page, error) {
	t, err := dataset.Load(path, opts.Load)
	if err != nil {
		p := Page{Title: pageTitle, RunID: uuid.NewString(), Request: req}
		if errors.Is(err, dataset.ErrFileNotFound) {
			p.Error = fmt.Sprintf("File '%s' not found. Place it in the working directory or adjust data_file.", filepath.Base(path))
		} else {
			p.Error = fmt.Sprintf("Could not read '%s': %v", filepath.Base(path), err)
		}
		return p, err
	}
	return Build(t, req, opts), nil
}

// Build maps a loaded table and the UI state to a page. It does not modify t.
func Build(t *dataset.Table, req Request, opts Options) Page {
	req.Smoker = ParseSelection(string(req.Smoker))
	p := Page{Title: pageTitle, RunID: uuid.NewString(), Request: req, Rows: t.Len()}
	if req.ShowRaw {
		n := opts.SampleRows
		if n <= 0 {
			n = 5
		}
		h := t.Head(n)
		p.Sample = &Sample{Columns: h.Columns, Rows: h.Rows}
	}

	p.Sections = append(p.Sections,
		billHistogram(t, opts),
		tipByDay(t, opts),
		billVsTip(t),
	)
	sidebar, filtered := smokerSection(t, req.Smoker, opts)
	p.Sidebar = sidebar
	if filtered != nil {
		p.Sections = append(p.Sections, *filtered)
	}
	p.Footer = "End of analysis."
	return p
}

// Chart returns the chart with the given ID, if the pass produced one.
func (p Page) Chart(id string) (chart.Chart, bool) {
	for _, s := range p.Sections {
		if s.Chart != nil && s.Chart.ID == id {
			return *s.Chart, true
		}
	}
	return chart.Chart{}, false
}

// Charts returns every chart on the page in display order.
func (p Page) Charts() []chart.Chart {
	var out []chart.Chart
	for _, s := range p.Sections {
		if s.Chart != nil {
			out = append(out, *s.Chart)
		}
	}
	return out
}

// Warnings returns every warning on the page in display order.
func (p Page) Warnings() []string {
	var out []string
	for _, s := range p.Sections {
		if s.Warning != "" {
			out = append(out, s.Warning)
		}
	}
	return out
}

// guard reports a warning for the columns of need that t lacks.
func guard(t *dataset.Table, need ...string) (string, bool) {
	missing := t.Missing(need...)
	if len(missing) == 0 {
		return "", true
	}
	quoted := make([]string, len(missing))
	for i, m := range missing {
		quoted[i] = "'" + m + "'"
	}
	if len(missing) == 1 {
		return fmt.Sprintf("Column %s not found in the CSV.", quoted[0]), false
	}
	return fmt.Sprintf("Columns %s not found in the CSV.", strings.Join(quoted, ", ")), false
}

func billHistogram(t *dataset.Table, opts Options) Section {
	s := Section{Header: "Total Bill Distribution"}
	if w, ok := guard(t, ColTotalBill); !ok {
		s.Warning = w
		return s
	}
	c := chart.Histogram(t, ColTotalBill, opts.MaxBins)
	c.ID = ChartBillHistogram
	c.Title = "Total Bill Histogram"
	c.XTitle = "Total Bill ($)"
	c.YTitle = "Frequency"
	s.Chart = &c
	return s
}

func tipByDay(t *dataset.Table, opts Options) Section {
	s := Section{Header: "Average Tip by Day of Week"}
	if w, ok := guard(t, ColDay, ColTip); !ok {
		s.Warning = w
		return s
	}
	c := chart.AverageBy(t, ColDay, ColTip, opts.DayOrder)
	c.ID = ChartTipByDay
	c.Title = "Average Tip by Day of Week"
	c.XTitle = "Day of Week"
	c.YTitle = "Average Tip ($)"
	s.Chart = &c
	return s
}

func billVsTip(t *dataset.Table) Section {
	s := Section{Header: "Total Bill vs. Tip"}
	if w, ok := guard(t, ColTotalBill, ColTip); !ok {
		s.Warning = w
		return s
	}
	c := chart.Scatter(t, ColTotalBill, ColTip, ColSize)
	c.ID = ChartBillVsTip
	c.Title = "Total Bill vs. Tip"
	c.XTitle = "Total Bill ($)"
	c.YTitle = "Tip ($)"
	c.Tooltip = []string{ColTotalBill, ColTip, ColTotalBill}
	if t.HasColumn(ColSize) {
		c.Tooltip[2] = ColSize
	}
	s.Chart = &c
	return s
}

// smokerSection builds the sidebar and, when a smoker column exists, the filtered section.
func smokerSection(t *dataset.Table, sel Selection, opts Options) (Sidebar, *Section) {
	sb := Sidebar{Header: "Filter Options", Selected: sel}
	if !t.HasColumn(ColSmoker) {
		sb.Info = fmt.Sprintf("Column '%s' not found; smoker filter unavailable.", ColSmoker)
		return sb, nil
	}
	sb.Label = "Filter by smoker:"
	sb.Options = Selections

	view := FilterBySmoker(t, sel, opts)
	s := Section{}
	if sel != SelectAll {
		s.Header = "Analysis for smokers: " + sel.Label()
	}
	if w, ok := guard(view, ColTime, ColTip); !ok {
		if sel == SelectAll {
			return sb, nil
		}
		s.Warning = strings.TrimSuffix(w, " in the CSV.") + " for the filtered chart."
		return sb, &s
	}
	c := chart.AverageBy(view, ColTime, ColTip, nil)
	c.ID = ChartTipByTime
	c.Title = fmt.Sprintf("Average Tip by Time (Smokers: %s)", sel.Label())
	c.XTitle = "Time"
	c.YTitle = "Average Tip ($)"
	c.ColorByCategory = true
	s.Chart = &c
	return sb, &s
}
