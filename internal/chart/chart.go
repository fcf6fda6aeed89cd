// Package chart builds renderable chart specifications from a dataset.Table.
//
// Builders aggregate in Go (bin counts, group means) so that every renderer
// draws the same numbers; renderers never see raw rows.
package chart

// Kind identifies the mark family of a chart.
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindBar       Kind = "bar"
	KindScatter   Kind = "scatter"
)

// Chart is a renderable chart specification with its data already computed.
type Chart struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	XTitle string `json:"x_title"`
	YTitle string `json:"y_title"`
	XField string `json:"x_field"`
	YField string `json:"y_field,omitempty"`

	// Histogram
	MaxBins int   `json:"max_bins,omitempty"`
	Bins    []Bin `json:"bins,omitempty"`

	// Bar
	Bars            []Bar  `json:"bars,omitempty"`
	ColorByCategory bool   `json:"color_by_category,omitempty"`
	ValueFormat     string `json:"value_format,omitempty"`
	Ordinal         bool   `json:"ordinal,omitempty"`

	// Scatter
	Points      []Point  `json:"points,omitempty"`
	ZeroBased   bool     `json:"zero_based"`
	Interactive bool     `json:"interactive,omitempty"`
	PointSize   int      `json:"point_size,omitempty"`
	Tooltip     []string `json:"tooltip,omitempty"`
}

// Bin is one histogram interval [Start, End).
type Bin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Bar is one group of a grouped-average chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Point is one scatter mark. Extra carries tooltip-only fields keyed by column name.
type Point struct {
	X     float64           `json:"x"`
	Y     float64           `json:"y"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Categories returns the bar labels in display order.
func (c Chart) Categories() []string {
	out := make([]string, len(c.Bars))
	for i, b := range c.Bars {
		out[i] = b.Label
	}
	return out
}
