package chart

import (
	"math"
	"sort"

	"github.com/KaramelBytes/tipdash/internal/dataset"
)

// DefaultMaxBins matches the histogram resolution of the dashboard.
const DefaultMaxBins = 20

// Histogram counts the valid numeric values of field into nice bins.
func Histogram(t *dataset.Table, field string, maxBins int) Chart {
	if maxBins <= 0 {
		maxBins = DefaultMaxBins
	}
	c := Chart{Kind: KindHistogram, XField: field, MaxBins: maxBins}
	vals := make([]float64, 0, t.Len())
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < t.Len(); i++ {
		x, ok := t.Float(i, field)
		if !ok {
			continue
		}
		vals = append(vals, x)
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if len(vals) == 0 {
		return c
	}
	b := niceBins(lo, hi, maxBins)
	n := 0
	if b.valid() {
		n = b.count()
	}
	if n <= 0 || n > 2*maxBins {
		// Spans near the float64 limits overflow the step; count everything in one bin.
		c.Bins = []Bin{{Start: lo, End: hi, Count: len(vals)}}
		return c
	}
	c.Bins = make([]Bin, n)
	for i := range c.Bins {
		c.Bins[i] = Bin{Start: roundEdge(b.start + float64(i)*b.step), End: roundEdge(b.start + float64(i+1)*b.step)}
	}
	for _, x := range vals {
		c.Bins[b.index(x)].Count++
	}
	return c
}

// AverageBy groups rows by groupField and averages valueField per group.
// Invalid values are ignored; groups without a single valid value are dropped.
// Groups listed in order come first in that order, the rest follow lexically.
func AverageBy(t *dataset.Table, groupField, valueField string, order []string) Chart {
	c := Chart{Kind: KindBar, XField: groupField, YField: valueField, ValueFormat: "$.2f"}
	sums := map[string]float64{}
	counts := map[string]int{}
	for i := 0; i < t.Len(); i++ {
		x, ok := t.Float(i, valueField)
		if !ok {
			continue
		}
		key := t.Value(i, groupField)
		sums[key] += x
		counts[key]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	if len(order) > 0 {
		keys = dataset.Categorize(keys, order)
		c.Ordinal = true
	} else {
		sort.Strings(keys)
	}
	for _, k := range keys {
		c.Bars = append(c.Bars, Bar{Label: k, Value: sums[k] / float64(counts[k]), Count: counts[k]})
	}
	return c
}

// Scatter pairs xField and yField for rows where both parse as numbers.
// extra columns are copied verbatim for tooltips when present in the table.
func Scatter(t *dataset.Table, xField, yField string, extra ...string) Chart {
	c := Chart{
		Kind:        KindScatter,
		XField:      xField,
		YField:      yField,
		ZeroBased:   false,
		Interactive: true,
		PointSize:   60,
	}
	for i := 0; i < t.Len(); i++ {
		x, okx := t.Float(i, xField)
		y, oky := t.Float(i, yField)
		if !okx || !oky {
			continue
		}
		p := Point{X: x, Y: y}
		for _, e := range extra {
			if e == xField || e == yField || !t.HasColumn(e) {
				continue
			}
			if p.Extra == nil {
				p.Extra = map[string]string{}
			}
			p.Extra[e] = t.Value(i, e)
		}
		c.Points = append(c.Points, p)
	}
	return c
}

func roundEdge(v float64) float64 {
	r := math.Round(v*1e10) / 1e10
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}
