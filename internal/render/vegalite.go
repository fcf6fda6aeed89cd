// Package render turns dashboard pages and charts into HTML, Vega-Lite JSON and PNG.
package render

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/KaramelBytes/tipdash/internal/chart"
)

// VegaLiteSchema is the spec version emitted by VegaLite.
const VegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

type spec map[string]any

// VegaLite returns a Vega-Lite spec for c with the aggregated data inlined.
func VegaLite(c chart.Chart) ([]byte, error) {
	var s spec
	switch c.Kind {
	case chart.KindHistogram:
		s = histogramSpec(c)
	case chart.KindBar:
		s = barSpec(c)
	case chart.KindScatter:
		s = scatterSpec(c)
	default:
		return nil, fmt.Errorf("vega-lite: unsupported chart kind %q", c.Kind)
	}
	s["$schema"] = VegaLiteSchema
	s["title"] = c.Title
	s["width"] = "container"
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal vega-lite: %w", err)
	}
	return b, nil
}

func histogramSpec(c chart.Chart) spec {
	values := make([]spec, len(c.Bins))
	var step float64
	for i, b := range c.Bins {
		values[i] = spec{"bin_start": b.Start, "bin_end": b.End, "count": b.Count}
		step = b.End - b.Start
	}
	x := spec{"field": "bin_start", "type": "quantitative", "title": c.XTitle, "bin": spec{"binned": true}}
	if step > 0 && !math.IsInf(step, 0) {
		x["bin"] = spec{"binned": true, "step": step}
	}
	return spec{
		"data": spec{"values": values},
		"mark": "bar",
		"encoding": spec{
			"x":  x,
			"x2": spec{"field": "bin_end"},
			"y":  spec{"field": "count", "type": "quantitative", "title": c.YTitle},
			"tooltip": []spec{
				{"field": "bin_start", "type": "quantitative", "title": "Bill range from"},
				{"field": "bin_end", "type": "quantitative", "title": "to"},
				{"field": "count", "type": "quantitative", "title": "Count"},
			},
		},
	}
}

func barSpec(c chart.Chart) spec {
	values := make([]spec, len(c.Bars))
	for i, b := range c.Bars {
		values[i] = spec{c.XField: b.Label, "value": b.Value, "count": b.Count}
	}
	xType := "nominal"
	if c.Ordinal {
		xType = "ordinal"
	}
	enc := spec{
		"x": spec{"field": c.XField, "type": xType, "title": c.XTitle, "sort": c.Categories()},
		"y": spec{"field": "value", "type": "quantitative", "title": c.YTitle},
		"tooltip": []spec{
			{"field": c.XField, "type": xType},
			{"field": "value", "type": "quantitative", "title": c.YTitle, "format": c.ValueFormat},
		},
	}
	if c.ColorByCategory {
		enc["color"] = spec{"field": c.XField, "type": "nominal"}
	}
	return spec{
		"data":     spec{"values": values},
		"mark":     "bar",
		"encoding": enc,
	}
}

func scatterSpec(c chart.Chart) spec {
	values := make([]spec, len(c.Points))
	for i, p := range c.Points {
		v := spec{c.XField: p.X, c.YField: p.Y}
		for k, e := range p.Extra {
			v[k] = e
		}
		values[i] = v
	}
	tooltip := make([]spec, 0, len(c.Tooltip))
	for _, f := range c.Tooltip {
		tooltip = append(tooltip, spec{"field": f})
	}
	s := spec{
		"data": spec{"values": values},
		"mark": spec{"type": "circle", "size": c.PointSize},
		"encoding": spec{
			"x":       spec{"field": c.XField, "type": "quantitative", "title": c.XTitle, "scale": spec{"zero": c.ZeroBased}},
			"y":       spec{"field": c.YField, "type": "quantitative", "title": c.YTitle, "scale": spec{"zero": c.ZeroBased}},
			"tooltip": tooltip,
		},
	}
	if c.Interactive {
		s["params"] = []spec{{"name": "zoom", "select": "interval", "bind": "scales"}}
	}
	return s
}
