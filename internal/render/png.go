package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/tipdash/internal/chart"
)

// ErrNoData is returned by PNG when a chart has nothing to draw.
var ErrNoData = errors.New("chart has no data")

// PNG draws c as a static image of the given size.
func PNG(w io.Writer, c chart.Chart, width, height int) error {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	switch c.Kind {
	case chart.KindHistogram:
		bars := make([]gochart.Value, len(c.Bins))
		for i, b := range c.Bins {
			bars[i] = gochart.Value{Label: formatEdge(b.Start) + "-" + formatEdge(b.End), Value: float64(b.Count)}
		}
		return renderBars(w, c, bars, width, height)
	case chart.KindBar:
		bars := make([]gochart.Value, len(c.Bars))
		for i, b := range c.Bars {
			v := gochart.Value{Label: b.Label, Value: b.Value}
			if c.ColorByCategory {
				v.Style = gochart.Style{FillColor: gochart.GetDefaultColor(i), StrokeColor: gochart.GetDefaultColor(i)}
			}
			bars[i] = v
		}
		return renderBars(w, c, bars, width, height)
	case chart.KindScatter:
		return renderScatter(w, c, width, height)
	default:
		return fmt.Errorf("png: unsupported chart kind %q", c.Kind)
	}
}

func renderBars(w io.Writer, c chart.Chart, bars []gochart.Value, width, height int) error {
	if len(bars) == 0 {
		return ErrNoData
	}
	barWidth := (width - 120) / (2 * len(bars))
	if barWidth < 4 {
		barWidth = 4
	}
	bc := gochart.BarChart{
		Title:        c.Title,
		Width:        width,
		Height:       height,
		BarWidth:     barWidth,
		Background:   gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:        gochart.YAxis{Name: c.YTitle, Range: barRange(bars)},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", c.ID, err)
	}
	return nil
}

func renderScatter(w io.Writer, c chart.Chart, width, height int) error {
	if len(c.Points) == 0 {
		return ErrNoData
	}
	xs := make([]float64, len(c.Points))
	ys := make([]float64, len(c.Points))
	for i, p := range c.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	ch := gochart.Chart{
		Title:      c.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      gochart.XAxis{Name: c.XTitle, Range: paddedRange(xs, c.ZeroBased)},
		YAxis:      gochart.YAxis{Name: c.YTitle, Range: paddedRange(ys, c.ZeroBased)},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    c.Title,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeWidth: gochart.Disabled,
					DotWidth:    3,
				},
			},
		},
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", c.ID, err)
	}
	return nil
}

// paddedRange spans vals with 5% headroom; zero pins the lower bound at 0.
func paddedRange(vals []float64, zero bool) *gochart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1)
	}
	r := &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	if zero && lo >= 0 {
		r.Min = 0
	}
	return r
}

// barRange spans the bar values and the zero baseline. go-chart rejects an
// empty range, which it would derive from a single bar or equal bars.
func barRange(bars []gochart.Value) *gochart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if lo == hi {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
