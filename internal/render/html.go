package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/KaramelBytes/tipdash/internal/dashboard"
)

type htmlSection struct {
	Header  string
	Warning string
	ChartID string
	Spec    template.JS
}

type htmlPage struct {
	dashboard.Page
	Sections   []htmlSection
	ChartURL   string
	FormAction string
}

// HTMLOptions adjusts links emitted in the page.
type HTMLOptions struct {
	// ChartURL is a fmt pattern taking the chart ID, e.g. "/charts/%s.png". Empty disables links.
	ChartURL string
	// FormAction is where the sidebar form submits. Empty means the current URL.
	FormAction string
}

// HTML writes the full page. Charts are drawn client-side by vega-embed.
func HTML(w io.Writer, p dashboard.Page, opt HTMLOptions) error {
	hp := htmlPage{Page: p, ChartURL: opt.ChartURL, FormAction: opt.FormAction}
	for _, s := range p.Sections {
		hs := htmlSection{Header: s.Header, Warning: s.Warning}
		if s.Chart != nil {
			b, err := VegaLite(*s.Chart)
			if err != nil {
				return err
			}
			hs.ChartID = s.Chart.ID
			hs.Spec = template.JS(b)
		}
		hp.Sections = append(hp.Sections, hs)
	}
	if err := pageTemplate.Execute(w, hp); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"chartURL":   func(pattern, id string) string { return fmt.Sprintf(pattern, id) },
	"isSelected": func(a, b dashboard.Selection) bool { return a == b },
}).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="https://cdn.jsdelivr.net/npm/vega@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-lite@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-embed@6"></script>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 0; display: flex; color: #262730; }
aside { width: 260px; min-height: 100vh; background: #f0f2f6; padding: 1.5rem 1rem; box-sizing: border-box; }
main { flex: 1; padding: 2rem 3rem; max-width: 960px; }
hr { border: 0; border-top: 1px solid #e6e6e6; margin: 2rem 0; }
.error { background: #ffe6e6; color: #7d0000; padding: 1rem; border-radius: 6px; }
.warning { background: #fffbe6; color: #7a5c00; padding: 1rem; border-radius: 6px; }
.info { background: #e6f0ff; color: #00337d; padding: .75rem; border-radius: 6px; }
.chart { width: 100%; }
table { border-collapse: collapse; font-size: .875rem; }
th, td { border: 1px solid #e6e6e6; padding: .25rem .5rem; text-align: left; }
footer { color: #6c757d; margin-top: 2rem; }
</style>
</head>
<body>
<aside>
{{- if not .Error}}
<h2>{{.Sidebar.Header}}</h2>
<form method="get"{{if .FormAction}} action="{{.FormAction}}"{{end}}>
{{- if .Sidebar.Options}}
<label for="smoker">{{.Sidebar.Label}}</label>
<select id="smoker" name="smoker" onchange="this.form.submit()">
{{- range .Sidebar.Options}}
<option value="{{.}}"{{if isSelected . $.Sidebar.Selected}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>
{{- else if .Sidebar.Info}}
<p class="info">{{.Sidebar.Info}}</p>
{{- end}}
<p><label><input type="checkbox" name="raw" value="1" onchange="this.form.submit()"{{if .Request.ShowRaw}} checked{{end}}> Show raw data (first rows)</label></p>
</form>
{{- end}}
</aside>
<main>
<h1>{{.Title}}</h1>
{{- if .Error}}
<p class="error">{{.Error}}</p>
{{- else}}
{{- with .Sample}}
<h3>Data Sample</h3>
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
{{- end}}
{{- range .Sections}}
<hr>
{{- if .Header}}
<h2>{{.Header}}</h2>
{{- end}}
{{- if .Warning}}
<p class="warning">{{.Warning}}</p>
{{- end}}
{{- if .ChartID}}
<div class="chart" id="chart-{{.ChartID}}"></div>
<script>vegaEmbed("#chart-{{.ChartID}}", {{.Spec}}, {actions: false});</script>
{{- if $.ChartURL}}
<p><a href="{{chartURL $.ChartURL .ChartID}}">PNG</a></p>
{{- end}}
{{- end}}
{{- end}}
<footer>{{.Footer}} <small>run {{.RunID}}</small></footer>
{{- end}}
</main>
</body>
</html>
`
