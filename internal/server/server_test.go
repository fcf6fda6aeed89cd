package server

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tipdash/internal/dashboard"
	"github.com/KaramelBytes/tipdash/internal/metrics"
)

const tips = `total_bill,tip,sex,smoker,day,time,size
16.99,1.01,Female,No,Sun,Dinner,2
10.34,1.66,Male,No,Sun,Dinner,3
25.29,4.71,Male,Yes,Sat,Dinner,4
8.77,2.0,Male,Yes,Thur,Lunch,2
26.88,3.12,Male,Yes,Fri,Lunch,4
`

func newTestServer(t *testing.T, body string) (*httptest.Server, string, *metrics.Collector) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tip.csv")
	if body != "" {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	m := metrics.NewCollector("tipdash")
	s := New(Config{DataFile: path, Options: dashboard.DefaultOptions(), PNGWidth: 400, PNGHeight: 200}, nil, m)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, path, m
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestIndexRendersDashboard(t *testing.T) {
	ts, _, _ := newTestServer(t, tips)
	resp, body := get(t, ts.URL+"/?smoker=yes&raw=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Analysis for smokers: Yes")
	assert.Contains(t, body, "<th>total_bill</th>")
	assert.Equal(t, 4, strings.Count(body, "vegaEmbed("))
}

func TestIndexMissingFileShowsOnlyError(t *testing.T) {
	ts, _, _ := newTestServer(t, "")
	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `class="error"`)
	assert.NotContains(t, body, "vegaEmbed(")
}

func TestPageJSON(t *testing.T) {
	ts, _, _ := newTestServer(t, tips)
	resp, body := get(t, ts.URL+"/api/page?smoker=no")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p dashboard.Page
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	assert.Equal(t, dashboard.SelectNo, p.Request.Smoker)
	assert.Equal(t, 5, p.Rows)
	c, ok := p.Chart(dashboard.ChartTipByTime)
	require.True(t, ok)
	require.Len(t, c.Bars, 1)
	assert.Equal(t, "Dinner", c.Bars[0].Label)
}

func TestPageJSONMissingFile(t *testing.T) {
	ts, _, _ := newTestServer(t, "")
	resp, body := get(t, ts.URL+"/api/page")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "not found")
}

func TestPageReflectsFileChanges(t *testing.T) {
	ts, path, _ := newTestServer(t, tips)
	_, body := get(t, ts.URL+"/api/page")
	assert.Contains(t, body, `"rows":5`)

	require.NoError(t, os.WriteFile(path, []byte("total_bill,tip\n10,1\n"), 0o644))
	_, body = get(t, ts.URL+"/api/page")
	assert.Contains(t, body, `"rows":1`)
	assert.Contains(t, body, "Column 'day' not found in the CSV.")
}

func TestChartPNG(t *testing.T) {
	ts, _, _ := newTestServer(t, tips)
	resp, err := http.Get(ts.URL + "/charts/tip-by-day.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}

func TestChartPNGSingleBar(t *testing.T) {
	ts, _, _ := newTestServer(t, tips)
	// Non-smokers in the fixture only have Dinner rows.
	resp, err := http.Get(ts.URL + "/charts/tip-by-time.png?smoker=no")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	_, err = png.Decode(resp.Body)
	require.NoError(t, err)
}

func TestChartSpecJSON(t *testing.T) {
	ts, _, _ := newTestServer(t, tips)
	resp, body := get(t, ts.URL+"/charts/bill-vs-tip.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var spec map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &spec))
	assert.Contains(t, spec, "params")
}

func TestChartNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t, tips)
	resp, _ := get(t, ts.URL+"/charts/nope.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = get(t, ts.URL+"/charts/tip-by-day.svg")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChartGuardedIsNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t, "tip,day\n1,Sun\n")
	resp, _ := get(t, ts.URL+"/charts/total-bill-histogram.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _, _ := newTestServer(t, "tip\n1\n")
	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	get(t, ts.URL+"/")
	resp, body = get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `tipdash_render_passes_total{outcome="ok"} 1`)
	assert.Contains(t, body, "tipdash_schema_warnings_total 3")
	assert.Contains(t, body, "tipdash_dataset_rows 1")

	// HTTP metrics are recorded after the response is flushed.
	assert.Eventually(t, func() bool {
		_, body := get(t, ts.URL+"/metrics")
		return strings.Contains(body, `tipdash_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
	}, time.Second, 10*time.Millisecond)
}

func TestIsTruthy(t *testing.T) {
	for _, s := range []string{"1", "true", "ON", " yes "} {
		assert.True(t, isTruthy(s), s)
	}
	for _, s := range []string{"", "0", "false", "no"} {
		assert.False(t, isTruthy(s), s)
	}
}
