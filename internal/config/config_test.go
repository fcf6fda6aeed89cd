package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataFile != "tip.csv" {
		t.Fatalf("data_file = %q", c.DataFile)
	}
	if c.ListenAddr != "127.0.0.1:8501" || c.MaxBins != 20 || c.SampleRows != 5 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if !reflect.DeepEqual(c.DayOrder, []string{"Thur", "Fri", "Sat", "Sun"}) {
		t.Fatalf("day_order = %v", c.DayOrder)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	o := c.DashboardOptions()
	if o.SmokerYes != "Yes" || o.SmokerNo != "No" || o.MaxBins != 20 {
		t.Fatalf("dashboard options: %+v", o)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("data_file: bills.csv\nhist_max_bins: 10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TIPDASH_HIST_MAX_BINS", "30")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataFile != "bills.csv" {
		t.Fatalf("file value not applied: %q", c.DataFile)
	}
	if c.MaxBins != 30 {
		t.Fatalf("env should override file: %d", c.MaxBins)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.SmokerYes = "Sim"
	c.SmokerNo = "Não"
	c.Delimiter = "semicolon"
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.SmokerYes != "Sim" || got.SmokerNo != "Não" {
		t.Fatalf("round trip lost smoker literals: %+v", got)
	}
	if got.DelimiterRune() != ';' {
		t.Fatalf("delimiter = %q", got.DelimiterRune())
	}
}

func TestValidateReportsFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.ListenAddr = "not an address"
	c.MaxBins = 0
	c.SmokerNo = c.SmokerYes
	err = c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"ListenAddr must be host:port", "MaxBins must be at least 1", "SmokerNo must differ from SmokerYes"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in %q", want, msg)
		}
	}
}

func TestLoadNormalizesLiteralDelimiters(t *testing.T) {
	cases := map[string]rune{
		`";"`:       ';',
		`","`:       ',',
		`"\t"`:      '\t',
		`Semicolon`: ';',
		`auto`:      0,
	}
	for yamlValue, want := range cases {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("delimiter: "+yamlValue+"\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		c, err := Load(path)
		if err != nil {
			t.Fatalf("%s: Load: %v", yamlValue, err)
		}
		if err := c.Validate(); err != nil {
			t.Fatalf("%s: should validate: %v", yamlValue, err)
		}
		if got := c.DelimiterRune(); got != want {
			t.Fatalf("%s: delimiter = %q, want %q", yamlValue, got, want)
		}
	}
}

func TestLoadRejectsUnknownDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("delimiter: pipe\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	err = c.Validate()
	if err == nil || !strings.Contains(err.Error(), "Delimiter must be one of") {
		t.Fatalf("expected delimiter validation error, got %v", err)
	}
}
