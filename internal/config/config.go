package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tipdash/internal/dashboard"
	"github.com/KaramelBytes/tipdash/internal/dataset"
)

// Global configuration structure.
type Global struct {
	DataFile   string   `mapstructure:"data_file" yaml:"data_file" validate:"required"`
	Delimiter  string   `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,oneof=comma semicolon tab"`
	ListenAddr string   `mapstructure:"listen_addr" yaml:"listen_addr" validate:"required,hostname_port"`
	SampleRows int      `mapstructure:"sample_rows" yaml:"sample_rows" validate:"min=1,max=1000"`
	MaxBins    int      `mapstructure:"hist_max_bins" yaml:"hist_max_bins" validate:"min=1,max=200"`
	DayOrder   []string `mapstructure:"day_order" yaml:"day_order" validate:"dive,required"`
	SmokerYes  string   `mapstructure:"smoker_yes" yaml:"smoker_yes" validate:"required"`
	SmokerNo   string   `mapstructure:"smoker_no" yaml:"smoker_no" validate:"required,nefield=SmokerYes"`

	// PNG export
	PNGWidth  int `mapstructure:"png_width" yaml:"png_width" validate:"min=100,max=4000"`
	PNGHeight int `mapstructure:"png_height" yaml:"png_height" validate:"min=100,max=4000"`

	LogLevel        string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	WatchDebounceMs int    `mapstructure:"watch_debounce_ms" yaml:"watch_debounce_ms" validate:"min=0"`
}

var validate = validator.New()

// Validate checks field constraints and reports every violation in one error.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, formatFieldError(e))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", field)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// DashboardOptions maps the configuration onto page-building options.
func (c *Global) DashboardOptions() dashboard.Options {
	o := dashboard.DefaultOptions()
	o.MaxBins = c.MaxBins
	o.SampleRows = c.SampleRows
	if len(c.DayOrder) > 0 {
		o.DayOrder = append([]string(nil), c.DayOrder...)
	}
	o.SmokerYes = c.SmokerYes
	o.SmokerNo = c.SmokerNo
	o.Load = dataset.Options{Delimiter: c.DelimiterRune()}
	return o
}

// NormalizeDelimiter maps literal and named delimiter spellings onto the names
// stored in config. "" and "auto" mean detect; unknown values are returned as is.
func NormalizeDelimiter(v string) string {
	if strings.Contains(v, "\t") {
		return "tab"
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case ",", "comma":
		return "comma"
	case ";", "semicolon":
		return "semicolon"
	case "tab", `\t`:
		return "tab"
	case "", "auto":
		return ""
	}
	return v
}

// DelimiterRune resolves the delimiter name; 0 means detect from the file extension.
func (c *Global) DelimiterRune() rune {
	switch strings.ToLower(strings.TrimSpace(c.Delimiter)) {
	case ",", "comma":
		return ','
	case ";", "semicolon":
		return ';'
	case "tab", "\t":
		return '\t'
	default:
		return 0
	}
}

// Dir returns the default configuration directory, ~/.tipdash.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tipdash"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tipdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TIPDASH")
	v.AutomaticEnv()

	v.SetDefault("data_file", "tip.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("listen_addr", "127.0.0.1:8501")
	v.SetDefault("sample_rows", 5)
	v.SetDefault("hist_max_bins", 20)
	v.SetDefault("day_order", []string{"Thur", "Fri", "Sat", "Sun"})
	v.SetDefault("smoker_yes", "Yes")
	v.SetDefault("smoker_no", "No")
	v.SetDefault("png_width", 800)
	v.SetDefault("png_height", 400)
	v.SetDefault("log_level", "info")
	v.SetDefault("watch_debounce_ms", 300)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Delimiter = NormalizeDelimiter(c.Delimiter)
	return &c, nil
}
