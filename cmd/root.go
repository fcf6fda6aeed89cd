package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/tipdash/internal/config"
	"github.com/KaramelBytes/tipdash/internal/logging"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	dataFile string

	// Loaded configuration
	cfg    *cfgpkg.Global
	cfgErr error
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "tipdash",
	Short: "tipdash: an interactive dashboard for the restaurant tips dataset",
	Long: `tipdash reads a delimited tips file (tip.csv by default) and renders four charts:
the total bill distribution, average tip by day, total bill vs. tip, and average tip
by time for a smoker filter. Serve it over HTTP or render it to static files.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tipdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "data file to read (overrides data_file)")
}

func loadConfig() {
	cfg, cfgErr = nil, nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal here: commands that need config report it through requireConfig.
		cfgErr = err
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	if rootCmd.PersistentFlags().Changed("data") && dataFile != "" {
		c.DataFile = dataFile
	}
	cfg = c
	logger = logging.New(cfg.LogLevel, debug)
}

// requireConfig returns the loaded configuration after validating it.
func requireConfig() (*cfgpkg.Global, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return nil, errors.New("no configuration loaded")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
