package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tipdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tipdash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_file: %s\n", cfg.DataFile)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %s\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "sample_rows: %d\n", cfg.SampleRows)
		fmt.Fprintf(out, "hist_max_bins: %d\n", cfg.MaxBins)
		fmt.Fprintf(out, "day_order: %s\n", strings.Join(cfg.DayOrder, ","))
		fmt.Fprintf(out, "smoker_yes: %s\n", cfg.SmokerYes)
		fmt.Fprintf(out, "smoker_no: %s\n", cfg.SmokerNo)
		fmt.Fprintf(out, "png_width: %d\n", cfg.PNGWidth)
		fmt.Fprintf(out, "png_height: %d\n", cfg.PNGHeight)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "watch_debounce_ms: %d\n", cfg.WatchDebounceMs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from disk so flag overrides such as --data are not persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		next := *c
		switch key {
		case "data_file":
			next.DataFile = val
		case "delimiter":
			next.Delimiter = cfgpkg.NormalizeDelimiter(val)
			if next.DelimiterRune() == 0 && next.Delimiter != "" {
				return fmt.Errorf("invalid delimiter: %s (use comma, semicolon, tab or auto)", val)
			}
		case "listen_addr":
			next.ListenAddr = val
		case "sample_rows", "hist_max_bins", "png_width", "png_height", "watch_debounce_ms":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %w", key, err)
			}
			switch key {
			case "sample_rows":
				next.SampleRows = i
			case "hist_max_bins":
				next.MaxBins = i
			case "png_width":
				next.PNGWidth = i
			case "png_height":
				next.PNGHeight = i
			case "watch_debounce_ms":
				next.WatchDebounceMs = i
			}
		case "day_order":
			var days []string
			for _, d := range strings.Split(val, ",") {
				if d = strings.TrimSpace(d); d != "" {
					days = append(days, d)
				}
			}
			next.DayOrder = days
		case "smoker_yes":
			next.SmokerYes = val
		case "smoker_no":
			next.SmokerNo = val
		case "log_level":
			next.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
