package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/tipdash/internal/config"
	"github.com/KaramelBytes/tipdash/internal/dashboard"
	"github.com/KaramelBytes/tipdash/internal/render"
	"github.com/KaramelBytes/tipdash/internal/utils"
	"github.com/KaramelBytes/tipdash/internal/watch"
)

var (
	renderOut    string
	renderSmoker string
	renderRaw    bool
	renderPNG    bool
	renderWatch  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dashboard to static files",
	Long: `Render the dashboard once into --out: index.html, page.json and, with --png,
one PNG per chart. With --watch the output is rebuilt whenever the data file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		sel, err := parseSmokerFlag(renderSmoker)
		if err != nil {
			return err
		}
		req := dashboard.Request{Smoker: sel, ShowRaw: renderRaw}
		out := cmd.OutOrStdout()

		err = renderOnce(out, c, req)
		if !renderWatch {
			return err
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %v\n", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(out, "✓ Watching %s (Ctrl+C to stop)\n", c.DataFile)
		debounce := time.Duration(c.WatchDebounceMs) * time.Millisecond
		return watch.File(ctx, c.DataFile, debounce, logger, func() {
			if err := renderOnce(out, c, req); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %v\n", err)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "dist", "output directory")
	renderCmd.Flags().StringVar(&renderSmoker, "smoker", "all", "smoker filter: all|yes|no")
	renderCmd.Flags().BoolVar(&renderRaw, "raw", false, "include the raw data sample")
	renderCmd.Flags().BoolVar(&renderPNG, "png", false, "also write one PNG per chart")
	renderCmd.Flags().BoolVar(&renderWatch, "watch", false, "re-render when the data file changes")
}

func parseSmokerFlag(v string) (dashboard.Selection, error) {
	sel := dashboard.ParseSelection(v)
	if sel == dashboard.SelectAll && !strings.EqualFold(strings.TrimSpace(v), string(dashboard.SelectAll)) && strings.TrimSpace(v) != "" {
		return "", fmt.Errorf("unsupported --smoker: %s (use all|yes|no)", v)
	}
	return sel, nil
}

// renderOnce runs one pass and writes its output files. A missing data file
// yields an error carrying the page's message and writes nothing.
func renderOnce(out io.Writer, c *cfgpkg.Global, req dashboard.Request) error {
	start := time.Now()
	p, err := dashboard.Run(c.DataFile, req, c.DashboardOptions())
	if err != nil {
		logger.Debug("render pass failed", zap.String("run_id", p.RunID), zap.Error(err))
		return errors.New(p.Error)
	}
	if err := utils.EnsureDir(renderOut); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	opt := render.HTMLOptions{}
	if renderPNG {
		opt.ChartURL = "%s.png"
	}
	var buf bytes.Buffer
	if err := render.HTML(&buf, p, opt); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(filepath.Join(renderOut, "index.html"), buf.Bytes()); err != nil {
		return err
	}
	b, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(filepath.Join(renderOut, "page.json"), b); err != nil {
		return err
	}

	charts := p.Charts()
	if renderPNG {
		for _, ch := range charts {
			buf.Reset()
			if err := render.PNG(&buf, ch, c.PNGWidth, c.PNGHeight); err != nil {
				if errors.Is(err, render.ErrNoData) {
					logger.Debug("skip empty chart", zap.String("chart", ch.ID))
					continue
				}
				return err
			}
			if err := utils.SafeWriteFile(filepath.Join(renderOut, ch.ID+".png"), buf.Bytes()); err != nil {
				return err
			}
		}
	}

	warnings := p.Warnings()
	for _, w := range warnings {
		fmt.Fprintf(out, "⚠ %s\n", w)
	}
	logger.Debug("render pass",
		zap.String("run_id", p.RunID),
		zap.Int("rows", p.Rows),
		zap.Duration("elapsed", time.Since(start)),
	)
	fmt.Fprintf(out, "✓ Rendered %d charts (%d warnings) to %s\n", len(charts), len(warnings), renderOut)
	return nil
}
