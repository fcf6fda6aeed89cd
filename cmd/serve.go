package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tipdash/internal/metrics"
	"github.com/KaramelBytes/tipdash/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long:  `Serve the dashboard. Every page load re-reads the data file, so edits show up on refresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		addr := c.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{
			DataFile:  c.DataFile,
			Options:   c.DashboardOptions(),
			PNGWidth:  c.PNGWidth,
			PNGHeight: c.PNGHeight,
		}, logger, metrics.NewCollector("tipdash"))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving %s at http://%s (Ctrl+C to stop)\n", c.DataFile, addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
}
