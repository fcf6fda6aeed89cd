package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tipdash/internal/dashboard"
	"github.com/KaramelBytes/tipdash/internal/dataset"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Describe the data file and which charts it supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		opts := c.DashboardOptions()
		t, err := dataset.Load(c.DataFile, opts.Load)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, t.Describe())
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Charts:")

		p := dashboard.Build(t, dashboard.Request{}, opts)
		for _, s := range p.Sections {
			if s.Chart != nil {
				fmt.Fprintf(out, "✓ %s\n", s.Chart.Title)
				continue
			}
			fmt.Fprintf(out, "⚠ %s: %s\n", s.Header, s.Warning)
		}
		if _, ok := p.Chart(dashboard.ChartTipByTime); !ok {
			if p.Sidebar.Info != "" {
				fmt.Fprintf(out, "⚠ %s\n", p.Sidebar.Info)
			} else {
				fmt.Fprintf(out, "⚠ Average Tip by Time: requires columns '%s' and '%s'\n", dashboard.ColTime, dashboard.ColTip)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
