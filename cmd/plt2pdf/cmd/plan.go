package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pltpages/pkg/convert"
	"pltpages/pkg/layout"
)

var planCmd = &cobra.Command{
	Use:   "plan <plt-file>",
	Short: "Show how a plot file would be paged, without writing output",
	Long: `Parse a plot file and print the drawing size, the tile grid and the
non-empty tiles with their segment counts.

Examples:
  plt2pdf plan house.plt
  plt2pdf plan --policy margin-overlay --page a3 house.plt`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	policy, err := c.TilingPolicy()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	conv := &convert.Converter{Logger: logger()}
	d, err := conv.Load(f)
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:     %s\n", args[0])
	fmt.Fprintf(out, "Segments: %d\n", len(d.Segments))
	fmt.Fprintf(out, "Drawing:  %.1f x %.1f mm\n", d.Width, d.Height)
	fmt.Fprintf(out, "Policy:   %s\n", policy.Name())

	if p, ok := policy.(layout.SingleSheet); ok {
		sheet, err := layout.PlanSheet(d, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Sheet:    %.1f x %.1f mm\n", sheet.Page.Width, sheet.Page.Height)
		return nil
	}

	g, err := layout.PlanGrid(d, policy)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Page:     %s (%g x %g mm)\n", c.PageName(), g.Page.Width, g.Page.Height)
	fmt.Fprintf(out, "Grid:     %d rows x %d cols = %d pages (%d empty skipped)\n\n",
		g.Rows, g.Cols, len(g.Tiles), g.Rows*g.Cols-len(g.Tiles))
	for i, t := range g.Tiles {
		fmt.Fprintf(out, "  %3d  %-4s  x %7.1f..%-7.1f  y %7.1f..%-7.1f  %d segments\n",
			i+1, t.Label(), t.Window.Min.X, t.Window.Max.X, t.Window.Min.Y, t.Window.Max.Y, len(t.Segments))
	}
	return nil
}
