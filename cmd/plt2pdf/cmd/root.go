package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"pltpages/pkg/cfg"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "plt2pdf [file-or-dir...]",
	Short: "Convert HPGL plot files into printable page documents",
	Long: `Convert HPGL/PLT plot files into PDF, SVG or g-code documents, either on a
single sheet sized to the drawing or tiled over fixed-size pages that can be
printed and taped back together.

With no arguments every *.plt file of the input directory (input_plt) is
converted into the output directory (output_pdf).

Examples:
  plt2pdf                                     # Convert input_plt/ with defaults
  plt2pdf --policy single-sheet plan.plt      # One page sized to the drawing
  plt2pdf --policy margin-overlay --page a3   # A3 tiles with paste margins
  plt2pdf plan input_plt/house.plt            # Show the tile grid only`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runConvert,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	def := cfg.Default()
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&configPath, "config", "", "config file (default ./plt2pdf.yaml if present)")
	flags.String("page", "a4", "named page size: a4, a3 or letter")
	flags.Float64("page-width", def.PageWidth, "page width in mm")
	flags.Float64("page-height", def.PageHeight, "page height in mm")
	flags.Float64("overlap", def.Overlap, "overlap between neighbouring tiles in mm")
	flags.Float64("margin", def.Margin, "page margin of the margin-overlay policy in mm")
	flags.Float64("sheet-margin", def.SheetMargin, "border of the single-sheet policy in mm")
	flags.StringP("policy", "p", def.Policy, "tiling policy: single-sheet, step or margin-overlay")
	flags.StringP("format", "f", def.Format, "output format: pdf, svg or gcode")
	flags.String("input-dir", def.InputDir, "directory scanned when no inputs are given")
	flags.StringP("output-dir", "o", def.OutputDir, "directory for converted files")
	flags.IntP("jobs", "j", def.Jobs, "files converted in parallel")
}

func loadConfig(cmd *cobra.Command) (cfg.Config, error) {
	return cfg.Load(configPath, cmd.Flags())
}

// logger writes to stderr when verbose, otherwise nowhere.
func logger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", 0)
	}
	return nil
}
