package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pltpages/pkg/batch"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file-or-dir...]",
	Short: "Convert plot files (the default command)",
	Long: `Convert the given plot files, or every *.plt / *.PLT file in the given
directories. Without arguments the input directory is used; it is created
on first run.

Examples:
  plt2pdf convert drawings/
  plt2pdf convert -f svg -o out house.plt garage.plt
  plt2pdf convert -j 4 --policy margin-overlay`,
	Args: cobra.ArbitraryArgs,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	inputs := args
	if len(inputs) == 0 {
		if _, err := os.Stat(c.InputDir); errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(c.InputDir, 0o755); err != nil {
				return fmt.Errorf("failed to create input directory: %w", err)
			}
			fmt.Fprintf(out, "Created input directory %s\n", c.InputDir)
			fmt.Fprintf(out, "Put your .plt files there and run plt2pdf again.\n")
			return nil
		}
		inputs = []string{c.InputDir}
	}

	files, err := batch.Discover(inputs)
	if err != nil {
		return fmt.Errorf("failed to find inputs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .plt files found in %s", strings.Join(inputs, ", "))
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	runner, err := batch.NewRunner(c, logger())
	if err != nil {
		return err
	}
	runner.Converter.Logger = logger()

	if verbose {
		fmt.Fprintf(out, "Converting %d files with policy %s on %s pages (%gx%g mm)\n\n",
			len(files), c.Policy, c.PageName(), c.PageWidth, c.PageHeight)
	}
	s := runner.Run(cmd.Context(), batch.Plan(files, c.OutputDir, c))

	fmt.Fprintf(out, "\n%s\n", "Summary")
	fmt.Fprintf(out, "  Total:     %d\n", s.Total)
	fmt.Fprintf(out, "  Succeeded: %d\n", s.Succeeded)
	fmt.Fprintf(out, "  Failed:    %d\n", s.Failed)
	fmt.Fprintf(out, "  Output:    %s\n", c.OutputDir)
	for _, o := range s.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(out, "  ✗ %s\n", o.Err)
		}
	}
	if s.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", s.Failed, s.Total)
	}
	return nil
}
