package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ember/internal/diagfmt"
	"ember/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.em",
	Short: "Parse an ember source file and output its AST",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}

	res, err := driver.CompileFile(cmd.Context(), args[0], driver.Options{
		Stage:          driver.StageParse,
		MaxDiagnostics: g.maxDiagnostics,
		EnableTimings:  g.timings,
	})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if printDiagnostics(os.Stderr, res.Bag, res.FileSet, g) || res.Program == nil {
		return errReported
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return diagfmt.FormatASTJSON(out, res.Program)
	}
	return diagfmt.FormatASTPretty(out, res.Program, nil)
}
