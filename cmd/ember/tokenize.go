package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ember/internal/diagfmt"
	"ember/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.em",
	Short: "Tokenize an ember source file",
	Long:  `Tokenize breaks down an ember source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
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
		Stage:          driver.StageTokenize,
		MaxDiagnostics: g.maxDiagnostics,
		EnableTimings:  g.timings,
	})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	failed := printDiagnostics(os.Stderr, res.Bag, res.FileSet, g)

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(out, res.Tokens)
	default:
		err = diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
	}
	if err != nil {
		return err
	}
	if failed {
		return errReported
	}
	return nil
}
