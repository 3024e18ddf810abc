package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ember/internal/diagfmt"
	"ember/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file.em",
	Short: "Type-check an ember source file",
	Long:  `Check runs lexing, parsing and semantic analysis without emitting assembly`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("dump", "none", "print the checked tree (none|pretty|json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dump, err := cmd.Flags().GetString("dump")
	if err != nil {
		return fmt.Errorf("failed to get dump flag: %w", err)
	}
	switch dump {
	case "none", "pretty", "json":
	default:
		return fmt.Errorf("unknown dump format: %s", dump)
	}
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}

	res, err := driver.CompileFile(cmd.Context(), args[0], driver.Options{
		Stage:          driver.StageCheck,
		MaxDiagnostics: g.maxDiagnostics,
		EnableTimings:  g.timings,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if printDiagnostics(os.Stderr, res.Bag, res.FileSet, g) || res.Checked == nil {
		summary(os.Stderr, g, false, "%s: check failed", res.File.Path)
		return errReported
	}

	out := cmd.OutOrStdout()
	switch dump {
	case "pretty":
		err = diagfmt.FormatASTPretty(out, res.Checked.Program, res.Checked.Types)
	case "json":
		err = diagfmt.FormatASTJSON(out, res.Checked.Program)
	}
	if err != nil {
		return err
	}
	summary(os.Stderr, g, true, "%s: ok (%d variables, frame %d bytes)", res.File.Path, len(res.Checked.Vars), res.Checked.FrameSize)
	return nil
}
