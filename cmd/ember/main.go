// Package main implements the ember CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ember/internal/prof"
	"ember/internal/version"
)

// errReported означает, что диагностика уже напечатана
var errReported = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:           "ember",
	Short:         "ember compiler: .em sources to x86-64 NASM assembly",
	Long:          `ember compiles a small imperative language to x86-64 NASM assembly`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		p, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profiling = p
		s, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		session = s
		return nil
	},
}

// session is the trace state of the running command.
var session *traceSession

var profiling *prof.Session

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	addTraceFlags(rootCmd)
	addProfileFlags(rootCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	session.finish(err != nil, os.Stderr)
	if perr := profiling.Stop(); perr != nil {
		fmt.Fprintf(os.Stderr, "ember: profiling: %v\n", perr)
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "ember: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
