package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"resolve/internal/prof"
	"resolve/internal/version"
)

// errDiagnostics signals that errors were reported and already printed.
var errDiagnostics = errors.New("analysis reported errors")

var rootCmd = &cobra.Command{
	Use:           "resolve",
	Short:         "Name resolution and classification checking for verification modules",
	Long:          `resolve analyses a project of module declarations: it builds the module scopes, resolves references through imports and facilities, and checks math classifications.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		session, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profiling = session
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		flushTrace()
	},
}

var (
	traceCleanup func()
	profiling    *prof.Session
)

// flushTrace closes the trace output and stops any profilers.
func flushTrace() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if err := profiling.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, "resolve:", err)
	}
	profiling = nil
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum diagnostics per module (0 uses the manifest)")
	rootCmd.PersistentFlags().Int("jobs", 0, "parallel declaration loaders (0=auto)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to the file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to the file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to the file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		flushTrace()
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "resolve:", err)
		}
		os.Exit(1)
	}
}

// useColor resolves the --color flag for f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		return term.IsTerminal(int(f.Fd())), nil //nolint:gosec // file descriptors fit in int
	default:
		return false, fmt.Errorf("unknown color mode %q (want auto|on|off)", mode)
	}
}

func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
