package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resolve/internal/diagfmt"
	"resolve/internal/driver"
	"resolve/internal/project"
)

type moduleJSON struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Hash     string `json:"hash,omitempty"`
	Analyzed bool   `json:"analyzed"`
}

// checkReport is the JSON form of a check: the diagnostics plus one entry
// per declaration file.
type checkReport struct {
	Project string       `json:"project"`
	Modules []moduleJSON `json:"modules"`
	diagfmt.DiagnosticsOutput
}

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Analyse every module of a project and report diagnostics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("with-notes", true, "include diagnostic notes")
	checkCmd.Flags().String("paths", "auto", "path display (auto|absolute|relative|basename)")
	checkCmd.Flags().String("ui", "auto", "progress view on stderr (auto|on|off)")
}

// analyse runs the driver with the persistent flags of cmd.
func analyse(cmd *cobra.Command, args []string) (*driver.Result, error) {
	flags := cmd.Root().PersistentFlags()
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	withUI, err := useUI(cmd)
	if err != nil {
		return nil, err
	}
	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		Timings:        timings,
	}
	var res *driver.Result
	if withUI {
		res, err = checkWithUI(cmd.Context(), projectDir(args), opts)
	} else {
		res, err = driver.Check(cmd.Context(), projectDir(args), opts)
	}
	if err != nil {
		return nil, err
	}
	if res.Timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timer.Summary())
	}
	return res, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	pathsFlag, err := cmd.Flags().GetString("paths")
	if err != nil {
		return fmt.Errorf("failed to get paths flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathsFlag)
	if !ok {
		return fmt.Errorf("unknown path mode %q", pathsFlag)
	}

	res, err := analyse(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			BaseDir:          res.Manifest.Root,
			IncludeNotes:     withNotes,
		}
		report := checkReport{
			Project:           res.Manifest.Name,
			DiagnosticsOutput: diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, opts),
		}
		for _, m := range res.Modules {
			mj := moduleJSON{
				Name:     m.Name,
				Path:     diagfmt.FormatPath(m.Path, pathMode, res.Manifest.Root),
				Analyzed: m.Analyzed,
			}
			if m.Hash != (project.Digest{}) {
				mj.Hash = m.Hash.Short()
			}
			report.Modules = append(report.Modules, mj)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	case "pretty":
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			PathMode:  pathMode,
			BaseDir:   res.Manifest.Root,
			ShowNotes: withNotes,
		})
		analysed := 0
		for _, m := range res.Modules {
			if m.Analyzed {
				analysed++
			}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d of %d modules analysed, %d diagnostics\n",
			res.Manifest.Name, analysed, len(res.Modules), res.Bag.Len())
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	if res.HasErrors() {
		return errDiagnostics
	}
	return nil
}
