package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"resolve/internal/symbols"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [dir]",
	Short: "Write a msgpack snapshot of the analysed symbol table",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().StringP("out", "o", "symbols.mp", "output file (- for stdout)")
}

func runDump(cmd *cobra.Command, args []string) error {
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	res, err := analyse(cmd, args)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create snapshot: %w", err)
		}
		defer f.Close()
		w = f
	}
	snap := res.Table.Snapshot()
	if err := symbols.WriteSnapshot(w, snap); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if outPath != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d modules to %s\n", len(snap.Modules), outPath)
	}
	return nil
}
