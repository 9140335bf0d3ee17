package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"resolve/internal/driver"
	"resolve/internal/ui"
)

// useUI resolves the --ui flag of cmd; commands without the flag never
// show the progress view.
func useUI(cmd *cobra.Command) (bool, error) {
	if cmd.Flags().Lookup("ui") == nil {
		return false, nil
	}
	value, err := cmd.Flags().GetString("ui")
	if err != nil {
		return false, fmt.Errorf("failed to get ui flag: %w", err)
	}
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return term.IsTerminal(int(os.Stderr.Fd())), nil //nolint:gosec // file descriptors fit in int
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

type checkOutcome struct {
	res *driver.Result
	err error
}

// checkFunc runs a check reporting progress to sink.
type checkFunc func(ctx context.Context, sink driver.ProgressSink) (*driver.Result, error)

// checkWithUI runs the check in the background and shows its progress on
// stderr until it finishes.
func checkWithUI(ctx context.Context, dir string, opts driver.Options) (*driver.Result, error) {
	check := func(ctx context.Context, sink driver.ProgressSink) (*driver.Result, error) {
		opts.Progress = sink
		return driver.Check(ctx, dir, opts)
	}
	show := func(events <-chan driver.Event) error {
		model := ui.NewProgressModel("checking "+dir, events)
		_, err := tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run()
		return err
	}
	return runWithProgress(ctx, check, show)
}

// runWithProgress runs check in a goroutine while show consumes its
// events. When show returns before the events end (the user quit the
// view), the check is canceled and the remaining events are drained so
// the check goroutine can exit.
func runWithProgress(ctx context.Context, check checkFunc, show func(<-chan driver.Event) error) (*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)
	go func() {
		res, err := check(ctx, driver.ChannelSink{Ch: events})
		close(events)
		outcomeCh <- checkOutcome{res: res, err: err}
	}()

	uiErr := show(events)
	cancel()
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.res, uiErr
	}
	return outcome.res, outcome.err
}
