package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vertti/bspcheck/pkg/check"
	"github.com/vertti/bspcheck/pkg/integrity"
	"github.com/vertti/bspcheck/pkg/output"
	"github.com/vertti/bspcheck/pkg/watch"
)

var verifyWatch bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check Kconfig, CMake, board files and includes of the board variant",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyWatch, "watch", false, "re-run the checks whenever a checked artifact changes")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	out := cmd.OutOrStdout()
	c := integrity.New(e.root, e.profile, e.log)
	report := printVerify(out, c)

	if verifyWatch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		report = watchVerify(ctx, out, c, e.root)
	}

	if !report.OK() {
		return ErrCheckFailed
	}
	return nil
}

func printVerify(w io.Writer, c *integrity.Checker) check.Report {
	report := c.RunAll()
	output.PrintReport(w, fmt.Sprintf("Verifying %s integration...", c.Profile.Description), report, c.Profile.NextSteps)
	return report
}

// watchVerify re-runs the checks on every change until ctx is done and
// returns the last report.
func watchVerify(ctx context.Context, w io.Writer, c *integrity.Checker, root string) check.Report {
	last := c.RunAll()
	watcher := &watch.Watcher{
		Root:  root,
		Paths: c.WatchPaths(),
		OnChange: func() {
			fmt.Fprintln(w)
			last = printVerify(w, c)
		},
		Log: c.Log,
	}
	fmt.Fprintln(w, "\nWatching for changes, press Ctrl+C to stop.")
	if err := watcher.Run(ctx); err != nil {
		output.Warn(w, err.Error())
	}
	return last
}
