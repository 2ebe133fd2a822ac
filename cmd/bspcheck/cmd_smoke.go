package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vertti/bspcheck/pkg/runner"
	"github.com/vertti/bspcheck/pkg/smoketest"
)

var (
	smokeTimeout time.Duration
	smokeTool    string
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Reconfigure and build the main component with a test sdkconfig",
	Long: "smoke writes sdkconfig.test selecting the board, swaps it in for sdkconfig while running " +
		"'idf.py reconfigure' and 'idf.py build --component main', and restores the original afterwards.",
	Args: cobra.NoArgs,
	RunE: runSmoke,
}

func init() {
	smokeCmd.Flags().DurationVar(&smokeTimeout, "timeout", runner.DefaultTimeout, "timeout per build tool command")
	smokeCmd.Flags().StringVar(&smokeTool, "tool", smoketest.DefaultTool, "build tool to invoke")
	rootCmd.AddCommand(smokeCmd)
}

func runSmoke(cmd *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	// Interrupting aborts the running command; the original sdkconfig is
	// still restored before exit.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := smoketest.New(e.root, e.profile, cmd.OutOrStdout(), e.log)
	o.Tool = smokeTool
	o.Timeout = smokeTimeout

	if report := o.Run(ctx); !report.OK() {
		return ErrCheckFailed
	}
	return nil
}
