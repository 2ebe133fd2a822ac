package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	rootDir     string
	profilePath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "bspcheck",
	Short:         "Verify that a board variant is integrated into an ESP-IDF project",
	Long:          "bspcheck checks the Kconfig, CMake and board source wiring of a board variant and smoke-tests its build.",
	Version:       Version,
	Args:          cobra.NoArgs,
	RunE:          runVerify,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "project root (default: search up from current directory)")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "board profile YAML (default: built-in desktop-sparkbot)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
