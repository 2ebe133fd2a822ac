package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/bspcheck/pkg/board"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the effective board profile as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		data, err := board.Marshal(e.profile)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
