package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of serlyo",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "serlyo version %s\n", serlyo.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
