package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/planner"
)

var themeCmd = &cobra.Command{
	Use:       "theme [LIGHT|DARK|GOLD]",
	Short:     "Show or change the persisted theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"LIGHT", "DARK", "GOLD"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(cmd, func(p *planner.Planner) error {
			if len(args) == 1 {
				theme, err := core.ParseTheme(args[0])
				if err != nil {
					return err
				}
				if err := p.SetTheme(cmd.Context(), theme); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Theme())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
