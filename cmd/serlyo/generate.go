package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/planner"
)

var (
	generateDryRun bool
	generateJSON   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [YYYY-MM]",
	Short: "Fill a month from the weekly strategy",
	Long: `Generate creates one planned post on every active weekday of the month that
has no active post yet. Running it twice creates nothing the second time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, month, err := parseMonth(firstArg(args), now())
		if err != nil {
			return err
		}

		return withPlanner(cmd, func(p *planner.Planner) error {
			var posts []core.Post
			if generateDryRun {
				posts = p.PlanMonth(year, month)
			} else {
				posts, err = p.GenerateForMonth(cmd.Context(), year, month)
				if err != nil {
					return err
				}
			}

			if generateJSON {
				return writeJSON(cmd.OutOrStdout(), posts)
			}
			if err := renderPosts(cmd.OutOrStdout(), posts); err != nil {
				return err
			}
			verb := "Created"
			if generateDryRun {
				verb = "Would create"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d post(s) for %04d-%02d\n", verb, len(posts), year, int(month))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&generateDryRun, "dry-run", "n", false, "Show what would be created without writing")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Output in JSON format")
}
