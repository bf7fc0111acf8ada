package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/planner"
)

var (
	monthJSON bool

	now = time.Now
)

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Show the calendar of a month",
	Long:  `Month draws a Sunday-first calendar with holidays and the active posts of each day.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, month, err := parseMonth(firstArg(args), now())
		if err != nil {
			return err
		}

		return withPlanner(cmd, func(p *planner.Planner) error {
			grid := p.MonthGrid(year, month)
			postsOn := func(d core.CalendarDay) []core.Post {
				return p.PostsOn(d.Date)
			}
			if monthJSON {
				return writeJSON(cmd.OutOrStdout(), gridDays(grid, postsOn))
			}
			return renderGrid(cmd.OutOrStdout(), grid, postsOn)
		})
	},
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	rootCmd.AddCommand(monthCmd)
	monthCmd.Flags().BoolVar(&monthJSON, "json", false, "Output in JSON format")
}
