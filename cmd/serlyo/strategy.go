package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/planner"
)

var (
	strategyJSON     bool
	strategyActive   bool
	strategyInactive bool
	strategyFormat   string
)

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Show the weekly strategy",
	Long:  `Strategy lists, for each weekday, whether posts are generated and in which format.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(cmd, func(p *planner.Planner) error {
			if strategyJSON {
				return writeJSON(cmd.OutOrStdout(), p.Strategy().Map())
			}
			return renderStrategy(cmd.OutOrStdout(), p.Strategy())
		})
	},
}

var strategySetCmd = &cobra.Command{
	Use:   "set WEEKDAY",
	Short: "Toggle a weekday or change its default format",
	Example: `  serlyo strategy set sat --active --format STORIES
  serlyo strategy set 1 --inactive`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseWeekday(args[0])
		if err != nil {
			return err
		}
		if strategyActive && strategyInactive {
			return errors.New("--active and --inactive are mutually exclusive")
		}
		if !strategyActive && !strategyInactive && strategyFormat == "" {
			return errors.New("nothing to change: use --active, --inactive or --format")
		}

		return withPlanner(cmd, func(p *planner.Planner) error {
			ctx := cmd.Context()
			if strategyActive || strategyInactive {
				if err := p.SetActive(ctx, day, strategyActive); err != nil {
					return err
				}
			}
			if strategyFormat != "" {
				format, err := core.ParseFormat(strategyFormat)
				if err != nil {
					return err
				}
				if err := p.SetDefaultFormat(ctx, day, format); err != nil {
					return err
				}
			}
			entry, err := p.Strategy().For(day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: active=%t format=%s\n", day, entry.Active, entry.DefaultFormat)
			return nil
		})
	},
}

var strategyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default weekly strategy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(cmd, func(p *planner.Planner) error {
			if err := p.ResetStrategy(cmd.Context()); err != nil {
				return err
			}
			return renderStrategy(cmd.OutOrStdout(), p.Strategy())
		})
	},
}

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategySetCmd, strategyResetCmd)
	strategyCmd.Flags().BoolVar(&strategyJSON, "json", false, "Output in JSON format")
	strategySetCmd.Flags().BoolVar(&strategyActive, "active", false, "Generate posts on this weekday")
	strategySetCmd.Flags().BoolVar(&strategyInactive, "inactive", false, "Stop generating posts on this weekday")
	strategySetCmd.Flags().StringVarP(&strategyFormat, "format", "f", "", "Default format of the weekday")
}
