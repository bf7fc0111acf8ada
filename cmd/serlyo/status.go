package main

import (
	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo/pkg/adapters/fs"
	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/planner"
)

var statusHistory int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print planner, store and metrics state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(cmd, func(p *planner.Planner) error {
			status := core.Metadata{
				"root":      rootDir,
				"component": p.ComponentType(),
				"planner":   p.State(),
			}

			if intro, ok := p.Store().(introspection.Introspectable); ok {
				status["store"] = intro.State()
			}

			if store, ok := p.Store().(*fs.Store); ok && cfg.Store.Versioning && statusHistory > 0 {
				history, err := store.History(cmd.Context(), statusHistory)
				if err != nil {
					return err
				}
				status["history"] = history
			}

			snapshot, err := stats.Snapshot()
			if err != nil {
				return err
			}
			status["metrics"] = snapshot

			return writeJSON(cmd.OutOrStdout(), status)
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().IntVar(&statusHistory, "history", 5, "Number of recent change reasons to include when versioned")
}
