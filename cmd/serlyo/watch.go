package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo/pkg/adapters/lifecycle"
	"github.com/aretw0/serlyo/pkg/planner"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the planner whenever its files change",
	Long: `Watch follows external edits to the posts, strategy and theme blobs
(another editor, a git pull) and reloads the planner after each one.
Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withPlanner(cmd, func(p *planner.Planner) error {
			source, err := lifecycle.WatchStore(ctx, p.Store(), "*", planner.PostsKey, planner.StrategyKey, planner.ThemeKey)
			if err != nil {
				return err
			}
			if err := source.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (%d active posts)\n", rootDir, len(p.ActivePosts()))
			for event := range source.Events() {
				if err := p.Reload(ctx); err != nil {
					slog.Error("reload failed", "event", event.String(), "error", err)
					continue
				}
				fmt.Fprintf(out, "%s: %d active, %d archived\n", event, len(p.ActivePosts()), len(p.ArchivedPosts()))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
