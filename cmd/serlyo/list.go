package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/planner"
)

var (
	listJSON     bool
	listArchived bool
	listMonth    string
	listSearch   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	Long:  `List shows active posts by default. Use --archived for the archive.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var prefix string
		if listMonth != "" {
			year, month, err := parseMonth(listMonth, now())
			if err != nil {
				return err
			}
			prefix = fmt.Sprintf("%04d-%02d-", year, int(month))
		}

		return withPlanner(cmd, func(p *planner.Planner) error {
			var posts []core.Post
			switch {
			case listSearch != "":
				posts = p.Search(listSearch, listArchived)
			case listArchived:
				posts = p.ArchivedPosts()
			default:
				posts = p.ActivePosts()
			}

			filtered := make([]core.Post, 0, len(posts))
			for _, post := range posts {
				if listArchived && !post.IsArchived {
					continue
				}
				if prefix != "" && !strings.HasPrefix(post.Date, prefix) {
					continue
				}
				filtered = append(filtered, post)
			}

			if listJSON {
				return writeJSON(cmd.OutOrStdout(), sortByDate(filtered))
			}
			return renderPosts(cmd.OutOrStdout(), filtered)
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listArchived, "archived", false, "List archived posts only")
	listCmd.Flags().StringVar(&listMonth, "month", "", "Only posts of a month (YYYY-MM)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive search on titles")
}
