package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/planner"
)

// postFlags holds the editable fields shared by add and edit.
type postFlags struct {
	date    string
	title   string
	format  string
	status  string
	owner   string
	network string
	summary string
	link    string
	note    string
}

var (
	addFlags  postFlags
	editFlags postFlags
	deleteYes bool
)

func (f *postFlags) register(cmd *cobra.Command, withDate bool) {
	if withDate {
		cmd.Flags().StringVar(&f.date, "date", "", "Date (YYYY-MM-DD)")
	}
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Post title")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Format: POST, REELS, STORIES, CAROUSEL or VIDEO")
	cmd.Flags().StringVar(&f.status, "status", "", "Status: IDEA, PLANNED, IN_PRODUCTION, SCHEDULED, PUBLISHED or POSTPONED")
	cmd.Flags().StringVar(&f.owner, "owner", "", "Person responsible for the post")
	cmd.Flags().StringVar(&f.network, "network", "", "Network: INSTAGRAM or LINKEDIN")
	cmd.Flags().StringVar(&f.summary, "summary", "", "Short summary")
	cmd.Flags().StringVar(&f.link, "link", "", "Reference link")
	cmd.Flags().StringVar(&f.note, "note", "", "Free-form note or copy")
}

// apply copies the flags the user changed onto post.
func (f *postFlags) apply(cmd *cobra.Command, post *core.Post) error {
	changed := cmd.Flags().Changed
	if changed("date") {
		date, err := core.ParseDate(f.date)
		if err != nil {
			return err
		}
		post.Date = core.FormatDate(date)
	}
	if changed("title") {
		post.Title = f.title
	}
	if changed("format") {
		format, err := core.ParseFormat(f.format)
		if err != nil {
			return err
		}
		post.Format = format
	}
	if changed("status") {
		status, err := core.ParseStatus(f.status)
		if err != nil {
			return err
		}
		post.Status = status
	}
	if changed("owner") {
		post.Owner = f.owner
	}
	if changed("network") {
		network, err := core.ParseNetwork(f.network)
		if err != nil {
			return err
		}
		post.Network = network
	}
	if changed("summary") {
		post.Summary = f.summary
	}
	if changed("link") {
		post.Link = f.link
	}
	if changed("note") {
		post.Note = f.note
	}
	return nil
}

var addCmd = &cobra.Command{
	Use:   "add DATE",
	Short: "Create a post on a date",
	Long: `Add creates a post on DATE (YYYY-MM-DD). The format defaults to the
weekly strategy of that weekday and the status to PLANNED. The owner stays
empty unless --owner is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := core.ParseDate(args[0])
		if err != nil {
			return err
		}

		return withPlanner(cmd, func(p *planner.Planner) error {
			post := p.NewDraft(date)
			if entry, err := p.Strategy().For(date.Weekday()); err == nil && entry.DefaultFormat.Valid() {
				post.Format = entry.DefaultFormat
			}
			if err := addFlags.apply(cmd, &post); err != nil {
				return err
			}

			created, err := p.Create(cmd.Context(), post)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post created: %s\n", created.ID)
			return nil
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change the fields of a post",
	Long:  `Edit updates only the fields given as flags. Archived posts stay archived.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(cmd, func(p *planner.Planner) error {
			post, err := p.Post(core.ParsePostID(args[0]))
			if err != nil {
				return err
			}
			if err := editFlags.apply(cmd, &post); err != nil {
				return err
			}

			updated, err := p.Update(cmd.Context(), post)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post updated: %s\n", updated.ID)
			return nil
		})
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive ID",
	Short: "Move a post to the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(cmd, func(p *planner.Planner) error {
			id := core.ParsePostID(args[0])
			changed, err := p.Archive(cmd.Context(), id)
			if err != nil {
				return err
			}
			return reportChange(cmd, changed, "Post archived", id)
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Bring an archived post back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(cmd, func(p *planner.Planner) error {
			id := core.ParsePostID(args[0])
			changed, err := p.Restore(cmd.Context(), id)
			if err != nil {
				return err
			}
			return reportChange(cmd, changed, "Post restored", id)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a post permanently",
	Long:  `Delete removes a post for good, archived or not. There is no undo.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := core.ParsePostID(args[0])
		if !deleteYes {
			ok, err := confirm(cmd, fmt.Sprintf("Delete post %s permanently? [y/N] ", id))
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("aborted")
			}
		}

		return withPlanner(cmd, func(p *planner.Planner) error {
			removed, err := p.HardDelete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return reportChange(cmd, removed, "Post deleted", id)
		})
	},
}

func reportChange(cmd *cobra.Command, changed bool, msg string, id core.PostID) error {
	if !changed {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to do for %s\n", id)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", msg, id)
	return nil
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false, nil
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func init() {
	rootCmd.AddCommand(addCmd, editCmd, archiveCmd, restoreCmd, deleteCmd)
	addFlags.register(addCmd, false)
	editFlags.register(editCmd, true)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
