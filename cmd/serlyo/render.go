package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aretw0/serlyo/pkg/core"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func sortByDate(posts []core.Post) []core.Post {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b core.Post) int {
		return strings.Compare(a.Date, b.Date)
	})
	return sorted
}

func renderPosts(w io.Writer, posts []core.Post) error {
	if len(posts) == 0 {
		_, err := fmt.Fprintln(w, "No posts.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tFORMAT\tSTATUS\tOWNER\tTITLE")
	for _, p := range sortByDate(posts) {
		title := p.Title
		if p.IsArchived {
			title += " (archived)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Date, p.Format, p.Status, p.Owner, title)
	}
	return tw.Flush()
}

// gridDay is the JSON form of a calendar cell.
type gridDay struct {
	Date    string      `json:"date"`
	Weekday string      `json:"weekday"`
	Holiday string      `json:"holiday,omitempty"`
	Posts   []core.Post `json:"posts"`
}

func gridDays(grid core.MonthGrid, postsOn func(core.CalendarDay) []core.Post) []gridDay {
	days := make([]gridDay, 0, len(grid.Days))
	for _, d := range grid.Days {
		posts := postsOn(d)
		if posts == nil {
			posts = []core.Post{}
		}
		days = append(days, gridDay{
			Date:    d.ISO(),
			Weekday: d.Weekday().String(),
			Holiday: d.Holiday,
			Posts:   posts,
		})
	}
	return days
}

// renderGrid draws a Sunday-first month. Days with posts are marked with *,
// holidays with !.
func renderGrid(w io.Writer, grid core.MonthGrid, postsOn func(core.CalendarDay) []core.Post) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", grid.Month, grid.Year)
	b.WriteString("Sun Mon Tue Wed Thu Fri Sat\n")

	for _, week := range grid.Weeks() {
		var line strings.Builder
		for _, cell := range week {
			if cell == nil {
				line.WriteString("    ")
				continue
			}
			marker := ' '
			switch {
			case len(postsOn(*cell)) > 0:
				marker = '*'
			case cell.IsHoliday():
				marker = '!'
			}
			fmt.Fprintf(&line, "%3d%c", cell.Date.Day(), marker)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}

	var details []string
	for _, d := range grid.Days {
		prefix := d.ISO() + " " + d.Weekday().String()[:3]
		if d.IsHoliday() {
			details = append(details, fmt.Sprintf("%s  holiday: %s", prefix, d.Holiday))
		}
		for _, p := range postsOn(d) {
			details = append(details, fmt.Sprintf("%s  %-8s %-13s %s", prefix, p.Format, p.Status, p.Title))
		}
	}
	if len(details) > 0 {
		b.WriteByte('\n')
		b.WriteString(strings.Join(details, "\n"))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderStrategy(w io.Writer, s core.WeeklyStrategy) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tACTIVE\tFORMAT")
	for day, entry := range s {
		active := "no"
		if entry.Active {
			active = "yes"
		}
		fmt.Fprintf(tw, "%d %s\t%s\t%s\n", day, time.Weekday(day), active, entry.DefaultFormat)
	}
	return tw.Flush()
}
