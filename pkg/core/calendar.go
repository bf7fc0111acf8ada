package core

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-day format used for Post.Date.
const DateLayout = "2006-01-02"

// anchorHour keeps every derived date far from midnight so that formatting
// never slides into the previous or next day.
const anchorHour = 12

// Day builds the noon-anchored UTC instant of a calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, anchorHour, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD using its own calendar fields.
func FormatDate(t time.Time) string {
	return Day(t.Year(), t.Month(), t.Day()).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into its noon-anchored instant.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Day(t.Year(), t.Month(), t.Day()), nil
}

// DaysIn returns the number of days of the given month.
func DaysIn(year int, month time.Month) int {
	return Day(year, month+1, 0).Day()
}

// CalendarDay is a derived grid cell. It is never persisted.
type CalendarDay struct {
	Date    time.Time
	Holiday string
}

// IsHoliday reports whether the day carries a holiday name.
func (d CalendarDay) IsHoliday() bool {
	return d.Holiday != ""
}

// Weekday is the grid's own weekday for the day.
func (d CalendarDay) Weekday() time.Weekday {
	return d.Date.Weekday()
}

// ISO returns the YYYY-MM-DD key of the day.
func (d CalendarDay) ISO() string {
	return d.Date.Format(DateLayout)
}

// MonthGrid is a month laid out for a 7-column, Sunday-first calendar.
type MonthGrid struct {
	Year    int
	Month   time.Month
	Days    []CalendarDay
	Padding int // blank cells before day 1
}

// BuildMonthGrid derives every day of the month with its holiday annotation.
// Out-of-range months normalize like time.Date does, so month 13 of 2024 is January 2025.
func BuildMonthGrid(year int, month time.Month, holidays HolidayTable) MonthGrid {
	first := Day(year, month, 1)
	year, month = first.Year(), first.Month()

	n := DaysIn(year, month)
	days := make([]CalendarDay, 0, n)
	for d := 1; d <= n; d++ {
		date := Day(year, month, d)
		var name string
		if holidays != nil {
			name, _ = holidays.Lookup(date)
		}
		days = append(days, CalendarDay{Date: date, Holiday: name})
	}

	return MonthGrid{
		Year:    year,
		Month:   month,
		Days:    days,
		Padding: int(first.Weekday()),
	}
}

// Next returns the year and month that follow the grid's month.
func (g MonthGrid) Next() (int, time.Month) {
	t := Day(g.Year, g.Month+1, 1)
	return t.Year(), t.Month()
}

// Prev returns the year and month that precede the grid's month.
func (g MonthGrid) Prev() (int, time.Month) {
	t := Day(g.Year, g.Month-1, 1)
	return t.Year(), t.Month()
}

// Key returns the YYYY-MM label of the grid.
func (g MonthGrid) Key() string {
	return fmt.Sprintf("%04d-%02d", g.Year, int(g.Month))
}

// Weeks splits the grid into rows of seven cells. Padding cells are nil.
func (g MonthGrid) Weeks() [][]*CalendarDay {
	cells := make([]*CalendarDay, g.Padding, g.Padding+len(g.Days))
	for i := range g.Days {
		cells = append(cells, &g.Days[i])
	}
	for len(cells)%7 != 0 {
		cells = append(cells, nil)
	}

	weeks := make([][]*CalendarDay, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}
