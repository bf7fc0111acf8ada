package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const monthLayout = "2006-01"

// parseMonth reads a YYYY-MM argument. An empty value means the month of now.
func parseMonth(arg string, now time.Time) (int, time.Month, error) {
	if strings.TrimSpace(arg) == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse(monthLayout, strings.TrimSpace(arg))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (want YYYY-MM)", arg)
	}
	return t.Year(), t.Month(), nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday, "dom": time.Sunday, "domingo": time.Sunday,
	"mon": time.Monday, "monday": time.Monday, "seg": time.Monday, "segunda": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday, "ter": time.Tuesday, "terca": time.Tuesday, "terça": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "qua": time.Wednesday, "quarta": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday, "qui": time.Thursday, "quinta": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "sex": time.Friday, "sexta": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "sab": time.Saturday, "sábado": time.Saturday, "sabado": time.Saturday,
}

// parseWeekday accepts 0-6 (Sunday first) or an English or Portuguese day name.
func parseWeekday(arg string) (time.Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(arg))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("invalid weekday %d (want 0-6, Sunday first)", n)
		}
		return time.Weekday(n), nil
	}
	if day, ok := weekdayNames[s]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", arg)
}
