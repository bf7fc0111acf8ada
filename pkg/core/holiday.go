package core

import (
	"fmt"
	"sort"
	"time"
)

// HolidayTable answers whether a calendar day is a fixed annual holiday.
type HolidayTable interface {
	Lookup(date time.Time) (name string, ok bool)
}

type monthDay struct {
	month time.Month
	day   int
}

// FixedHolidays is a year-independent table keyed by month and day.
// Moving holidays (Easter, Carnival) are not modeled.
type FixedHolidays struct {
	byDay map[monthDay]string
}

// NewHolidayTable builds a table from "MM-DD" keys.
func NewHolidayTable(entries map[string]string) (*FixedHolidays, error) {
	t := &FixedHolidays{byDay: make(map[monthDay]string, len(entries))}
	for key, name := range entries {
		// 2000 is a leap year, so 02-29 is accepted.
		parsed, err := time.Parse("2006-01-02", "2000-"+key)
		if err != nil || len(key) != 5 {
			return nil, fmt.Errorf("invalid holiday key %q: expected MM-DD", key)
		}
		t.byDay[monthDay{parsed.Month(), parsed.Day()}] = name
	}
	return t, nil
}

// Lookup implements HolidayTable.
func (t *FixedHolidays) Lookup(date time.Time) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.byDay[monthDay{date.Month(), date.Day()}]
	return name, ok
}

// Entries returns the table as sorted "MM-DD" keys.
func (t *FixedHolidays) Entries() []string {
	keys := make([]string, 0, len(t.byDay))
	for md := range t.byDay {
		keys = append(keys, fmt.Sprintf("%02d-%02d", int(md.month), md.day))
	}
	sort.Strings(keys)
	return keys
}

// BrazilianHolidays returns the national fixed-date holidays.
func BrazilianHolidays() *FixedHolidays {
	t, err := NewHolidayTable(map[string]string{
		"01-01": "Confraternização Universal",
		"04-21": "Tiradentes",
		"05-01": "Dia do Trabalho",
		"09-07": "Independência",
		"10-12": "Nsa. Sra. Aparecida",
		"11-02": "Finados",
		"11-15": "Proclamação da República",
		"12-25": "Natal",
	})
	if err != nil {
		panic(err)
	}
	return t
}
