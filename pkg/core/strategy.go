package core

import (
	"fmt"
	"time"
)

// WeeklyStrategy holds one DayStrategy per weekday, Sunday first.
// The array form makes a partial strategy unrepresentable.
type WeeklyStrategy [7]DayStrategy

// DefaultWeeklyStrategy returns the seed configuration: weekdays active,
// alternating POST and REELS, weekends inactive with STORIES.
func DefaultWeeklyStrategy() WeeklyStrategy {
	return WeeklyStrategy{
		time.Sunday:    {Active: false, DefaultFormat: FormatStories},
		time.Monday:    {Active: true, DefaultFormat: FormatPost},
		time.Tuesday:   {Active: true, DefaultFormat: FormatReels},
		time.Wednesday: {Active: true, DefaultFormat: FormatPost},
		time.Thursday:  {Active: true, DefaultFormat: FormatReels},
		time.Friday:    {Active: true, DefaultFormat: FormatPost},
		time.Saturday:  {Active: false, DefaultFormat: FormatStories},
	}
}

// CheckWeekday fails with ErrInvalidWeekday outside 0..6.
func CheckWeekday(day time.Weekday) error {
	if day < time.Sunday || day > time.Saturday {
		return fmt.Errorf("%w: %d", ErrInvalidWeekday, int(day))
	}
	return nil
}

// For returns the entry of a weekday.
func (s WeeklyStrategy) For(day time.Weekday) (DayStrategy, error) {
	if err := CheckWeekday(day); err != nil {
		return DayStrategy{}, err
	}
	return s[day], nil
}

// ActiveDays lists the weekdays that generate posts.
func (s WeeklyStrategy) ActiveDays() []time.Weekday {
	var days []time.Weekday
	for i, d := range s {
		if d.Active {
			days = append(days, time.Weekday(i))
		}
	}
	return days
}

// StrategyMap is the persisted form of a WeeklyStrategy, keyed by weekday index.
type StrategyMap map[int]DayStrategy

// Map converts the strategy to its persisted form.
func (s WeeklyStrategy) Map() StrategyMap {
	m := make(StrategyMap, len(s))
	for i, d := range s {
		m[i] = d
	}
	return m
}

// StrategyFromMap rebuilds a full strategy from a persisted map.
// Missing or invalid entries are taken from fallback and reported in repaired.
func StrategyFromMap(m StrategyMap, fallback WeeklyStrategy) (s WeeklyStrategy, repaired []string) {
	s = fallback
	seen := make(map[int]bool, len(m))
	for k, d := range m {
		if CheckWeekday(time.Weekday(k)) != nil {
			repaired = append(repaired, fmt.Sprintf("ignored weekday %d", k))
			continue
		}
		seen[k] = true
		if !d.DefaultFormat.Valid() {
			repaired = append(repaired, fmt.Sprintf("weekday %d has no valid format", k))
			continue
		}
		s[k] = d
	}
	for i := range s {
		if !seen[i] {
			repaired = append(repaired, fmt.Sprintf("weekday %d missing", i))
		}
	}
	return s, repaired
}
