package domain

import (
	"sort"
	"time"
)

// Streak counts consecutive active calendar days ending today. Timestamps
// are collapsed to local days, so several entries on one day count once.
// A day without activity today means no streak at all, regardless of how
// long the run before it was.
func Streak(timestamps []time.Time, now time.Time) int {
	if len(timestamps) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{}, len(timestamps))
	days := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		day := truncateToDay(ts.In(now.Location()))
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 0
	today := truncateToDay(now)
	for i, day := range days {
		expected := today.AddDate(0, 0, -i)
		if !day.Equal(expected) {
			break
		}
		streak++
	}
	return streak
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
