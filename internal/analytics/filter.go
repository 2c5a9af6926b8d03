// Package analytics holds the pure aggregation passes over an activity
// snapshot: day/week filtering, rankings, tag totals and weekly chart buckets.
// Nothing here mutates its input.
package analytics

import (
	"time"

	"github.com/sandeepkv93/energyd/internal/model"
)

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday 00:00 that begins t's week in t's location.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func FilterDay(ref time.Time, activities []model.Activity) []model.Activity {
	start := StartOfDay(ref)
	return filterRange(activities, start, start.AddDate(0, 0, 1))
}

func FilterWeek(ref time.Time, activities []model.Activity) []model.Activity {
	start := StartOfWeek(ref)
	return filterRange(activities, start, start.AddDate(0, 0, 7))
}

func filterRange(activities []model.Activity, from, to time.Time) []model.Activity {
	out := make([]model.Activity, 0)
	for _, a := range activities {
		if a.StartTime.Before(from) || !a.StartTime.Before(to) {
			continue
		}
		out = append(out, a)
	}
	return out
}
