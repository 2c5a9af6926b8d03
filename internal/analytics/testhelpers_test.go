package analytics

import (
	"time"

	"github.com/sandeepkv93/energyd/internal/model"
)

// 2026-02-08 is a Sunday.
var weekStart = time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)

func act(id string, start time.Time, minutes, energy int, tags string) model.Activity {
	return model.Activity{
		ID:              id,
		Title:           "title-" + id,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		Energy:          energy,
		Tags:            tags,
		CreatedAt:       start,
		UpdatedAt:       start,
	}
}

func ids(items []model.Activity) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
