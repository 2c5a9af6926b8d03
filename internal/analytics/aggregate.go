package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/sandeepkv93/energyd/internal/model"
)

const TopN = 5

var CareerKeywords = []string{"work", "project", "career"}

// Impact weights energy by duration; zero-length activities count as one minute.
func Impact(a model.Activity) int {
	minutes := a.DurationMinutes
	if minutes < 1 {
		minutes = 1
	}
	return a.Energy * minutes
}

type TagTotal struct {
	Tag     string
	Minutes int
}

func (t TagTotal) Hours() float64 {
	return math.Round(float64(t.Minutes)/60*10) / 10
}

type Report struct {
	Energizing  []model.Activity
	Draining    []model.Activity
	TimePerTag  []TagTotal
	CareerFocus []model.Activity
}

func (r Report) Empty() bool {
	return len(r.Energizing) == 0 && len(r.Draining) == 0 && len(r.TimePerTag) == 0 && len(r.CareerFocus) == 0
}

// Summarize computes every view from the same snapshot. CareerFocus is
// truncated to TopN here; CareerFocus() returns the full ranking.
func Summarize(activities []model.Activity) Report {
	return Report{
		Energizing:  Energizing(activities, TopN),
		Draining:    Draining(activities, TopN),
		TimePerTag:  TimePerTag(activities),
		CareerFocus: truncate(CareerFocus(activities), TopN),
	}
}

func Energizing(activities []model.Activity, limit int) []model.Activity {
	out := selectWhere(activities, model.Activity.IsEnergizing)
	sort.SliceStable(out, func(i, j int) bool { return Impact(out[i]) > Impact(out[j]) })
	return truncate(out, limit)
}

// Draining ranks the most negative impact first. Equal impacts keep input order.
func Draining(activities []model.Activity, limit int) []model.Activity {
	out := selectWhere(activities, model.Activity.IsDraining)
	sort.SliceStable(out, func(i, j int) bool { return Impact(out[i]) < Impact(out[j]) })
	return truncate(out, limit)
}

func TimePerTag(activities []model.Activity) []TagTotal {
	index := make(map[string]int)
	out := make([]TagTotal, 0)
	for _, a := range activities {
		for _, tag := range a.TagList() {
			i, ok := index[tag]
			if !ok {
				i = len(out)
				index[tag] = i
				out = append(out, TagTotal{Tag: tag})
			}
			out[i].Minutes += a.DurationMinutes
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Minutes > out[j].Minutes })
	return out
}

func CareerFocus(activities []model.Activity) []model.Activity {
	out := selectWhere(activities, isCareer)
	sort.SliceStable(out, func(i, j int) bool { return Impact(out[i]) > Impact(out[j]) })
	return out
}

func isCareer(a model.Activity) bool {
	tags := strings.ToLower(a.Tags)
	for _, kw := range CareerKeywords {
		if strings.Contains(tags, kw) {
			return true
		}
	}
	return false
}

func Titles(activities []model.Activity) []string {
	out := make([]string, 0, len(activities))
	for _, a := range activities {
		out = append(out, a.Title)
	}
	return out
}

func selectWhere(activities []model.Activity, keep func(model.Activity) bool) []model.Activity {
	out := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func truncate(items []model.Activity, limit int) []model.Activity {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
