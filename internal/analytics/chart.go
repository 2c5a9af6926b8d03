package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/energyd/internal/model"
)

var ErrInvalidWeighting = errors.New("analytics: invalid chart weighting")

type Weighting string

const (
	WeightingDuration Weighting = "duration"
	WeightingAverage  Weighting = "average"
)

func (w Weighting) IsValid() bool {
	switch w {
	case WeightingDuration, WeightingAverage:
		return true
	default:
		return false
	}
}

func ParseWeighting(raw string) (Weighting, error) {
	w := Weighting(raw)
	if !w.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeighting, raw)
	}
	return w, nil
}

func (w Weighting) Toggle() Weighting {
	if w == WeightingAverage {
		return WeightingDuration
	}
	return WeightingAverage
}

var dayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type DayBucket struct {
	Day            string
	Positive       float64
	Negative       float64
	FlowActivities []model.Activity
}

// BuildChart buckets activities into Sunday-first weekdays of loc. A nil loc
// means time.Local. Unknown weightings are treated as duration.
func BuildChart(activities []model.Activity, weighting Weighting, loc *time.Location) [7]DayBucket {
	if loc == nil {
		loc = time.Local
	}
	var week [7]DayBucket
	var positives, negatives [7]int
	for i := range week {
		week[i] = DayBucket{Day: dayLabels[i], FlowActivities: []model.Activity{}}
	}

	for _, a := range activities {
		idx := int(a.StartTime.In(loc).Weekday())
		value := float64(a.DurationMinutes * a.Energy)
		if weighting == WeightingAverage {
			value = float64(a.Energy)
		}
		if value > 0 {
			week[idx].Positive += value
		} else {
			week[idx].Negative += value
		}
		if a.StarFlow {
			week[idx].FlowActivities = append(week[idx].FlowActivities, a)
		}
		if a.Energy > 0 {
			positives[idx]++
		} else if a.Energy < 0 {
			negatives[idx]++
		}
	}

	if weighting == WeightingAverage {
		for i := range week {
			if positives[i] > 0 {
				week[i].Positive /= float64(positives[i])
			}
			if negatives[i] > 0 {
				week[i].Negative /= float64(negatives[i])
			}
		}
	}
	return week
}
