package commands

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/energyd/internal/model"
)

// DefaultSpan is the length given to an added activity when one bound is
// missing.
const DefaultSpan = 30 * time.Minute

// ResolveRange turns optional "HH:MM" bounds into times on day. A missing
// bound sits DefaultSpan away from the given one; with neither, the range
// ends now when day is today and at noon otherwise.
func ResolveRange(day, now time.Time, from, to string) (time.Time, time.Time, error) {
	at := func(raw string) (time.Time, error) {
		hh, mm, err := model.ParseClock(raw)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, day.Location()), nil
	}

	var start, end time.Time
	var err error
	switch {
	case from != "" && to != "":
		if start, err = at(from); err != nil {
			return start, end, err
		}
		if end, err = at(to); err != nil {
			return start, end, err
		}
	case from != "":
		if start, err = at(from); err != nil {
			return start, end, err
		}
		end = start.Add(DefaultSpan)
	case to != "":
		if end, err = at(to); err != nil {
			return start, end, err
		}
		start = end.Add(-DefaultSpan)
	default:
		end = time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())
		if sameDay(day, now) {
			end = now.Truncate(time.Minute)
		}
		start = end.Add(-DefaultSpan)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("end %s is before start %s", end.Format("15:04"), start.Format("15:04"))
	}
	return start, end, nil
}

// AdjustRange moves only the bounds that were given. A given bound is
// placed on the local day of start; an empty one keeps its current time,
// so a range crossing midnight survives a change to its start alone.
func AdjustRange(start, end time.Time, loc *time.Location, from, to string) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day := start.In(loc)
	at := func(raw string) (time.Time, error) {
		hh, mm, err := model.ParseClock(raw)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, loc), nil
	}

	newStart, newEnd := start, end
	var err error
	if from != "" {
		if newStart, err = at(from); err != nil {
			return start, end, err
		}
	}
	if to != "" {
		if newEnd, err = at(to); err != nil {
			return start, end, err
		}
	}
	if newEnd.Before(newStart) {
		return start, end, fmt.Errorf("end %s is before start %s", newEnd.In(loc).Format("15:04"), newStart.In(loc).Format("15:04"))
	}
	return newStart, newEnd, nil
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

