// Package reminder decides when to nudge the user to log activities and
// delivers the nudge.
package reminder

import (
	"time"

	"github.com/sandeepkv93/energyd/internal/model"
)

const (
	Title     = "EnergyMap Reminder"
	DailyBody = "Don't forget to log your activities for the day!"
	SmartBody = "It's been a while! Time to log a new activity?"
)

type Decision struct {
	Daily bool
	Smart bool
}

func (d Decision) Any() bool {
	return d.Daily || d.Smart
}

// Check is pure: it reports which reminders fire at now and returns the
// markers updated for whatever fired.
//
// The daily reminder fires during the configured minute unless it already
// fired on now's calendar date. The smart reminder fires once the latest
// activity is at least the interval old, and at most once per interval.
func Check(now time.Time, settings model.ReminderSettings, markers model.ReminderMarkers, mostRecent *model.Activity) (Decision, model.ReminderMarkers) {
	var d Decision
	next := markers

	if settings.DailyEnabled {
		if hour, minute, err := model.ParseClock(settings.DailyTime); err == nil {
			today := now.Format(model.DateLayout)
			if now.Hour() == hour && now.Minute() == minute && markers.LastDaily != today {
				d.Daily = true
				next.LastDaily = today
			}
		}
	}

	if settings.SmartEnabled && settings.SmartIntervalHours > 0 && mostRecent != nil {
		interval := time.Duration(settings.SmartIntervalHours) * time.Hour
		if now.Sub(mostRecent.LastTouched()) >= interval && now.Sub(markers.LastSmart) > interval {
			d.Smart = true
			next.LastSmart = now
		}
	}

	return d, next
}
