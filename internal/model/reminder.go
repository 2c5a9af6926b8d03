package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDailyTime = errors.New("model: invalid daily reminder time")

type ReminderSettings struct {
	DailyEnabled       bool   `json:"dailyEnabled" yaml:"daily_enabled"`
	DailyTime          string `json:"dailyTime" yaml:"daily_time"`
	SmartEnabled       bool   `json:"smartEnabled" yaml:"smart_enabled"`
	SmartIntervalHours int    `json:"smartIntervalHours" yaml:"smart_interval_hours"`
}

func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		DailyEnabled:       false,
		DailyTime:          "21:00",
		SmartEnabled:       false,
		SmartIntervalHours: 4,
	}
}

func (r ReminderSettings) Validate() error {
	if _, _, err := ParseClock(r.DailyTime); err != nil {
		return err
	}
	if r.SmartIntervalHours < 0 {
		return fmt.Errorf("model: smart reminder interval must not be negative: %d", r.SmartIntervalHours)
	}
	return nil
}

// ParseClock parses an "HH:MM" wall-clock string.
func ParseClock(raw string) (hour int, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDailyTime, raw)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDailyTime, raw)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDailyTime, raw)
	}
	return hour, minute, nil
}

// ReminderMarkers records when each reminder last fired. LastDaily is a
// local calendar date in DateLayout form; an empty value means never.
type ReminderMarkers struct {
	LastDaily string
	LastSmart time.Time
}

const DateLayout = "2006-01-02"
