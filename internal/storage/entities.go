package storage

import "time"

type Activity struct {
	ID              string
	Title           string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Energy          int
	Tags            string
	StarFlow        bool
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Synced          bool
}

type Preset struct {
	ID            string
	Title         string
	DefaultTags   string
	DefaultEnergy int
	Position      int
}

type ActivityListFilter struct {
	From     *time.Time
	To       *time.Time
	Unsynced bool
	Limit    int
	Offset   int
}

// Well-known kv keys.
const (
	KeySettings              = "settings"
	KeyReminders             = "reminders"
	KeyChartWeighting        = "chartWeighting"
	KeyLastDailyNotification = "lastDailyNotification"
	KeyLastSmartNotification = "lastSmartNotification"
	KeyPresetsSeeded         = "presetsSeeded"
)
