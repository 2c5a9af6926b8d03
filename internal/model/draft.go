package model

import (
	"strings"
	"time"
)

// Draft describes where an activity being edited came from. Exactly one of
// NewBlank, NewFromPreset, NewFromTimerStart or EditingExisting.
type Draft interface {
	isDraft()
}

type NewBlank struct{}

type NewFromPreset struct {
	Preset Preset
}

type NewFromTimerStart struct {
	Preset    Preset
	StartedAt time.Time
}

type EditingExisting struct {
	Activity Activity
}

func (NewBlank) isDraft()          {}
func (NewFromPreset) isDraft()     {}
func (NewFromTimerStart) isDraft() {}
func (EditingExisting) isDraft()   {}

// Fields is the editable part of an activity.
type Fields struct {
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Energy    int
	Tags      string
	StarFlow  bool
	Notes     string
}

func Seed(d Draft) Fields {
	switch typed := d.(type) {
	case NewFromPreset:
		return Fields{Title: typed.Preset.Title, Tags: typed.Preset.DefaultTags, Energy: typed.Preset.DefaultEnergy}
	case NewFromTimerStart:
		return Fields{
			Title:     typed.Preset.Title,
			Tags:      typed.Preset.DefaultTags,
			Energy:    typed.Preset.DefaultEnergy,
			StartTime: typed.StartedAt,
		}
	case EditingExisting:
		a := typed.Activity
		return Fields{
			Title:     a.Title,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			Energy:    a.Energy,
			Tags:      a.Tags,
			StarFlow:  a.StarFlow,
			Notes:     a.Notes,
		}
	default:
		return Fields{}
	}
}

func TimerRunning(d Draft) bool {
	_, ok := d.(NewFromTimerStart)
	return ok
}

// Finalize validates the edited fields and produces the activity to store.
// New drafts get a fresh id and createdAt; edits keep both.
func Finalize(d Draft, f Fields, now time.Time, newID func() string) (Activity, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return Activity{}, ErrTitleRequired
	}
	if f.StartTime.IsZero() {
		return Activity{}, ErrStartTimeRequired
	}
	if f.EndTime.IsZero() {
		return Activity{}, ErrEndTimeRequired
	}
	if err := ValidateEnergy(f.Energy); err != nil {
		return Activity{}, err
	}

	out := Activity{
		Title:           title,
		StartTime:       f.StartTime,
		EndTime:         f.EndTime,
		DurationMinutes: DurationMinutes(f.StartTime, f.EndTime),
		Energy:          f.Energy,
		Tags:            f.Tags,
		StarFlow:        f.StarFlow,
		Notes:           f.Notes,
		UpdatedAt:       now,
		Synced:          false,
	}
	if existing, ok := d.(EditingExisting); ok {
		out.ID = existing.Activity.ID
		out.CreatedAt = existing.Activity.CreatedAt
	}
	if out.ID == "" {
		out.ID = newID()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	return out, nil
}
