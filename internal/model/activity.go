package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	MinEnergy = -5
	MaxEnergy = 5
)

var (
	ErrTitleRequired     = errors.New("model: activity title is required")
	ErrStartTimeRequired = errors.New("model: activity start time is required")
	ErrEndTimeRequired   = errors.New("model: activity end time is required")
	ErrInvalidEnergy     = errors.New("model: invalid activity energy")
)

type Activity struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Energy          int       `json:"energy"`
	Tags            string    `json:"tags"`
	StarFlow        bool      `json:"starFlow"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Synced          bool      `json:"synced"`
}

func (a Activity) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: activity id is required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return ErrTitleRequired
	}
	if a.StartTime.IsZero() {
		return ErrStartTimeRequired
	}
	if a.EndTime.IsZero() {
		return ErrEndTimeRequired
	}
	if err := ValidateEnergy(a.Energy); err != nil {
		return err
	}
	if a.DurationMinutes < 0 {
		return errors.New("model: activity duration must not be negative")
	}
	if a.CreatedAt.IsZero() {
		return errors.New("model: activity created_at is required")
	}
	return nil
}

func ValidateEnergy(energy int) error {
	if energy < MinEnergy || energy > MaxEnergy {
		return fmt.Errorf("%w: %d", ErrInvalidEnergy, energy)
	}
	return nil
}

// DurationMinutes rounds the span to whole minutes; spans where end precedes
// start yield zero.
func DurationMinutes(start, end time.Time) int {
	mins := math.Round(float64(end.Sub(start).Milliseconds()) / 60000)
	if mins <= 0 {
		return 0
	}
	return int(mins)
}

// ParseTags splits a comma-separated tag string, trimming each segment and
// dropping empty ones. Order is preserved.
func ParseTags(raw string) []string {
	out := make([]string, 0)
	for _, seg := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(seg)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// AddTag appends tag to the comma-separated list unless it is already present.
func AddTag(raw, tag string) string {
	tag = strings.TrimSpace(tag)
	tags := ParseTags(raw)
	if tag != "" && !contains(tags, tag) {
		tags = append(tags, tag)
	}
	return strings.Join(tags, ", ")
}

func (a Activity) TagList() []string {
	return ParseTags(a.Tags)
}

func (a Activity) IsEnergizing() bool { return a.Energy > 0 }
func (a Activity) IsDraining() bool   { return a.Energy < 0 }

// LastTouched is the end of the activity when known, else its start.
func (a Activity) LastTouched() time.Time {
	if !a.EndTime.IsZero() {
		return a.EndTime
	}
	return a.StartTime
}

func (a Activity) ToggleFlow(now time.Time) Activity {
	a.StarFlow = !a.StarFlow
	a.UpdatedAt = now
	a.Synced = false
	return a
}

// MarkSynced records a confirmed push. UpdatedAt is left untouched.
func (a Activity) MarkSynced() Activity {
	a.Synced = true
	return a
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
