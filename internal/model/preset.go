package model

import (
	"errors"
	"strings"
)

type Preset struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	DefaultTags   string `json:"defaultTags"`
	DefaultEnergy int    `json:"defaultEnergy"`
}

func (p Preset) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("model: preset id is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("model: preset title is required")
	}
	return ValidateEnergy(p.DefaultEnergy)
}

// DefaultPresets is the preset list used when none have been stored yet.
func DefaultPresets(newID func() string) []Preset {
	return []Preset{
		{ID: newID(), Title: "Deep Work", DefaultTags: "work, focus", DefaultEnergy: 4},
		{ID: newID(), Title: "Team Meeting", DefaultTags: "work, communication", DefaultEnergy: 1},
		{ID: newID(), Title: "Workout", DefaultTags: "health, exercise", DefaultEnergy: 5},
	}
}

func FindPreset(presets []Preset, ref string) (Preset, bool) {
	ref = strings.TrimSpace(ref)
	for _, p := range presets {
		if p.ID == ref {
			return p, true
		}
	}
	for _, p := range presets {
		if strings.EqualFold(p.Title, ref) {
			return p, true
		}
	}
	return Preset{}, false
}
