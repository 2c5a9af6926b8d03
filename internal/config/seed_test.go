package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/energyd/internal/model"
)

type recordingTarget struct {
	settings  *model.Settings
	reminders *model.ReminderSettings
	presets   []string
}

func (r *recordingTarget) SaveSettings(_ context.Context, s model.Settings) error {
	r.settings = &s
	return nil
}

func (r *recordingTarget) SaveReminders(_ context.Context, s model.ReminderSettings) error {
	r.reminders = &s
	return nil
}

func (r *recordingTarget) AddPreset(_ context.Context, title, tags string, energy int) (model.Preset, error) {
	r.presets = append(r.presets, title)
	return model.Preset{ID: title, Title: title, DefaultTags: tags, DefaultEnergy: energy}, nil
}

const fullSeed = `
settings:
  sheet_url: https://script.example.test/exec
  sheet_api_key: sheet-key
  summary_api_key: summary-key
  common_tags: [work, reading]
reminders:
  daily_enabled: true
  daily_time: "20:30"
presets:
  - title: Reading
    tags: learning, books
    energy: 2
  - title: Commute
    tags: travel
    energy: -2
`

func TestLoadSeedAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(fullSeed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	seed, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}

	target := &recordingTarget{}
	if err := seed.Apply(context.Background(), target); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if target.settings == nil || !target.settings.SyncConfigured() || len(target.settings.CommonTags) != 2 {
		t.Fatalf("unexpected settings: %+v", target.settings)
	}
	r := target.reminders
	if r == nil || !r.DailyEnabled || r.DailyTime != "20:30" || r.SmartIntervalHours != 4 {
		t.Fatalf("reminders should merge over defaults: %+v", r)
	}
	if len(target.presets) != 2 || target.presets[0] != "Reading" {
		t.Fatalf("unexpected presets: %v", target.presets)
	}
}

func TestPartialSeedLeavesOtherSectionsAlone(t *testing.T) {
	seed, err := ParseSeed([]byte("presets:\n  - title: Nap\n    energy: 3\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	target := &recordingTarget{}
	if err := seed.Apply(context.Background(), target); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if target.settings != nil || target.reminders != nil {
		t.Fatalf("absent sections must not be written")
	}
}

func TestParseSeedValidates(t *testing.T) {
	if _, err := ParseSeed([]byte("reminders:\n  daily_time: \"99:00\"\n")); !errors.Is(err, model.ErrInvalidDailyTime) {
		t.Fatalf("expected invalid daily time, got %v", err)
	}
	if _, err := ParseSeed([]byte("presets:\n  - title: Loud\n    energy: 11\n")); !errors.Is(err, model.ErrInvalidEnergy) {
		t.Fatalf("expected invalid energy, got %v", err)
	}
	if _, err := ParseSeed([]byte("presets:\n  - energy: 1\n")); err == nil {
		t.Fatalf("expected missing title error")
	}
	if _, err := ParseSeed([]byte("settings: [not, a, map]")); err == nil {
		t.Fatalf("expected parse error")
	}
}
