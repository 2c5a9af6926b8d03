package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/energyd/internal/model"
)

// Seed is a YAML file used to bootstrap settings, reminders and presets on a
// new machine. Sections left out of the file are not touched.
type Seed struct {
	Settings  *model.Settings         `yaml:"settings"`
	Reminders *model.ReminderSettings `yaml:"reminders"`
	Presets   []SeedPreset            `yaml:"presets"`
}

type SeedPreset struct {
	Title  string `yaml:"title"`
	Tags   string `yaml:"tags"`
	Energy int    `yaml:"energy"`
}

// SeedTarget receives the imported values.
type SeedTarget interface {
	SaveSettings(ctx context.Context, s model.Settings) error
	SaveReminders(ctx context.Context, r model.ReminderSettings) error
	AddPreset(ctx context.Context, title, tags string, energy int) (model.Preset, error)
}

func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a seed document. Reminder fields missing
// from the file keep their defaults.
func ParseSeed(data []byte) (Seed, error) {
	var raw struct {
		Settings  *model.Settings `yaml:"settings"`
		Reminders *yaml.Node      `yaml:"reminders"`
		Presets   []SeedPreset    `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}

	out := Seed{Settings: raw.Settings, Presets: raw.Presets}
	if raw.Reminders != nil {
		r := model.DefaultReminderSettings()
		if err := raw.Reminders.Decode(&r); err != nil {
			return Seed{}, fmt.Errorf("parse seed reminders: %w", err)
		}
		if err := r.Validate(); err != nil {
			return Seed{}, err
		}
		out.Reminders = &r
	}
	for i, p := range out.Presets {
		if p.Title == "" {
			return Seed{}, fmt.Errorf("seed preset %d: title is required", i)
		}
		if err := model.ValidateEnergy(p.Energy); err != nil {
			return Seed{}, fmt.Errorf("seed preset %q: %w", p.Title, err)
		}
	}
	return out, nil
}

func (s Seed) Apply(ctx context.Context, target SeedTarget) error {
	if s.Settings != nil {
		if err := target.SaveSettings(ctx, *s.Settings); err != nil {
			return err
		}
	}
	if s.Reminders != nil {
		if err := target.SaveReminders(ctx, *s.Reminders); err != nil {
			return err
		}
	}
	for _, p := range s.Presets {
		if _, err := target.AddPreset(ctx, p.Title, p.Tags, p.Energy); err != nil {
			return fmt.Errorf("import preset %q: %w", p.Title, err)
		}
	}
	return nil
}
