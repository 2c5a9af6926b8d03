package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/energyd/internal/analytics"
	"github.com/sandeepkv93/energyd/internal/model"
	"github.com/sandeepkv93/energyd/internal/storage"
)

var ErrPresetNotFound = errors.New("journal: preset not found")

// Settings returns the stored settings, falling back to defaults when the
// value is missing or unreadable.
func (j *Journal) Settings(ctx context.Context) model.Settings {
	out := model.DefaultSettings()
	loadJSON(ctx, j, storage.KeySettings, &out, model.DefaultSettings)
	return out
}

func (j *Journal) SaveSettings(ctx context.Context, s model.Settings) error {
	return j.saveJSON(ctx, storage.KeySettings, s)
}

func (j *Journal) Reminders(ctx context.Context) model.ReminderSettings {
	out := model.DefaultReminderSettings()
	loadJSON(ctx, j, storage.KeyReminders, &out, model.DefaultReminderSettings)
	return out
}

func (j *Journal) SaveReminders(ctx context.Context, r model.ReminderSettings) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return j.saveJSON(ctx, storage.KeyReminders, r)
}

func (j *Journal) Weighting(ctx context.Context) analytics.Weighting {
	var raw string
	if !loadJSON(ctx, j, storage.KeyChartWeighting, &raw, func() string { return "" }) {
		return analytics.WeightingDuration
	}
	w, err := analytics.ParseWeighting(raw)
	if err != nil {
		j.log.Warn().Str("value", raw).Msg("stored chart weighting invalid, using default")
		return analytics.WeightingDuration
	}
	return w
}

func (j *Journal) SaveWeighting(ctx context.Context, w analytics.Weighting) error {
	if !w.IsValid() {
		return fmt.Errorf("%w: %q", analytics.ErrInvalidWeighting, w)
	}
	return j.saveJSON(ctx, storage.KeyChartWeighting, string(w))
}

// Markers reads the reminder firing markers. The smart marker is stored as
// unix milliseconds; unreadable values count as never fired.
func (j *Journal) Markers(ctx context.Context) model.ReminderMarkers {
	var out model.ReminderMarkers
	if daily, err := j.repo.GetValue(ctx, storage.KeyLastDailyNotification); err == nil {
		out.LastDaily = daily
	}
	if raw, err := j.repo.GetValue(ctx, storage.KeyLastSmartNotification); err == nil {
		ms, parseErr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if parseErr == nil && ms > 0 {
			out.LastSmart = time.UnixMilli(ms)
		}
	}
	return out
}

func (j *Journal) SaveMarkers(ctx context.Context, m model.ReminderMarkers) error {
	if m.LastDaily != "" {
		if err := j.repo.PutValue(ctx, storage.KeyLastDailyNotification, m.LastDaily); err != nil {
			return fmt.Errorf("save daily marker: %w", err)
		}
	}
	if !m.LastSmart.IsZero() {
		if err := j.repo.PutValue(ctx, storage.KeyLastSmartNotification, strconv.FormatInt(m.LastSmart.UnixMilli(), 10)); err != nil {
			return fmt.Errorf("save smart marker: %w", err)
		}
	}
	return nil
}

// Presets lists presets in display order. The defaults are stored the first
// time this runs; deleting every preset afterwards leaves the list empty.
func (j *Journal) Presets(ctx context.Context) ([]model.Preset, error) {
	if err := j.seedPresets(ctx); err != nil {
		return nil, err
	}
	rows, err := j.repo.ListPresets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	out := make([]model.Preset, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromStoragePreset(row))
	}
	return out, nil
}

func (j *Journal) AddPreset(ctx context.Context, title, tags string, energy int) (model.Preset, error) {
	existing, err := j.Presets(ctx)
	if err != nil {
		return model.Preset{}, err
	}
	p := model.Preset{
		ID:            j.newID(),
		Title:         strings.TrimSpace(title),
		DefaultTags:   strings.Join(model.ParseTags(tags), ", "),
		DefaultEnergy: energy,
	}
	if err := p.Validate(); err != nil {
		return model.Preset{}, err
	}
	if err := j.repo.CreatePreset(ctx, toStoragePreset(p, len(existing))); err != nil {
		return model.Preset{}, fmt.Errorf("create preset: %w", err)
	}
	return p, nil
}

// DeletePreset removes a preset by id or case-insensitive title.
func (j *Journal) DeletePreset(ctx context.Context, ref string) error {
	presets, err := j.Presets(ctx)
	if err != nil {
		return err
	}
	p, ok := model.FindPreset(presets, ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, ref)
	}
	if err := j.repo.DeletePreset(ctx, p.ID); err != nil {
		return fmt.Errorf("delete preset %s: %w", p.ID, err)
	}
	return nil
}

func (j *Journal) seedPresets(ctx context.Context) error {
	_, err := j.repo.GetValue(ctx, storage.KeyPresetsSeeded)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("read preset seed marker: %w", err)
	}
	for i, p := range model.DefaultPresets(j.newID) {
		if err := j.repo.CreatePreset(ctx, toStoragePreset(p, i)); err != nil {
			return fmt.Errorf("seed preset %q: %w", p.Title, err)
		}
	}
	return j.repo.PutValue(ctx, storage.KeyPresetsSeeded, "true")
}

// loadJSON decodes key into dst. On a missing key it leaves dst untouched and
// reports false; on corrupt data it resets dst from fallback and logs.
func loadJSON[T any](ctx context.Context, j *Journal, key string, dst *T, fallback func() T) bool {
	raw, err := j.repo.GetValue(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			j.log.Warn().Err(err).Str("key", key).Msg("read stored value failed, using default")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		j.log.Warn().Err(err).Str("key", key).Msg("stored value corrupt, using default")
		*dst = fallback()
		return false
	}
	return true
}

func (j *Journal) saveJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := j.repo.PutValue(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
