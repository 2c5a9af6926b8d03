package journal

import (
	"github.com/sandeepkv93/energyd/internal/model"
	"github.com/sandeepkv93/energyd/internal/storage"
)

func toStorageActivity(a model.Activity) storage.Activity {
	return storage.Activity{
		ID:              a.ID,
		Title:           a.Title,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes,
		Energy:          a.Energy,
		Tags:            a.Tags,
		StarFlow:        a.StarFlow,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Synced:          a.Synced,
	}
}

func fromStorageActivity(a storage.Activity) model.Activity {
	return model.Activity{
		ID:              a.ID,
		Title:           a.Title,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes,
		Energy:          a.Energy,
		Tags:            a.Tags,
		StarFlow:        a.StarFlow,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Synced:          a.Synced,
	}
}

func toStoragePreset(p model.Preset, position int) storage.Preset {
	return storage.Preset{
		ID:            p.ID,
		Title:         p.Title,
		DefaultTags:   p.DefaultTags,
		DefaultEnergy: p.DefaultEnergy,
		Position:      position,
	}
}

func fromStoragePreset(p storage.Preset) model.Preset {
	return model.Preset{
		ID:            p.ID,
		Title:         p.Title,
		DefaultTags:   p.DefaultTags,
		DefaultEnergy: p.DefaultEnergy,
	}
}
