package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateActivity(ctx context.Context, in Activity) error
	GetActivity(ctx context.Context, id string) (Activity, error)
	UpdateActivity(ctx context.Context, in Activity) error
	// MarkActivitySynced sets the synced flag only while the stored row still
	// carries updatedAt; otherwise it returns ErrNotFound.
	MarkActivitySynced(ctx context.Context, id string, updatedAt time.Time) error
	DeleteActivity(ctx context.Context, id string) error
	ListActivities(ctx context.Context, filter ActivityListFilter) ([]Activity, error)

	CreatePreset(ctx context.Context, in Preset) error
	DeletePreset(ctx context.Context, id string) error
	ListPresets(ctx context.Context) ([]Preset, error)

	GetValue(ctx context.Context, key string) (string, error)
	PutValue(ctx context.Context, key, value string) error
}
