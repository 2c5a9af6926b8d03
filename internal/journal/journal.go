// Package journal owns the canonical activity list. Mutations go through a
// single lock and are written to the repository before the in-memory list
// changes; readers always receive copies.
package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/energyd/internal/model"
	"github.com/sandeepkv93/energyd/internal/storage"
)

var ErrActivityNotFound = errors.New("journal: activity not found")

type Option func(*Journal)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(j *Journal) { j.newID = fn }
}

type Journal struct {
	repo  storage.Repository
	log   zerolog.Logger
	now   func() time.Time
	newID func() string

	mu         sync.RWMutex
	activities []model.Activity
}

// Open loads every stored activity into memory.
func Open(ctx context.Context, repo storage.Repository, log zerolog.Logger, opts ...Option) (*Journal, error) {
	if repo == nil {
		return nil, errors.New("journal: nil repository")
	}
	j := &Journal{
		repo:  repo,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(j)
	}
	if err := j.Reload(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

// Reload replaces the in-memory list with the repository contents. Used by
// long-running processes that share the database with other writers.
func (j *Journal) Reload(ctx context.Context) error {
	rows, err := j.repo.ListActivities(ctx, storage.ActivityListFilter{})
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	items := make([]model.Activity, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromStorageActivity(row))
	}
	sortActivities(items)

	j.mu.Lock()
	j.activities = items
	j.mu.Unlock()
	return nil
}

func (j *Journal) Now() time.Time {
	return j.now()
}

// Save finalizes the draft and persists the result. Edits replace the stored
// record; anything else is inserted.
func (j *Journal) Save(ctx context.Context, draft model.Draft, fields model.Fields) (model.Activity, error) {
	out, err := model.Finalize(draft, fields, j.now(), j.newID)
	if err != nil {
		return model.Activity{}, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	idx := j.indexLocked(out.ID)
	if _, editing := draft.(model.EditingExisting); editing && idx >= 0 {
		if err := j.repo.UpdateActivity(ctx, toStorageActivity(out)); err != nil {
			return model.Activity{}, fmt.Errorf("update activity %s: %w", out.ID, err)
		}
		j.activities[idx] = out
	} else {
		if err := j.repo.CreateActivity(ctx, toStorageActivity(out)); err != nil {
			return model.Activity{}, fmt.Errorf("create activity: %w", err)
		}
		j.activities = append(j.activities, out)
	}
	sortActivities(j.activities)
	j.log.Debug().Str("id", out.ID).Str("title", out.Title).Msg("activity saved")
	return out, nil
}

func (j *Journal) Get(id string) (model.Activity, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	idx := j.indexLocked(id)
	if idx < 0 {
		return model.Activity{}, false
	}
	return j.activities[idx], true
}

func (j *Journal) ToggleFlow(ctx context.Context, id string) (model.Activity, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	idx := j.indexLocked(id)
	if idx < 0 {
		return model.Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	out := j.activities[idx].ToggleFlow(j.now())
	if err := j.repo.UpdateActivity(ctx, toStorageActivity(out)); err != nil {
		return model.Activity{}, fmt.Errorf("toggle flow %s: %w", id, err)
	}
	j.activities[idx] = out
	return out, nil
}

// Delete removes the activity permanently.
func (j *Journal) Delete(ctx context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	idx := j.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	if err := j.repo.DeleteActivity(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete activity %s: %w", id, err)
	}
	j.activities = append(j.activities[:idx], j.activities[idx+1:]...)
	return nil
}

// MarkSynced flags the record as pushed, provided it still carries the
// updatedAt that was sent, both here and in the database. It reports
// whether the flag was set; a record deleted or edited during the push,
// including by another process sharing the file, is left alone.
func (j *Journal) MarkSynced(ctx context.Context, id string, pushedUpdatedAt time.Time) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	idx := j.indexLocked(id)
	if idx < 0 {
		return false, nil
	}
	current := j.activities[idx]
	if !current.UpdatedAt.Equal(pushedUpdatedAt) {
		return false, nil
	}
	if current.Synced {
		return true, nil
	}
	out := current.MarkSynced()
	if err := j.repo.MarkActivitySynced(ctx, id, pushedUpdatedAt); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("mark synced %s: %w", id, err)
	}
	j.activities[idx] = out
	return true, nil
}

// Snapshot returns a copy of every activity, newest start first.
func (j *Journal) Snapshot() []model.Activity {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]model.Activity(nil), j.activities...)
}

func (j *Journal) Unsynced() []model.Activity {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]model.Activity, 0)
	for _, a := range j.activities {
		if !a.Synced {
			out = append(out, a)
		}
	}
	return out
}

// MostRecent is the activity with the latest start time.
func (j *Journal) MostRecent() (model.Activity, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if len(j.activities) == 0 {
		return model.Activity{}, false
	}
	return j.activities[0], true
}

func (j *Journal) indexLocked(id string) int {
	for i := range j.activities {
		if j.activities[i].ID == id {
			return i
		}
	}
	return -1
}

func sortActivities(items []model.Activity) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].StartTime.After(items[b].StartTime)
	})
}
