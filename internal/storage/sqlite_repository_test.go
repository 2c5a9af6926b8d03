package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "energyd-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func sampleActivity(t *testing.T, id, start string, energy int) Activity {
	t.Helper()
	s := parseRFC3339(t, start)
	return Activity{
		ID:              id,
		Title:           "Activity " + id,
		StartTime:       s,
		EndTime:         s.Add(30 * time.Minute),
		DurationMinutes: 30,
		Energy:          energy,
		Tags:            "work, focus",
		CreatedAt:       s,
		UpdatedAt:       s,
	}
}

func TestActivityCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	in := sampleActivity(t, "act-1", "2026-02-09T09:00:00Z", 4)
	in.Notes = "morning block"
	if err := repo.CreateActivity(ctx, in); err != nil {
		t.Fatalf("create activity: %v", err)
	}

	got, err := repo.GetActivity(ctx, in.ID)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if got.Title != in.Title || got.Energy != 4 || got.Tags != "work, focus" || got.Notes != "morning block" {
		t.Fatalf("unexpected activity: %+v", got)
	}
	if !got.StartTime.Equal(in.StartTime) || !got.EndTime.Equal(in.EndTime) {
		t.Fatalf("times not preserved: %+v", got)
	}
	if got.Synced || got.StarFlow {
		t.Fatalf("expected flags false: %+v", got)
	}

	got.StarFlow = true
	got.Synced = true
	got.UpdatedAt = got.UpdatedAt.Add(time.Hour)
	if err := repo.UpdateActivity(ctx, got); err != nil {
		t.Fatalf("update activity: %v", err)
	}
	updated, err := repo.GetActivity(ctx, in.ID)
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if !updated.StarFlow || !updated.Synced || !updated.UpdatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("update not persisted: %+v", updated)
	}

	if err := repo.DeleteActivity(ctx, in.ID); err != nil {
		t.Fatalf("delete activity: %v", err)
	}
	if _, err := repo.GetActivity(ctx, in.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestActivityMissingRowsReturnNotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.DeleteActivity(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing: expected ErrNotFound, got %v", err)
	}
	ghost := sampleActivity(t, "ghost", "2026-02-09T09:00:00Z", 1)
	if err := repo.UpdateActivity(ctx, ghost); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: expected ErrNotFound, got %v", err)
	}
}

func TestEnergyConstraintRejectsOutOfRange(t *testing.T) {
	repo := setupRepo(t)
	bad := sampleActivity(t, "bad", "2026-02-09T09:00:00Z", 9)
	if err := repo.CreateActivity(context.Background(), bad); err == nil {
		t.Fatalf("expected check constraint failure for energy 9")
	}
}

func TestListActivitiesFiltersAndOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	a := sampleActivity(t, "a", "2026-02-08T08:00:00Z", 2)
	b := sampleActivity(t, "b", "2026-02-09T08:00:00Z", -3)
	b.Synced = true
	c := sampleActivity(t, "c", "2026-02-10T08:00:00Z", 5)
	for _, item := range []Activity{a, b, c} {
		if err := repo.CreateActivity(ctx, item); err != nil {
			t.Fatalf("create %s: %v", item.ID, err)
		}
	}

	all, err := repo.ListActivities(ctx, ActivityListFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	from := parseRFC3339(t, "2026-02-09T00:00:00Z")
	to := parseRFC3339(t, "2026-02-10T00:00:00Z")
	day, err := repo.ListActivities(ctx, ActivityListFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(day) != 1 || day[0].ID != "b" {
		t.Fatalf("expected only b in range, got %+v", day)
	}

	unsynced, err := repo.ListActivities(ctx, ActivityListFilter{Unsynced: true})
	if err != nil {
		t.Fatalf("list unsynced: %v", err)
	}
	if len(unsynced) != 2 {
		t.Fatalf("expected 2 unsynced, got %d", len(unsynced))
	}

	page, err := repo.ListActivities(ctx, ActivityListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].ID != "b" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestPresetsOrderedByPosition(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	presets := []Preset{
		{ID: "p2", Title: "Workout", DefaultTags: "health", DefaultEnergy: 5, Position: 2},
		{ID: "p0", Title: "Deep Work", DefaultTags: "work, focus", DefaultEnergy: 4, Position: 0},
		{ID: "p1", Title: "Team Meeting", DefaultTags: "work", DefaultEnergy: 1, Position: 1},
	}
	for _, p := range presets {
		if err := repo.CreatePreset(ctx, p); err != nil {
			t.Fatalf("create preset %s: %v", p.ID, err)
		}
	}

	got, err := repo.ListPresets(ctx)
	if err != nil {
		t.Fatalf("list presets: %v", err)
	}
	if len(got) != 3 || got[0].ID != "p0" || got[1].ID != "p1" || got[2].ID != "p2" {
		t.Fatalf("unexpected preset order: %+v", got)
	}

	if err := repo.DeletePreset(ctx, "p1"); err != nil {
		t.Fatalf("delete preset: %v", err)
	}
	if err := repo.DeletePreset(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestKeyValueUpsert(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.GetValue(ctx, KeySettings); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing key, got %v", err)
	}
	if err := repo.PutValue(ctx, KeyChartWeighting, "duration"); err != nil {
		t.Fatalf("put value: %v", err)
	}
	if err := repo.PutValue(ctx, KeyChartWeighting, "average"); err != nil {
		t.Fatalf("overwrite value: %v", err)
	}
	got, err := repo.GetValue(ctx, KeyChartWeighting)
	if err != nil {
		t.Fatalf("get value: %v", err)
	}
	if got != "average" {
		t.Fatalf("expected overwritten value, got %q", got)
	}
}

func TestOpenSQLiteMigrates(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "open.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer repo.Close()

	if err := repo.PutValue(context.Background(), "migrated", "1"); err != nil {
		t.Fatalf("put after open: %v", err)
	}
}

func TestMarkActivitySyncedRequiresMatchingUpdatedAt(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	item := sampleActivity(t, "a1", "2026-02-09T09:00:00Z", 2)
	if err := repo.CreateActivity(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	stale := item.UpdatedAt.Add(-time.Minute)
	if err := repo.MarkActivitySynced(ctx, item.ID, stale); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for stale updatedAt, got %v", err)
	}
	got, err := repo.GetActivity(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Synced {
		t.Fatalf("stale mark must not set synced")
	}

	if err := repo.MarkActivitySynced(ctx, item.ID, item.UpdatedAt); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	got, err = repo.GetActivity(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Synced || got.Title != item.Title || !got.UpdatedAt.Equal(item.UpdatedAt) {
		t.Fatalf("expected only the synced flag to change, got %+v", got)
	}

	if err := repo.MarkActivitySynced(ctx, "missing", item.UpdatedAt); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing row, got %v", err)
	}
}
