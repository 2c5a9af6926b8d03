package model

import (
	"errors"
	"testing"
	"time"
)

func TestDurationMinutesRoundsAndClamps(t *testing.T) {
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		end  time.Time
		want int
	}{
		{start.Add(90 * time.Minute), 90},
		{start.Add(29*time.Second + 999*time.Millisecond), 0},
		{start.Add(30 * time.Second), 1},
		{start.Add(-15 * time.Minute), 0},
		{start, 0},
	}
	for _, tc := range cases {
		if got := DurationMinutes(start, tc.end); got != tc.want {
			t.Fatalf("duration to %s = %d, want %d", tc.end.Format(time.RFC3339Nano), got, tc.want)
		}
	}
}

func TestParseTagsTrimsAndDropsEmpty(t *testing.T) {
	got := ParseTags(" work, focus ,, ,deep work,")
	want := []string{"work", "focus", "deep work"}
	if len(got) != len(want) {
		t.Fatalf("unexpected tags: %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tag[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(ParseTags("")) != 0 {
		t.Fatal("expected no tags for empty string")
	}
}

func TestAddTagSkipsDuplicates(t *testing.T) {
	got := AddTag("work, focus", "focus")
	if got != "work, focus" {
		t.Fatalf("unexpected tags after duplicate add: %q", got)
	}
	got = AddTag("work", "health")
	if got != "work, health" {
		t.Fatalf("unexpected tags after add: %q", got)
	}
	if got := AddTag("", "  "); got != "" {
		t.Fatalf("expected blank tag ignored, got %q", got)
	}
}

func TestToggleFlowTwiceRestoresFlag(t *testing.T) {
	created := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	a := Activity{ID: "a-1", Title: "Write", StarFlow: false, CreatedAt: created, UpdatedAt: created, Synced: true}

	first := created.Add(time.Minute)
	a = a.ToggleFlow(first)
	if !a.StarFlow || !a.UpdatedAt.Equal(first) || a.Synced {
		t.Fatalf("unexpected state after first toggle: %+v", a)
	}

	second := first.Add(time.Minute)
	a = a.ToggleFlow(second)
	if a.StarFlow || !a.UpdatedAt.Equal(second) {
		t.Fatalf("unexpected state after second toggle: %+v", a)
	}
}

func TestMarkSyncedKeepsUpdatedAt(t *testing.T) {
	updated := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	a := Activity{ID: "a-1", UpdatedAt: updated}.MarkSynced()
	if !a.Synced || !a.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected state after sync: %+v", a)
	}
}

func TestActivityValidateEnergyRange(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	a := Activity{ID: "a-1", Title: "Run", StartTime: now, EndTime: now, CreatedAt: now, Energy: 6}
	if err := a.Validate(); !errors.Is(err, ErrInvalidEnergy) {
		t.Fatalf("expected ErrInvalidEnergy, got %v", err)
	}
	a.Energy = -5
	if err := a.Validate(); err != nil {
		t.Fatalf("expected valid activity, got %v", err)
	}
}

func TestLastTouchedPrefersEnd(t *testing.T) {
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	a := Activity{StartTime: start}
	if !a.LastTouched().Equal(start) {
		t.Fatalf("expected start when end missing, got %s", a.LastTouched())
	}
	a.EndTime = start.Add(time.Hour)
	if !a.LastTouched().Equal(a.EndTime) {
		t.Fatalf("expected end, got %s", a.LastTouched())
	}
}
