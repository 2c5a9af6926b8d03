package model

import (
	"errors"
	"testing"
	"time"
)

func fixedID(id string) func() string {
	return func() string { return id }
}

func TestSeedFromPreset(t *testing.T) {
	p := Preset{ID: "p-1", Title: "Deep Work", DefaultTags: "work, focus", DefaultEnergy: 4}
	f := Seed(NewFromPreset{Preset: p})
	if f.Title != "Deep Work" || f.Tags != "work, focus" || f.Energy != 4 {
		t.Fatalf("unexpected seeded fields: %+v", f)
	}
	if !f.StartTime.IsZero() {
		t.Fatalf("expected no start time for plain preset draft: %+v", f)
	}
}

func TestSeedFromTimerStart(t *testing.T) {
	started := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	d := NewFromTimerStart{Preset: Preset{Title: "Workout", DefaultEnergy: 5}, StartedAt: started}
	f := Seed(d)
	if !f.StartTime.Equal(started) || f.Title != "Workout" {
		t.Fatalf("unexpected timer seed: %+v", f)
	}
	if !TimerRunning(d) || TimerRunning(NewBlank{}) {
		t.Fatal("timer flag mismatch")
	}
}

func TestFinalizeNewActivity(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	f := Fields{Title: "  Write docs ", StartTime: start, EndTime: start.Add(45 * time.Minute), Energy: 2, Tags: "work"}

	a, err := Finalize(NewBlank{}, f, now, fixedID("new-1"))
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if a.ID != "new-1" || a.Title != "Write docs" || a.DurationMinutes != 45 {
		t.Fatalf("unexpected activity: %+v", a)
	}
	if !a.CreatedAt.Equal(now) || !a.UpdatedAt.Equal(now) || a.Synced {
		t.Fatalf("unexpected timestamps or sync flag: %+v", a)
	}
}

func TestFinalizeEditKeepsIdentity(t *testing.T) {
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	existing := Activity{ID: "a-7", Title: "Old", StartTime: start, EndTime: start.Add(time.Hour), CreatedAt: created, UpdatedAt: created, Synced: true}

	f := Seed(EditingExisting{Activity: existing})
	f.Title = "New"
	f.EndTime = start.Add(2 * time.Hour)
	a, err := Finalize(EditingExisting{Activity: existing}, f, now, fixedID("unused"))
	if err != nil {
		t.Fatalf("finalize edit failed: %v", err)
	}
	if a.ID != "a-7" || !a.CreatedAt.Equal(created) {
		t.Fatalf("identity not preserved: %+v", a)
	}
	if a.DurationMinutes != 120 || a.Synced || !a.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected edit result: %+v", a)
	}
}

func TestFinalizeValidation(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		fields Fields
		want   error
	}{
		{"missing title", Fields{Title: " ", StartTime: now, EndTime: now}, ErrTitleRequired},
		{"missing start", Fields{Title: "x", EndTime: now}, ErrStartTimeRequired},
		{"missing end", Fields{Title: "x", StartTime: now}, ErrEndTimeRequired},
		{"energy out of range", Fields{Title: "x", StartTime: now, EndTime: now, Energy: -6}, ErrInvalidEnergy},
	}
	for _, tc := range cases {
		_, err := Finalize(NewBlank{}, tc.fields, now, fixedID("id"))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestFinalizeClampsNegativeSpan(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	f := Fields{Title: "Backwards", StartTime: now, EndTime: now.Add(-time.Hour)}
	a, err := Finalize(NewBlank{}, f, now, fixedID("id"))
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if a.DurationMinutes != 0 {
		t.Fatalf("expected clamped duration, got %d", a.DurationMinutes)
	}
}
