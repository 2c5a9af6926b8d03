package reminder

import (
	"testing"
	"time"

	"github.com/sandeepkv93/energyd/internal/model"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 2, 9, hour, minute, 30, 0, time.UTC)
}

func TestDailyFiresOncePerDay(t *testing.T) {
	settings := model.ReminderSettings{DailyEnabled: true, DailyTime: "21:00"}

	d, markers := Check(at(21, 0), settings, model.ReminderMarkers{}, nil)
	if !d.Daily || d.Smart {
		t.Fatalf("expected daily only, got %+v", d)
	}
	if markers.LastDaily != "2026-02-09" {
		t.Fatalf("unexpected daily marker: %q", markers.LastDaily)
	}

	d, _ = Check(at(21, 0).Add(10*time.Second), settings, markers, nil)
	if d.Daily {
		t.Fatalf("daily must not fire twice on the same date")
	}

	d, _ = Check(at(21, 0).AddDate(0, 0, 1), settings, markers, nil)
	if !d.Daily {
		t.Fatalf("daily should fire again the next day")
	}
}

func TestDailyRequiresMatchingMinuteAndEnabled(t *testing.T) {
	settings := model.ReminderSettings{DailyEnabled: true, DailyTime: "21:00"}
	if d, _ := Check(at(21, 1), settings, model.ReminderMarkers{}, nil); d.Daily {
		t.Fatalf("daily must only fire during the configured minute")
	}
	settings.DailyEnabled = false
	if d, _ := Check(at(21, 0), settings, model.ReminderMarkers{}, nil); d.Daily {
		t.Fatalf("disabled daily must not fire")
	}
	settings = model.ReminderSettings{DailyEnabled: true, DailyTime: "garbage"}
	if d, _ := Check(at(21, 0), settings, model.ReminderMarkers{}, nil); d.Daily {
		t.Fatalf("unparseable time must not fire")
	}
}

func TestSmartFiresAfterIdleInterval(t *testing.T) {
	settings := model.ReminderSettings{SmartEnabled: true, SmartIntervalHours: 4}
	last := model.Activity{StartTime: at(8, 0), EndTime: at(9, 0)}

	if d, _ := Check(at(12, 59), settings, model.ReminderMarkers{}, &last); d.Smart {
		t.Fatalf("smart must not fire before the interval elapses since end")
	}

	now := at(13, 0)
	d, markers := Check(now, settings, model.ReminderMarkers{}, &last)
	if !d.Smart || !markers.LastSmart.Equal(now) {
		t.Fatalf("expected smart to fire, got %+v %+v", d, markers)
	}

	if d, _ := Check(now.Add(3*time.Hour), settings, markers, &last); d.Smart {
		t.Fatalf("smart must wait a full interval between firings")
	}
	if d, _ := Check(now.Add(4*time.Hour+time.Second), settings, markers, &last); !d.Smart {
		t.Fatalf("smart should fire again after the interval")
	}
}

func TestSmartUsesStartWhenEndMissing(t *testing.T) {
	settings := model.ReminderSettings{SmartEnabled: true, SmartIntervalHours: 1}
	last := model.Activity{StartTime: at(10, 0)}
	if d, _ := Check(at(11, 0), settings, model.ReminderMarkers{}, &last); !d.Smart {
		t.Fatalf("expected smart to measure from start time")
	}
}

func TestSmartNeedsActivityAndPositiveInterval(t *testing.T) {
	settings := model.ReminderSettings{SmartEnabled: true, SmartIntervalHours: 4}
	if d, _ := Check(at(23, 0), settings, model.ReminderMarkers{}, nil); d.Smart {
		t.Fatalf("smart must not fire without any activity")
	}
	settings.SmartIntervalHours = 0
	last := model.Activity{StartTime: at(1, 0), EndTime: at(2, 0)}
	if d, _ := Check(at(23, 0), settings, model.ReminderMarkers{}, &last); d.Smart {
		t.Fatalf("smart must not fire with a zero interval")
	}
}

func TestCheckDoesNotMutateInputMarkers(t *testing.T) {
	settings := model.ReminderSettings{DailyEnabled: true, DailyTime: "21:00"}
	in := model.ReminderMarkers{LastDaily: "2026-02-08"}
	_, out := Check(at(21, 0), settings, in, nil)
	if in.LastDaily != "2026-02-08" || out.LastDaily != "2026-02-09" {
		t.Fatalf("unexpected markers: in=%+v out=%+v", in, out)
	}
}
