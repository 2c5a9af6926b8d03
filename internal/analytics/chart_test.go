package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/energyd/internal/model"
)

func TestBuildChartEmptyInputHasSevenZeroBuckets(t *testing.T) {
	week := BuildChart(nil, WeightingDuration, time.UTC)
	if len(week) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(week))
	}
	for i, b := range week {
		if b.Positive != 0 || b.Negative != 0 || len(b.FlowActivities) != 0 {
			t.Fatalf("bucket %d not zero: %+v", i, b)
		}
	}
	if week[0].Day != "Sun" || week[6].Day != "Sat" {
		t.Fatalf("unexpected day labels: %s..%s", week[0].Day, week[6].Day)
	}
}

func TestBuildChartDurationWeighting(t *testing.T) {
	tue := weekStart.AddDate(0, 0, 2)
	acts := []model.Activity{
		act("a", tue.Add(9*time.Hour), 60, 5, "work"),
		act("b", tue.Add(11*time.Hour), 30, -3, "work,health"),
	}
	week := BuildChart(acts, WeightingDuration, time.UTC)
	if week[2].Positive != 300 || week[2].Negative != -90 {
		t.Fatalf("unexpected tuesday bucket: %+v", week[2])
	}
	for i, b := range week {
		if i != 2 && (b.Positive != 0 || b.Negative != 0) {
			t.Fatalf("unexpected values on day %d: %+v", i, b)
		}
	}
}

func TestBuildChartAverageWeightingSingleActivities(t *testing.T) {
	thu := weekStart.AddDate(0, 0, 4)
	acts := []model.Activity{
		act("a", thu.Add(9*time.Hour), 120, 3, ""),
		act("b", thu.Add(13*time.Hour), 15, -2, ""),
	}
	week := BuildChart(acts, WeightingAverage, time.UTC)
	if week[4].Positive != 3 || week[4].Negative != -2 {
		t.Fatalf("unexpected thursday bucket: %+v", week[4])
	}
}

func TestBuildChartAverageWeightingDividesBySignCount(t *testing.T) {
	fri := weekStart.AddDate(0, 0, 5)
	acts := []model.Activity{
		act("a", fri, 10, 4, ""),
		act("b", fri, 10, 1, ""),
		act("c", fri, 10, 0, ""),
		act("d", fri, 10, -5, ""),
	}
	week := BuildChart(acts, WeightingAverage, time.UTC)
	if week[5].Positive != 2.5 || week[5].Negative != -5 {
		t.Fatalf("unexpected friday bucket: %+v", week[5])
	}
}

func TestBuildChartCollectsFlowActivitiesRegardlessOfSign(t *testing.T) {
	sat := weekStart.AddDate(0, 0, 6)
	up := act("up", sat, 10, 3, "")
	up.StarFlow = true
	down := act("down", sat, 10, -3, "")
	down.StarFlow = true
	plain := act("plain", sat, 10, 1, "")

	week := BuildChart([]model.Activity{up, down, plain}, WeightingDuration, time.UTC)
	if !equalStrings(ids(week[6].FlowActivities), []string{"up", "down"}) {
		t.Fatalf("unexpected flow activities: %v", ids(week[6].FlowActivities))
	}
}

func TestBuildChartBucketsInRequestedLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// Saturday 20:00 UTC is Sunday 05:00 in UTC+9.
	a := act("a", weekStart.AddDate(0, 0, 6).Add(20*time.Hour), 10, 1, "")
	week := BuildChart([]model.Activity{a}, WeightingDuration, loc)
	if week[0].Positive != 10 || week[6].Positive != 0 {
		t.Fatalf("unexpected buckets: sun=%+v sat=%+v", week[0], week[6])
	}
}

func TestParseWeighting(t *testing.T) {
	w, err := ParseWeighting("average")
	if err != nil || w != WeightingAverage {
		t.Fatalf("unexpected parse: %q %v", w, err)
	}
	if _, err := ParseWeighting("median"); !errors.Is(err, ErrInvalidWeighting) {
		t.Fatalf("expected ErrInvalidWeighting, got %v", err)
	}
	if WeightingDuration.Toggle() != WeightingAverage || WeightingAverage.Toggle() != WeightingDuration {
		t.Fatal("toggle mismatch")
	}
}
