package views

import (
	"fmt"
	"math"
	"strings"
)

type TimelineItemData struct {
	ID      string
	Title   string
	Start   string
	End     string
	Minutes int
	Energy  int
	Tags    []string
	Flow    bool
	Synced  bool
}

type TimelinePanelData struct {
	Date       string
	Items      []TimelineItemData
	SelectedID string
	// TimerTitle is set while a preset timer is running.
	TimerTitle   string
	TimerElapsed string
}

type ActivityDetailData struct {
	ID      string
	Title   string
	When    string
	Minutes int
	Energy  int
	Tags    []string
	Flow    bool
	Synced  bool
	Notes   string
	Created string
	Updated string
}

type ChartDayData struct {
	Day        string
	Positive   float64
	Negative   float64
	FlowTitles []string
}

type ChartPanelData struct {
	WeekOf    string
	Weighting string
	Days      []ChartDayData
	BarWidth  int
}

type RankedItemData struct {
	Title  string
	Energy int
	Impact int
	Flow   bool
}

type TagTotalData struct {
	Tag   string
	Hours float64
}

type AnalyticsPanelData struct {
	WeekOf         string
	Empty          bool
	Energizing     []RankedItemData
	Draining       []RankedItemData
	TimePerTag     []TagTotalData
	CareerFocus    []RankedItemData
	Summary        string
	SummaryLoading bool
	SpinnerView    string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTimelinePanel(data TimelinePanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("timeline: %s\n", data.Date))
	b.WriteString("actions: [j/k]move [h/l]day [f]flow [x]delete [/]command\n")
	if data.TimerTitle != "" {
		b.WriteString(flowStyle.Render(fmt.Sprintf("timer: %s running %s", data.TimerTitle, data.TimerElapsed)) + "\n")
	}
	if len(data.Items) == 0 {
		b.WriteString("\n(no activities logged)")
		return b.String()
	}
	b.WriteString("\n")
	for _, item := range data.Items {
		cursor := " "
		if item.ID == data.SelectedID {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s-%s %s %s (%dm)", cursor, item.Start, item.End, EnergyBadge(item.Energy), item.Title, item.Minutes)
		if item.Flow {
			line += " " + flowStyle.Render("★")
		}
		if !item.Synced {
			line += " " + neutralStyle.Render("•")
		}
		b.WriteString(line + "\n")
		if len(item.Tags) > 0 {
			b.WriteString(neutralStyle.Render("    #"+strings.Join(item.Tags, " #")) + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderActivityDetail(data *ActivityDetailData) string {
	if data == nil {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	b.WriteString(fmt.Sprintf("when: %s (%dm)\n", data.When, data.Minutes))
	b.WriteString(fmt.Sprintf("energy: %s\n", EnergyBadge(data.Energy)))
	if len(data.Tags) > 0 {
		b.WriteString(fmt.Sprintf("tags: %s\n", strings.Join(data.Tags, ", ")))
	}
	b.WriteString(fmt.Sprintf("flow: %t synced: %t\n", data.Flow, data.Synced))
	b.WriteString(fmt.Sprintf("created: %s\nupdated: %s\n", data.Created, data.Updated))
	b.WriteString(fmt.Sprintf("id: %s", data.ID))
	if strings.TrimSpace(data.Notes) != "" {
		b.WriteString("\n\nnotes:\n" + RenderMarkdown(data.Notes))
	}
	return b.String()
}

// RenderChartPanel draws one row per weekday with the negative bar growing
// left of the axis and the positive bar right of it. Bars share one scale.
func RenderChartPanel(data ChartPanelData) string {
	width := data.BarWidth
	if width <= 0 {
		width = 20
	}
	peak := 0.0
	for _, d := range data.Days {
		peak = math.Max(peak, math.Max(d.Positive, -d.Negative))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("week of %s | weighting: %s\n", data.WeekOf, data.Weighting))
	b.WriteString("actions: [h/l]week [w]toggle weighting\n\n")
	for _, d := range data.Days {
		neg := barLength(-d.Negative, peak, width)
		pos := barLength(d.Positive, peak, width)
		left := strings.Repeat(" ", width-neg) + negativeStyle.Render(strings.Repeat("█", neg))
		right := positiveStyle.Render(strings.Repeat("█", pos)) + strings.Repeat(" ", width-pos)
		line := fmt.Sprintf("%s %s|%s %s / %s", d.Day, left, right, formatValue(d.Positive), formatValue(d.Negative))
		if len(d.FlowTitles) > 0 {
			line += " " + flowStyle.Render("★ "+strings.Join(d.FlowTitles, ", "))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderAnalyticsPanel(data AnalyticsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("analytics: week of %s\n", data.WeekOf))
	if data.Empty {
		b.WriteString("\nNo data for this week. Log some activities to see your analytics.")
		return b.String()
	}

	renderRanked(&b, "Top energizing", data.Energizing)
	renderRanked(&b, "Top draining", data.Draining)

	b.WriteString("\nTime per tag:\n")
	if len(data.TimePerTag) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, tt := range data.TimePerTag {
		b.WriteString(fmt.Sprintf("  %-16s %.1fh\n", tt.Tag, tt.Hours))
	}

	renderRanked(&b, "Career & focus", data.CareerFocus)

	b.WriteString("\nWeekly summary:\n")
	switch {
	case data.SummaryLoading:
		b.WriteString(data.SpinnerView + " generating summary...")
	case strings.TrimSpace(data.Summary) == "":
		b.WriteString("  (press [g] to generate)")
	default:
		b.WriteString(RenderMarkdown(data.Summary))
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nview: %s\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

// EnergyBadge renders a signed energy value coloured by sign.
func EnergyBadge(energy int) string {
	switch {
	case energy > 0:
		return positiveStyle.Render(fmt.Sprintf("[+%d]", energy))
	case energy < 0:
		return negativeStyle.Render(fmt.Sprintf("[%d]", energy))
	default:
		return neutralStyle.Render("[0]")
	}
}

func renderRanked(b *strings.Builder, title string, items []RankedItemData) {
	b.WriteString(fmt.Sprintf("\n%s:\n", title))
	if len(items) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for i, item := range items {
		line := fmt.Sprintf("  %d. %s %s impact %d", i+1, EnergyBadge(item.Energy), item.Title, item.Impact)
		if item.Flow {
			line += " " + flowStyle.Render("★")
		}
		b.WriteString(line + "\n")
	}
}

func barLength(value, peak float64, width int) int {
	if peak <= 0 || value <= 0 {
		return 0
	}
	n := int(math.Round(value / peak * float64(width)))
	if n > width {
		return width
	}
	return n
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
