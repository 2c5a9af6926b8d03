package update

import (
	"strings"
	"time"

	"github.com/sandeepkv93/energyd/internal/analytics"
	"github.com/sandeepkv93/energyd/internal/model"
	"github.com/sandeepkv93/energyd/internal/views"
)

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderTimelineView() string {
	items := m.dayItems()
	data := views.TimelinePanelData{
		Date:       m.Day.Format("Mon " + model.DateLayout),
		Items:      make([]views.TimelineItemData, 0, len(items)),
		SelectedID: m.SelectedID,
	}
	for _, a := range items {
		data.Items = append(data.Items, views.TimelineItemData{
			ID:      a.ID,
			Title:   a.Title,
			Start:   clock(a.StartTime, m.loc),
			End:     clock(a.EndTime, m.loc),
			Minutes: a.DurationMinutes,
			Energy:  a.Energy,
			Tags:    a.TagList(),
			Flow:    a.StarFlow,
			Synced:  a.Synced,
		})
	}
	if m.Timer != nil {
		data.TimerTitle = m.Timer.Preset.Title
		data.TimerElapsed = formatElapsed(m.now().Sub(m.Timer.StartedAt))
	}
	return views.RenderTimelinePanel(data)
}

func (m Model) renderDetailPane() string {
	a, ok := m.selected()
	if !ok {
		return views.RenderActivityDetail(nil)
	}
	return views.RenderActivityDetail(&views.ActivityDetailData{
		ID:      a.ID,
		Title:   a.Title,
		When:    clock(a.StartTime, m.loc) + "-" + clock(a.EndTime, m.loc),
		Minutes: a.DurationMinutes,
		Energy:  a.Energy,
		Tags:    a.TagList(),
		Flow:    a.StarFlow,
		Synced:  a.Synced,
		Notes:   a.Notes,
		Created: a.CreatedAt.In(m.loc).Format(time.DateTime),
		Updated: a.UpdatedAt.In(m.loc).Format(time.DateTime),
	})
}

func (m Model) renderWeeklyView() string {
	buckets := analytics.BuildChart(m.weekItems(), m.Weighting, m.loc)
	data := views.ChartPanelData{
		WeekOf:    analytics.StartOfWeek(m.Day).Format(model.DateLayout),
		Weighting: string(m.Weighting),
		Days:      make([]views.ChartDayData, 0, len(buckets)),
		BarWidth:  m.barWidth(),
	}
	for _, b := range buckets {
		titles := make([]string, 0, len(b.FlowActivities))
		for _, a := range b.FlowActivities {
			titles = append(titles, a.Title)
		}
		data.Days = append(data.Days, views.ChartDayData{
			Day:        b.Day,
			Positive:   b.Positive,
			Negative:   b.Negative,
			FlowTitles: titles,
		})
	}
	return views.RenderChartPanel(data)
}

func (m Model) renderAnalyticsView() string {
	report := analytics.Summarize(m.weekItems())
	data := views.AnalyticsPanelData{
		WeekOf:         analytics.StartOfWeek(m.Day).Format(model.DateLayout),
		Empty:          report.Empty(),
		Energizing:     ranked(report.Energizing),
		Draining:       ranked(report.Draining),
		CareerFocus:    ranked(report.CareerFocus),
		SummaryLoading: m.SummaryLoading,
		SpinnerView:    m.busySpinner.View(),
	}
	for _, tt := range report.TimePerTag {
		data.TimePerTag = append(data.TimePerTag, views.TagTotalData{Tag: tt.Tag, Hours: tt.Hours()})
	}
	if m.SummaryWeek.Equal(analytics.StartOfWeek(m.Day)) {
		data.Summary = m.Summary
	}
	return views.RenderAnalyticsPanel(data)
}

func ranked(items []model.Activity) []views.RankedItemData {
	out := make([]views.RankedItemData, 0, len(items))
	for _, a := range items {
		out = append(out, views.RankedItemData{
			Title:  a.Title,
			Energy: a.Energy,
			Impact: analytics.Impact(a),
			Flow:   a.StarFlow,
		})
	}
	return out
}

func (m Model) barWidth() int {
	if m.Width <= 0 {
		return 20
	}
	w := (m.Width - 40) / 2
	if w < 5 {
		return 5
	}
	if w > 40 {
		return 40
	}
	return w
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	})
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
}
