package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/energyd/internal/analytics"
	"github.com/sandeepkv93/energyd/internal/scheduler"
	"github.com/sandeepkv93/energyd/internal/summary"
	"github.com/sandeepkv93/energyd/internal/syncer"
	"github.com/sandeepkv93/energyd/internal/views"
)

type timerTickMsg struct{}

func (m Model) Init() tea.Cmd {
	if m.deps.Ticks != nil {
		return waitForTickCmd(m.deps.Ticks)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == "ctrl+c" {
				m.Quitting = true
				return m, tea.Quit
			}
			return m.handlePaletteKey(typed)
		}

		keyStr := typed.String()
		if m.PendingDelete != "" {
			if keyStr == "y" {
				m.confirmDelete()
				return m, nil
			}
			m.PendingDelete = ""
			m.Status = StatusBar{Text: "delete cancelled"}
			return m, nil
		}

		switch keyStr {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Timeline:
			return m.switchView(ViewTimeline)
		case m.Keys.Weekly:
			return m.switchView(ViewWeekly)
		case m.Keys.Analytics:
			return m.switchView(ViewAnalytics)
		case m.Keys.Sync:
			if m.deps.Sync == nil {
				m.Status = StatusBar{Text: "sync is not available", IsError: true}
				return m, nil
			}
			return m, m.startSync()
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.CurrentView {
		case ViewTimeline:
			return m.handleTimelineKey(keyStr), nil
		case ViewWeekly:
			return m.handleWeeklyKey(keyStr), nil
		case ViewAnalytics:
			return m.handleAnalyticsKey(keyStr)
		}
	case spinner.TickMsg:
		if m.SummaryLoading || m.Syncing {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case timerTickMsg:
		if m.Timer != nil {
			return m, timerTickCmd()
		}
		return m, nil
	case TickMsg:
		m.refresh()
		if m.deps.Ticks != nil {
			return m, waitForTickCmd(m.deps.Ticks)
		}
		return m, nil
	case SummaryMsg:
		if !typed.WeekOf.Equal(m.SummaryWeek) {
			return m, nil
		}
		m.Summary = typed.Text
		m.SummaryLoading = false
		return m, nil
	case SyncDoneMsg:
		m.Syncing = false
		m.refresh()
		r := typed.Result
		text := fmt.Sprintf("sync: %d synced, %d failed, %d stale", r.Synced, r.Failed, r.Stale)
		m.Status = StatusBar{Text: text, IsError: r.Failed > 0}
		m.notify("Sync", text, levelFromError(r.Failed > 0))
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			return m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleTimelineKey(keyStr string) Model {
	switch keyStr {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "h", "left":
		m.shiftDay(-1)
	case "l", "right":
		m.shiftDay(1)
	case "t":
		m.Day = analytics.StartOfDay(m.now())
		m.Cursor = 0
		m.SelectedID = ""
		m.refresh()
	case "f":
		m.toggleSelectedFlow()
	case "x":
		m.requestDelete()
	}
	return m
}

func (m Model) handleWeeklyKey(keyStr string) Model {
	switch keyStr {
	case "h", "left":
		m.shiftDay(-7)
	case "l", "right":
		m.shiftDay(7)
	case "w":
		if err := m.setWeighting(m.Weighting.Toggle()); err != nil {
			m.fail(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("chart weighting: %s", m.Weighting)}
	}
	return m
}

func (m Model) handleAnalyticsKey(keyStr string) (Model, tea.Cmd) {
	switch keyStr {
	case "h", "left":
		m.shiftDay(-7)
		return m, m.requestSummary(false)
	case "l", "right":
		m.shiftDay(7)
		return m, m.requestSummary(false)
	case "g":
		return m, m.requestSummary(true)
	}
	return m, nil
}

func (m Model) switchView(v View) (Model, tea.Cmd) {
	m.CurrentView = v
	m.PendingDelete = ""
	if v == ViewAnalytics {
		return m, m.requestSummary(false)
	}
	return m, nil
}

// requestSummary starts a summary fetch for the viewed week unless one is
// already held for it. Empty weeks never call out.
func (m *Model) requestSummary(force bool) tea.Cmd {
	week := analytics.StartOfWeek(m.Day)
	if !force && m.SummaryWeek.Equal(week) && (m.Summary != "" || m.SummaryLoading) {
		return nil
	}
	acts := m.weekItems()
	if len(acts) == 0 {
		m.SummaryWeek = week
		m.Summary = ""
		m.SummaryLoading = false
		return nil
	}
	m.SummaryWeek = week
	m.Summary = ""
	m.SummaryLoading = true
	energizing := analytics.Titles(analytics.Energizing(acts, analytics.TopN))
	draining := analytics.Titles(analytics.Draining(acts, analytics.TopN))
	return tea.Batch(m.busySpinner.Tick, summaryCmd(m.ctx, m.deps.Summarizer, week, energizing, draining))
}

func (m *Model) startSync() tea.Cmd {
	if m.Syncing {
		return nil
	}
	m.Syncing = true
	m.Status = StatusBar{Text: "sync started"}
	return tea.Batch(m.busySpinner.Tick, syncCmd(m.ctx, m.deps.Sync))
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewTimeline:
		leftPane = m.renderTimelineView()
		rightPane = m.renderDetailPane()
	case ViewWeekly:
		leftPane = m.renderWeeklyView()
	case ViewAnalytics:
		leftPane = m.renderAnalyticsView()
	}
	if extra := strings.TrimSpace(m.renderCommandPalette() + "\n" + m.renderHelpIfVisible()); extra != "" {
		rightPane = strings.TrimSpace(rightPane + "\n\n" + extra)
	}

	notificationView := strings.TrimSpace(m.renderNotificationsView())
	if m.Syncing {
		notificationView = strings.TrimSpace("sync: " + m.busySpinner.View() + " running\n" + notificationView)
	}

	names := make([]string, 0, len(viewOrder))
	active := 0
	for i, v := range viewOrder {
		names = append(names, string(v))
		if v == m.CurrentView {
			active = i
		}
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("energyd | %s | weighting: %s", m.Day.Format("Mon Jan 2 2006"), m.Weighting),
		Tabs:         views.RenderTabs(names, active),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notificationView,
		Footer:       fmt.Sprintf("keys: %s timeline | %s weekly | %s analytics | / cmd | %s sync | %s help | %s quit", m.Keys.Timeline, m.Keys.Weekly, m.Keys.Analytics, m.Keys.Sync, m.Keys.Help, m.Keys.Quit),
		Width:        m.Width,
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewTimeline, ViewWeekly, ViewAnalytics:
		return true
	default:
		return false
	}
}

func waitForTickCmd(ch <-chan scheduler.Tick) tea.Cmd {
	return func() tea.Msg {
		tick, ok := <-ch
		if !ok {
			return nil
		}
		return TickMsg{Tick: tick}
	}
}

func summaryCmd(ctx context.Context, s summary.Summarizer, week time.Time, energizing, draining []string) tea.Cmd {
	return func() tea.Msg {
		return SummaryMsg{WeekOf: week, Text: s.Summarize(ctx, energizing, draining)}
	}
}

func syncCmd(ctx context.Context, run func(context.Context) syncer.Result) tea.Cmd {
	return func() tea.Msg {
		return SyncDoneMsg{Result: run(ctx)}
	}
}

func timerTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })
}
