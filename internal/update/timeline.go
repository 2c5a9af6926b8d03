package update

import (
	"fmt"
	"sort"

	"github.com/sandeepkv93/energyd/internal/analytics"
	"github.com/sandeepkv93/energyd/internal/model"
)

// refresh reloads the snapshot and keeps the cursor on a visible row.
func (m *Model) refresh() {
	if m.deps.Journal == nil {
		m.Activities = nil
	} else {
		m.Activities = m.deps.Journal.Snapshot()
	}
	items := m.dayItems()
	if m.SelectedID != "" {
		for i, a := range items {
			if a.ID == m.SelectedID {
				m.Cursor = i
			}
		}
	}
	if m.Cursor >= len(items) {
		m.Cursor = len(items) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedID = ""
	if len(items) > 0 {
		m.SelectedID = items[m.Cursor].ID
	}
}

// dayItems lists the viewed day's activities in chronological order.
func (m Model) dayItems() []model.Activity {
	items := analytics.FilterDay(m.Day, m.Activities)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartTime.Before(items[j].StartTime)
	})
	return items
}

func (m Model) weekItems() []model.Activity {
	return analytics.FilterWeek(m.Day, m.Activities)
}

func (m Model) selected() (model.Activity, bool) {
	items := m.dayItems()
	if m.Cursor < 0 || m.Cursor >= len(items) {
		return model.Activity{}, false
	}
	return items[m.Cursor], true
}

func (m *Model) moveCursor(delta int) {
	items := m.dayItems()
	if len(items) == 0 {
		return
	}
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor >= len(items) {
		m.Cursor = len(items) - 1
	}
	m.SelectedID = items[m.Cursor].ID
}

func (m *Model) shiftDay(days int) {
	m.Day = analytics.StartOfDay(m.Day.AddDate(0, 0, days))
	m.Cursor = 0
	m.SelectedID = ""
	m.PendingDelete = ""
	m.refresh()
}

func (m *Model) toggleSelectedFlow() {
	a, ok := m.selected()
	if !ok {
		m.Status = StatusBar{Text: "no activity selected", IsError: true}
		return
	}
	updated, err := m.deps.Journal.ToggleFlow(m.ctx, a.ID)
	if err != nil {
		m.fail(err)
		return
	}
	m.refresh()
	state := "cleared"
	if updated.StarFlow {
		state = "set"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("flow %s: %s", state, updated.Title)}
}

// requestDelete arms deletion of the selected activity; confirmDelete
// carries it out.
func (m *Model) requestDelete() {
	a, ok := m.selected()
	if !ok {
		m.Status = StatusBar{Text: "no activity selected", IsError: true}
		return
	}
	m.PendingDelete = a.ID
	m.Status = StatusBar{Text: fmt.Sprintf("delete %q? press y to confirm", a.Title)}
}

func (m *Model) confirmDelete() {
	id := m.PendingDelete
	m.PendingDelete = ""
	if err := m.deps.Journal.Delete(m.ctx, id); err != nil {
		m.fail(err)
		return
	}
	m.refresh()
	m.Status = StatusBar{Text: "activity deleted"}
	m.notify("Journal", "activity deleted", "info")
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.notify("Error", err.Error(), "error")
}
