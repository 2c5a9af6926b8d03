package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/energyd/internal/analytics"
	"github.com/sandeepkv93/energyd/internal/commands"
	"github.com/sandeepkv93/energyd/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			return m.addActivity(a)
		},
		Start: func(s commands.StartArgs) (commands.Result, error) {
			res, err := m.startTimer(s.Preset)
			if err == nil {
				follow = timerTickCmd()
			}
			return res, err
		},
		Stop: func(s commands.StopArgs) (commands.Result, error) {
			return m.stopTimer(s.Energy)
		},
		Goto: func(g commands.GotoArgs) (commands.Result, error) {
			switch {
			case g.Today:
				m.Day = analytics.StartOfDay(m.now())
			case !g.Date.IsZero():
				m.Day = time.Date(g.Date.Year(), g.Date.Month(), g.Date.Day(), 0, 0, 0, 0, m.loc)
			default:
				m.Day = analytics.StartOfDay(m.Day.AddDate(0, 0, g.Offset))
			}
			m.Cursor = 0
			m.SelectedID = ""
			m.refresh()
			return commands.Result{Message: "viewing " + m.Day.Format(model.DateLayout)}, nil
		},
		Weighting: func(w commands.WeightingArgs) (commands.Result, error) {
			next := m.Weighting.Toggle()
			if w.Mode != "" {
				parsed, err := analytics.ParseWeighting(w.Mode)
				if err != nil {
					return commands.Result{}, err
				}
				next = parsed
			}
			if err := m.setWeighting(next); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("chart weighting: %s", next)}, nil
		},
		Sync: func() (commands.Result, error) {
			if m.deps.Sync == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "sync is not available"}
			}
			follow = m.startSync()
			return commands.Result{Message: "sync started"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	m.notify("Command", res.Message, "info")
	return m, follow
}

func (m *Model) addActivity(a commands.AddArgs) (commands.Result, error) {
	start, end, err := commands.ResolveRange(m.Day, m.now(), a.From, a.To)
	if err != nil {
		return commands.Result{}, err
	}
	saved, err := m.deps.Journal.Save(m.ctx, model.NewBlank{}, model.Fields{
		Title:     a.Title,
		StartTime: start,
		EndTime:   end,
		Energy:    a.Energy,
		Tags:      a.Tags,
		StarFlow:  a.Flow,
		Notes:     a.Notes,
	})
	if err != nil {
		return commands.Result{}, err
	}
	m.SelectedID = saved.ID
	m.refresh()
	return commands.Result{Message: fmt.Sprintf("logged %s (%s-%s)", saved.Title, clock(saved.StartTime, m.loc), clock(saved.EndTime, m.loc))}, nil
}

func (m *Model) startTimer(ref string) (commands.Result, error) {
	if m.Timer != nil {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("timer already running: %s", m.Timer.Preset.Title)}
	}
	presets, err := m.deps.Journal.Presets(m.ctx)
	if err != nil {
		return commands.Result{}, err
	}
	preset, ok := model.FindPreset(presets, ref)
	if !ok {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown preset: %s", ref)}
	}
	m.Timer = &model.NewFromTimerStart{Preset: preset, StartedAt: m.now()}
	return commands.Result{Message: fmt.Sprintf("timer started: %s", preset.Title)}, nil
}

func (m *Model) stopTimer(energy *int) (commands.Result, error) {
	if m.Timer == nil {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no timer running"}
	}
	draft := *m.Timer
	fields := model.Seed(draft)
	fields.EndTime = m.now()
	if energy != nil {
		fields.Energy = *energy
	}
	saved, err := m.deps.Journal.Save(m.ctx, draft, fields)
	if err != nil {
		return commands.Result{}, err
	}
	m.Timer = nil
	m.Day = analytics.StartOfDay(saved.StartTime.In(m.loc))
	m.SelectedID = saved.ID
	m.refresh()
	return commands.Result{Message: fmt.Sprintf("logged %s (%dm)", saved.Title, saved.DurationMinutes)}, nil
}

func (m *Model) setWeighting(w analytics.Weighting) error {
	if err := m.deps.Journal.SaveWeighting(m.ctx, w); err != nil {
		return err
	}
	m.Weighting = w
	return nil
}
