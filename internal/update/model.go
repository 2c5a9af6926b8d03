package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/energyd/internal/analytics"
	"github.com/sandeepkv93/energyd/internal/model"
	"github.com/sandeepkv93/energyd/internal/scheduler"
	"github.com/sandeepkv93/energyd/internal/summary"
	"github.com/sandeepkv93/energyd/internal/syncer"
)

type View string

const (
	ViewTimeline  View = "Timeline"
	ViewWeekly    View = "Weekly"
	ViewAnalytics View = "Analytics"
)

var viewOrder = []View{ViewTimeline, ViewWeekly, ViewAnalytics}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Timeline  string
	Weekly    string
	Analytics string
	Sync      string
	Help      string
	Quit      string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// Journal is what the UI needs from the activity store.
type Journal interface {
	Snapshot() []model.Activity
	Save(ctx context.Context, draft model.Draft, fields model.Fields) (model.Activity, error)
	ToggleFlow(ctx context.Context, id string) (model.Activity, error)
	Delete(ctx context.Context, id string) error
	Presets(ctx context.Context) ([]model.Preset, error)
	Weighting(ctx context.Context) analytics.Weighting
	SaveWeighting(ctx context.Context, w analytics.Weighting) error
	Now() time.Time
}

type Deps struct {
	Journal    Journal
	Summarizer summary.Summarizer
	// Sync runs one sync pass on demand; nil disables the sync key.
	Sync     func(ctx context.Context) syncer.Result
	Ticks    <-chan scheduler.Tick
	Location *time.Location
}

type Model struct {
	CurrentView View
	Day         time.Time
	Activities  []model.Activity
	Cursor      int
	SelectedID  string
	Weighting   analytics.Weighting
	// Timer holds the draft of a preset started with "start <preset>".
	Timer         *model.NewFromTimerStart
	PendingDelete string

	Summary        string
	SummaryWeek    time.Time
	SummaryLoading bool
	Syncing        bool

	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error
	Width         int

	deps         Deps
	ctx          context.Context
	loc          *time.Location
	commandInput textinput.Model
	busySpinner  spinner.Model
	helpModel    help.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// TickMsg relays a background job tick so the view reflects its effects.
type TickMsg struct {
	Tick scheduler.Tick
}

type SummaryMsg struct {
	WeekOf time.Time
	Text   string
}

type SyncDoneMsg struct {
	Result syncer.Result
}

func NewModel(deps Deps) Model {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	if deps.Summarizer == nil {
		deps.Summarizer = summary.Static(summary.NotConfiguredMessage)
	}
	m := Model{
		CurrentView: ViewTimeline,
		Keys: GlobalKeyMap{
			Timeline:  "1",
			Weekly:    "2",
			Analytics: "3",
			Sync:      "s",
			Help:      "?",
			Quit:      "q",
		},
		deps: deps,
		ctx:  context.Background(),
		loc:  loc,
	}
	m.Day = analytics.StartOfDay(m.now())
	m.Weighting = analytics.WeightingDuration
	if deps.Journal != nil {
		m.Weighting = deps.Journal.Weighting(m.ctx)
	}
	m.initBubbleComponents()
	m.refresh()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add <title> energy=N tags=a,b from=HH:MM to=HH:MM"
	m.commandInput.CharLimit = 200

	m.busySpinner = spinner.New()
	m.busySpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.helpModel.ShowAll = true
}

func (m Model) now() time.Time {
	if m.deps.Journal != nil {
		return m.deps.Journal.Now().In(m.loc)
	}
	return time.Now().In(m.loc)
}
