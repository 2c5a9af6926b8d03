package reminder

import (
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

type Notifier interface {
	Notify(title, body string) error
}

// DesktopNotifier shows OS notifications.
type DesktopNotifier struct{}

func NewDesktopNotifier(appName string) DesktopNotifier {
	if appName != "" {
		beeep.AppName = appName
	}
	return DesktopNotifier{}
}

func (DesktopNotifier) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// LogNotifier writes reminders to the log instead of the desktop. Used on
// headless machines.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Notify(title, body string) error {
	n.Log.Info().Str("title", title).Msg(body)
	return nil
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string) error { return nil }
