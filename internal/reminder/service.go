package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/energyd/internal/model"
)

type Store interface {
	Reminders(ctx context.Context) model.ReminderSettings
	Markers(ctx context.Context) model.ReminderMarkers
	SaveMarkers(ctx context.Context, m model.ReminderMarkers) error
	MostRecent() (model.Activity, bool)
}

type Service struct {
	store    Store
	notifier Notifier
	log      zerolog.Logger
}

func NewService(store Store, notifier Notifier, log zerolog.Logger) *Service {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Service{store: store, notifier: notifier, log: log}
}

// CheckOnce evaluates both reminders at now, notifies, and persists the
// markers. Markers are saved even when delivery fails so a broken notifier
// cannot fire every minute.
func (s *Service) CheckOnce(ctx context.Context, now time.Time) (Decision, error) {
	var recent *model.Activity
	if a, ok := s.store.MostRecent(); ok {
		recent = &a
	}
	decision, markers := Check(now, s.store.Reminders(ctx), s.store.Markers(ctx), recent)
	if !decision.Any() {
		return decision, nil
	}

	if decision.Daily {
		s.deliver(DailyBody)
	}
	if decision.Smart {
		s.deliver(SmartBody)
	}
	if err := s.store.SaveMarkers(ctx, markers); err != nil {
		return decision, fmt.Errorf("save reminder markers: %w", err)
	}
	return decision, nil
}

func (s *Service) deliver(body string) {
	if err := s.notifier.Notify(Title, body); err != nil {
		s.log.Error().Err(err).Str("body", body).Msg("deliver reminder")
	}
}
