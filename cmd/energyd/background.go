package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/energyd/internal/reminder"
	"github.com/sandeepkv93/energyd/internal/scheduler"
	"github.com/sandeepkv93/energyd/internal/sheets"
	"github.com/sandeepkv93/energyd/internal/storage"
	"github.com/sandeepkv93/energyd/internal/summary"
	"github.com/sandeepkv93/energyd/internal/syncer"
)

const (
	jobSync      = "sync"
	jobReminders = "reminders"
)

// services are the outbound adapters and background workers of one process.
type services struct {
	worker     *syncer.Worker
	reminders  *reminder.Service
	summarizer summary.Summarizer
}

func newServices(a *app) *services {
	pusher := sheets.NewClient(a.log.With().Str("component", "sheets").Logger(), a.cfg.HTTPTimeout,
		sheets.WithDevice(a.cfg.DeviceID, sheets.DefaultSource))

	var notifier reminder.Notifier = reminder.LogNotifier{Log: a.log}
	if a.cfg.DesktopNotifications {
		notifier = reminder.NewDesktopNotifier("energyd")
	}

	j := a.journal
	return &services{
		worker: syncer.NewWorker(j, pusher, a.cfg.SyncInterval, a.log.With().Str("component", "sync").Logger()),
		reminders: reminder.NewService(j, notifier, a.log.With().Str("component", "reminders").Logger()),
		summarizer: summary.NewClient(a.log.With().Str("component", "summary").Logger(),
			a.cfg.SummaryBaseURL, a.cfg.SummaryModel, a.cfg.HTTPTimeout,
			func(ctx context.Context) string { return j.Settings(ctx).SummaryAPIKey }),
	}
}

// daemonHeartbeatKey holds the time of the daemon's latest sync pass. A
// terminal UI sharing the database leaves its scheduled jobs to a daemon
// whose heartbeat is fresh, so records are not pushed twice.
const daemonHeartbeatKey = "daemon.heartbeat"

type engineRole int

const (
	roleTUI engineRole = iota
	roleDaemon
)

// daemonActive reports whether raw is a heartbeat younger than two sync
// intervals.
func daemonActive(raw string, now time.Time, interval time.Duration) bool {
	if raw == "" {
		return false
	}
	beat, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return false
	}
	return now.Sub(beat) < 2*interval
}

// startEngine schedules the sync and reminder jobs. The daemon re-reads the
// journal before each sync pass so writes from other processes are seen,
// and publishes a heartbeat the terminal UI checks before running its own.
func startEngine(a *app, s *services, role engineRole) (*scheduler.Engine, error) {
	deferToDaemon := func(ctx context.Context, at time.Time) bool {
		if role != roleTUI {
			return false
		}
		raw, err := a.repo.GetValue(ctx, daemonHeartbeatKey)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			a.log.Warn().Err(err).Msg("read daemon heartbeat")
			return false
		}
		return daemonActive(raw, at, a.cfg.SyncInterval)
	}

	engine := scheduler.NewEngine(a.cfg.SchedulerBuffer)
	err := engine.Every(scheduler.Job{
		Name:      jobSync,
		Interval:  a.cfg.SyncInterval,
		Immediate: true,
		Run: func(ctx context.Context, at time.Time) {
			if role == roleDaemon {
				if err := a.repo.PutValue(ctx, daemonHeartbeatKey, at.UTC().Format(time.RFC3339Nano)); err != nil {
					a.log.Warn().Err(err).Msg("write daemon heartbeat")
				}
				if err := a.journal.Reload(ctx); err != nil {
					a.log.Error().Err(err).Msg("reload journal")
					return
				}
			}
			if deferToDaemon(ctx, at) {
				a.log.Debug().Msg("daemon running, scheduled sync skipped")
				return
			}
			s.worker.ProcessOnce(ctx)
		},
	})
	if err != nil {
		return nil, err
	}
	err = engine.Every(scheduler.Job{
		Name:      jobReminders,
		Interval:  a.cfg.ReminderInterval,
		Immediate: true,
		Run: func(ctx context.Context, at time.Time) {
			if deferToDaemon(ctx, at) {
				return
			}
			if _, err := s.reminders.CheckOnce(ctx, at); err != nil {
				a.log.Error().Err(err).Msg("reminder check")
			}
		},
	})
	if err != nil {
		return nil, err
	}
	engine.Start()
	return engine, nil
}

func newSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push unsynced activities to the configured sheet once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if !a.journal.Settings(cmd.Context()).SyncConfigured() {
					return fmt.Errorf("sync is not configured: set sheet-url and sheet-api-key first")
				}
				res := newServices(a).worker.ProcessOnce(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "attempted %d, synced %d, failed %d, stale %d\n",
					res.Attempted, res.Synced, res.Failed, res.Stale)
				return nil
			})
		},
	}
}

func newDaemonCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run sync and reminders in the background until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				engine, err := startEngine(a, newServices(a), roleDaemon)
				if err != nil {
					return err
				}
				defer engine.Stop()
				a.log.Info().
					Dur("sync_interval", a.cfg.SyncInterval).
					Dur("reminder_interval", a.cfg.ReminderInterval).
					Msg("daemon started")

				for {
					select {
					case <-ctx.Done():
						a.log.Info().
							Uint64("skipped", engine.Skipped()).
							Uint64("dropped", engine.Dropped()).
							Msg("daemon stopping")
						return nil
					case tick := <-engine.C():
						logTick(a.log, tick)
					}
				}
			})
		},
	}
}

func logTick(log zerolog.Logger, tick scheduler.Tick) {
	ev := log.Debug()
	if tick.Skipped {
		ev = log.Warn()
	}
	ev.Str("job", tick.Name).Time("at", tick.At).Bool("skipped", tick.Skipped).Msg("job tick")
}
