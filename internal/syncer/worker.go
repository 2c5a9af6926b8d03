// Package syncer retries unsynced activities against the spreadsheet
// endpoint until each one is accepted.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/energyd/internal/model"
	"github.com/sandeepkv93/energyd/internal/sheets"
)

// Store is the slice of the journal the worker needs.
type Store interface {
	Settings(ctx context.Context) model.Settings
	Unsynced() []model.Activity
	MarkSynced(ctx context.Context, id string, pushedUpdatedAt time.Time) (bool, error)
}

// Result summarises one pass.
type Result struct {
	Attempted int
	Synced    int
	Failed    int
	Stale     int
}

type Worker struct {
	// pass serialises ProcessOnce between the ticker and on-demand syncs.
	pass     sync.Mutex
	store    Store
	pusher   sheets.Pusher
	log      zerolog.Logger
	interval time.Duration
}

func NewWorker(store Store, pusher sheets.Pusher, interval time.Duration, log zerolog.Logger) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Worker{store: store, pusher: pusher, log: log, interval: interval}
}

// Run polls until ctx is canceled. No backoff; every tick retries everything
// still unsynced.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("sync worker starting")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("sync worker stopping")
			return ctx.Err()
		case <-ticker.C:
			w.ProcessOnce(ctx)
		}
	}
}

// ProcessOnce pushes every unsynced record in turn. A failed record stays
// unsynced and does not stop the others.
func (w *Worker) ProcessOnce(ctx context.Context) Result {
	w.pass.Lock()
	defer w.pass.Unlock()

	var res Result
	settings := w.store.Settings(ctx)
	if !settings.SyncConfigured() {
		return res
	}
	pending := w.store.Unsynced()
	pendingRecords.Set(float64(len(pending)))
	if len(pending) == 0 {
		return res
	}
	w.log.Debug().Int("count", len(pending)).Msg("syncing activities")

	for _, a := range pending {
		if ctx.Err() != nil {
			break
		}
		res.Attempted++
		if !w.pusher.Push(ctx, a, settings.SheetURL, settings.SheetAPIKey) {
			res.Failed++
			pushesTotal.WithLabelValues(resultFailed).Inc()
			continue
		}
		marked, err := w.store.MarkSynced(ctx, a.ID, a.UpdatedAt)
		switch {
		case err != nil:
			res.Failed++
			pushesTotal.WithLabelValues(resultFailed).Inc()
			w.log.Error().Err(err).Str("id", a.ID).Msg("mark synced")
		case !marked:
			res.Stale++
			pushesTotal.WithLabelValues(resultStale).Inc()
		default:
			res.Synced++
			pushesTotal.WithLabelValues(resultOK).Inc()
		}
	}
	if res.Failed > 0 || res.Stale > 0 {
		w.log.Info().
			Int("synced", res.Synced).
			Int("failed", res.Failed).
			Int("stale", res.Stale).
			Msg("sync pass finished with leftovers")
	}
	return res
}
