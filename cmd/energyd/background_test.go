package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/energyd/internal/config"
	"github.com/sandeepkv93/energyd/internal/scheduler"
)

func TestDaemonActive(t *testing.T) {
	now := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	interval := 30 * time.Second

	assert.False(t, daemonActive("", now, interval))
	assert.False(t, daemonActive("not a time", now, interval))
	assert.True(t, daemonActive(now.Add(-45*time.Second).Format(time.RFC3339Nano), now, interval))
	assert.False(t, daemonActive(now.Add(-2*time.Minute).Format(time.RFC3339Nano), now, interval))
}

// syncFixture opens a database with sync configured against a counting
// server and one unsynced activity.
func syncFixture(t *testing.T) (*app, *atomic.Int32) {
	t.Helper()
	db := testDB(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	mustRun(t, db, "settings", "set", "sheet-url", srv.URL)
	mustRun(t, db, "settings", "set", "sheet-api-key", "k")
	mustRun(t, db, "add", "Walk", "--energy", "2", "--date", "2026-02-10", "--from", "12:00")

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.DBPath = db
	a, err := openApp(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, &hits
}

func waitForSyncTick(t *testing.T, engine *scheduler.Engine) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case tick := <-engine.C():
			if tick.Name == jobSync {
				return
			}
		case <-timeout:
			t.Fatalf("no sync tick")
		}
	}
}

func TestTUIEngineLeavesSyncToRunningDaemon(t *testing.T) {
	a, hits := syncFixture(t)
	ctx := context.Background()
	require.NoError(t, a.repo.PutValue(ctx, daemonHeartbeatKey, time.Now().UTC().Format(time.RFC3339Nano)))

	engine, err := startEngine(a, newServices(a), roleTUI)
	require.NoError(t, err)
	waitForSyncTick(t, engine)
	engine.Stop()

	assert.Equal(t, int32(0), hits.Load())
	assert.Len(t, a.journal.Unsynced(), 1)
}

func TestTUIEngineSyncsWithoutDaemon(t *testing.T) {
	a, hits := syncFixture(t)

	engine, err := startEngine(a, newServices(a), roleTUI)
	require.NoError(t, err)
	waitForSyncTick(t, engine)
	engine.Stop()

	assert.Equal(t, int32(1), hits.Load())
	assert.Empty(t, a.journal.Unsynced())
}

func TestDaemonEngineWritesHeartbeat(t *testing.T) {
	a, hits := syncFixture(t)

	engine, err := startEngine(a, newServices(a), roleDaemon)
	require.NoError(t, err)
	waitForSyncTick(t, engine)
	engine.Stop()

	raw, err := a.repo.GetValue(context.Background(), daemonHeartbeatKey)
	require.NoError(t, err)
	assert.True(t, daemonActive(raw, time.Now(), a.cfg.SyncInterval))
	assert.Equal(t, int32(1), hits.Load())
}
