package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/energyd/internal/model"
)

func sampleActivity() model.Activity {
	start := time.Date(2026, 2, 9, 14, 5, 0, 0, time.UTC)
	return model.Activity{
		ID:              "act-1",
		Title:           "Deep Work",
		StartTime:       start,
		EndTime:         start.Add(90 * time.Minute),
		DurationMinutes: 90,
		Energy:          4,
		Tags:            "work, focus",
		StarFlow:        true,
		CreatedAt:       start,
		UpdatedAt:       start,
	}
}

func newTestClient() *Client {
	return NewClient(zerolog.Nop(), 5*time.Second, WithLocation(time.UTC))
}

func TestPushSendsNestedPayload(t *testing.T) {
	var got map[string]any
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ok := newTestClient().Push(context.Background(), sampleActivity(), srv.URL, "secret")
	require.True(t, ok)
	assert.Contains(t, contentType, "text/plain")
	assert.Equal(t, "secret", got["apiKey"])

	activity, isMap := got["activity"].(map[string]any)
	require.True(t, isMap, "activity should be an object")
	assert.Equal(t, "act-1", activity["id"])
	assert.Equal(t, "Deep Work", activity["title"])
	assert.Equal(t, "work, focus", activity["tags"])
	assert.Equal(t, float64(90), activity["durationMinutes"])
	assert.Equal(t, float64(90), activity["duration_minutes"])
	assert.Equal(t, true, activity["star_flow"])
	assert.Equal(t, "2/9/2026", activity["date"])
	assert.Equal(t, "2:05:00 PM", activity["start_time"])
	assert.Equal(t, "3:35:00 PM", activity["end_time"])
	assert.Equal(t, DefaultDeviceID, activity["device_id"])
	assert.Equal(t, DefaultSource, activity["source"])
}

func TestPushTreatsRedirectAsSuccessWithoutFollowing(t *testing.T) {
	var followed atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/exec", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/echo", http.StatusFound)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		followed.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ok := newTestClient().Push(context.Background(), sampleActivity(), srv.URL+"/exec", "secret")
	assert.True(t, ok)
	assert.Equal(t, int32(0), followed.Load())
}

func TestPushFailsOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	assert.False(t, newTestClient().Push(context.Background(), sampleActivity(), srv.URL, "wrong"))
}

func TestPushFailsOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	assert.False(t, newTestClient().Push(context.Background(), sampleActivity(), url, "secret"))
}

func TestPushWithoutConfigurationSendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := newTestClient()
	assert.False(t, c.Push(context.Background(), sampleActivity(), "", "secret"))
	assert.False(t, c.Push(context.Background(), sampleActivity(), srv.URL, " "))
	assert.Equal(t, int32(0), hits.Load())
}
