// Package sheets pushes activities to a spreadsheet web-app endpoint.
package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/energyd/internal/model"
)

const (
	DefaultDeviceID = "energyd-cli"
	DefaultSource   = "EnergyMap-CLI"
)

// Pusher sends one activity and reports whether the endpoint accepted it.
type Pusher interface {
	Push(ctx context.Context, a model.Activity, endpoint, apiKey string) bool
}

type Option func(*Client)

func WithDevice(deviceID, source string) Option {
	return func(c *Client) {
		if deviceID != "" {
			c.deviceID = deviceID
		}
		if source != "" {
			c.source = source
		}
	}
}

// WithLocation sets the zone used for the human-readable date and time
// columns.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.loc = loc
		}
	}
}

type Client struct {
	http     *resty.Client
	log      zerolog.Logger
	loc      *time.Location
	deviceID string
	source   string
}

// NewClient builds a pusher that never follows redirects. Spreadsheet web
// apps answer a successful POST with a 302 to a results page that must not
// be fetched.
func NewClient(log zerolog.Logger, timeout time.Duration, opts ...Option) *Client {
	hc := resty.New().
		SetHeader("Content-Type", "text/plain").
		SetTimeout(timeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	c := &Client{
		http:     hc,
		log:      log,
		loc:      time.Local,
		deviceID: DefaultDeviceID,
		source:   DefaultSource,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Push posts the activity. 2xx and 3xx both count as accepted; the response
// body is never inspected on success.
func (c *Client) Push(ctx context.Context, a model.Activity, endpoint, apiKey string) bool {
	if strings.TrimSpace(endpoint) == "" || strings.TrimSpace(apiKey) == "" {
		c.log.Warn().Msg("sheet endpoint or api key not configured")
		return false
	}

	body, err := c.payload(a, apiKey)
	if err != nil {
		c.log.Error().Err(err).Str("id", a.ID).Msg("encode sync payload")
		return false
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		c.log.Error().Err(err).Str("title", a.Title).Msg("network error while syncing activity")
		return false
	}
	status := resp.StatusCode()
	if status >= 200 && status < 400 {
		c.log.Debug().Str("title", a.Title).Int("status", status).Msg("activity synced")
		return true
	}
	c.log.Error().
		Str("title", a.Title).
		Int("status", status).
		Str("body", resp.String()).
		Msg("sync rejected")
	return false
}

// payload nests the raw record plus spreadsheet-friendly columns under
// "activity".
func (c *Client) payload(a model.Activity, apiKey string) ([]byte, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	record := map[string]any{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}

	start := a.StartTime.In(c.loc)
	end := a.EndTime.In(c.loc)
	record["date"] = start.Format("1/2/2006")
	record["start_time"] = start.Format("3:04:05 PM")
	record["end_time"] = end.Format("3:04:05 PM")
	record["duration_minutes"] = a.DurationMinutes
	record["star_flow"] = a.StarFlow
	record["created_at"] = a.CreatedAt.UTC().Format(time.RFC3339Nano)
	record["updated_at"] = a.UpdatedAt.UTC().Format(time.RFC3339Nano)
	record["device_id"] = c.deviceID
	record["source"] = c.source

	return json.Marshal(map[string]any{
		"apiKey":   apiKey,
		"activity": record,
	})
}
