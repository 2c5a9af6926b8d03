// Package summary asks a text-generation service for a short weekly coaching
// note. Every failure collapses to a fixed fallback string.
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"

	NotConfiguredMessage = "Summary API key not configured. Please add it in the settings to enable AI summaries."
	FailedMessage        = "Could not generate AI summary. There might be an issue with the API key or service."
)

var errEmptyResponse = errors.New("summary: empty response")

// Summarizer turns the week's top titles into prose. It never fails.
type Summarizer interface {
	Summarize(ctx context.Context, energizing, draining []string) string
}

type Client struct {
	http   *resty.Client
	log    zerolog.Logger
	model  string
	apiKey func(context.Context) string
}

// NewClient returns a generateContent client. apiKey is consulted on every
// call so settings edits apply without a restart.
func NewClient(log zerolog.Logger, baseURL, model string, timeout time.Duration, apiKey func(context.Context) string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	hc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{http: hc, log: log, model: model, apiKey: apiKey}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) Summarize(ctx context.Context, energizing, draining []string) string {
	key := ""
	if c.apiKey != nil {
		key = strings.TrimSpace(c.apiKey(ctx))
	}
	if key == "" {
		return NotConfiguredMessage
	}
	text, err := c.generate(ctx, key, Prompt(energizing, draining))
	if err != nil {
		c.log.Error().Err(err).Str("model", c.model).Msg("generate summary")
		return FailedMessage
	}
	return text
}

func (c *Client) generate(ctx context.Context, key, prompt string) (string, error) {
	reqBody := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", key).
		SetBody(&reqBody).
		Post("/v1beta/models/" + url.PathEscape(c.model) + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("summary request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("summary status %d: %s", resp.StatusCode(), resp.String())
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return "", errEmptyResponse
	}
	var b strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

// Prompt renders the coaching prompt. Empty lists read as "None".
func Prompt(energizing, draining []string) string {
	return fmt.Sprintf(`You are a friendly and insightful productivity coach called 'EnergyMap AI'.
Based on the following user activity data for the week, provide a concise, encouraging, and actionable summary in one or two sentences.
Focus on one small, positive change the user can make for the next week.

Top 5 most energizing activities: %s
Top 5 most draining activities: %s

Your summary:`, joinTitles(energizing), joinTitles(draining))
}

func joinTitles(titles []string) string {
	if len(titles) == 0 {
		return "None"
	}
	return strings.Join(titles, ", ")
}

// Static always returns the same text. Used when no service is wired.
type Static string

func (s Static) Summarize(context.Context, []string, []string) string {
	return string(s)
}
