// Package config loads process-level settings from ENERGYD_* environment
// variables. User-editable settings (sheet endpoint, keys, tags) live in the
// database instead.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

const EnvPrefix = "ENERGYD"

type Config struct {
	DBPath   string `envconfig:"DB_PATH" default:"energyd.db"`
	LogFile  string `envconfig:"LOG_FILE" default:"energyd.log"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	SyncInterval     time.Duration `envconfig:"SYNC_INTERVAL" default:"30s"`
	ReminderInterval time.Duration `envconfig:"REMINDER_INTERVAL" default:"1m"`
	SchedulerBuffer  int           `envconfig:"SCHEDULER_BUFFER" default:"64"`

	SummaryBaseURL string        `envconfig:"SUMMARY_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	SummaryModel   string        `envconfig:"SUMMARY_MODEL" default:"gemini-2.5-flash"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	DeviceID             string `envconfig:"DEVICE_ID" default:"energyd-cli"`
	DesktopNotifications bool   `envconfig:"DESKTOP_NOTIFICATIONS" default:"true"`
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: DB_PATH must not be empty")
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("config: SYNC_INTERVAL must be positive, got %s", c.SyncInterval)
	}
	if c.ReminderInterval <= 0 {
		return fmt.Errorf("config: REMINDER_INTERVAL must be positive, got %s", c.ReminderInterval)
	}
	if c.SchedulerBuffer <= 0 {
		return fmt.Errorf("config: SCHEDULER_BUFFER must be positive, got %d", c.SchedulerBuffer)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return nil
}

// Level is the parsed LOG_LEVEL; unknown values fall back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
