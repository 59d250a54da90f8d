// Package config loads and watches the nudge config file.
//
// The file is optional: every field has a default, and a missing file yields
// the default config. YAML and JSON are both accepted; YAML is coerced to
// JSON so one strict decoder (DisallowUnknownFields) covers both.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"nudge/internal/notify"
	"nudge/internal/schedule"
	"nudge/internal/store"
	"nudge/pkg/logx"
)

type Config struct {
	Storage     StorageConfig     `json:"storage,omitempty"`
	Logging     LoggingConfig     `json:"logging,omitempty"`
	Scheduler   SchedulerConfig   `json:"scheduler,omitempty"`
	Notify      NotifyConfig      `json:"notify,omitempty"`
	Maintenance MaintenanceConfig `json:"maintenance,omitempty"`
}

type StorageConfig struct {
	// Path of the sqlite database. Empty means ~/.nudge/nudge.db.
	Path string `json:"path,omitempty"`
	// BusyTimeout is a Go duration string (e.g. "5s").
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

type LoggingConfig struct {
	Level string `json:"level,omitempty"`
	// Console is a pointer so "omitted" (default true) differs from an
	// explicit false.
	Console *bool      `json:"console,omitempty"`
	File    FileConfig `json:"file,omitempty"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

type SchedulerConfig struct {
	// PollInterval is a Go duration string (e.g. "100ms").
	PollInterval string `json:"poll_interval,omitempty"`
}

type NotifyConfig struct {
	Command string `json:"command,omitempty"`
	// Timeout is a Go duration string bounding one dispatch.
	Timeout       string `json:"timeout,omitempty"`
	RatePerMinute int    `json:"rate_per_minute,omitempty"`
}

type MaintenanceConfig struct {
	// Enabled defaults to true when omitted.
	Enabled *bool `json:"enabled,omitempty"`
	// Schedule is a cron spec or descriptor; default "@daily".
	Schedule string `json:"schedule,omitempty"`
}

// DefaultPath resolves the config location under the home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nudge", "config.yaml"), nil
}

// decode parses config bytes strictly: unknown fields and trailing data are
// errors, so typos surface instead of silently applying defaults.
func decode(path string, data []byte) (*Config, error) {
	jb, err := coerceToJSON(path, data)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	return &cfg, nil
}

// ---- conversions to component configs ----

func (c *Config) Logx() logx.Config {
	console := true
	if c.Logging.Console != nil {
		console = *c.Logging.Console
	}
	return logx.Config{
		Level:   c.Logging.Level,
		Console: console,
		File: logx.FileConfig{
			Enabled: c.Logging.File.Enabled,
			Path:    c.Logging.File.Path,
		},
	}
}

func (c *Config) Store() (store.Config, error) {
	busy, err := parseDuration("storage.busy_timeout", c.Storage.BusyTimeout)
	if err != nil {
		return store.Config{}, err
	}
	return store.Config{Path: c.Storage.Path, BusyTimeout: busy}, nil
}

func (c *Config) Runner() (schedule.RunnerConfig, error) {
	iv, err := parseDurationOrDefault("scheduler.poll_interval", c.Scheduler.PollInterval, schedule.DefaultPollInterval)
	if err != nil {
		return schedule.RunnerConfig{}, err
	}
	return schedule.RunnerConfig{PollInterval: iv}, nil
}

func (c *Config) Notifier() (notify.Config, error) {
	timeout, err := parseDuration("notify.timeout", c.Notify.Timeout)
	if err != nil {
		return notify.Config{}, err
	}
	return notify.Config{
		Command:       c.Notify.Command,
		Timeout:       timeout,
		RatePerMinute: c.Notify.RatePerMinute,
	}, nil
}

func (c *Config) MaintenanceEnabled() bool {
	return c.Maintenance.Enabled == nil || *c.Maintenance.Enabled
}

// Validate checks every derived field so a bad file is rejected as a whole.
func (c *Config) Validate() error {
	if _, err := c.Store(); err != nil {
		return err
	}
	if _, err := c.Runner(); err != nil {
		return err
	}
	if _, err := c.Notifier(); err != nil {
		return err
	}
	return nil
}
