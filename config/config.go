// Package config manages application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix shared by every environment override.
	EnvPrefix = "YTDIGEST_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
var ErrConfigNotFound = errors.New("config: file not found")

// Config holds all application configuration for the daily digest run.
type Config struct {
	// Channels are the YouTube channel IDs checked on every run, in order.
	Channels []string `koanf:"channels"`
	// Timezone names the location used for the day page title and the schedule.
	// Empty or "Local" uses the process timezone.
	Timezone string `koanf:"timezone"`

	YouTube  YouTubeConfig  `koanf:"youtube"`
	Notion   NotionConfig   `koanf:"notion"`
	Mail     MailConfig     `koanf:"mail"`
	Schedule ScheduleConfig `koanf:"schedule"`
	Log      LogConfig      `koanf:"log"`
}

// YouTubeConfig configures the YouTube Data API client.
type YouTubeConfig struct {
	APIKey     string `koanf:"api_key"`
	MaxResults int64  `koanf:"max_results"`
	// Endpoint overrides the API root URL. Empty uses the public API.
	Endpoint string `koanf:"endpoint"`
	// Window is how far back from the run instant videos are searched.
	Window time.Duration `koanf:"window"`
}

// NotionConfig configures the Notion database holding day pages.
type NotionConfig struct {
	Token           string        `koanf:"token"`
	DatabaseID      string        `koanf:"database_id"`
	BaseURL         string        `koanf:"base_url"`
	Version         string        `koanf:"version"`
	TitleProperty   string        `koanf:"title_property"`
	DateProperty    string        `koanf:"date_property"`
	ExcludedHeading string        `koanf:"excluded_heading"`
	Timeout         time.Duration `koanf:"timeout"`
}

// MailConfig configures the completion notice.
type MailConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	To       string `koanf:"to"`
	Subject  string `koanf:"subject"`
}

// ScheduleConfig configures the daily trigger.
type ScheduleConfig struct {
	Name string `koanf:"name"`
	Hour int    `koanf:"hour"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Credentials are the secrets a run needs. They are read as-is; an absent
// value only shows up as an authorization failure from the remote API.
type Credentials struct {
	NotionToken   string
	DatabaseID    string
	YouTubeAPIKey string
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		Timezone: "Local",
		YouTube: YouTubeConfig{
			MaxResults: 50,
			Window:     24 * time.Hour,
		},
		Notion: NotionConfig{
			BaseURL:         "https://api.notion.com/v1",
			Version:         "2022-06-28",
			TitleProperty:   "Name",
			DateProperty:    "日付",
			ExcludedHeading: "除外リスト",
			Timeout:         30 * time.Second,
		},
		Mail: MailConfig{
			Port:    587,
			Subject: "YouTube daily digest completed",
		},
		Schedule: ScheduleConfig{
			Name: "daily-digest",
			Hour: 21,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from defaults, a YAML file and environment variables.
//
// Priority: env vars > config file > defaults. When path is empty the file is
// looked up as ytdigest.yaml in the working directory, then in
// ~/.config/ytdigest/; a missing file is not an error in that case.
//
// Environment variables map onto keys by splitting on the first underscore
// after the prefix:
//
//	YTDIGEST_NOTION_DATABASE_ID -> notion.database_id
//	YTDIGEST_SCHEDULE_HOUR      -> schedule.hour
//	YTDIGEST_CHANNELS           -> channels (comma separated)
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	content, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey maps YTDIGEST_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// envValue maps an environment variable onto its key. List keys are split
// on commas.
func envValue(name, value string) (string, interface{}) {
	key := envKey(name)
	if key == "channels" {
		return key, splitList(value)
	}
	return key, value
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// readConfigFile returns the raw config file, or nil when no file is present
// and none was explicitly requested.
func readConfigFile(path string) ([]byte, error) {
	if path != "" {
		data, err := readLimited(path)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return data, err
	}

	paths := []string{"ytdigest.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ytdigest", "ytdigest.yaml"))
	}

	for _, p := range paths {
		data, err := readLimited(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return data, nil
	}

	return nil, nil
}

func readLimited(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Validate checks that configuration values are valid and consistent.
// Credentials are deliberately not checked.
func (c *Config) Validate() error {
	if c.Schedule.Hour < 0 || c.Schedule.Hour > 23 {
		return fmt.Errorf("schedule.hour must be between 0 and 23")
	}
	if c.Schedule.Name == "" {
		return fmt.Errorf("schedule.name must not be empty")
	}
	if c.YouTube.MaxResults < 1 || c.YouTube.MaxResults > 50 {
		return fmt.Errorf("youtube.max_results must be between 1 and 50")
	}
	if c.YouTube.Window <= 0 {
		return fmt.Errorf("youtube.window must be positive")
	}
	if c.Notion.BaseURL == "" {
		return fmt.Errorf("notion.base_url must not be empty")
	}
	if c.Notion.Timeout < 0 {
		return fmt.Errorf("notion.timeout must be non-negative")
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("mail.port must be a valid port")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Credentials returns the secrets used by a run.
func (c *Config) Credentials() Credentials {
	return Credentials{
		NotionToken:   c.Notion.Token,
		DatabaseID:    c.Notion.DatabaseID,
		YouTubeAPIKey: c.YouTube.APIKey,
	}
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	c.Channels = append([]string(nil), c.Channels...)
	c.Notion.Token = redact(c.Notion.Token)
	c.YouTube.APIKey = redact(c.YouTube.APIKey)
	c.Mail.Password = redact(c.Mail.Password)
	return c
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}
