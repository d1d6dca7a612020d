// Package config loads trendscout's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the persistent application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	UI            UIConfig            `yaml:"ui"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Clipboard     ClipboardConfig     `yaml:"clipboard"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig describes the trend-analysis service.
type ServerConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`    // 0 = no timeout
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
}

// UIConfig holds UI preferences
type UIConfig struct {
	ResultLabel  string   `yaml:"result_label"`
	Categories   []string `yaml:"categories"` // offered in the selector after "any"
	DefaultCount int      `yaml:"default_count"`
	Theme        string   `yaml:"theme"` // glamour style: dark, light, notty, ascii...
}

// NotificationsConfig controls the error banner.
type NotificationsConfig struct {
	DismissAfter      time.Duration `yaml:"dismiss_after"`
	IndependentTimers bool          `yaml:"independent_timers"` // every timer hides the banner
}

// ClipboardConfig controls the copy confirmation.
type ClipboardConfig struct {
	ConfirmAfter time.Duration `yaml:"confirm_after"`
}

// LoggingConfig controls the file logger and the event journal.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Dir    string `yaml:"dir"`
	Events bool   `yaml:"events"` // write the JSONL event journal next to the log
}

// Default returns sensible defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
		},
		UI: UIConfig{
			ResultLabel:  "Analysis results",
			Categories:   []string{"technology", "business", "health", "entertainment", "sports"},
			DefaultCount: 3,
			Theme:        "dark",
		},
		Notifications: NotificationsConfig{
			DismissAfter: 5 * time.Second,
		},
		Clipboard: ClipboardConfig{
			ConfirmAfter: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Dir:    filepath.Join(Dir(), "logs"),
			Events: true,
		},
	}
}

// Dir returns the trendscout home directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trendscout")
}

// Path returns the path to the config file
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads config from path, or returns defaults when the file is missing.
// Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to path, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from TRENDSCOUT_SERVER and TRENDSCOUT_LOG_LEVEL.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("TRENDSCOUT_SERVER")); v != "" {
		c.Server.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TRENDSCOUT_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url %q is not an absolute URL", c.Server.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url: unsupported scheme %q", u.Scheme)
	}
	if c.Server.Timeout < 0 {
		return errors.New("server.timeout must not be negative")
	}
	if c.Server.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	if c.Notifications.DismissAfter <= 0 {
		return errors.New("notifications.dismiss_after must be positive")
	}
	if c.Clipboard.ConfirmAfter <= 0 {
		return errors.New("clipboard.confirm_after must be positive")
	}
	if c.UI.DefaultCount <= 0 {
		return errors.New("ui.default_count must be positive")
	}
	return nil
}
