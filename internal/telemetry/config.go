// Package telemetry sends opt-in, anonymous PlanWise usage events to PostHog.
// Nothing is sent until the user enables it; plan text, tasks and goals are
// never part of an event.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ConfigFileName is the name of the telemetry state file in the PlanWise
// config directory.
const ConfigFileName = "telemetry.json"

// Config holds the telemetry state and user preferences. It is kept apart
// from .planwise.yaml so that `config set` never touches consent.
type Config struct {
	Enabled bool `json:"enabled"`

	// ConsentAsked is set once the user has made a choice.
	ConsentAsked bool `json:"consent_asked"`

	// AnonymousID is a random UUID generated on first load.
	AnonymousID string `json:"anonymous_id"`

	path string
}

// ConfigPath returns the telemetry file path inside dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// Load reads the telemetry state from dir. A missing file yields a disabled
// config with a fresh anonymous ID.
func Load(dir string) (*Config, error) {
	cfg := &Config{path: ConfigPath(dir)}

	data, err := os.ReadFile(cfg.path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read telemetry config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse telemetry config: %w", err)
		}
	}

	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.NewString()
	}
	return cfg, nil
}

// Path returns where Save writes.
func (c *Config) Path() string { return c.path }

// Save writes the state back to the file it was loaded from, owner-only.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("telemetry config has no path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("write telemetry config: %w", err)
	}
	return nil
}

// Enable turns on telemetry and records that consent was asked.
func (c *Config) Enable() {
	c.Enabled = true
	c.ConsentAsked = true
}

// Disable turns off telemetry and records that consent was asked.
func (c *Config) Disable() {
	c.Enabled = false
	c.ConsentAsked = true
}

// NeedsConsent reports whether the user has not been asked yet.
func (c *Config) NeedsConsent() bool { return !c.ConsentAsked }

// IsEnabled reports whether events may be sent.
func (c *Config) IsEnabled() bool { return c != nil && c.Enabled }
