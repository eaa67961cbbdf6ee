// Package telemetry sends anonymous product events to PostHog.
//
// Events carry an installation ID, never user or task data. Delivery is
// asynchronous and best effort; a failing sink never affects a request.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// ConfigFileName is the name of the installation state file.
const ConfigFileName = "telemetry.json"

// Config holds the telemetry state for this installation.
// Stored at ~/.pulse/telemetry.json, separate from .pulse.yaml.
type Config struct {
	// Enabled mirrors telemetry.enabled; it is not persisted.
	Enabled bool `json:"-"`

	// AnonymousID is a random UUID generated once per installation.
	AnonymousID string `json:"anonymous_id"`
}

var (
	configDirOverride   string
	configDirOverrideMu sync.RWMutex
)

// SetConfigDir sets a custom config directory path (for testing).
// Pass empty string to reset to default behavior.
func SetConfigDir(dir string) {
	configDirOverrideMu.Lock()
	defer configDirOverrideMu.Unlock()
	configDirOverride = dir
}

func getConfigDir() (string, error) {
	configDirOverrideMu.RLock()
	override := configDirOverride
	configDirOverrideMu.RUnlock()

	if override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".pulse"), nil
}

// GetConfigPath returns the full path to the telemetry state file.
func GetConfigPath() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the installation state, creating and saving an anonymous ID
// on first use.
func Load(enabled bool) (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}

	cfg := &Config{Enabled: enabled}

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.New().String()
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Save writes the installation state with owner-only permissions.
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
