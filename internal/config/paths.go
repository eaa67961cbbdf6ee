package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.pulse).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pulse"), nil
}

// StorePath returns the SQLite database path.
// Resolution order (first match wins):
// 1. Explicit config via "store.path" (Viper/env/flag)
// 2. Local project directory: .pulse/ (if exists)
// 3. XDG_DATA_HOME/pulse/pulse.db (if XDG_DATA_HOME is set)
// 4. Global fallback: ~/.pulse/pulse.db
func StorePath() string {
	if path := viper.GetString("store.path"); path != "" {
		return path
	}

	if info, err := os.Stat(".pulse"); err == nil && info.IsDir() {
		return filepath.Join(".pulse", "pulse.db")
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "pulse", "pulse.db")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "pulse.db"
	}
	return filepath.Join(dir, "pulse.db")
}
