package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/studypulse/pulse/internal/workload"
)

func TestLoadEngine(t *testing.T) {
	resetViperForTest(t)
	SetDefaults()

	e, err := LoadEngine()
	if err != nil {
		t.Fatalf("LoadEngine() error = %v", err)
	}
	if got := e.Window(); got != workload.DefaultWindowPolicy() {
		t.Errorf("Window() = %+v, want default", got)
	}

	clock, err := e.Clock()
	if err != nil {
		t.Fatalf("Clock() error = %v", err)
	}
	if clock.Location != time.UTC {
		t.Errorf("Location = %v, want UTC", clock.Location)
	}
}

func TestLoadEngine_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"engine.buckets", "monthly"},
		{"engine.timezone", "Mars/Olympus"},
		{"engine.window.pastDays", -1},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			resetViperForTest(t)
			SetDefaults()
			viper.Set(tt.key, tt.value)
			if _, err := LoadEngine(); err == nil {
				t.Errorf("LoadEngine() with %s=%v: error = nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoadServer(t *testing.T) {
	resetViperForTest(t)
	SetDefaults()

	if _, err := LoadServer(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("LoadServer() error = %v, want ErrMissingSecret", err)
	}

	viper.Set("auth.jwtSecret", "short")
	if _, err := LoadServer(); err == nil {
		t.Error("LoadServer() accepted a short secret")
	}

	viper.Set("auth.jwtSecret", "0123456789abcdef0123")
	s, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if s.Port != DefaultPort || s.TokenTTL != DefaultTokenTTL || len(s.AllowedOrigins) != 1 {
		t.Errorf("LoadServer() = %+v", s)
	}
}

func TestLoadTelemetry(t *testing.T) {
	resetViperForTest(t)
	SetDefaults()

	got, err := LoadTelemetry()
	if err != nil || got.Enabled {
		t.Fatalf("LoadTelemetry() = %+v, %v", got, err)
	}

	viper.Set("telemetry.enabled", true)
	if _, err := LoadTelemetry(); err == nil {
		t.Error("enabled telemetry without an API key should fail")
	}

	viper.Set("telemetry.apiKey", "phc_test")
	viper.Set("telemetry.endpoint", "https://eu.posthog.com")
	if _, err := LoadTelemetry(); err != nil {
		t.Errorf("LoadTelemetry() error = %v", err)
	}
}

func TestStorePath(t *testing.T) {
	resetViperForTest(t)

	viper.Set("store.path", "/tmp/custom.db")
	if got := StorePath(); got != "/tmp/custom.db" {
		t.Errorf("StorePath() = %q", got)
	}
	viper.Set("store.path", "")

	t.Chdir(t.TempDir())
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)
	if got := StorePath(); got != filepath.Join(xdg, "pulse", "pulse.db") {
		t.Errorf("StorePath() = %q", got)
	}

	t.Setenv("XDG_DATA_HOME", "")
	orig := GetGlobalConfigDir
	GetGlobalConfigDir = func() (string, error) { return "/home/test/.pulse", nil }
	t.Cleanup(func() { GetGlobalConfigDir = orig })
	if got := StorePath(); got != "/home/test/.pulse/pulse.db" {
		t.Errorf("StorePath() = %q", got)
	}
}
