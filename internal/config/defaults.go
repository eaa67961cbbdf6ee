// Package config resolves runtime settings from Viper (flags, .pulse.yaml,
// PULSE_* environment variables and .env) into typed structs.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/studypulse/pulse/internal/llm"
)

// Tier names in sweep order.
const (
	TierPrimary   = "primary"
	TierSecondary = "secondary"
)

// Default values. SetDefaults registers them with Viper.
const (
	DefaultPrimaryModel     = "gemini-3-flash-preview"
	DefaultSecondaryModel   = "gemini-2.5-flash-lite"
	DefaultPrimaryTimeout   = 20 * time.Second
	DefaultSecondaryTimeout = 10 * time.Second
	DefaultRateLimit        = 2.0
	DefaultRateBurst        = 4

	DefaultPastDays   = 7
	DefaultFutureDays = 30
	DefaultBuckets    = "daily"
	DefaultTimezone   = "UTC"

	DefaultPort     = 8080
	DefaultTokenTTL = 720 * time.Hour
)

// SetDefaults registers every default with the global Viper instance.
func SetDefaults() {
	viper.SetDefault("llm.primary.provider", llm.DefaultProvider)
	viper.SetDefault("llm.primary.model", DefaultPrimaryModel)
	viper.SetDefault("llm.primary.timeout", DefaultPrimaryTimeout)
	viper.SetDefault("llm.secondary.provider", llm.DefaultProvider)
	viper.SetDefault("llm.secondary.model", DefaultSecondaryModel)
	viper.SetDefault("llm.secondary.timeout", DefaultSecondaryTimeout)
	viper.SetDefault("llm.rateLimit", DefaultRateLimit)
	viper.SetDefault("llm.rateBurst", DefaultRateBurst)

	viper.SetDefault("engine.window.pastDays", DefaultPastDays)
	viper.SetDefault("engine.window.futureDays", DefaultFutureDays)
	viper.SetDefault("engine.buckets", DefaultBuckets)
	viper.SetDefault("engine.timezone", DefaultTimezone)

	viper.SetDefault("server.port", DefaultPort)
	viper.SetDefault("server.allowedOrigins", []string{"*"})
	viper.SetDefault("auth.tokenTTL", DefaultTokenTTL)

	viper.SetDefault("telemetry.enabled", false)
}
