package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/studypulse/pulse/internal/workload"
)

// ErrMissingSecret is returned when serve runs without a JWT secret.
var ErrMissingSecret = errors.New("auth.jwtSecret is required")

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// EngineSettings configures the aggregation window and calendar.
type EngineSettings struct {
	PastDays   int    `mapstructure:"pastDays" json:"pastDays" validate:"gte=0,lte=365"`
	FutureDays int    `mapstructure:"futureDays" json:"futureDays" validate:"gte=0,lte=365"`
	Buckets    string `mapstructure:"buckets" json:"buckets" validate:"oneof=daily weekly"`
	Timezone   string `mapstructure:"timezone" json:"timezone" validate:"required,timezone"`
}

// Window converts the settings into an engine window policy.
func (e EngineSettings) Window() workload.WindowPolicy {
	return workload.WindowPolicy{
		PastDays:   e.PastDays,
		FutureDays: e.FutureDays,
		Buckets:    workload.BucketMode(e.Buckets),
	}
}

// Clock returns an engine clock in the configured timezone.
func (e EngineSettings) Clock() (workload.Clock, error) {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return workload.Clock{}, fmt.Errorf("engine.timezone: %w", err)
	}
	return workload.Clock{Now: time.Now, Location: loc}, nil
}

// LoadEngine reads and validates engine.* settings.
func LoadEngine() (EngineSettings, error) {
	e := EngineSettings{
		PastDays:   viper.GetInt("engine.window.pastDays"),
		FutureDays: viper.GetInt("engine.window.futureDays"),
		Buckets:    viper.GetString("engine.buckets"),
		Timezone:   viper.GetString("engine.timezone"),
	}
	if err := validate.Struct(e); err != nil {
		return EngineSettings{}, fmt.Errorf("invalid engine config: %w", err)
	}
	return e, nil
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Port           int           `validate:"min=1,max=65535"`
	AllowedOrigins []string      `validate:"min=1,dive,required"`
	JWTSecret      string        `validate:"required,min=16"`
	TokenTTL       time.Duration `validate:"gt=0"`
}

// LoadServer reads server.* and auth.* settings.
func LoadServer() (ServerSettings, error) {
	s := ServerSettings{
		Port:           viper.GetInt("server.port"),
		AllowedOrigins: viper.GetStringSlice("server.allowedOrigins"),
		JWTSecret:      viper.GetString("auth.jwtSecret"),
		TokenTTL:       viper.GetDuration("auth.tokenTTL"),
	}
	if s.JWTSecret == "" {
		return ServerSettings{}, ErrMissingSecret
	}
	if err := validate.Struct(s); err != nil {
		return ServerSettings{}, fmt.Errorf("invalid server config: %w", err)
	}
	return s, nil
}

// TelemetrySettings configures product analytics.
type TelemetrySettings struct {
	Enabled  bool
	APIKey   string `validate:"required_if=Enabled true"`
	Endpoint string `validate:"omitempty,url"`
}

// LoadTelemetry reads telemetry.* settings.
func LoadTelemetry() (TelemetrySettings, error) {
	t := TelemetrySettings{
		Enabled:  viper.GetBool("telemetry.enabled"),
		APIKey:   viper.GetString("telemetry.apiKey"),
		Endpoint: viper.GetString("telemetry.endpoint"),
	}
	if err := validate.Struct(t); err != nil {
		return TelemetrySettings{}, fmt.Errorf("invalid telemetry config: %w", err)
	}
	return t, nil
}
