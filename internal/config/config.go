package config

import (
	"os"
	"strconv"
	"time"

	"sheetchart/internal/errors"
	"sheetchart/internal/normalize"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Normalize NormalizeConfig
	Extract   ExtractConfig
	Session   SessionConfig
	Log       LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// UploadConfig bounds and filters uploaded files
type UploadConfig struct {
	MaxFileSizeMB int
	// RejectUnknownTypes answers unsupported extensions with an error instead
	// of ignoring the upload
	RejectUnknownTypes bool
}

// NormalizeConfig holds the date serial rule
type NormalizeConfig struct {
	DateSerial normalize.DateSerialRule
}

// ExtractConfig holds per-upload extraction settings
type ExtractConfig struct {
	Workers int
}

// SessionConfig holds browser session lifetime settings
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// MaxFileSizeBytes returns the upload limit in bytes
func (u UploadConfig) MaxFileSizeBytes() int64 {
	return int64(u.MaxFileSizeMB) * 1024 * 1024
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", GinMode: "debug"},
		Upload: UploadConfig{MaxFileSizeMB: 50, RejectUnknownTypes: true},
		Normalize: NormalizeConfig{
			DateSerial: normalize.DefaultDateSerialRule(),
		},
		Extract: ExtractConfig{Workers: 4},
		Session: SessionConfig{TTL: 30 * time.Minute, SweepInterval: 5 * time.Minute},
		Log:     LogConfig{Level: "INFO"},
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := Default()

	config.Server = *loadServerConfig(config.Server)
	config.Upload = *loadUploadConfig(config.Upload)
	config.Normalize = *loadNormalizeConfig(config.Normalize)
	config.Extract = ExtractConfig{
		Workers: getEnvIntOrDefault("EXTRACT_WORKERS", config.Extract.Workers),
	}
	config.Session = *loadSessionConfig(config.Session)
	config.Log = LogConfig{Level: getEnvOrDefault("LOG_LEVEL", config.Log.Level)}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig(defaults ServerConfig) *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", defaults.Port),
		GinMode: getEnvOrDefault("GIN_MODE", defaults.GinMode),
	}
}

func loadUploadConfig(defaults UploadConfig) *UploadConfig {
	return &UploadConfig{
		MaxFileSizeMB:      getEnvIntOrDefault("MAX_UPLOAD_MB", defaults.MaxFileSizeMB),
		RejectUnknownTypes: getEnvBoolOrDefault("REJECT_UNKNOWN_TYPES", defaults.RejectUnknownTypes),
	}
}

func loadNormalizeConfig(defaults NormalizeConfig) *NormalizeConfig {
	rule := defaults.DateSerial
	return &NormalizeConfig{
		DateSerial: normalize.DateSerialRule{
			Enabled: getEnvBoolOrDefault("DATE_SERIAL_ENABLED", rule.Enabled),
			Min:     getEnvFloatOrDefault("DATE_SERIAL_MIN", rule.Min),
			Max:     getEnvFloatOrDefault("DATE_SERIAL_MAX", rule.Max),
			Layout:  getEnvOrDefault("DATE_LAYOUT", rule.Layout),
		},
	}
}

func loadSessionConfig(defaults SessionConfig) *SessionConfig {
	return &SessionConfig{
		TTL:           getEnvDurationOrDefault("SESSION_TTL", defaults.TTL),
		SweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", defaults.SweepInterval),
	}
}

// Validate checks cross-field constraints
func Validate(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Upload.MaxFileSizeMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Normalize.DateSerial.Min >= config.Normalize.DateSerial.Max {
		return errors.ConfigInvalid("DATE_SERIAL_MIN must be below DATE_SERIAL_MAX")
	}
	if config.Normalize.DateSerial.Min < 0 {
		return errors.ConfigInvalid("DATE_SERIAL_MIN must not be negative")
	}
	if config.Extract.Workers <= 0 {
		return errors.ConfigInvalid("EXTRACT_WORKERS must be positive")
	}
	if config.Session.TTL <= 0 || config.Session.SweepInterval <= 0 {
		return errors.ConfigInvalid("session durations must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
