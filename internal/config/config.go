package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the dataflow demo dashboard.
type Config struct {
	Port      int
	Version   string
	Telemetry TelemetryConfig
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
	Version      string
}

// Load reads configuration from environment variables with sensible
// defaults.
func Load() *Config {
	version := envStr("DFCOMPU_VERSION", "0.1.0")
	return &Config{
		Port:    envInt("DFCOMPU_PORT", 8080),
		Version: version,
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "dfcompu-dashboard"),
			Version:      version,
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
