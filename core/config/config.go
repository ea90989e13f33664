package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env    string
	Port   string
	APIKey string

	Engagement EngagementConfig
	OTel       OTelConfig
	Pipeline   PipelineConfig
	Report     ReportConfig
	DB         DBConfig
}

// EngagementConfig holds the session lifecycle ceilings. The engagement
// constants themselves (turn ceilings, intel target) are fixed in the
// conversation engine; only operational knobs live here.
type EngagementConfig struct {
	SessionTTL      time.Duration
	CleanupInterval time.Duration
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type PipelineConfig struct {
	RedisURL       string
	RedisStream    string
	RedisGroup     string
	RedisDLQStream string
	RedisConsumer  string
}

type ReportConfig struct {
	// URL of the external endpoint final intelligence is delivered to.
	URL string
	// APIKey is sent as X-API-Key on delivery when set.
	APIKey  string
	Timeout time.Duration
}

type DBConfig struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeWorker ServiceType = "worker"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.worker for the report-delivery worker
//
// Falls back to .env if the service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("HONEYPOT_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:    getEnv("HONEYPOT_ENV", "development"),
		Port:   getEnv("PORT", "8080"),
		APIKey: getEnv("API_KEY", ""),
		Engagement: EngagementConfig{
			SessionTTL:      getEnvDuration("SESSION_TTL", 300*time.Second),
			CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", time.Minute),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "honeypot"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Pipeline: PipelineConfig{
			RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RedisStream:    getEnv("REDIS_STREAM", "honeypot_reports"),
			RedisGroup:     getEnv("REDIS_CONSUMER_GROUP", "honeypot_group"),
			RedisDLQStream: getEnv("REDIS_DLQ_STREAM", "honeypot_reports_dlq"),
			RedisConsumer:  getEnv("REDIS_CONSUMER_NAME", string(serviceType)),
		},
		Report: ReportConfig{
			URL:     getEnv("REPORT_URL", ""),
			APIKey:  getEnv("REPORT_API_KEY", ""),
			Timeout: getEnvDuration("REPORT_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{
			DSN:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 10),
			MinConns: getEnvInt32("DB_MIN_CONNS", 2),
		},
	}

	if serviceType == ServiceTypeServer && cfg.APIKey == "" {
		return Config{}, fmt.Errorf("API_KEY is required")
	}

	if serviceType == ServiceTypeWorker && cfg.Report.URL == "" {
		return Config{}, fmt.Errorf("REPORT_URL is required")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c DBConfig) Enabled() bool {
	return c.DSN != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
