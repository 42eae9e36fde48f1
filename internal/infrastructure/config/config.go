package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Accura AccuraConfig
	KYC    KYCConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=kyc_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// AccuraConfig holds the identity provider credentials. The keys are opaque
// here; only the provider adapter interprets them.
type AccuraConfig struct {
	BaseURL      string        `env:"ACCURA_BASE_URL,       default=https://accurascan.com"`
	OCRKey       string        `env:"ACCURA_OCR_KEY"`
	FaceMatchKey string        `env:"ACCURA_FACE_MATCH_KEY"`
	Timeout      time.Duration `env:"ACCURA_TIMEOUT,        default=30s"`
}

type KYCConfig struct {
	// MaxAttemptsPerHour caps step submissions per user id (attempt limiter).
	MaxAttemptsPerHour int64 `env:"KYC_MAX_ATTEMPTS_PER_HOUR, default=10"`
	// AuditWorkers is the number of audit dispatcher workers.
	AuditWorkers int `env:"KYC_AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
