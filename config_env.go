package authcore

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig is the environment surface for service embedders. Secrets and
// the Redis URL are required at process start; there are no silent defaults
// for them.
type envConfig struct {
	SessionSecret       string        `env:"AUTH_SESSION_SECRET,required"`
	ServiceTokenSecret  string        `env:"AUTH_SERVICE_TOKEN_SECRET,required"`
	RedisURL            string        `env:"AUTH_REDIS_URL,required"`
	SessionTTL          time.Duration `env:"AUTH_SESSION_TTL" envDefault:"168h"`
	ServiceTokenTTL     time.Duration `env:"AUTH_SERVICE_TOKEN_TTL" envDefault:"30m"`
	RateLimitFailClosed bool          `env:"AUTH_RATE_LIMIT_FAIL_CLOSED" envDefault:"false"`
	FallbackOrgID       string        `env:"AUTH_AUDIT_FALLBACK_ORG" envDefault:"system"`
}

// LoadConfigFromEnv builds a Config from environment variables, reading an
// optional .env file first (ignored when absent). It returns the Redis
// connection URL alongside the Config; constructing and owning the Redis
// client is the composition root's job.
func LoadConfigFromEnv() (Config, string, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, "", fmt.Errorf("authcore: config from env: %w", err)
	}

	cfg := defaultConfig()
	cfg.Session.SigningSecret = []byte(ec.SessionSecret)
	cfg.Session.TTL = ec.SessionTTL
	cfg.ServiceToken.SigningSecret = []byte(ec.ServiceTokenSecret)
	cfg.ServiceToken.TTL = ec.ServiceTokenTTL
	cfg.RateLimit.FailClosed = ec.RateLimitFailClosed
	cfg.Audit.FallbackOrganizationID = ec.FallbackOrgID

	if err := validateConfig(cfg); err != nil {
		return Config{}, "", err
	}
	return cfg, ec.RedisURL, nil
}
