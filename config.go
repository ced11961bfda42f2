package authcore

import (
	"bytes"
	"errors"
	"time"

	"github.com/procflowhq/authcore/password"
	"github.com/procflowhq/authcore/token"
)

// Config defines the engine configuration. Instances are configured during
// initialization and treated as immutable after [Builder.Build].
type Config struct {
	Session      SessionConfig
	ServiceToken ServiceTokenConfig
	RateLimit    RateLimitConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
	Password     PasswordConfig
}

/*
====================================
SESSION TOKEN CONFIG
====================================
*/

// SessionConfig configures user-facing session tokens.
type SessionConfig struct {
	// SigningSecret signs session JWTs (HMAC-SHA256). Required, at least 32
	// bytes. There is no default: a missing secret fails Build.
	SigningSecret []byte
	// TTL is the maximum session age. Default 7 days.
	TTL time.Duration
	// Issuer is an optional iss claim.
	Issuer string
}

/*
====================================
BACKEND SERVICE TOKEN CONFIG
====================================
*/

// ServiceTokenConfig configures the short-lived tokens minted for calls into
// the internal API.
type ServiceTokenConfig struct {
	// SigningSecret must be configured and distinct from the session secret.
	SigningSecret []byte
	// TTL defaults to 30 minutes.
	TTL time.Duration
	// Audience is an optional aud claim identifying the internal API.
	Audience string
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig tunes the two login throttles. The email counter tracks
// failed attempts per normalized address; the IP counter tracks total
// attempts per client address and is never reset by a successful login.
type RateLimitConfig struct {
	EmailThreshold int
	EmailWindow    time.Duration
	IPThreshold    int
	IPWindow       time.Duration
	// EnableIPThrottle switches the per-IP counter. The email counter is
	// always active.
	EnableIPThrottle bool
	// FailClosed denies logins instead of allowing them while Redis is
	// unreachable. The default favors availability: a throttle outage must
	// not take logins down with it.
	FailClosed bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls audit event dispatch.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
	// FallbackOrganizationID scopes audit events for which no real tenant is
	// known, e.g. OAuth callbacks for unknown emails.
	FallbackOrganizationID string
}

/*
====================================
METRICS / PASSWORD CONFIG
====================================
*/

// MetricsConfig switches the engine counter table.
type MetricsConfig struct {
	Enabled bool
}

// PasswordConfig tunes bcrypt verification.
type PasswordConfig struct {
	Cost int
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TTL: token.DefaultSessionTTL,
		},
		ServiceToken: ServiceTokenConfig{
			TTL: token.DefaultServiceTTL,
		},
		RateLimit: RateLimitConfig{
			EmailThreshold:   5,
			EmailWindow:      15 * time.Minute,
			IPThreshold:      20,
			IPWindow:         time.Hour,
			EnableIPThrottle: true,
		},
		Audit: AuditConfig{
			Enabled:                true,
			BufferSize:             256,
			DropIfFull:             true,
			FallbackOrganizationID: "system",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Password: PasswordConfig{
			Cost: password.DefaultCost,
		},
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.Session.SigningSecret) < token.MinSecretLength {
		return errors.New("config: session signing secret missing or shorter than 32 bytes")
	}
	if len(cfg.ServiceToken.SigningSecret) < token.MinSecretLength {
		return errors.New("config: service token signing secret missing or shorter than 32 bytes")
	}
	if bytes.Equal(cfg.Session.SigningSecret, cfg.ServiceToken.SigningSecret) {
		return errors.New("config: session and service token secrets must be distinct")
	}
	if cfg.RateLimit.EmailThreshold <= 0 || cfg.RateLimit.EmailWindow <= 0 {
		return errors.New("config: email rate limit threshold and window must be positive")
	}
	if cfg.RateLimit.EnableIPThrottle && (cfg.RateLimit.IPThreshold <= 0 || cfg.RateLimit.IPWindow <= 0) {
		return errors.New("config: ip rate limit threshold and window must be positive")
	}
	if cfg.Audit.Enabled && cfg.Audit.FallbackOrganizationID == "" {
		return errors.New("config: audit fallback organization id required")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.SigningSecret = append([]byte(nil), cfg.Session.SigningSecret...)
	out.ServiceToken.SigningSecret = append([]byte(nil), cfg.ServiceToken.SigningSecret...)
	return out
}
