package authcore

import (
	"errors"

	"github.com/procflowhq/authcore/internal/audit"
	"github.com/procflowhq/authcore/internal/rate"
	"github.com/procflowhq/authcore/password"
	"github.com/procflowhq/authcore/token"
	"github.com/redis/go-redis/v9"
)

// Redis key prefixes owned by the rate limiter. Nothing else may touch
// these keys.
const (
	failedLoginKeyPrefix = "rate_limit:failed_login:"
	totalLoginKeyPrefix  = "rate_limit:total_login:"
)

// Builder assembles an [Engine]. The zero Builder is not usable; start from
// [New]. Build may be called once.
type Builder struct {
	config Config

	redis     redis.UniversalClient
	userStore UserStore
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with default configuration. Signing
// secrets have no default and must be supplied via [Builder.WithConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the rate limiter. The client is
// owned by the composition root; the engine never constructs connections.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the account store collaborator.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.userStore = store
	return b
}

// WithAuditSink sets the destination for audit events. Without a sink,
// events are dispatched to a no-op.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the engine counter table.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the engine. Missing signing
// secrets, a missing Redis client, or a missing user store fail here, at
// startup, never at first login.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("authcore: redis client required")
	}
	if b.userStore == nil {
		return nil, errors.New("authcore: user store required")
	}

	sessionTokens, err := token.NewSessionManager(token.SessionConfig{
		Secret: b.config.Session.SigningSecret,
		TTL:    b.config.Session.TTL,
		Issuer: b.config.Session.Issuer,
	})
	if err != nil {
		return nil, err
	}

	serviceTokens, err := token.NewServiceManager(token.ServiceConfig{
		Secret:   b.config.ServiceToken.SigningSecret,
		TTL:      b.config.ServiceToken.TTL,
		Audience: b.config.ServiceToken.Audience,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:        b.config,
		redis:         b.redis,
		userStore:     b.userStore,
		hasher:        password.NewHasher(b.config.Password.Cost),
		sessionTokens: sessionTokens,
		serviceTokens: serviceTokens,
		emailLimiter: rate.New(b.redis, rate.Config{
			KeyPrefix:  failedLoginKeyPrefix,
			Threshold:  b.config.RateLimit.EmailThreshold,
			Window:     b.config.RateLimit.EmailWindow,
			FailClosed: b.config.RateLimit.FailClosed,
		}),
		metrics: newMetrics(b.config.Metrics.Enabled),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    b.config.Audit.Enabled,
			BufferSize: b.config.Audit.BufferSize,
			DropIfFull: b.config.Audit.DropIfFull,
		}, b.auditSink),
	}

	if b.config.RateLimit.EnableIPThrottle {
		engine.ipLimiter = rate.New(b.redis, rate.Config{
			KeyPrefix:  totalLoginKeyPrefix,
			Threshold:  b.config.RateLimit.IPThreshold,
			Window:     b.config.RateLimit.IPWindow,
			FailClosed: b.config.RateLimit.FailClosed,
		})
	}

	b.built = true
	return engine, nil
}
