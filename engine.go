package authcore

import (
	"context"
	"fmt"

	"github.com/procflowhq/authcore/internal/audit"
	"github.com/procflowhq/authcore/internal/rate"
	"github.com/procflowhq/authcore/password"
	"github.com/procflowhq/authcore/token"
	"github.com/redis/go-redis/v9"
)

// Engine is the authentication and authorization core. Construct it through
// [Builder.Build]; all methods are safe for concurrent use afterwards.
type Engine struct {
	config        Config
	redis         redis.UniversalClient
	userStore     UserStore
	hasher        *password.Hasher
	sessionTokens *token.SessionManager
	serviceTokens *token.ServiceManager
	emailLimiter  *rate.Limiter
	ipLimiter     *rate.Limiter
	metrics       *Metrics
	audit         *audit.Dispatcher
}

// Close drains and stops the audit dispatcher. The Redis client is owned by
// the composition root and is not closed here.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Ready reports whether the Redis dependency answers. It exists so
// operators probe health explicitly rather than inspecting connection
// state; a failing Ready does not block logins, it predicts that rate
// limiting will run fail-open.
func (e *Engine) Ready(ctx context.Context) error {
	if e == nil || e.redis == nil {
		return ErrEngineNotReady
	}
	if err := e.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped on a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// IssueSession signs a session token for an authenticated identity. The
// organization id in the claims equals the identity's OrganizationID at
// issuance time and is never mutated afterwards.
func (e *Engine) IssueSession(id Identity) (string, error) {
	if e == nil || e.sessionTokens == nil {
		return "", ErrEngineNotReady
	}
	signed, err := e.sessionTokens.Issue(token.Identity{
		UserID:         id.UserID,
		Email:          id.Email,
		Role:           string(id.Role),
		OrganizationID: id.OrganizationID,
		Name:           id.Name,
	})
	if err != nil {
		return "", err
	}
	e.metricInc(MetricSessionIssued)
	return signed, nil
}

// HydrateSession verifies a session token and reconstructs the in-process
// session. Sessions are stateless: they end by expiry or by the client
// discarding the token, and hydration never touches a store.
func (e *Engine) HydrateSession(tokenString string) (token.Session, error) {
	if e == nil || e.sessionTokens == nil {
		return token.Session{}, ErrEngineNotReady
	}
	return e.sessionTokens.Hydrate(tokenString)
}

// MintServiceToken produces a short-lived backend token from an
// already-hydrated session for server-to-server calls.
func (e *Engine) MintServiceToken(s token.Session) (string, error) {
	if e == nil || e.serviceTokens == nil {
		return "", ErrEngineNotReady
	}
	signed, err := e.serviceTokens.Mint(s)
	if err != nil {
		return "", err
	}
	e.metricInc(MetricServiceTokenMinted)
	return signed, nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// emitAudit stamps the event with the request-scoped IP and user-agent
// before handing it to the dispatcher. The request meta was captured at the
// edge, so an event emitted deep in an async continuation still carries the
// originating request's values.
func (e *Engine) emitAudit(ctx context.Context, event audit.Event) {
	if e == nil || e.audit == nil {
		return
	}
	meta := RequestMetaFromContext(ctx)
	event.IP = meta.IPAddress
	event.UserAgent = meta.UserAgent
	e.audit.Emit(ctx, event)
}
