// Package authcore implements the authentication, session, and multi-tenant
// authorization core of a process-management web platform: credential
// verification, OAuth identity reconciliation, JWT session issuance,
// backend-service token minting, role-based permissions, Redis-backed login
// throttling, and audit-context propagation.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (User, OAuthProfile, AuditEvent, MetricsSnapshot). Flow
// orchestration, Redis counters, and audit dispatch live under internal/ and
// are never exported. Token translation lives in the token subpackage, the
// static permission table in rbac, and password hashing in password.
//
// # What this package must NOT do
//
//   - Persist users or audit events itself. The user store and the audit
//     sink are injected collaborators.
//   - Expose Redis clients or counter keys in its public API. Only the
//     rate limiter touches Redis counters.
//   - Verify external identities. OAuth providers do that; authcore only
//     reconciles provider profiles against known accounts.
//
// # Failure policy
//
// Wrong credentials, unknown OAuth emails, and exceeded rate limits are
// expected outcomes: callers receive the generic sentinels
// [ErrInvalidCredentials] and [ErrLoginRateLimited] or an OAuth redirect
// code, never a panic or a detail that reveals which check rejected the
// attempt. Configuration mistakes (a persisted role outside the
// fixed enum, a missing signing secret) fail loudly. Redis unavailability
// is absorbed fail-open by default so that logins stay available when the
// throttle backend is down; see [RateLimitConfig.FailClosed].
package authcore
