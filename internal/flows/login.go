package flows

import (
	"context"

	"github.com/procflowhq/authcore/internal/audit"
)

// Audit metadata reasons recorded on failed credential logins. Reasons are
// audit-only; the caller-facing result is always the generic invalid
// credentials sentinel so the email space cannot be probed.
const (
	ReasonInvalidEmail    = "invalid_email"
	ReasonUserNotFound    = "user_not_found"
	ReasonInvalidPassword = "invalid_password"
	ReasonNoPassword      = "no_password_credentials"
	ReasonRateLimited     = "rate_limited"
)

// LoginUser is the flow-local account model.
type LoginUser struct {
	ID             string
	Email          string
	PasswordHash   string
	Role           string
	OrganizationID string
	Name           string
}

// LoginMetrics carries the metric IDs the login flow increments.
type LoginMetrics struct {
	Success     int
	Failure     int
	RateLimited int
}

// LoginErrors carries the host's sentinel errors.
type LoginErrors struct {
	EngineNotReady     error
	InvalidCredentials error
	RateLimited        error
	RoleInvalid        error
}

// LoginDeps captures the credential login dependencies.
type LoginDeps struct {
	FallbackOrgID string

	NormalizeEmail func(string) (string, error)
	ClientIP       func(context.Context) string

	CheckEmailBudget func(ctx context.Context, email string) bool
	CheckIPBudget    func(ctx context.Context, ip string) bool
	RecordIPAttempt  func(ctx context.Context, ip string)
	RecordEmailFail  func(ctx context.Context, email string)
	ResetEmailBudget func(ctx context.Context, email string)

	GetUserByEmail func(ctx context.Context, email string) (*LoginUser, error)
	IsNotFound     func(error) bool
	VerifyPassword func(hash, plain string) bool
	VerifyDummy    func(plain string)
	ValidateRole   func(string) error

	MetricInc func(int)
	EmitAudit func(ctx context.Context, event audit.Event)

	Metrics LoginMetrics
	Errors  LoginErrors
}

// RunLogin executes the credential login flow and returns the authenticated
// account or a sentinel error. Invariant: exactly one password-hash
// comparison runs per attempt that reaches the verification stage,
// regardless of whether the account exists.
func RunLogin(ctx context.Context, email, plainPassword string, deps LoginDeps) (*LoginUser, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, audit.Event) {}
	}
	if deps.ClientIP == nil {
		deps.ClientIP = func(context.Context) string { return "" }
	}
	if deps.NormalizeEmail == nil ||
		deps.GetUserByEmail == nil ||
		deps.IsNotFound == nil ||
		deps.VerifyPassword == nil ||
		deps.VerifyDummy == nil ||
		deps.ValidateRole == nil {
		return nil, deps.Errors.EngineNotReady
	}

	ip := deps.ClientIP(ctx)

	normalized, err := deps.NormalizeEmail(email)
	if err != nil {
		deps.MetricInc(deps.Metrics.Failure)
		deps.EmitAudit(ctx, failedEvent(deps.FallbackOrgID, nil, "credentials", ReasonInvalidEmail))
		return nil, deps.Errors.InvalidCredentials
	}

	if deps.CheckEmailBudget != nil && !deps.CheckEmailBudget(ctx, normalized) {
		deps.MetricInc(deps.Metrics.RateLimited)
		deps.EmitAudit(ctx, failedEvent(deps.FallbackOrgID, nil, "credentials", ReasonRateLimited))
		return nil, deps.Errors.RateLimited
	}
	if ip != "" && deps.CheckIPBudget != nil && !deps.CheckIPBudget(ctx, ip) {
		deps.MetricInc(deps.Metrics.RateLimited)
		deps.EmitAudit(ctx, failedEvent(deps.FallbackOrgID, nil, "credentials", ReasonRateLimited))
		return nil, deps.Errors.RateLimited
	}

	// The IP counter tracks total attempts, not failures; count before the
	// outcome is known.
	if ip != "" && deps.RecordIPAttempt != nil {
		deps.RecordIPAttempt(ctx, ip)
	}

	user, err := deps.GetUserByEmail(ctx, normalized)
	if err != nil || user == nil {
		// Burn the comparison budget even though no account was found so the
		// miss is timing-indistinguishable from a wrong password.
		deps.VerifyDummy(plainPassword)
		if err != nil && !deps.IsNotFound(err) {
			// Infrastructure failure. Still a generic rejection to the
			// caller; the audit reason is the only place that differs.
			deps.MetricInc(deps.Metrics.Failure)
			return nil, deps.Errors.InvalidCredentials
		}
		deps.recordFailure(ctx, normalized)
		deps.MetricInc(deps.Metrics.Failure)
		deps.EmitAudit(ctx, failedEvent(deps.FallbackOrgID, nil, "credentials", ReasonUserNotFound))
		return nil, deps.Errors.InvalidCredentials
	}

	if user.PasswordHash == "" {
		// OAuth-only account: no credential to compare, but the budget burn
		// keeps timing flat.
		deps.VerifyDummy(plainPassword)
		deps.recordFailure(ctx, normalized)
		deps.MetricInc(deps.Metrics.Failure)
		deps.EmitAudit(ctx, failedEvent(user.OrganizationID, &user.ID, "credentials", ReasonNoPassword))
		return nil, deps.Errors.InvalidCredentials
	}

	if !deps.VerifyPassword(user.PasswordHash, plainPassword) {
		deps.recordFailure(ctx, normalized)
		deps.MetricInc(deps.Metrics.Failure)
		deps.EmitAudit(ctx, failedEvent(user.OrganizationID, &user.ID, "credentials", ReasonInvalidPassword))
		return nil, deps.Errors.InvalidCredentials
	}

	// A persisted role outside the enum is a configuration fault, not a
	// failed login. It must escape loudly.
	if err := deps.ValidateRole(user.Role); err != nil {
		return nil, deps.Errors.RoleInvalid
	}

	if deps.ResetEmailBudget != nil {
		deps.ResetEmailBudget(ctx, normalized)
	}
	deps.MetricInc(deps.Metrics.Success)

	event := audit.NewEvent(user.OrganizationID, &user.ID, audit.ActionLoginSuccess)
	event.Metadata = map[string]any{"authMethod": "credentials"}
	deps.EmitAudit(ctx, event)

	return user, nil
}

func (deps LoginDeps) recordFailure(ctx context.Context, email string) {
	if deps.RecordEmailFail != nil {
		deps.RecordEmailFail(ctx, email)
	}
}

func failedEvent(orgID string, userID *string, method, reason string) audit.Event {
	event := audit.NewEvent(orgID, userID, audit.ActionLoginFailed)
	event.Metadata = map[string]any{
		"authMethod": method,
		"reason":     reason,
	}
	return event
}
