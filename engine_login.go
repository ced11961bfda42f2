package authcore

import (
	"context"
	"errors"

	"github.com/procflowhq/authcore/internal/emailaddr"
	"github.com/procflowhq/authcore/internal/flows"
	"github.com/procflowhq/authcore/rbac"
	"github.com/procflowhq/authcore/token"
)

// LoginResult is the outcome of a successful credential login.
type LoginResult struct {
	SessionToken string
	Session      token.Session
	Identity     Identity
}

// Authenticate verifies an email/password pair against the user store. Bad
// credentials of any kind (unknown email, wrong password, OAuth-only
// account) return [ErrInvalidCredentials] without distinguishing which
// check rejected the attempt. Exactly one password-hash comparison runs per
// attempt reaching verification, so unknown emails cannot be enumerated by
// timing. A persisted role outside the fixed enum returns [ErrRoleInvalid].
func (e *Engine) Authenticate(ctx context.Context, email, plainPassword string) (*Identity, error) {
	if e == nil || e.userStore == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	user, err := flows.RunLogin(ctx, email, plainPassword, e.loginDeps())
	if err != nil {
		return nil, err
	}

	return &Identity{
		UserID:         user.ID,
		Email:          user.Email,
		Role:           rbac.Role(user.Role),
		OrganizationID: user.OrganizationID,
		Name:           user.Name,
	}, nil
}

// Login authenticates the credentials and issues a session token. The
// returned Session is the hydrated form of the issued token, so
// Session.OrganizationID is guaranteed to round-trip the identity's value.
func (e *Engine) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	identity, err := e.Authenticate(ctx, email, plainPassword)
	if err != nil {
		return nil, err
	}

	signed, err := e.IssueSession(*identity)
	if err != nil {
		return nil, err
	}
	session, err := e.HydrateSession(signed)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		SessionToken: signed,
		Session:      session,
		Identity:     *identity,
	}, nil
}

func (e *Engine) loginDeps() flows.LoginDeps {
	return flows.LoginDeps{
		FallbackOrgID: e.config.Audit.FallbackOrganizationID,

		NormalizeEmail: emailaddr.NormalizeAndValidate,
		ClientIP: func(ctx context.Context) string {
			return RequestMetaFromContext(ctx).IPAddress
		},

		CheckEmailBudget: func(ctx context.Context, email string) bool {
			res := e.emailLimiter.Check(ctx, email)
			if res.FailedOpen {
				e.metricInc(MetricRateLimitFailOpen)
			}
			return res.Allowed
		},
		CheckIPBudget: func(ctx context.Context, ip string) bool {
			if e.ipLimiter == nil {
				return true
			}
			res := e.ipLimiter.Check(ctx, ip)
			if res.FailedOpen {
				e.metricInc(MetricRateLimitFailOpen)
			}
			return res.Allowed
		},
		RecordIPAttempt: func(ctx context.Context, ip string) {
			if e.ipLimiter != nil {
				e.ipLimiter.Record(ctx, ip)
			}
		},
		RecordEmailFail: func(ctx context.Context, email string) {
			e.emailLimiter.Record(ctx, email)
		},
		ResetEmailBudget: func(ctx context.Context, email string) {
			e.emailLimiter.Reset(ctx, email)
		},

		GetUserByEmail: e.flowUserLookup,
		IsNotFound: func(err error) bool {
			return errors.Is(err, ErrUserNotFound)
		},
		VerifyPassword: e.hasher.Verify,
		VerifyDummy:    e.hasher.VerifyDummy,
		ValidateRole: func(role string) error {
			_, err := rbac.ParseRole(role)
			return err
		},

		MetricInc: func(id int) { e.metricInc(MetricID(id)) },
		EmitAudit: e.emitAudit,

		Metrics: flows.LoginMetrics{
			Success:     int(MetricLoginSuccess),
			Failure:     int(MetricLoginFailure),
			RateLimited: int(MetricLoginRateLimited),
		},
		Errors: flows.LoginErrors{
			EngineNotReady:     ErrEngineNotReady,
			InvalidCredentials: ErrInvalidCredentials,
			RateLimited:        ErrLoginRateLimited,
			RoleInvalid:        ErrRoleInvalid,
		},
	}
}

func (e *Engine) flowUserLookup(ctx context.Context, email string) (*flows.LoginUser, error) {
	user, err := e.userStore.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &flows.LoginUser{
		ID:             user.ID,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		Role:           string(user.Role),
		OrganizationID: user.OrganizationID,
		Name:           user.Name,
	}, nil
}
