package authcore

import (
	"context"
	"errors"

	"github.com/procflowhq/authcore/internal/emailaddr"
	"github.com/procflowhq/authcore/internal/flows"
	"github.com/procflowhq/authcore/rbac"
)

// Redirect codes surfaced as query parameter values on the sign-in error
// page.
const (
	OAuthCodeNoEmail       = flows.CodeNoEmail
	OAuthCodeInvalidEmail  = flows.CodeInvalidEmail
	OAuthCodeUserNotFound  = flows.CodeUserNotFound
	OAuthCodeDatabaseError = flows.CodeDatabaseError
	OAuthCodeError         = flows.CodeError
)

// OAuthCallback reconciles an external provider profile against the known
// accounts and decides whether sign-in proceeds. Every result is terminal:
// rejected callbacks carry a redirect code, successful ones the reconciled
// identity. Credential logins never pass through here; they are authorized
// and audited by [Engine.Authenticate].
func (e *Engine) OAuthCallback(ctx context.Context, profile OAuthProfile) OAuthOutcome {
	if e == nil || e.userStore == nil {
		return OAuthOutcome{RedirectCode: OAuthCodeError}
	}

	out := flows.RunOAuthCallback(ctx, flows.OAuthProfile{
		Provider: profile.Provider,
		Email:    profile.Email,
		Name:     profile.Name,
	}, e.oauthDeps())

	outcome := OAuthOutcome{
		Allowed:      out.Allowed,
		RedirectCode: out.RedirectCode,
	}
	if out.User != nil {
		outcome.Identity = &Identity{
			UserID:         out.User.ID,
			Email:          out.User.Email,
			Role:           rbac.Role(out.User.Role),
			OrganizationID: out.User.OrganizationID,
			Name:           out.User.Name,
		}
	}
	return outcome
}

func (e *Engine) oauthDeps() flows.OAuthDeps {
	return flows.OAuthDeps{
		FallbackOrgID: e.config.Audit.FallbackOrganizationID,

		ValidateEmail:  emailaddr.NormalizeAndValidate,
		GetUserByEmail: e.flowUserLookup,
		IsNotFound: func(err error) bool {
			return errors.Is(err, ErrUserNotFound)
		},
		UpdateUserName: e.userStore.UpdateUserName,
		ValidateRole: func(role string) error {
			_, err := rbac.ParseRole(role)
			return err
		},

		MetricInc: func(id int) { e.metricInc(MetricID(id)) },
		EmitAudit: e.emitAudit,

		Metrics: flows.OAuthMetrics{
			Success:  int(MetricOAuthSuccess),
			Rejected: int(MetricOAuthRejected),
			Error:    int(MetricOAuthError),
		},
	}
}
