package flows

import (
	"context"
	"log"

	"github.com/procflowhq/authcore/internal/audit"
)

// Terminal redirect codes surfaced to the sign-in error page as query
// parameter values. oauth_database_error is kept distinct from oauth_error
// so the UI can suggest retrying shortly instead of checking credentials.
const (
	CodeNoEmail       = "oauth_no_email"
	CodeInvalidEmail  = "oauth_invalid_email"
	CodeUserNotFound  = "oauth_user_not_found"
	CodeDatabaseError = "oauth_database_error"
	CodeError         = "oauth_error"
)

// OAuthProfile is the flow-local provider profile.
type OAuthProfile struct {
	Provider string
	Email    string
	Name     string
}

// OAuthOutcome is the terminal state of one callback invocation.
type OAuthOutcome struct {
	Allowed      bool
	RedirectCode string
	User         *LoginUser
}

// OAuthMetrics carries the metric IDs the OAuth flow increments.
type OAuthMetrics struct {
	Success  int
	Rejected int
	Error    int
}

// OAuthDeps captures the OAuth reconciliation dependencies.
type OAuthDeps struct {
	FallbackOrgID string

	ValidateEmail  func(string) (string, error)
	GetUserByEmail func(ctx context.Context, email string) (*LoginUser, error)
	IsNotFound     func(error) bool
	UpdateUserName func(ctx context.Context, userID, name string) error
	ValidateRole   func(string) error

	MetricInc func(int)
	EmitAudit func(ctx context.Context, event audit.Event)

	Metrics OAuthMetrics
}

// RunOAuthCallback reconciles a provider profile against the known accounts.
// Every return is a terminal state; the function never panics on provider
// input. Credentials-provider callbacks must not reach this flow.
func RunOAuthCallback(ctx context.Context, profile OAuthProfile, deps OAuthDeps) OAuthOutcome {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, audit.Event) {}
	}
	if deps.ValidateEmail == nil || deps.GetUserByEmail == nil || deps.IsNotFound == nil {
		deps.MetricInc(deps.Metrics.Error)
		return OAuthOutcome{RedirectCode: CodeError}
	}

	// No email in the provider profile: terminal, and no store lookup may
	// happen.
	if profile.Email == "" {
		deps.MetricInc(deps.Metrics.Rejected)
		return OAuthOutcome{RedirectCode: CodeNoEmail}
	}

	email, err := deps.ValidateEmail(profile.Email)
	if err != nil {
		deps.MetricInc(deps.Metrics.Rejected)
		return OAuthOutcome{RedirectCode: CodeInvalidEmail}
	}

	user, err := deps.GetUserByEmail(ctx, email)
	if err != nil {
		if deps.IsNotFound(err) {
			deps.MetricInc(deps.Metrics.Rejected)
			event := audit.NewEvent(deps.FallbackOrgID, nil, audit.ActionLoginFailed)
			event.Metadata = map[string]any{
				"authMethod": "oauth",
				"provider":   profile.Provider,
				"reason":     CodeUserNotFound,
			}
			deps.EmitAudit(ctx, event)
			return OAuthOutcome{RedirectCode: CodeUserNotFound}
		}
		deps.MetricInc(deps.Metrics.Error)
		return OAuthOutcome{RedirectCode: CodeDatabaseError}
	}
	if user == nil {
		deps.MetricInc(deps.Metrics.Error)
		return OAuthOutcome{RedirectCode: CodeError}
	}

	if deps.ValidateRole != nil {
		if err := deps.ValidateRole(user.Role); err != nil {
			// Configuration fault on an existing account. The callback has no
			// error channel besides its redirect code, so log loudly here.
			log.Printf("authcore: oauth callback hit invalid persisted role for user %s: %v", user.ID, err)
			deps.MetricInc(deps.Metrics.Error)
			return OAuthOutcome{RedirectCode: CodeError}
		}
	}

	metadata := map[string]any{
		"authMethod": "oauth",
		"provider":   profile.Provider,
	}

	// Persist provider-side display name drift. When the name is unchanged
	// the audit diff is omitted entirely; a false diff is worse than none.
	if profile.Name != "" && profile.Name != user.Name {
		if deps.UpdateUserName == nil {
			deps.MetricInc(deps.Metrics.Error)
			return OAuthOutcome{RedirectCode: CodeError}
		}
		if err := deps.UpdateUserName(ctx, user.ID, profile.Name); err != nil {
			deps.MetricInc(deps.Metrics.Error)
			return OAuthOutcome{RedirectCode: CodeDatabaseError}
		}
		metadata["profileUpdated"] = true
		metadata["changes"] = map[string]any{
			"name": map[string]any{"from": user.Name, "to": profile.Name},
		}
		user.Name = profile.Name
	}

	deps.MetricInc(deps.Metrics.Success)
	event := audit.NewEvent(user.OrganizationID, &user.ID, audit.ActionLoginSuccess)
	event.Metadata = metadata
	deps.EmitAudit(ctx, event)

	return OAuthOutcome{Allowed: true, User: user}
}
