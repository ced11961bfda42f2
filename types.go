package authcore

import (
	"context"

	"github.com/procflowhq/authcore/rbac"
)

// User is the account record returned by [UserStore]. PasswordHash is empty
// for accounts provisioned through an OAuth provider only.
type User struct {
	ID             string
	Email          string
	PasswordHash   string
	Role           rbac.Role
	OrganizationID string
	Name           string
}

// Organization is the tenancy boundary for authorization and audit scoping.
type Organization struct {
	ID   string
	Name string
	Tier string
}

// Identity is an authenticated user as seen by the session layer. It is the
// input to session issuance and carries the organization under its in-process
// field name; the token subpackage owns the translation to the wire name.
type Identity struct {
	UserID         string
	Email          string
	Role           rbac.Role
	OrganizationID string
	Name           string
}

// OAuthProfile is the provider-supplied profile delivered to the OAuth
// callback. Email may be empty when the provider withholds it.
type OAuthProfile struct {
	Provider string
	Email    string
	Name     string
}

// OAuthOutcome is the terminal state of one OAuth callback. Allowed is true
// only for the success state, in which case Identity carries the reconciled
// account; otherwise RedirectCode carries one of the oauth_* codes for the
// sign-in error page.
type OAuthOutcome struct {
	Allowed      bool
	RedirectCode string
	Identity     *Identity
}

// UserStore is the interface callers implement to integrate authcore with
// their user database. Lookups for unknown emails must return
// [ErrUserNotFound]; any other error is treated as an infrastructure
// failure, which the OAuth flow surfaces as a retryable redirect code.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUserName(ctx context.Context, userID, name string) error
}
