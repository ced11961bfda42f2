package authcore

import (
	"errors"

	"github.com/procflowhq/authcore/internal/emailaddr"
	"github.com/procflowhq/authcore/internal/rate"
	"github.com/procflowhq/authcore/token"
)

var (
	// ErrInvalidCredentials covers every expected credential rejection:
	// unknown email, wrong password. Callers must present it as a generic
	// failure and never reveal which check rejected the attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRateLimited is returned when the email or IP counter is over
	// its threshold.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrUserNotFound is the sentinel user stores return for unknown emails.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidEmail is returned for emails that fail normalization.
	ErrInvalidEmail = emailaddr.ErrInvalid
	// ErrRoleInvalid reports a persisted role outside the fixed enum. This is
	// a configuration error and is intentionally loud: it must never be
	// folded into a failed login.
	ErrRoleInvalid = errors.New("persisted role outside the fixed role enum")
	// ErrSigningSecretMissing reports a missing or too-short signing secret.
	ErrSigningSecretMissing = token.ErrSecretMissing
	// ErrSessionShapeInvalid reports session-like input missing required
	// id/role/organization fields at the minting trust boundary.
	ErrSessionShapeInvalid = token.ErrShapeInvalid
	// ErrTokenInvalid covers tampered, expired, or mis-signed tokens.
	ErrTokenInvalid = token.ErrTokenInvalid
	// ErrEngineNotReady is returned by Engine methods before Build wired all
	// required collaborators.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrRedisUnavailable wraps Redis transport failures. Inside the rate
	// limiter it never escapes to login callers; the limiter absorbs it
	// according to the fail-open policy. [Engine.Ready] surfaces it directly.
	ErrRedisUnavailable = rate.ErrRedisUnavailable
)
