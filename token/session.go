package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the maximum session age.
const DefaultSessionTTL = 7 * 24 * time.Hour

// MinSecretLength is the recommended minimum signing secret length. Shorter
// secrets are rejected at construction, not at first use.
const MinSecretLength = 32

var (
	// ErrSecretMissing reports an absent or too-short signing secret. This is
	// a fatal configuration error, never a silently unsigned token.
	ErrSecretMissing = errors.New("token: signing secret missing or too short")
	// ErrTokenInvalid covers tampered, expired, or mis-signed tokens.
	ErrTokenInvalid = errors.New("token: invalid token")
	// ErrShapeInvalid reports session input missing required string fields.
	ErrShapeInvalid = errors.New("token: session shape invalid")
)

// Session is the hydrated, in-process session object. Field names follow the
// UI-facing convention (OrganizationID, not org_id); the claims layer below
// is the only place the wire convention appears.
type Session struct {
	UserID         string
	Email          string
	Role           string
	OrganizationID string
	Name           string
	IssuedAt       time.Time
	ExpiresAt      time.Time
}

// Validate guards the trust boundary between loosely-typed upstream session
// data and token minting: the required identity fields must be non-empty
// strings before the session may be treated as typed.
func (s Session) Validate() error {
	if s.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrShapeInvalid)
	}
	if s.Role == "" {
		return fmt.Errorf("%w: missing role", ErrShapeInvalid)
	}
	if s.OrganizationID == "" {
		return fmt.Errorf("%w: missing organization id", ErrShapeInvalid)
	}
	return nil
}

// SessionFromMap constructs a validated Session from a loosely-typed claim
// map, rejecting inputs whose required fields are absent or not strings.
func SessionFromMap(m map[string]any) (Session, error) {
	str := func(key string) string {
		v, _ := m[key].(string)
		return v
	}
	s := Session{
		UserID:         str("id"),
		Email:          str("email"),
		Role:           str("role"),
		OrganizationID: str("organizationId"),
		Name:           str("name"),
	}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

// sessionClaims is the wire shape of a session token. The tenant travels as
// org_id here and nowhere else.
type sessionClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	OrgID string `json:"org_id"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// SessionConfig configures the session token manager.
type SessionConfig struct {
	// Secret signs and verifies session tokens (HMAC-SHA256). Required,
	// minimum [MinSecretLength] bytes.
	Secret []byte
	// TTL is the session lifetime; defaults to [DefaultSessionTTL].
	TTL time.Duration
	// Issuer is an optional iss claim.
	Issuer string
}

// SessionManager issues and hydrates user-facing session tokens.
type SessionManager struct {
	cfg SessionConfig
}

// NewSessionManager validates the signing secret up front so a
// misconfigured deployment fails at startup rather than at first login.
func NewSessionManager(cfg SessionConfig) (*SessionManager, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrSecretMissing
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	return &SessionManager{cfg: cfg}, nil
}

// Identity is the authenticated input to session issuance.
type Identity struct {
	UserID         string
	Email          string
	Role           string
	OrganizationID string
	Name           string
}

// Issue signs a session token for id. The organization id is written under
// the API-facing claim name org_id; the claim value always equals the
// identity's OrganizationID at issuance time and is never mutated afterwards.
func (m *SessionManager) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: id.Email,
		Role:  id.Role,
		OrgID: id.OrganizationID,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}
	if m.cfg.Issuer != "" {
		claims.Issuer = m.cfg.Issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("token: sign session: %w", err)
	}
	return signed, nil
}

// Hydrate verifies tokenString and reconstructs the in-process session,
// translating org_id back to OrganizationID. Hydrate(Issue(x)) preserves
// OrganizationID, Role, and UserID exactly.
func (m *SessionManager) Hydrate(tokenString string) (Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return m.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	s := Session{
		UserID:         claims.Subject,
		Email:          claims.Email,
		Role:           claims.Role,
		OrganizationID: claims.OrgID,
		Name:           claims.Name,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}
