package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultServiceTTL is the backend service token lifetime.
const DefaultServiceTTL = 30 * time.Minute

// serviceClaims is the fixed claim set of a backend service token. Email is
// never omitted: a missing email is coerced to the empty string. Name is
// nullable and passed through as-is.
type serviceClaims struct {
	Email string  `json:"email"`
	Role  string  `json:"role"`
	OrgID string  `json:"org_id"`
	Name  *string `json:"name"`
	jwt.RegisteredClaims
}

// ServiceConfig configures the backend service token minter.
type ServiceConfig struct {
	// Secret signs service tokens. It must be distinct from the session
	// secret and is required; absence is fatal at construction.
	Secret []byte
	// TTL defaults to [DefaultServiceTTL].
	TTL time.Duration
	// Audience is an optional aud claim identifying the internal API.
	Audience string
}

// ServiceManager mints short-lived, independently-signed tokens for
// server-to-server calls into the internal API.
type ServiceManager struct {
	cfg ServiceConfig
}

// NewServiceManager fails loudly on a missing or short secret; a silent
// empty-signature token must be impossible.
func NewServiceManager(cfg ServiceConfig) (*ServiceManager, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrSecretMissing
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultServiceTTL
	}
	return &ServiceManager{cfg: cfg}, nil
}

// Mint produces a service token from an already-hydrated session. The
// session shape is validated first; loosely-typed upstream data never
// reaches the signer. The organization travels under org_id and always
// equals the session's OrganizationID.
func (m *ServiceManager) Mint(s Session) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	now := time.Now()
	claims := serviceClaims{
		Email: s.Email, // zero value is the required empty-string coercion
		Role:  s.Role,
		OrgID: s.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}
	if s.Name != "" {
		name := s.Name
		claims.Name = &name
	}
	if m.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("token: sign service token: %w", err)
	}
	return signed, nil
}

// Decode verifies a service token and returns its claims as a Session plus
// the name pointer as carried on the wire. Intended for the internal API and
// for tests; the web layer never decodes service tokens.
func (m *ServiceManager) Decode(tokenString string) (Session, *string, error) {
	var claims serviceClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return m.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Session{}, nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	s := Session{
		UserID:         claims.Subject,
		Email:          claims.Email,
		Role:           claims.Role,
		OrganizationID: claims.OrgID,
	}
	if claims.Name != nil {
		s.Name = *claims.Name
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, claims.Name, nil
}
