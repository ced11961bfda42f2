package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestSessionManager(t *testing.T) *SessionManager {
	t.Helper()

	m, err := NewSessionManager(SessionConfig{Secret: testSecret})
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return m
}

func TestSessionManagerRequiresSecret(t *testing.T) {
	if _, err := NewSessionManager(SessionConfig{}); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("err = %v, want ErrSecretMissing", err)
	}
	if _, err := NewSessionManager(SessionConfig{Secret: []byte("short")}); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("short secret: err = %v, want ErrSecretMissing", err)
	}
}

func TestIssueHydrateRoundTrip(t *testing.T) {
	m := newTestSessionManager(t)

	cases := []Identity{
		{UserID: "u-1", Email: "a@example.com", Role: "process_manager", OrganizationID: "org-123", Name: "Ada"},
		{UserID: "u-2", Email: "b@example.com", Role: "project_handler", OrganizationID: "org-456"},
		{UserID: "u-3", Email: "c@example.com", Role: "admin", OrganizationID: "org-789", Name: "Grace"},
	}
	for _, id := range cases {
		signed, err := m.Issue(id)
		if err != nil {
			t.Fatalf("Issue(%+v) failed: %v", id, err)
		}

		s, err := m.Hydrate(signed)
		if err != nil {
			t.Fatalf("Hydrate failed: %v", err)
		}
		if s.OrganizationID != id.OrganizationID {
			t.Errorf("OrganizationID = %q, want %q", s.OrganizationID, id.OrganizationID)
		}
		if s.Role != id.Role {
			t.Errorf("Role = %q, want %q", s.Role, id.Role)
		}
		if s.UserID != id.UserID {
			t.Errorf("UserID = %q, want %q", s.UserID, id.UserID)
		}
	}
}

// The wire payload must carry the tenant under org_id, not the in-process
// field name.
func TestWireClaimUsesAPIFieldName(t *testing.T) {
	m := newTestSessionManager(t)

	signed, err := m.Issue(Identity{UserID: "u-1", Role: "admin", OrganizationID: "org-123"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}
	if raw["org_id"] != "org-123" {
		t.Errorf("org_id = %v, want org-123", raw["org_id"])
	}
	if _, leaked := raw["organizationId"]; leaked {
		t.Error("payload leaks the in-process field name organizationId")
	}
	if raw["sub"] != "u-1" {
		t.Errorf("sub = %v, want u-1", raw["sub"])
	}
	for _, claim := range []string{"iat", "exp"} {
		if _, ok := raw[claim]; !ok {
			t.Errorf("payload missing %s", claim)
		}
	}
}

func TestSessionLifetimeDefaultsToSevenDays(t *testing.T) {
	m := newTestSessionManager(t)

	signed, err := m.Issue(Identity{UserID: "u-1", Role: "admin", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	s, err := m.Hydrate(signed)
	if err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}

	lifetime := s.ExpiresAt.Sub(s.IssuedAt)
	if lifetime != DefaultSessionTTL {
		t.Fatalf("lifetime = %v, want %v", lifetime, DefaultSessionTTL)
	}
}

func TestHydrateRejectsTamperedToken(t *testing.T) {
	m := newTestSessionManager(t)

	signed, err := m.Issue(Identity{UserID: "u-1", Role: "admin", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tampered := signed[:len(signed)-2] + "xx"
	if _, err := m.Hydrate(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("tampered token: err = %v, want ErrTokenInvalid", err)
	}
}

func TestHydrateRejectsForeignSecret(t *testing.T) {
	m := newTestSessionManager(t)
	other, err := NewSessionManager(SessionConfig{Secret: []byte("ffffffffffffffffffffffffffffffff")})
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	signed, err := other.Issue(Identity{UserID: "u-1", Role: "admin", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := m.Hydrate(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("foreign-secret token: err = %v, want ErrTokenInvalid", err)
	}
}

func TestHydrateRejectsExpiredToken(t *testing.T) {
	short, err := NewSessionManager(SessionConfig{Secret: testSecret, TTL: time.Millisecond})
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	signed, err := short.Issue(Identity{UserID: "u-1", Role: "admin", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := short.Hydrate(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expired token: err = %v, want ErrTokenInvalid", err)
	}
}

func TestSessionValidate(t *testing.T) {
	valid := Session{UserID: "u-1", Role: "admin", OrganizationID: "org-1"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}

	cases := []Session{
		{Role: "admin", OrganizationID: "org-1"},
		{UserID: "u-1", OrganizationID: "org-1"},
		{UserID: "u-1", Role: "admin"},
	}
	for _, s := range cases {
		if err := s.Validate(); !errors.Is(err, ErrShapeInvalid) {
			t.Errorf("Validate(%+v) = %v, want ErrShapeInvalid", s, err)
		}
	}
}

func TestSessionFromMap(t *testing.T) {
	s, err := SessionFromMap(map[string]any{
		"id":             "u-1",
		"email":          "a@example.com",
		"role":           "admin",
		"organizationId": "org-1",
		"name":           "Ada",
	})
	if err != nil {
		t.Fatalf("SessionFromMap failed: %v", err)
	}
	if s.OrganizationID != "org-1" || s.UserID != "u-1" {
		t.Fatalf("unexpected session %+v", s)
	}

	bad := []map[string]any{
		{"role": "admin", "organizationId": "org-1"},
		{"id": "u-1", "role": 42, "organizationId": "org-1"},
		{"id": "u-1", "role": "admin", "organizationId": nil},
	}
	for _, m := range bad {
		if _, err := SessionFromMap(m); !errors.Is(err, ErrShapeInvalid) {
			t.Errorf("SessionFromMap(%v) = %v, want ErrShapeInvalid", m, err)
		}
	}
}
