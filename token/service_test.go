package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

var serviceSecret = []byte("fedcba9876543210fedcba9876543210")

func newTestServiceManager(t *testing.T) *ServiceManager {
	t.Helper()

	m, err := NewServiceManager(ServiceConfig{Secret: serviceSecret})
	if err != nil {
		t.Fatalf("NewServiceManager failed: %v", err)
	}
	return m
}

func TestServiceManagerRequiresDistinctSecretConfigured(t *testing.T) {
	if _, err := NewServiceManager(ServiceConfig{}); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("err = %v, want ErrSecretMissing", err)
	}
}

func TestMintCarriesSessionOrganization(t *testing.T) {
	m := newTestServiceManager(t)

	for _, org := range []string{"org-a", "org-b", "org-123"} {
		signed, err := m.Mint(Session{
			UserID:         "u-1",
			Email:          "a@example.com",
			Role:           "process_manager",
			OrganizationID: org,
		})
		if err != nil {
			t.Fatalf("Mint failed: %v", err)
		}

		s, _, err := m.Decode(signed)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if s.OrganizationID != org {
			t.Fatalf("org_id decoded to %q, want %q", s.OrganizationID, org)
		}
	}
}

func TestMintFixedClaimSet(t *testing.T) {
	m := newTestServiceManager(t)

	signed, err := m.Mint(Session{
		UserID:         "u-1",
		Role:           "admin",
		OrganizationID: "org-1",
		// Email and Name intentionally absent.
	})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	parts := strings.Split(signed, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}

	// email is coerced to "" and never omitted; name is null, not dropped.
	email, present := raw["email"]
	if !present {
		t.Fatal("email claim omitted; must be present as empty string")
	}
	if email != "" {
		t.Fatalf("email = %v, want empty string", email)
	}
	name, present := raw["name"]
	if !present {
		t.Fatal("name claim omitted; must be present as null")
	}
	if name != nil {
		t.Fatalf("name = %v, want null", name)
	}
	for _, claim := range []string{"sub", "role", "org_id", "iat", "exp"} {
		if _, ok := raw[claim]; !ok {
			t.Errorf("payload missing %s", claim)
		}
	}
}

func TestMintExpiryIsThirtyMinutes(t *testing.T) {
	m := newTestServiceManager(t)

	signed, err := m.Mint(Session{UserID: "u-1", Role: "admin", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	s, _, err := m.Decode(signed)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := s.ExpiresAt.Sub(s.IssuedAt); got != DefaultServiceTTL {
		t.Fatalf("expiry - issued = %v, want %v", got, DefaultServiceTTL)
	}
}

func TestMintRejectsMalformedSessions(t *testing.T) {
	m := newTestServiceManager(t)

	cases := []Session{
		{Role: "admin", OrganizationID: "org-1"},
		{UserID: "u-1", OrganizationID: "org-1"},
		{UserID: "u-1", Role: "admin"},
		{},
	}
	for _, s := range cases {
		if _, err := m.Mint(s); !errors.Is(err, ErrShapeInvalid) {
			t.Errorf("Mint(%+v) = %v, want ErrShapeInvalid", s, err)
		}
	}
}

func TestMintNamePassedThrough(t *testing.T) {
	m := newTestServiceManager(t)

	signed, err := m.Mint(Session{
		UserID:         "u-1",
		Role:           "admin",
		OrganizationID: "org-1",
		Name:           "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	_, name, err := m.Decode(signed)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if name == nil || *name != "Ada Lovelace" {
		t.Fatalf("name = %v, want Ada Lovelace", name)
	}
}

func TestServiceTokenNotValidForSessionManager(t *testing.T) {
	// The two minters sign with independent secrets; a service token must
	// never hydrate as a session.
	sm := newTestSessionManager(t)
	svc := newTestServiceManager(t)

	signed, err := svc.Mint(Session{UserID: "u-1", Role: "admin", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if _, err := sm.Hydrate(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("cross-secret hydrate: err = %v, want ErrTokenInvalid", err)
	}
}

func TestDecodeRejectsExpiredServiceToken(t *testing.T) {
	m, err := NewServiceManager(ServiceConfig{Secret: serviceSecret, TTL: time.Millisecond})
	if err != nil {
		t.Fatalf("NewServiceManager failed: %v", err)
	}
	signed, err := m.Mint(Session{UserID: "u-1", Role: "admin", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, _, err := m.Decode(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expired token: err = %v, want ErrTokenInvalid", err)
	}
}
