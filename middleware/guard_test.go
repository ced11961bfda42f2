package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authcore "github.com/procflowhq/authcore"
	"github.com/procflowhq/authcore/rbac"
)

type staticStore struct{}

func (staticStore) GetUserByEmail(context.Context, string) (*authcore.User, error) {
	return nil, authcore.ErrUserNotFound
}

func (staticStore) UpdateUserName(context.Context, string, string) error { return nil }

func newGuardEngine(t *testing.T) *authcore.Engine {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	base := authcore.Config{
		Session: authcore.SessionConfig{
			SigningSecret: []byte("guard-session-secret-0123456789abcdef"),
		},
		ServiceToken: authcore.ServiceTokenConfig{
			SigningSecret: []byte("guard-service-secret-0123456789abcdef"),
		},
		RateLimit: authcore.RateLimitConfig{
			EmailThreshold: 5,
			EmailWindow:    time.Minute,
		},
	}

	engine, err := authcore.New().WithConfig(base).WithRedis(client).WithUserStore(staticStore{}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func issueToken(t *testing.T, engine *authcore.Engine, role rbac.Role) string {
	t.Helper()
	signed, err := engine.IssueSession(authcore.Identity{
		UserID:         "u-1",
		Email:          "user@example.com",
		Role:           role,
		OrganizationID: "org-123",
	})
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}
	return signed
}

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-Org", session.OrganizationID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardRejectsMissingToken(t *testing.T) {
	engine := newGuardEngine(t)
	handler := Guard(engine)(echoSession())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGuardRejectsGarbageToken(t *testing.T) {
	engine := newGuardEngine(t)
	handler := Guard(engine)(echoSession())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGuardAttachesSession(t *testing.T) {
	engine := newGuardEngine(t)
	handler := Guard(engine)(echoSession())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, engine, rbac.RoleProjectHandler))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Org") != "org-123" {
		t.Fatalf("org = %q", rec.Header().Get("X-Org"))
	}
}

func TestGuardEnforcesRoles(t *testing.T) {
	engine := newGuardEngine(t)
	handler := Guard(engine, rbac.RoleProcessManager)(echoSession())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, engine, rbac.RoleProjectHandler))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}

	// Admin passes every role restriction.
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, engine, rbac.RoleAdmin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d", rec.Code)
	}
}

func TestRequestMetaMiddleware(t *testing.T) {
	var got authcore.RequestMeta
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = authcore.RequestMetaFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.195, 10.0.0.1")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	RequestMeta(inner).ServeHTTP(httptest.NewRecorder(), req)

	if got.IPAddress != "203.0.113.195" {
		t.Fatalf("ip = %q", got.IPAddress)
	}
	if got.UserAgent != "Mozilla/5.0" {
		t.Fatalf("user agent = %q", got.UserAgent)
	}
}
