package middleware

import (
	"context"
	"net/http"
	"strings"

	authcore "github.com/procflowhq/authcore"
	"github.com/procflowhq/authcore/rbac"
	"github.com/procflowhq/authcore/token"
)

type sessionContextKey struct{}

// SessionFromContext returns the session attached by [Guard].
func SessionFromContext(ctx context.Context) (token.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(token.Session)
	return s, ok
}

// Guard rejects requests without a valid bearer session token and attaches
// the hydrated session to the request context. Optional allowed roles
// restrict the route; admin always passes.
func Guard(engine *authcore.Engine, allowed ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			session, err := engine.HydrateSession(raw)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if len(allowed) > 0 && !rbac.HasRole(rbac.Role(session.Role), allowed...) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	raw := value[len(bearer):]
	if raw == "" {
		return "", false
	}

	return raw, true
}
