package middleware

import (
	"net/http"

	authcore "github.com/procflowhq/authcore"
)

// RequestMeta establishes the audit context scope for each request: the
// client IP (first X-Forwarded-For entry, then X-Real-IP, then the socket
// address) and user-agent are captured once here, before any
// authentication or audit step runs, and ride the request context through
// every downstream call, including async continuations such as OAuth
// provider round trips.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := authcore.WithRequestMeta(r.Context(), authcore.RequestMetaFromHTTP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
