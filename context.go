package authcore

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// RequestMeta is the request-scoped audit context: the client IP and
// user-agent captured once at the edge of request handling. It rides the
// context.Context of the request, Go's task-local storage, so an audit event
// emitted deep inside an asynchronous continuation still carries the
// originating request's values while concurrent requests stay isolated.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type requestMetaContextKey struct{}

// WithRequestMeta establishes a request-meta scope on ctx. Nested scopes
// shadow outer ones; callers holding the outer ctx keep the outer values.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaContextKey{}, meta)
}

// RequestMetaFromContext reads the current scope's values. Outside any scope
// it returns the zero RequestMeta rather than failing.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if ctx == nil {
		return RequestMeta{}
	}
	meta, _ := ctx.Value(requestMetaContextKey{}).(RequestMeta)
	return meta
}

// RequestMetaFromHTTP extracts the client IP and user-agent from an inbound
// request. The IP comes from the first entry of the X-Forwarded-For chain
// (never a later entry, which a client can spoof by injecting proxy hops),
// then from X-Real-IP, then from the socket address.
func RequestMetaFromHTTP(r *http.Request) RequestMeta {
	if r == nil {
		return RequestMeta{}
	}
	return RequestMeta{
		IPAddress: clientIPFromRequest(r),
		UserAgent: r.Header.Get("User-Agent"),
	}
}

func clientIPFromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
