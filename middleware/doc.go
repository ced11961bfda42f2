// Package middleware provides net/http adapters around the authcore engine:
// request-meta capture at the edge of request handling and a bearer-token
// session guard.
package middleware
