// Package auth carries the caller's bearer credential through the console.
// The console does not authenticate anyone: the credential is taken off the
// incoming request, attached to the context, and forwarded verbatim to the
// backend, which alone decides whether it is acceptable. Requests without a
// credential pass through the same way; the backend rejects them.
package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/awarehub/console/internal/backend"
)

// Claims is the identity read off the forwarded token, unverified. Log
// enrichment only; nothing here grants access to anything.
type Claims struct {
	Sub  string
	Name string
	Role string
}

// Middleware extracts the bearer token, stores it for the backend client,
// and parses its claims without verifying the signature; verification is
// the backend's job and the console holds no key material.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		tok := strings.TrimPrefix(h, "Bearer ")
		ctx := backend.WithToken(r.Context(), tok)
		if c := parseUnverified(tok); c != nil {
			ctx = withClaims(ctx, *c)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseUnverified(tok string) *Claims {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, mc); err != nil {
		return nil
	}
	c := Claims{}
	if s, ok := mc["sub"].(string); ok {
		c.Sub = s
	}
	if s, ok := mc["name"].(string); ok {
		c.Name = s
	}
	if s, ok := mc["role"].(string); ok {
		c.Role = s
	}
	return &c
}
