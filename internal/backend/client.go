// Package backend is the HTTP client for the remote platform backend. The
// console owns no data of its own; every durable entity lives behind this
// client. Credentials are injected, never read from ambient state: a client
// carries an optional service-level token source, and any request can
// override it with a caller credential via WithToken.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type Client struct {
	base   string
	http   *http.Client
	tokens oauth2.TokenSource
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Tokens supplies the service credential. Leave nil when every call
	// carries a caller credential through WithToken.
	Tokens oauth2.TokenSource
}

func New(cfg Config) *Client {
	h := &http.Client{}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{
		base:   strings.TrimSuffix(cfg.BaseURL, "/"),
		http:   h,
		tokens: cfg.Tokens,
	}
}

// ServiceTokens builds a client-credentials token source for
// service-to-service use of the backend.
func ServiceTokens(tokenURL, clientID, clientSecret string) oauth2.TokenSource {
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return cc.TokenSource(context.Background())
}

type ctxTokenKey struct{}

// WithToken attaches a caller credential to the context. It takes precedence
// over the client's own token source for requests made with that context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext returns the caller credential attached by WithToken.
func TokenFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxTokenKey{}).(string)
	return s
}

// do issues one request and decodes the response body. The decoded payload is
// returned as-is (map or array) for the normalizer; this layer makes no
// assumptions about response shape. An absent credential is forwarded as an
// absent header: rejecting unauthenticated calls is the backend's job.
func (c *Client) do(ctx context.Context, method, path string, body any) (any, error) {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json; charset=utf-8")

	if tok := TokenFromContext(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	} else if c.tokens != nil {
		t, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("credential: %w", err)
		}
		t.SetAuthHeader(req)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var payload any
	// some endpoints (DELETE, vote) return an empty body on success
	_ = json.NewDecoder(res.Body).Decode(&payload)

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.StatusCode/100 != 2 {
		return nil, apiError(res.StatusCode, payload)
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string) (any, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}
