package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	// Remote platform backend
	BackendBaseURL string
	BackendTimeout time.Duration

	// Optional service credential (client-credentials). When unset, every
	// backend call relies on the caller's forwarded bearer token.
	BackendTokenURL     string
	BackendClientID     string
	BackendClientSecret string

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:            envOr("HTTP_ADDR", ":8080"),
		LogLevel:            envOr("LOG_LEVEL", "info"),
		BackendBaseURL:      envOr("BACKEND_URL", "http://localhost:4005"),
		BackendTimeout:      envDuration("BACKEND_TIMEOUT", 15*time.Second),
		BackendTokenURL:     os.Getenv("BACKEND_TOKEN_URL"),
		BackendClientID:     os.Getenv("BACKEND_CLIENT_ID"),
		BackendClientSecret: os.Getenv("BACKEND_CLIENT_SECRET"),
		CORSOrigins:         csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
