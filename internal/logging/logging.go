// Package logging sets up the structured zerolog logger and the request
// logging middleware.
package logging

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	auth "github.com/awarehub/console/internal/auth/middleware"
)

// Logger is the process-wide logger. Init must run before it is used.
var Logger zerolog.Logger

// Init configures zerolog for structured JSON output. Level is parsed from
// the given string ("debug", "info", "warn", "error"); unknown values fall
// back to info.
func Init(level, service string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// RequestLogger logs one line per request: method, route, status, duration,
// and the caller identity when a token was forwarded (unverified, for
// correlation only).
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		evt := Logger.Info()
		if status >= 500 {
			evt = Logger.Error()
		} else if status >= 400 {
			evt = Logger.Warn()
		}
		evt = evt.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration_ms", time.Since(start)).
			Int("bytes_sent", ww.BytesWritten())
		if c := auth.ClaimsFromContext(r.Context()); c.Sub != "" {
			evt = evt.Str("sub", c.Sub).Str("role", c.Role)
		}
		evt.Msg("request")
	})
}
