package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/awarehub/console/internal/api/http"
	auth "github.com/awarehub/console/internal/auth/middleware"
	"github.com/awarehub/console/internal/backend"
	"github.com/awarehub/console/internal/config"
	"github.com/awarehub/console/internal/logging"
	"github.com/awarehub/console/internal/metrics"
	"github.com/awarehub/console/internal/poll"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logging.Init(cfg.LogLevel, "console")
	metrics.Init()

	// --- Backend client ---
	bcfg := backend.Config{
		BaseURL: cfg.BackendBaseURL,
		Timeout: cfg.BackendTimeout,
	}
	if cfg.BackendTokenURL != "" {
		bcfg.Tokens = backend.ServiceTokens(cfg.BackendTokenURL, cfg.BackendClientID, cfg.BackendClientSecret)
	}
	client := backend.New(bcfg)
	polls := poll.New(client, nil)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(auth.Middleware)
	r.Use(logging.RequestLogger)
	r.Use(metrics.Middleware)

	api.Mount(r, client, client, polls, time.Now)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Handle("/metrics", metrics.Handler())

	logging.Logger.Info().
		Str("addr", cfg.HTTPAddr).
		Str("backend", cfg.BackendBaseURL).
		Msg("listening")
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logging.Logger.Fatal().Err(err).Msg("server exited")
	}
}
