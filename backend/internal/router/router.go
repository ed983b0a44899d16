package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/repospector/repospector/backend/internal/handler"
	"github.com/repospector/repospector/shared/config"
	mw "github.com/repospector/repospector/shared/middleware"
	"github.com/repospector/repospector/shared/middleware/metrics"
	rl "github.com/repospector/repospector/shared/middleware/ratelimiter"
)

// New builds the API router.
// Limiters attached with Use count requests for every route in that group combined.
func New(h *handler.Handler, auth *mw.Auth, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeadersWithCSP(cfg.Public.SecureCookies, mw.APIContentSecurityPolicy))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.With(auth.AdminOnly()).Handle("/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		// every request here may send an email, so it is limited per recipient and per client
		api.Group(func(g chi.Router) {
			g.Use(mw.RateLimit(rl.New(1.0/60, 3, time.Hour), mw.GetEmailFromBody))
			g.Use(mw.RateLimit(rl.New(1.0/10, 5, time.Hour), mw.GetIP))
			g.Use(mw.GlobalRateLimit(rl.Rps100()))
			g.Post("/forgot-password", h.ForgotPassword)
		})

		api.Group(func(g chi.Router) {
			g.Use(mw.RateLimit(rl.New(5.0/600, 5, time.Hour), mw.GetIP))
			g.Post("/reset-password", h.ResetPassword)
		})

		api.Group(func(g chi.Router) {
			g.Use(mw.RateLimit(rl.OnceInSecond(), mw.GetIP))
			g.Post("/login", h.Login)
		})

		api.Post("/logout", h.Logout)

		api.Group(func(g chi.Router) {
			g.Use(auth.NeedAuth())
			g.Use(mw.RateLimit(rl.Rps100(), mw.GetUserIDFromContext))

			g.Get("/info", h.Info)
			g.Get("/inspections", h.ListInspections)
			g.Post("/inspections", h.CreateInspection)
			g.Get("/inspections/{id}", h.GetInspection)
			g.Put("/inspections/{id}", h.UpdateInspection)
			g.Delete("/inspections/{id}", h.DeleteInspection)
		})
	})

	return r
}

// Server wraps the router with the timeouts used in production.
func Server(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
