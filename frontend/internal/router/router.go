package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	frontend_mw "github.com/repospector/repospector/frontend/internal/middleware"
	"github.com/repospector/repospector/frontend/internal/setup"
	mw "github.com/repospector/repospector/shared/middleware"
	"github.com/repospector/repospector/shared/middleware/metrics"
	rl "github.com/repospector/repospector/shared/middleware/ratelimiter"
)

func SetupRouter(deps *setup.Dependencies) *chi.Mux {
	h := deps.Handler
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(deps.Public.SecureCookies, mw.PageContentSecurityPolicy))
	r.Use(frontend_mw.GenerateCSRFToken(frontend_mw.CSRFConfig{SecureCookies: deps.Public.SecureCookies}))
	r.Use(frontend_mw.ValidateCSRFToken())

	r.With(deps.Auth.AdminOnly()).Handle("/metrics", metrics.Handler())

	r.Get("/login", h.LoginGetHandler)
	r.With(mw.RateLimit(rl.OnceInSecond(), mw.GetIP)).Post("/login", h.LoginPostHandler)
	r.Post("/logout", h.LogoutHandler)

	r.Get("/forgot-password", h.ForgotPasswordGetHandler)
	r.With(
		mw.RateLimit(rl.New(1.0/60, 3, time.Hour), mw.GetFieldFromForm("email")),
		mw.RateLimit(rl.New(1.0/10, 5, time.Hour), mw.GetIP),
	).Post("/forgot-password", h.ForgotPasswordPostHandler)

	r.Get("/reset-password", h.ResetPasswordGetHandler)
	r.With(mw.RateLimit(rl.New(5.0/600, 5, time.Hour), mw.GetIP)).Post("/reset-password", h.ResetPasswordPostHandler)

	r.Group(func(auth chi.Router) {
		auth.Use(deps.Auth.NeedAuth())

		auth.Get("/", h.DashboardGetHandler)
		auth.Get("/inspection/{id}", h.InspectionGetHandler)
		auth.Get("/inspection/{id}/download", h.InspectionDownloadHandler)
		auth.Get("/inspection/{id}/delete", h.InspectionDeleteGetHandler)
		auth.Post("/inspection/{id}/delete", h.InspectionDeletePostHandler)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	return r
}
