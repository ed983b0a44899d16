package setup

import (
	"fmt"

	"github.com/repospector/repospector/frontend/internal/apiclient"
	"github.com/repospector/repospector/frontend/internal/handler"
	"github.com/repospector/repospector/frontend/internal/markdown"
	"github.com/repospector/repospector/frontend/internal/middleware"
	"github.com/repospector/repospector/frontend/templates"
	"github.com/repospector/repospector/shared/config"
	"github.com/repospector/repospector/shared/jwt"
	mw "github.com/repospector/repospector/shared/middleware"
)

const defaultAPIBaseURL = "http://api:8080/api"

type Dependencies struct {
	Handler *handler.Handler
	Auth    *middleware.Auth
	Public  config.Public
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	tmpls, err := handler.LoadTemplates(templates.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	baseURL := cfg.Public.APIBaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}

	h := handler.New(tmpls, cfg.Public, markdown.New(), apiclient.New(baseURL))

	// sessions are checked locally before any backend call
	jwtSvc := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	auth := middleware.NewAuth(mw.NewAuth(jwtSvc, cfg.Public.SecureCookies), cfg.Public.SecureCookies)

	return &Dependencies{
		Handler: h,
		Auth:    auth,
		Public:  cfg.Public,
	}, nil
}
