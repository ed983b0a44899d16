package setup

import (
	"context"
	"fmt"

	"github.com/repospector/repospector/backend/internal/handler"
	"github.com/repospector/repospector/backend/internal/service"
	"github.com/repospector/repospector/backend/internal/storage/pg"
	"github.com/repospector/repospector/backend/internal/utils/email"
	"github.com/repospector/repospector/shared/config"
	"github.com/repospector/repospector/shared/jwt"
	"github.com/repospector/repospector/shared/logger"
	mw "github.com/repospector/repospector/shared/middleware"
	sharedpg "github.com/repospector/repospector/shared/storage/pg"
)

// Dependencies holds everything the router and main need.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *mw.Auth
	Config         *config.Config
	Janitor        *service.Janitor
	CancelFunc     context.CancelFunc
}

// SetupDependencies wires storage, mail transport and services, and starts
// the background janitor. Call CancelFunc and Storage.Cleanup on shutdown.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	ctx, cancel := context.WithCancel(context.Background())

	storage, err := pg.New(ctx, cfg.Private.Pg, sharedpg.DefaultConnectionConfig())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	sender, err := email.New(ctx, &cfg.Private.Email)
	if err != nil {
		cancel()
		storage.Cleanup()
		return nil, fmt.Errorf("failed to initialize email transport: %w", err)
	}

	jwtSvc := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, sender, jwtSvc)
	reset := service.NewPasswordReset(storage, sender, cfg.Private.AppURL, cfg.ResetTokenTTL()).
		WithMinResponse(cfg.Public.ResetMinResponse)
	inspection := service.NewInspection(storage)

	janitor := service.NewJanitor(storage, cfg.ResetTokenTTL())
	janitor.StartBackground(ctx, cfg.Public.CounterReconcileInterval)

	h := handler.New(auth, reset, inspection, cfg, storage)

	logger.Log.Info("dependencies initialized",
		"email_transport", cfg.Private.Email.Transport,
		"reconcile_interval", cfg.Public.CounterReconcileInterval)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		Jwt:            jwtSvc,
		AuthMiddleware: mw.NewAuth(jwtSvc, cfg.Public.SecureCookies),
		Config:         cfg,
		Janitor:        janitor,
		CancelFunc:     cancel,
	}, nil
}
