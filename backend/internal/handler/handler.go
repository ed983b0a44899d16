package handler

import (
	"context"

	"github.com/repospector/repospector/backend/internal/service"
	"github.com/repospector/repospector/shared/config"
)

// HealthChecker is satisfied by the storage layer.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth          service.AuthService
	passwordReset service.PasswordResetService
	inspection    service.InspectionService
	cfg           *config.Config
	health        HealthChecker
}

func New(
	auth service.AuthService,
	passwordReset service.PasswordResetService,
	inspection service.InspectionService,
	cfg *config.Config,
	health HealthChecker,
) *Handler {
	return &Handler{
		auth:          auth,
		passwordReset: passwordReset,
		inspection:    inspection,
		cfg:           cfg,
		health:        health,
	}
}
