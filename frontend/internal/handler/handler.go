package handler

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/repospector/repospector/frontend/internal/markdown"
	"github.com/repospector/repospector/shared/api"
	"github.com/repospector/repospector/shared/config"
	"github.com/repospector/repospector/shared/domain"
)

// API is the part of the backend client the pages use.
type API interface {
	Login(ctx context.Context, email, password string) (*http.Response, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
	ListInspections(r *http.Request, owner string) ([]domain.Inspection, error)
	GetInspection(r *http.Request, id string) (domain.Inspection, error)
	DeleteInspection(r *http.Request, id string) error
	Info(r *http.Request) (api.InfoResponse, error)
}

type Handler struct {
	Templates map[string]*template.Template
	Public    config.Public
	Notes     *markdown.Renderer
	APIClient API
	now       func() time.Time
}

func New(templates map[string]*template.Template, publicCfg config.Public, notes *markdown.Renderer, apiClient API) *Handler {
	return &Handler{
		Templates: templates,
		Public:    publicCfg,
		Notes:     notes,
		APIClient: apiClient,
		now:       time.Now,
	}
}
