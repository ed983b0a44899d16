package handler

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	frontend_domain "github.com/repospector/repospector/frontend/internal/domain"
	"github.com/repospector/repospector/frontend/internal/middleware"
	"github.com/repospector/repospector/frontend/templates"
	"github.com/repospector/repospector/shared/domain"
	internal_errors "github.com/repospector/repospector/shared/errors"
	"github.com/repospector/repospector/shared/logger"
	mw "github.com/repospector/repospector/shared/middleware"
)

const backendUnavailable = "Service temporarily unavailable, please try again later."

// TemplateData wraps page data. Templates reach page data via .Data and
// shared fields via .Common.
type TemplateData struct {
	Data   any
	Common frontend_domain.CommonTemplateData
}

func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) frontend_domain.CommonTemplateData {
	common := frontend_domain.CommonTemplateData{
		Error:            middleware.PopFlash(w, r, middleware.FlashError),
		Success:          middleware.PopFlash(w, r, middleware.FlashSuccess),
		EmailPlaceholder: middleware.PopFlash(w, r, middleware.EmailPrefill),
		CSRFToken:        middleware.GetCSRFTokenFromContext(r),
		Today:            strings.ToUpper(h.now().Format("02 Jan 2006")),
	}
	if identity, ok := mw.GetIdentityFromContext(r); ok {
		common.User = &identity
	}
	return common
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithStatus(w, r, http.StatusOK, name, data)
}

func (h *Handler) renderTemplateWithStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	h.renderTemplateWithError(w, r, status, name, data, "")
}

// renderTemplateWithError renders name with errMsg shown in place of any
// flashed error.
func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, status int, name string, data any, errMsg string) {
	tmpl, ok := h.Templates[name]
	if !ok {
		logger.Log.Error("template not found", "template", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	if errMsg != "" {
		common.Error = errMsg
	}
	wrapped := TemplateData{Data: data, Common: common}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := internal_errors.StatusCode(err)
	h.renderTemplateWithStatus(w, r, status, "error.html", frontend_domain.ErrorPageData{
		StatusCode: status,
		Message:    userMessage(err),
	})
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, flash, message string) {
	middleware.SetFlash(w, flash, message, h.Public.SecureCookies)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// userMessage returns text safe to show. Backend errors already carry
// user-facing messages; anything else is a transport problem and is logged.
func userMessage(err error) string {
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.Message
	}
	logger.Log.Error("backend request failed", "error", err)
	return backendUnavailable
}

// isUnauthorized reports a backend 401, which means the session expired
// between the local check and the backend call.
func isUnauthorized(err error) bool {
	return internal_errors.StatusCode(err) == http.StatusUnauthorized
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func location(i domain.Inspection) string {
	switch {
	case i.Address != "" && i.CityCounty != "":
		return i.Address + ", " + i.CityCounty
	case i.Address != "":
		return i.Address
	case i.CityCounty != "":
		return i.CityCounty
	default:
		return "No address provided"
	}
}

func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"location":   location,
	}
}

// LoadTemplates parses every page in fsys together with the base layout.
func LoadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}

	loaded := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if page == templates.Base {
			continue
		}
		tmpl, err := template.New(templates.Base).Funcs(TemplateFuncs()).ParseFS(fsys, templates.Base, page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		loaded[page] = tmpl
	}
	return loaded, nil
}
