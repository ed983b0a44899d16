package handler

import (
	"net/http"
	"net/url"
	"strings"

	frontend_domain "github.com/repospector/repospector/frontend/internal/domain"
	"github.com/repospector/repospector/frontend/internal/middleware"
	mw "github.com/repospector/repospector/shared/middleware"
)

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "login.html", nil)
}

func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	resp, err := h.APIClient.Login(r.Context(), email, password)
	if err != nil {
		middleware.SetFlash(w, middleware.EmailPrefill, email, h.Public.SecureCookies)
		h.redirectWithFlash(w, r, "/login", middleware.FlashError, userMessage(err))
		return
	}
	defer resp.Body.Close()

	// the backend's session cookie is what the browser presents from now on
	for _, cookie := range resp.Cookies() {
		if cookie.Name == mw.SessionCookieName {
			http.SetCookie(w, mw.SessionCookie(cookie.Value, cookie.MaxAge, h.Public.SecureCookies))
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, mw.SessionCookie("", 0, h.Public.SecureCookies))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) ForgotPasswordGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "forgot_password.html", nil)
}

func (h *Handler) ForgotPasswordPostHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))

	msg, err := h.APIClient.ForgotPassword(r.Context(), email)
	if err != nil {
		middleware.SetFlash(w, middleware.EmailPrefill, email, h.Public.SecureCookies)
		h.redirectWithFlash(w, r, "/forgot-password", middleware.FlashError, userMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/forgot-password", middleware.FlashSuccess, msg)
}

// ResetPasswordGetHandler is the target of the emailed link.
func (h *Handler) ResetPasswordGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "reset_password.html", frontend_domain.ResetPasswordPageData{
		Token: r.URL.Query().Get("token"),
	})
}

func (h *Handler) ResetPasswordPostHandler(w http.ResponseWriter, r *http.Request) {
	token := r.PostFormValue("token")
	password := r.PostFormValue("password")
	back := "/reset-password?" + url.Values{"token": {token}}.Encode()

	if password != r.PostFormValue("confirm_password") {
		h.redirectWithFlash(w, r, back, middleware.FlashError, "Passwords do not match")
		return
	}

	msg, err := h.APIClient.ResetPassword(r.Context(), token, password)
	if err != nil {
		h.redirectWithFlash(w, r, back, middleware.FlashError, userMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/login", middleware.FlashSuccess, msg)
}
