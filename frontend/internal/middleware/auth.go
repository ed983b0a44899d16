package middleware

import (
	"net/http"

	mw "github.com/repospector/repospector/shared/middleware"
)

// Auth wraps the shared auth middleware so pages redirect to /login instead
// of answering with JSON.
type Auth struct {
	sharedAuth    *mw.Auth
	secureCookies bool
}

func NewAuth(sharedAuth *mw.Auth, secureCookies bool) *Auth {
	return &Auth{sharedAuth: sharedAuth, secureCookies: secureCookies}
}

func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.wrapWithRedirect(a.sharedAuth.NeedAuth())
}

func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.wrapWithRedirect(a.sharedAuth.AdminOnly())
}

// authRedirectWriter turns 401 and 403 from the wrapped middleware into a
// redirect to the login page.
type authRedirectWriter struct {
	http.ResponseWriter
	request       *http.Request
	secureCookies bool
	redirected    bool
}

func (w *authRedirectWriter) WriteHeader(statusCode int) {
	if w.redirected {
		return
	}

	switch statusCode {
	case http.StatusUnauthorized:
		w.redirected = true
		redirectToLogin(w.ResponseWriter, w.request, w.secureCookies, "Please log in to continue")
	case http.StatusForbidden:
		w.redirected = true
		redirectToLogin(w.ResponseWriter, w.request, w.secureCookies, "Access denied")
	default:
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *authRedirectWriter) Write(data []byte) (int, error) {
	if w.redirected {
		return len(data), nil
	}
	return w.ResponseWriter.Write(data)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, secureCookies bool, msg string) {
	SetFlash(w, FlashError, msg, secureCookies)
	// a stale or forged session cookie would keep bouncing the user here
	http.SetCookie(w, mw.SessionCookie("", 0, secureCookies))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *Auth) wrapWithRedirect(authMiddleware func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapper := &authRedirectWriter{
				ResponseWriter: w,
				request:        r,
				secureCookies:  a.secureCookies,
			}
			authMiddleware(next).ServeHTTP(wrapper, r)
		})
	}
}
