package middleware

import (
	"context"
	"net/http"
	"strings"

	jwt_internal "github.com/repospector/repospector/shared/jwt"
	"github.com/repospector/repospector/shared/utils"
)

// SessionCookieName is the cookie carrying the signed session credential.
const SessionCookieName = "token"

const authRequiredMessage = "Authentication required"

type key int

const identityKey key = 0

// Verifier validates a session credential and returns the identity it asserts.
type Verifier interface {
	Verify(tokenString string) (jwt_internal.Identity, error)
}

type Auth struct {
	verifier      Verifier
	secureCookies bool
}

func NewAuth(verifier Verifier, secureCookies bool) *Auth {
	return &Auth{verifier: verifier, secureCookies: secureCookies}
}

// NeedAuth rejects requests without a valid session credential with 401.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly additionally requires the admin flag.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// TokenFromRequest reads the credential from the session cookie, falling
// back to an Authorization bearer header for non-browser clients.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return token
	}
	return ""
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := a.verifier.Verify(TokenFromRequest(r))
			if err != nil {
				// which check failed is never reported
				utils.WriteErrorMessage(w, http.StatusUnauthorized, authRequiredMessage)
				return
			}

			if adminOnly && !identity.Admin {
				utils.WriteErrorMessage(w, http.StatusForbidden, "Access denied")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity jwt_internal.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext returns the identity stored by NeedAuth.
func GetIdentityFromContext(r *http.Request) (jwt_internal.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(jwt_internal.Identity)
	return identity, ok
}

// SessionCookie builds the cookie carrying token. An empty token clears it.
func SessionCookie(token string, maxAge int, secure bool) *http.Cookie {
	if token == "" {
		maxAge = -1
	}
	return &http.Cookie{
		Path:     "/",
		Name:     SessionCookieName,
		Value:    token,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
