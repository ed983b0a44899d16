package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/repospector/repospector/shared/errors"
	"github.com/repospector/repospector/shared/middleware/ratelimiter"
	"github.com/repospector/repospector/shared/utils"
)

const rateLimitMessage = "Too many requests, please try again later"

// maxKeyBodySize bounds how much of a body is buffered to derive a rate limit key.
const maxKeyBodySize = 64 << 10

func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity, ok := GetIdentityFromContext(r); ok && identity.Admin {
				next.ServeHTTP(w, r)
				return
			}

			key, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(key) {
				utils.WriteErrorAndStatusCode(w, errors.TooManyRequests(rateLimitMessage))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GlobalRateLimit(rl *ratelimiter.UserRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// GetUserIDFromContext is usable only behind NeedAuth.
func GetUserIDFromContext(r *http.Request) (string, error) {
	identity, ok := GetIdentityFromContext(r)
	if !ok {
		return "", errors.Unauthorized(authRequiredMessage)
	}
	return "user_" + identity.UserId.String(), nil
}

// GetIP uses RemoteAddr only. Forwarding headers are not trusted.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}

	return "ip_" + ip, nil
}

// GetEmailFromBody reads the email field of a JSON body and restores the body
// for the handler. The key is lowercased so case variants share a bucket.
func GetEmailFromBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxKeyBodySize))
	if err != nil {
		return "", errors.Validation("Failed to read request body")
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	var data struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", errors.Validation("Body is invalid json")
	}

	email := strings.ToLower(strings.TrimSpace(data.Email))
	if email == "" {
		return "", errors.Validation("email is required")
	}

	return "email_" + email, nil
}

// GetFieldFromForm keys on a form field. Used by frontend form submissions.
func GetFieldFromForm(field string) func(r *http.Request) (string, error) {
	return func(r *http.Request) (string, error) {
		if err := r.ParseForm(); err != nil {
			return "", errors.Validation("Failed to parse form")
		}

		value := strings.ToLower(strings.TrimSpace(r.FormValue(field)))
		if value == "" {
			return "", errors.Validation(fmt.Sprintf("%s is required", field))
		}

		return field + "_" + value, nil
	}
}
