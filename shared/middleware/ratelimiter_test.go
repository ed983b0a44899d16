package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	jwt_internal "github.com/repospector/repospector/shared/jwt"
	"github.com/repospector/repospector/shared/middleware/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("allows request within rate limit", func(t *testing.T) {
		rl := ratelimiter.New(1, 1, time.Minute)
		defer rl.Stop()
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "user1", nil })(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("error getting identity", func(t *testing.T) {
		rl := ratelimiter.New(1, 1, time.Minute)
		defer rl.Stop()
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "", errors.New("Test error") })(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("blocks request exceeding rate limit", func(t *testing.T) {
		rl := ratelimiter.New(1, 1, time.Minute)
		defer rl.Stop()
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "user1", nil })(okHandler())

		w1 := httptest.NewRecorder()
		handler.ServeHTTP(w1, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, w1.Code)

		w2 := httptest.NewRecorder()
		handler.ServeHTTP(w2, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)
		assert.Contains(t, w2.Body.String(), rateLimitMessage)
		assert.Equal(t, "application/json", w2.Header().Get("Content-Type"))
	})

	t.Run("admin bypasses limit", func(t *testing.T) {
		rl := ratelimiter.New(1, 1, time.Minute)
		defer rl.Stop()
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "admin", nil })(okHandler())

		for range 3 {
			req := httptest.NewRequest("GET", "/", nil)
			req = req.WithContext(WithIdentity(req.Context(), jwt_internal.Identity{UserId: uuid.New(), Admin: true}))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("global limit shares one bucket", func(t *testing.T) {
		rl := ratelimiter.New(1, 1, time.Minute)
		defer rl.Stop()
		handler := GlobalRateLimit(rl)(okHandler())

		w1 := httptest.NewRecorder()
		handler.ServeHTTP(w1, httptest.NewRequest("GET", "/a", nil))
		w2 := httptest.NewRecorder()
		handler.ServeHTTP(w2, httptest.NewRequest("GET", "/b", nil))

		assert.Equal(t, http.StatusOK, w1.Code)
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	})
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
		wantErr    bool
	}{
		{name: "ipv4 with port", remoteAddr: "192.0.2.1:1234", want: "ip_192.0.2.1"},
		{name: "ipv6 with port", remoteAddr: "[2001:db8::1]:443", want: "ip_2001:db8::1"},
		{name: "no port", remoteAddr: "192.0.2.7", want: "ip_192.0.2.7"},
		{name: "garbage", remoteAddr: "not-an-ip", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("X-Forwarded-For", "203.0.113.9")

			got, err := GetIP(req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetEmailFromBody(t *testing.T) {
	t.Run("lowercases and restores body", func(t *testing.T) {
		body := `{"email":"  Alice@Example.COM "}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		key, err := GetEmailFromBody(req)
		require.NoError(t, err)
		assert.Equal(t, "email_alice@example.com", key)

		rest, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.Equal(t, body, string(rest))
	})

	t.Run("missing email", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
		_, err := GetEmailFromBody(req)
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{`))
		_, err := GetEmailFromBody(req)
		assert.Error(t, err)
	})
}

func TestGetFieldFromForm(t *testing.T) {
	form := url.Values{"email": {"Bob@Example.com"}}
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	key, err := GetFieldFromForm("email")(req)
	require.NoError(t, err)
	assert.Equal(t, "email_bob@example.com", key)

	empty := httptest.NewRequest("POST", "/", strings.NewReader(""))
	empty.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_, err = GetFieldFromForm("email")(empty)
	assert.Error(t, err)
}

func TestGetUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, err := GetUserIDFromContext(req)
	assert.Error(t, err)

	id := uuid.New()
	req = req.WithContext(WithIdentity(req.Context(), jwt_internal.Identity{UserId: id}))
	key, err := GetUserIDFromContext(req)
	require.NoError(t, err)
	assert.Equal(t, "user_"+id.String(), key)
}
