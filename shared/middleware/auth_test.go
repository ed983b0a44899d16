package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/repospector/repospector/shared/domain"
	jwt_internal "github.com/repospector/repospector/shared/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	jwtService := jwt_internal.New("test_secret", time.Hour)
	admin := domain.User{Id: uuid.New(), Admin: true}
	tokenAdmin, err := jwtService.NewToken(admin)
	require.NoError(t, err)
	user := domain.User{Id: uuid.New()}
	token, err := jwtService.NewToken(user)
	require.NoError(t, err)

	tests := []struct {
		name           string
		adminOnly      bool
		cookie         *http.Cookie
		header         string
		expectedStatus int
		expectedUser   uuid.UUID
	}{
		{
			name:           "valid token - admin route",
			adminOnly:      true,
			cookie:         &http.Cookie{Name: SessionCookieName, Value: tokenAdmin},
			expectedStatus: http.StatusOK,
			expectedUser:   admin.Id,
		},
		{
			name:           "valid token - user route",
			cookie:         &http.Cookie{Name: SessionCookieName, Value: token},
			expectedStatus: http.StatusOK,
			expectedUser:   user.Id,
		},
		{
			name:           "bearer header",
			header:         "Bearer " + token,
			expectedStatus: http.StatusOK,
			expectedUser:   user.Id,
		},
		{
			name:           "no token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			cookie:         &http.Cookie{Name: SessionCookieName, Value: "invalid_token"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "non-admin on admin route",
			adminOnly:      true,
			cookie:         &http.Cookie{Name: SessionCookieName, Value: token},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "http://example.com", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			authMw := NewAuth(jwtService, false)
			mw := authMw.NeedAuth()
			if tt.adminOnly {
				mw = authMw.AdminOnly()
			}
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				identity, ok := GetIdentityFromContext(r)
				require.True(t, ok, "Auth should always propagate identity thru context")
				assert.Equal(t, tt.expectedUser, identity.UserId)
				w.WriteHeader(http.StatusOK)
			}))
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code, "handler returned wrong status code")
		})
	}
}

func TestAuthFailuresAreIndistinguishable(t *testing.T) {
	jwtService := jwt_internal.New("test_secret", time.Hour)
	other, err := jwt_internal.New("other", time.Hour).NewToken(domain.User{Id: uuid.New()})
	require.NoError(t, err)

	handler := NewAuth(jwtService, false).NeedAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	var bodies []string
	for _, value := range []string{"", "garbage", other} {
		req := httptest.NewRequest("GET", "/", nil)
		if value != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: value})
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		bodies = append(bodies, rr.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[0], bodies[2])
}

func TestGetIdentityFromContext(t *testing.T) {
	t.Run("no identity", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		_, ok := GetIdentityFromContext(req)
		assert.False(t, ok)
	})

	t.Run("identity present", func(t *testing.T) {
		identity := jwt_internal.Identity{UserId: uuid.New(), Admin: true}
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), identity))

		got, ok := GetIdentityFromContext(req)
		require.True(t, ok)
		assert.Equal(t, identity, got)
	})
}

func TestSessionCookie(t *testing.T) {
	c := SessionCookie("abc", 3600, true)
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)

	cleared := SessionCookie("", 3600, false)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}
