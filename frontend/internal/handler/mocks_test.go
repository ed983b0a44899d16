package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/repospector/repospector/frontend/internal/markdown"
	"github.com/repospector/repospector/frontend/templates"
	"github.com/repospector/repospector/shared/api"
	"github.com/repospector/repospector/shared/config"
	"github.com/repospector/repospector/shared/domain"
	"github.com/stretchr/testify/require"
)

type MockAPI struct {
	LoginFunc            func(ctx context.Context, email, password string) (*http.Response, error)
	ForgotPasswordFunc   func(ctx context.Context, email string) (string, error)
	ResetPasswordFunc    func(ctx context.Context, token, password string) (string, error)
	ListInspectionsFunc  func(r *http.Request, owner string) ([]domain.Inspection, error)
	GetInspectionFunc    func(r *http.Request, id string) (domain.Inspection, error)
	DeleteInspectionFunc func(r *http.Request, id string) error
	InfoFunc             func(r *http.Request) (api.InfoResponse, error)
}

func (m *MockAPI) Login(ctx context.Context, email, password string) (*http.Response, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: io.NopCloser(strings.NewReader("{}"))}, nil
}

func (m *MockAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return "ok", nil
}

func (m *MockAPI) ResetPassword(ctx context.Context, token, password string) (string, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, password)
	}
	return "ok", nil
}

func (m *MockAPI) ListInspections(r *http.Request, owner string) ([]domain.Inspection, error) {
	if m.ListInspectionsFunc != nil {
		return m.ListInspectionsFunc(r, owner)
	}
	return nil, nil
}

func (m *MockAPI) GetInspection(r *http.Request, id string) (domain.Inspection, error) {
	if m.GetInspectionFunc != nil {
		return m.GetInspectionFunc(r, id)
	}
	return domain.Inspection{}, nil
}

func (m *MockAPI) DeleteInspection(r *http.Request, id string) error {
	if m.DeleteInspectionFunc != nil {
		return m.DeleteInspectionFunc(r, id)
	}
	return nil
}

func (m *MockAPI) Info(r *http.Request) (api.InfoResponse, error) {
	if m.InfoFunc != nil {
		return m.InfoFunc(r)
	}
	return api.InfoResponse{}, nil
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) (*Handler, *MockAPI) {
	t.Helper()
	tmpls, err := LoadTemplates(templates.FS)
	require.NoError(t, err)

	mock := &MockAPI{}
	h := New(tmpls, config.Public{}, markdown.New(), mock)
	h.now = func() time.Time { return fixedNow }
	return h, mock
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
