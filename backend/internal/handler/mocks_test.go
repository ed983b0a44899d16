package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/repospector/repospector/shared/config"
	"github.com/repospector/repospector/shared/dashboard"
	"github.com/repospector/repospector/shared/domain"
	internal_errors "github.com/repospector/repospector/shared/errors"
	jwt_internal "github.com/repospector/repospector/shared/jwt"
	mw "github.com/repospector/repospector/shared/middleware"
)

type MockAuthService struct {
	LoginFunc      func(ctx context.Context, creds domain.Credentials) (string, error)
	CreateUserFunc func(ctx context.Context, user domain.User, password domain.Password) (domain.UserId, error)
}

func (m *MockAuthService) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return "token", nil
}

func (m *MockAuthService) CreateUser(ctx context.Context, user domain.User, password domain.Password) (domain.UserId, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user, password)
	}
	return uuid.New(), nil
}

type MockPasswordResetService struct {
	InitiateFunc func(ctx context.Context, email domain.Email) error
	ConsumeFunc  func(ctx context.Context, token string, newPassword domain.Password) error
}

func (m *MockPasswordResetService) Initiate(ctx context.Context, email domain.Email) error {
	if m.InitiateFunc != nil {
		return m.InitiateFunc(ctx, email)
	}
	return nil
}

func (m *MockPasswordResetService) Consume(ctx context.Context, token string, newPassword domain.Password) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, token, newPassword)
	}
	return nil
}

type MockInspectionService struct {
	GetFunc    func(ctx context.Context, id domain.InspectionId, caller domain.UserId) (domain.Inspection, error)
	ListFunc   func(ctx context.Context, caller domain.UserId, admin bool, owner domain.UserId, filters dashboard.Filters) ([]domain.Inspection, error)
	CreateFunc func(ctx context.Context, data domain.InspectionCreationData) (domain.Inspection, error)
	UpdateFunc func(ctx context.Context, id domain.InspectionId, caller domain.UserId, patch domain.InspectionPatch) (domain.Inspection, error)
	DeleteFunc func(ctx context.Context, id domain.InspectionId, caller domain.UserId) error
	InfoFunc   func(ctx context.Context, caller domain.UserId) (domain.UserInfo, error)
}

func (m *MockInspectionService) Get(ctx context.Context, id domain.InspectionId, caller domain.UserId) (domain.Inspection, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id, caller)
	}
	return domain.Inspection{}, internal_errors.NotFound("Inspection not found")
}

func (m *MockInspectionService) List(ctx context.Context, caller domain.UserId, admin bool, owner domain.UserId, filters dashboard.Filters) ([]domain.Inspection, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, caller, admin, owner, filters)
	}
	return []domain.Inspection{}, nil
}

func (m *MockInspectionService) Create(ctx context.Context, data domain.InspectionCreationData) (domain.Inspection, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, data)
	}
	return domain.Inspection{Id: uuid.New(), OwnerId: data.OwnerId, ProjectName: data.ProjectName}, nil
}

func (m *MockInspectionService) Update(ctx context.Context, id domain.InspectionId, caller domain.UserId, patch domain.InspectionPatch) (domain.Inspection, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, caller, patch)
	}
	return domain.Inspection{}, internal_errors.NotFound("Inspection not found")
}

func (m *MockInspectionService) Delete(ctx context.Context, id domain.InspectionId, caller domain.UserId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, caller)
	}
	return nil
}

func (m *MockInspectionService) Info(ctx context.Context, caller domain.UserId) (domain.UserInfo, error) {
	if m.InfoFunc != nil {
		return m.InfoFunc(ctx, caller)
	}
	return domain.UserInfo{UserId: caller}, nil
}

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{JwtTTL: time.Hour}}
}

func newTestHandler() (*Handler, *MockAuthService, *MockPasswordResetService, *MockInspectionService) {
	auth := &MockAuthService{}
	reset := &MockPasswordResetService{}
	inspection := &MockInspectionService{}
	return New(auth, reset, inspection, testConfig(), &MockHealthChecker{}), auth, reset, inspection
}

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func withIdentity(req *http.Request, identity jwt_internal.Identity) *http.Request {
	return req.WithContext(mw.WithIdentity(req.Context(), identity))
}
