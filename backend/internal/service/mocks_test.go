package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repospector/repospector/shared/domain"
	internal_errors "github.com/repospector/repospector/shared/errors"
)

// --- Storage mock ---

type MockStorage struct {
	SaveUserFunc          func(ctx context.Context, user domain.User) (domain.UserId, error)
	UserFunc              func(ctx context.Context, email domain.Email) (domain.User, error)
	SaveResetTokenFunc    func(ctx context.Context, token domain.ResetToken) error
	DeleteResetTokenFunc  func(ctx context.Context, tokenHash string) error
	ConsumeResetTokenFunc func(ctx context.Context, tokenHash string, issuedAfter time.Time, passHash string) (domain.UserId, error)

	CreateInspectionFunc func(ctx context.Context, data domain.InspectionCreationData) (domain.Inspection, error)
	InspectionFunc       func(ctx context.Context, id domain.InspectionId, owner domain.UserId) (domain.Inspection, error)
	InspectionsFunc      func(ctx context.Context, owner domain.UserId) ([]domain.Inspection, error)
	UpdateInspectionFunc func(ctx context.Context, id domain.InspectionId, owner domain.UserId, patch domain.InspectionPatch) (domain.Inspection, error)
	DeleteInspectionFunc func(ctx context.Context, id domain.InspectionId, owner domain.UserId) error

	IncrementInspectionCountFunc func(ctx context.Context, userId domain.UserId) error
	DecrementInspectionCountFunc func(ctx context.Context, userId domain.UserId) error
	InfoFunc                     func(ctx context.Context, userId domain.UserId) (domain.UserInfo, error)

	ReconcileInspectionCountsFunc func(ctx context.Context) (int64, error)
	DeleteExpiredResetTokensFunc  func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockStorage) SaveUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(ctx, user)
	}
	return uuid.New(), nil
}

func (m *MockStorage) User(ctx context.Context, email domain.Email) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(ctx, email)
	}
	return domain.User{}, internal_errors.NotFound("User not found")
}

func (m *MockStorage) SaveResetToken(ctx context.Context, token domain.ResetToken) error {
	if m.SaveResetTokenFunc != nil {
		return m.SaveResetTokenFunc(ctx, token)
	}
	return nil
}

func (m *MockStorage) DeleteResetToken(ctx context.Context, tokenHash string) error {
	if m.DeleteResetTokenFunc != nil {
		return m.DeleteResetTokenFunc(ctx, tokenHash)
	}
	return nil
}

func (m *MockStorage) ConsumeResetToken(ctx context.Context, tokenHash string, issuedAfter time.Time, passHash string) (domain.UserId, error) {
	if m.ConsumeResetTokenFunc != nil {
		return m.ConsumeResetTokenFunc(ctx, tokenHash, issuedAfter, passHash)
	}
	return uuid.New(), nil
}

func (m *MockStorage) CreateInspection(ctx context.Context, data domain.InspectionCreationData) (domain.Inspection, error) {
	if m.CreateInspectionFunc != nil {
		return m.CreateInspectionFunc(ctx, data)
	}
	return domain.Inspection{Id: uuid.New(), OwnerId: data.OwnerId, ProjectName: data.ProjectName, ReportType: data.ReportType}, nil
}

func (m *MockStorage) Inspection(ctx context.Context, id domain.InspectionId, owner domain.UserId) (domain.Inspection, error) {
	if m.InspectionFunc != nil {
		return m.InspectionFunc(ctx, id, owner)
	}
	return domain.Inspection{}, internal_errors.NotFound("Inspection not found")
}

func (m *MockStorage) Inspections(ctx context.Context, owner domain.UserId) ([]domain.Inspection, error) {
	if m.InspectionsFunc != nil {
		return m.InspectionsFunc(ctx, owner)
	}
	return []domain.Inspection{}, nil
}

func (m *MockStorage) UpdateInspection(ctx context.Context, id domain.InspectionId, owner domain.UserId, patch domain.InspectionPatch) (domain.Inspection, error) {
	if m.UpdateInspectionFunc != nil {
		return m.UpdateInspectionFunc(ctx, id, owner, patch)
	}
	return domain.Inspection{}, internal_errors.NotFound("Inspection not found")
}

func (m *MockStorage) DeleteInspection(ctx context.Context, id domain.InspectionId, owner domain.UserId) error {
	if m.DeleteInspectionFunc != nil {
		return m.DeleteInspectionFunc(ctx, id, owner)
	}
	return nil
}

func (m *MockStorage) IncrementInspectionCount(ctx context.Context, userId domain.UserId) error {
	if m.IncrementInspectionCountFunc != nil {
		return m.IncrementInspectionCountFunc(ctx, userId)
	}
	return nil
}

func (m *MockStorage) DecrementInspectionCount(ctx context.Context, userId domain.UserId) error {
	if m.DecrementInspectionCountFunc != nil {
		return m.DecrementInspectionCountFunc(ctx, userId)
	}
	return nil
}

func (m *MockStorage) Info(ctx context.Context, userId domain.UserId) (domain.UserInfo, error) {
	if m.InfoFunc != nil {
		return m.InfoFunc(ctx, userId)
	}
	return domain.UserInfo{UserId: userId}, nil
}

func (m *MockStorage) ReconcileInspectionCounts(ctx context.Context) (int64, error) {
	if m.ReconcileInspectionCountsFunc != nil {
		return m.ReconcileInspectionCountsFunc(ctx)
	}
	return 0, nil
}

func (m *MockStorage) DeleteExpiredResetTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteExpiredResetTokensFunc != nil {
		return m.DeleteExpiredResetTokensFunc(ctx, cutoff)
	}
	return 0, nil
}

// --- Mailer mock ---

type sentMail struct {
	To, Subject, Body string
}

type MockMailer struct {
	SendFunc      func(ctx context.Context, to, subject, body string) error
	IsCorrectFunc func(email domain.Email) error
	Sent          []sentMail
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	m.Sent = append(m.Sent, sentMail{To: to, Subject: subject, Body: body})
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}
	return nil
}

func (m *MockMailer) IsCorrect(email domain.Email) error {
	if m.IsCorrectFunc != nil {
		return m.IsCorrectFunc(email)
	}
	if !strings.Contains(email, "@") {
		return internal_errors.Validation("Invalid email address")
	}
	return nil
}

// --- Jwt mock ---

type MockJwt struct {
	NewTokenFunc func(user domain.User) (string, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "token-" + user.Id.String(), nil
}
