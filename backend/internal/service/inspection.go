package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/repospector/repospector/shared/dashboard"
	"github.com/repospector/repospector/shared/domain"
	"github.com/repospector/repospector/shared/errors"
	"github.com/repospector/repospector/shared/logger"
	"github.com/repospector/repospector/shared/middleware/metrics"
)

type InspectionService interface {
	Get(ctx context.Context, id domain.InspectionId, caller domain.UserId) (domain.Inspection, error)
	List(ctx context.Context, caller domain.UserId, admin bool, owner domain.UserId, filters dashboard.Filters) ([]domain.Inspection, error)
	Create(ctx context.Context, data domain.InspectionCreationData) (domain.Inspection, error)
	Update(ctx context.Context, id domain.InspectionId, caller domain.UserId, patch domain.InspectionPatch) (domain.Inspection, error)
	Delete(ctx context.Context, id domain.InspectionId, caller domain.UserId) error
	Info(ctx context.Context, caller domain.UserId) (domain.UserInfo, error)
}

type InspectionStorage interface {
	CreateInspection(ctx context.Context, data domain.InspectionCreationData) (domain.Inspection, error)
	Inspection(ctx context.Context, id domain.InspectionId, owner domain.UserId) (domain.Inspection, error)
	Inspections(ctx context.Context, owner domain.UserId) ([]domain.Inspection, error)
	UpdateInspection(ctx context.Context, id domain.InspectionId, owner domain.UserId, patch domain.InspectionPatch) (domain.Inspection, error)
	DeleteInspection(ctx context.Context, id domain.InspectionId, owner domain.UserId) error

	IncrementInspectionCount(ctx context.Context, userId domain.UserId) error
	DecrementInspectionCount(ctx context.Context, userId domain.UserId) error
	Info(ctx context.Context, userId domain.UserId) (domain.UserInfo, error)
}

type Inspection struct {
	storage InspectionStorage
	now     func() time.Time
}

func NewInspection(storage InspectionStorage) *Inspection {
	return &Inspection{storage: storage, now: time.Now}
}

// Get returns NotFound both for missing records and for records of other users.
func (s *Inspection) Get(ctx context.Context, id domain.InspectionId, caller domain.UserId) (domain.Inspection, error) {
	return s.storage.Inspection(ctx, id, caller)
}

// List returns owner's inspections filtered and sorted by filters.
// Only admins may list somebody else's records.
func (s *Inspection) List(ctx context.Context, caller domain.UserId, admin bool, owner domain.UserId, filters dashboard.Filters) ([]domain.Inspection, error) {
	if owner != caller && !admin {
		return nil, errors.Forbidden("Access denied")
	}
	items, err := s.storage.Inspections(ctx, owner)
	if err != nil {
		return nil, err
	}
	return dashboard.Apply(items, filters, s.now()), nil
}

func (s *Inspection) Create(ctx context.Context, data domain.InspectionCreationData) (domain.Inspection, error) {
	data.ProjectName = strings.TrimSpace(data.ProjectName)
	if data.ProjectName == "" {
		return domain.Inspection{}, errors.Validation("projectName is required")
	}
	if !data.ReportType.Valid() {
		return domain.Inspection{}, errors.Validation("reportType must be one of: PROGRESS, FINAL")
	}
	if err := validateContent(data.Content); err != nil {
		return domain.Inspection{}, err
	}

	in, err := s.storage.CreateInspection(ctx, data)
	if err != nil {
		return domain.Inspection{}, err
	}

	if err := s.storage.IncrementInspectionCount(ctx, data.OwnerId); err != nil {
		logCounterDrift("increment", data.OwnerId, in.Id, err)
	}
	return in, nil
}

// Update applies a partial patch. An empty patch returns the record unchanged.
func (s *Inspection) Update(ctx context.Context, id domain.InspectionId, caller domain.UserId, patch domain.InspectionPatch) (domain.Inspection, error) {
	if patch.Empty() {
		return s.storage.Inspection(ctx, id, caller)
	}
	if patch.ProjectName != nil {
		name := strings.TrimSpace(*patch.ProjectName)
		if name == "" {
			return domain.Inspection{}, errors.Validation("projectName cannot be empty")
		}
		patch.ProjectName = &name
	}
	if patch.ReportType != nil && !patch.ReportType.Valid() {
		return domain.Inspection{}, errors.Validation("reportType must be one of: PROGRESS, FINAL")
	}
	if err := validateContent(patch.Content); err != nil {
		return domain.Inspection{}, err
	}

	return s.storage.UpdateInspection(ctx, id, caller, patch)
}

// Delete removes the record and then decrements the caller's counter. The
// decrement is best effort: its failure is logged and counted, never returned.
func (s *Inspection) Delete(ctx context.Context, id domain.InspectionId, caller domain.UserId) error {
	if err := s.storage.DeleteInspection(ctx, id, caller); err != nil {
		return err
	}

	if err := s.storage.DecrementInspectionCount(ctx, caller); err != nil {
		logCounterDrift("decrement", caller, id, err)
	}
	return nil
}

func (s *Inspection) Info(ctx context.Context, caller domain.UserId) (domain.UserInfo, error) {
	return s.storage.Info(ctx, caller)
}

func validateContent(content json.RawMessage) error {
	if len(content) > 0 && !json.Valid(content) {
		return errors.Validation("content must be valid json")
	}
	return nil
}

func logCounterDrift(op string, user domain.UserId, inspection domain.InspectionId, err error) {
	logger.Log.Warn("inspection counter update failed, counter may drift",
		"op", op, "user_id", user, "inspection_id", inspection, "error", err)
	metrics.CounterDrift.WithLabelValues(op).Inc()
}
