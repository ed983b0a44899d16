package api

import (
	"encoding/json"
	"time"

	"github.com/repospector/repospector/shared/domain"
)

type CreateInspectionRequest struct {
	ProjectName string          `json:"projectName" validate:"required,max=200"`
	Address     string          `json:"address" validate:"max=300"`
	CityCounty  string          `json:"cityCounty" validate:"max=200"`
	Date        time.Time       `json:"date" validate:"required"`
	ReportType  string          `json:"reportType" validate:"required,oneof=PROGRESS FINAL"`
	Notes       string          `json:"notes" validate:"max=20000"`
	Content     json.RawMessage `json:"content,omitempty"`
}

func (r CreateInspectionRequest) ToDomain(owner domain.UserId) domain.InspectionCreationData {
	return domain.InspectionCreationData{
		OwnerId:     owner,
		ProjectName: r.ProjectName,
		Address:     r.Address,
		CityCounty:  r.CityCounty,
		Date:        r.Date,
		ReportType:  domain.ReportType(r.ReportType),
		Notes:       r.Notes,
		Content:     r.Content,
	}
}

// UpdateInspectionRequest carries a partial update; absent fields stay as they are.
// There is deliberately no owner field: ownership never changes.
type UpdateInspectionRequest struct {
	ProjectName *string         `json:"projectName,omitempty" validate:"omitnil,min=1,max=200"`
	Address     *string         `json:"address,omitempty" validate:"omitnil,max=300"`
	CityCounty  *string         `json:"cityCounty,omitempty" validate:"omitnil,max=200"`
	Date        *time.Time      `json:"date,omitempty"`
	ReportType  *string         `json:"reportType,omitempty" validate:"omitnil,oneof=PROGRESS FINAL"`
	Notes       *string         `json:"notes,omitempty" validate:"omitnil,max=20000"`
	Content     json.RawMessage `json:"content,omitempty"`
}

func (r UpdateInspectionRequest) ToDomain() domain.InspectionPatch {
	patch := domain.InspectionPatch{
		ProjectName: r.ProjectName,
		Address:     r.Address,
		CityCounty:  r.CityCounty,
		Date:        r.Date,
		Notes:       r.Notes,
	}
	if r.ReportType != nil {
		rt := domain.ReportType(*r.ReportType)
		patch.ReportType = &rt
	}
	if len(r.Content) > 0 && string(r.Content) != "null" {
		patch.Content = r.Content
	}
	return patch
}

type InfoResponse struct {
	TotalInspections int `json:"totalInspections"`
}
