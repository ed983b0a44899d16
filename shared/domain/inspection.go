package domain

import (
	"encoding/json"
	"time"
)

type ReportType string

const (
	ReportTypeProgress ReportType = "PROGRESS"
	ReportTypeFinal    ReportType = "FINAL"
)

func (r ReportType) Valid() bool {
	return r == ReportTypeProgress || r == ReportTypeFinal
}

type Inspection struct {
	Id          InspectionId    `json:"_id"`
	OwnerId     UserId          `json:"userId"`
	ProjectName string          `json:"projectName"`
	Address     string          `json:"address"`
	CityCounty  string          `json:"cityCounty"`
	Date        time.Time       `json:"date"`
	ReportType  ReportType      `json:"reportType"`
	Notes       string          `json:"notes"`
	Content     json.RawMessage `json:"content,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// InspectionPatch is a partial update. Nil fields are left untouched.
// The owner is not part of the patch: it never changes after creation.
type InspectionPatch struct {
	ProjectName *string
	Address     *string
	CityCounty  *string
	Date        *time.Time
	ReportType  *ReportType
	Notes       *string
	Content     json.RawMessage
}

func (p InspectionPatch) Empty() bool {
	return p.ProjectName == nil && p.Address == nil && p.CityCounty == nil &&
		p.Date == nil && p.ReportType == nil && p.Notes == nil && p.Content == nil
}

type InspectionCreationData struct {
	OwnerId     UserId
	ProjectName string
	Address     string
	CityCounty  string
	Date        time.Time
	ReportType  ReportType
	Notes       string
	Content     json.RawMessage
}
