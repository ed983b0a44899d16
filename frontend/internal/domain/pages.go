package frontend_domain

import (
	"html/template"

	"github.com/repospector/repospector/shared/dashboard"
	"github.com/repospector/repospector/shared/domain"
	"github.com/repospector/repospector/shared/jwt"
)

// CommonTemplateData holds fields every page template can use as .Common.
type CommonTemplateData struct {
	Error            string
	Success          string
	User             *jwt.Identity
	CSRFToken        string
	EmailPlaceholder string
	Today            string
}

// Option is one entry of a filter select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

type DashboardPageData struct {
	Inspections      []domain.Inspection
	Filters          dashboard.Filters
	DateRanges       []Option
	ReportTypes      []Option
	SortOrders       []Option
	OwnerId          string // set in the admin view of another user's list
	TotalInspections int
}

type InspectionPageData struct {
	Inspection domain.Inspection
	Notes      template.HTML
}

type DeletePageData struct {
	Inspection domain.Inspection
}

type ErrorPageData struct {
	StatusCode int
	Message    string
}

type ResetPasswordPageData struct {
	Token string
}
