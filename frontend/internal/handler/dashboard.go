package handler

import (
	"net/http"

	frontend_domain "github.com/repospector/repospector/frontend/internal/domain"
	"github.com/repospector/repospector/frontend/internal/middleware"
	"github.com/repospector/repospector/shared/dashboard"
	"github.com/repospector/repospector/shared/domain"
	internal_errors "github.com/repospector/repospector/shared/errors"
	"github.com/repospector/repospector/shared/logger"
)

var (
	dateRangeLabels = []struct {
		value dashboard.DateRange
		label string
	}{
		{dashboard.DateRangeAll, "All time"},
		{dashboard.DateRange7Days, "Last 7 days"},
		{dashboard.DateRange30Days, "Last 30 days"},
		{dashboard.DateRange90Days, "Last 90 days"},
	}
	reportTypeLabels = []struct {
		value string
		label string
	}{
		{dashboard.ReportTypeAll, "All reports"},
		{string(domain.ReportTypeProgress), "Progress"},
		{string(domain.ReportTypeFinal), "Final"},
	}
	sortOrderLabels = []struct {
		value dashboard.SortOrder
		label string
	}{
		{dashboard.SortNewest, "Newest first"},
		{dashboard.SortOldest, "Oldest first"},
	}
)

// DashboardGetHandler fetches the whole list once and filters it locally
// with the filters from the query string.
func (h *Handler) DashboardGetHandler(w http.ResponseWriter, r *http.Request) {
	filters := dashboard.ParseFilters(r.URL.Query())
	owner := r.URL.Query().Get("userId")

	data := frontend_domain.DashboardPageData{
		Filters:     filters,
		OwnerId:     owner,
		DateRanges:  dateRangeOptions(filters),
		ReportTypes: reportTypeOptions(filters),
		SortOrders:  sortOrderOptions(filters),
	}

	items, err := h.APIClient.ListInspections(r, owner)
	switch {
	case err == nil:
		data.Inspections = dashboard.Apply(items, filters, h.now())
	case isUnauthorized(err):
		h.LogoutHandler(w, r)
		return
	case owner != "" && internal_errors.StatusCode(err) == http.StatusForbidden:
		h.redirectWithFlash(w, r, "/", middleware.FlashError, "Access denied")
		return
	default:
		h.renderTemplateWithError(w, r, http.StatusBadGateway, "dashboard.html", data, userMessage(err))
		return
	}

	if owner == "" {
		info, err := h.APIClient.Info(r)
		if err != nil {
			logger.Log.Warn("failed to load inspection total", "error", err)
		}
		data.TotalInspections = info.TotalInspections
	}

	h.renderTemplate(w, r, "dashboard.html", data)
}

func dateRangeOptions(f dashboard.Filters) []frontend_domain.Option {
	opts := make([]frontend_domain.Option, 0, len(dateRangeLabels))
	for _, l := range dateRangeLabels {
		opts = append(opts, frontend_domain.Option{Value: string(l.value), Label: l.label, Selected: l.value == f.DateRange})
	}
	return opts
}

func reportTypeOptions(f dashboard.Filters) []frontend_domain.Option {
	opts := make([]frontend_domain.Option, 0, len(reportTypeLabels))
	for _, l := range reportTypeLabels {
		opts = append(opts, frontend_domain.Option{Value: l.value, Label: l.label, Selected: l.value == f.ReportType})
	}
	return opts
}

func sortOrderOptions(f dashboard.Filters) []frontend_domain.Option {
	opts := make([]frontend_domain.Option, 0, len(sortOrderLabels))
	for _, l := range sortOrderLabels {
		opts = append(opts, frontend_domain.Option{Value: string(l.value), Label: l.label, Selected: l.value == f.SortBy})
	}
	return opts
}
