// Package dashboard filters and sorts an already fetched inspection list.
// Everything here is pure: the same Filters and clock give the same result.
package dashboard

import (
	"net/url"
	"slices"
	"time"

	"github.com/repospector/repospector/shared/domain"
)

type DateRange string

const (
	DateRangeAll    DateRange = "all"
	DateRange7Days  DateRange = "7days"
	DateRange30Days DateRange = "30days"
	DateRange90Days DateRange = "90days"
)

// Days returns the window length, or 0 for "all".
func (d DateRange) Days() int {
	switch d {
	case DateRange7Days:
		return 7
	case DateRange30Days:
		return 30
	case DateRange90Days:
		return 90
	}
	return 0
}

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ReportTypeAll disables the report type filter.
const ReportTypeAll = "all"

// Filters is the complete dashboard view state.
type Filters struct {
	DateRange  DateRange
	ReportType string
	SortBy     SortOrder
}

func DefaultFilters() Filters {
	return Filters{DateRange: DateRangeAll, ReportType: ReportTypeAll, SortBy: SortNewest}
}

// ParseFilters reads dateRange, reportType and sortBy. Unknown values fall
// back to the defaults instead of failing the page.
func ParseFilters(q url.Values) Filters {
	f := DefaultFilters()

	switch dr := DateRange(q.Get("dateRange")); dr {
	case DateRangeAll, DateRange7Days, DateRange30Days, DateRange90Days:
		f.DateRange = dr
	}
	if rt := q.Get("reportType"); domain.ReportType(rt).Valid() {
		f.ReportType = rt
	}
	if s := SortOrder(q.Get("sortBy")); s == SortOldest || s == SortNewest {
		f.SortBy = s
	}
	return f
}

// Query is the inverse of ParseFilters.
func (f Filters) Query() url.Values {
	return url.Values{
		"dateRange":  {string(f.DateRange)},
		"reportType": {f.ReportType},
		"sortBy":     {string(f.SortBy)},
	}
}

// Cutoff is the inclusive lower bound of the date window, zero for "all".
func (f Filters) Cutoff(now time.Time) time.Time {
	days := f.DateRange.Days()
	if days == 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -days)
}

func (f Filters) match(in domain.Inspection, cutoff time.Time) bool {
	if !cutoff.IsZero() && in.Date.Before(cutoff) {
		return false
	}
	if f.ReportType != ReportTypeAll && f.ReportType != "" && string(in.ReportType) != f.ReportType {
		return false
	}
	return true
}

// Apply returns a new slice: date window, then report type, then a stable
// sort by date. items is not modified.
func Apply(items []domain.Inspection, f Filters, now time.Time) []domain.Inspection {
	cutoff := f.Cutoff(now)

	out := make([]domain.Inspection, 0, len(items))
	for _, in := range items {
		if f.match(in, cutoff) {
			out = append(out, in)
		}
	}

	slices.SortStableFunc(out, func(a, b domain.Inspection) int {
		if f.SortBy == SortOldest {
			return a.Date.Compare(b.Date)
		}
		return b.Date.Compare(a.Date)
	})
	return out
}
