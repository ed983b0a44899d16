package dashboard

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/repospector/repospector/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func inspection(name string, daysAgo int, rt domain.ReportType) domain.Inspection {
	return domain.Inspection{
		Id:          uuid.New(),
		ProjectName: name,
		Date:        now.AddDate(0, 0, -daysAgo),
		ReportType:  rt,
	}
}

func names(items []domain.Inspection) []string {
	out := make([]string, 0, len(items))
	for _, in := range items {
		out = append(out, in.ProjectName)
	}
	return out
}

func TestApplyScenario(t *testing.T) {
	a := inspection("A", 0, domain.ReportTypeProgress)
	b := inspection("B", 40, domain.ReportTypeFinal)
	items := []domain.Inspection{a, b}

	got := Apply(items, Filters{DateRange: DateRange30Days, ReportType: ReportTypeAll, SortBy: SortNewest}, now)
	assert.Equal(t, []string{"A"}, names(got))

	got = Apply(items, Filters{DateRange: DateRangeAll, ReportType: "FINAL", SortBy: SortNewest}, now)
	assert.Equal(t, []string{"B"}, names(got))
}

func TestApplyCombined(t *testing.T) {
	items := []domain.Inspection{
		inspection("recent-final", 1, domain.ReportTypeFinal),
		inspection("recent-progress", 2, domain.ReportTypeProgress),
		inspection("older-final", 6, domain.ReportTypeFinal),
		inspection("stale-final", 8, domain.ReportTypeFinal),
	}
	f := Filters{DateRange: DateRange7Days, ReportType: "FINAL", SortBy: SortOldest}

	got := Apply(items, f, now)
	require.Equal(t, []string{"older-final", "recent-final"}, names(got))
	for _, in := range got {
		assert.Equal(t, domain.ReportTypeFinal, in.ReportType)
		assert.False(t, in.Date.Before(f.Cutoff(now)))
	}
	assert.True(t, got[0].Date.Before(got[1].Date))
}

func TestApplyPredicatesCommute(t *testing.T) {
	items := []domain.Inspection{
		inspection("a", 3, domain.ReportTypeFinal),
		inspection("b", 10, domain.ReportTypeFinal),
		inspection("c", 4, domain.ReportTypeProgress),
		inspection("d", 100, domain.ReportTypeProgress),
	}

	dateFirst := Apply(Apply(items, Filters{DateRange: DateRange7Days, ReportType: ReportTypeAll}, now),
		Filters{DateRange: DateRangeAll, ReportType: "FINAL"}, now)
	typeFirst := Apply(Apply(items, Filters{DateRange: DateRangeAll, ReportType: "FINAL"}, now),
		Filters{DateRange: DateRange7Days, ReportType: ReportTypeAll}, now)
	both := Apply(items, Filters{DateRange: DateRange7Days, ReportType: "FINAL"}, now)

	assert.ElementsMatch(t, names(both), names(dateFirst))
	assert.ElementsMatch(t, names(both), names(typeFirst))
}

func TestApplyCutoffIsInclusive(t *testing.T) {
	edge := domain.Inspection{ProjectName: "edge", Date: now.AddDate(0, 0, -7)}
	justOut := domain.Inspection{ProjectName: "out", Date: now.AddDate(0, 0, -7).Add(-time.Second)}

	got := Apply([]domain.Inspection{edge, justOut}, Filters{DateRange: DateRange7Days, ReportType: ReportTypeAll}, now)
	assert.Equal(t, []string{"edge"}, names(got))
}

func TestApplySortAndImmutability(t *testing.T) {
	items := []domain.Inspection{
		inspection("mid", 5, domain.ReportTypeFinal),
		inspection("new", 1, domain.ReportTypeFinal),
		inspection("old", 9, domain.ReportTypeFinal),
	}
	original := names(items)

	assert.Equal(t, []string{"new", "mid", "old"}, names(Apply(items, DefaultFilters(), now)))
	assert.Equal(t, []string{"old", "mid", "new"}, names(Apply(items, Filters{DateRange: DateRangeAll, ReportType: ReportTypeAll, SortBy: SortOldest}, now)))
	assert.Equal(t, original, names(items))
}

func TestApplyEmpty(t *testing.T) {
	got := Apply(nil, DefaultFilters(), now)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Filters
	}{
		{name: "empty", query: "", want: DefaultFilters()},
		{
			name:  "all set",
			query: "dateRange=30days&reportType=FINAL&sortBy=oldest",
			want:  Filters{DateRange: DateRange30Days, ReportType: "FINAL", SortBy: SortOldest},
		},
		{name: "unknown values fall back", query: "dateRange=365days&reportType=DRAFT&sortBy=random", want: DefaultFilters()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ParseFilters(q))
		})
	}
}

func TestFiltersQueryRoundTrip(t *testing.T) {
	f := Filters{DateRange: DateRange90Days, ReportType: "PROGRESS", SortBy: SortOldest}
	assert.Equal(t, f, ParseFilters(f.Query()))
}
