// Package request holds the raw shapes of incoming requests, before validation.
package request

import (
	"net/http"
	"strings"
)

// DashboardQuery is the raw dashboard filter state taken from query parameters.
// Every field is the trimmed parameter value, empty when absent.
type DashboardQuery struct {
	Agency          string
	Manager         string
	Calendar        string
	PeriodType      string
	Current         string
	Comparison      string
	CurrentIndex    string
	ComparisonIndex string
	Compare         string
}

// ParseDashboardQuery extracts the dashboard filter parameters from r.
func ParseDashboardQuery(r *http.Request) DashboardQuery {
	q := r.URL.Query()
	get := func(key string) string { return strings.TrimSpace(q.Get(key)) }

	return DashboardQuery{
		Agency:          get("agency"),
		Manager:         get("manager"),
		Calendar:        strings.ToLower(get("calendar")),
		PeriodType:      strings.ToLower(get("period_type")),
		Current:         get("current"),
		Comparison:      get("comparison"),
		CurrentIndex:    get("current_index"),
		ComparisonIndex: get("comparison_index"),
		Compare:         strings.ToLower(get("compare")),
	}
}

// ReseedRequest is the optional body of POST /api/dataset/reseed.
// A nil Seed reuses the configured seed.
type ReseedRequest struct {
	Seed *uint64 `json:"seed"`
}
