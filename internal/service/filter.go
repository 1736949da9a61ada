package service

import (
	"time"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// IsAllAgencies reports whether agency is a sentinel that selects every agency.
func IsAllAgencies(agency string) bool {
	return agency == "" || agency == model.AllAgencies || agency == model.AllValues
}

// IsAllManagers reports whether manager is a sentinel that selects every portfolio manager.
func IsAllManagers(manager string) bool {
	return manager == "" || manager == model.AllManagers || manager == model.AllValues
}

// FilterRecords returns the records matching both the agency and the portfolio manager.
// Sentinel values ("Whole Agency", "All Managers", "all" or empty) match everything.
//
// The result is always a freshly allocated slice; records is never modified and
// the returned slice never shares its backing array.
func FilterRecords(records []model.MetricRecord, agency, manager string) []model.MetricRecord {
	allAgencies := IsAllAgencies(agency)
	allManagers := IsAllManagers(manager)

	out := make([]model.MetricRecord, 0, len(records))
	for _, r := range records {
		if !allAgencies && r.Agency != agency {
			continue
		}
		if !allManagers && r.PortfolioManager != manager {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RecordsOnDate returns a copy of the records dated exactly on d.
func RecordsOnDate(records []model.MetricRecord, d time.Time) []model.MetricRecord {
	out := make([]model.MetricRecord, 0)
	for _, r := range records {
		if r.Date.Equal(d) {
			out = append(out, r)
		}
	}
	return out
}

// RecordDates returns the distinct dates present in records in ascending order.
func RecordDates(records []model.MetricRecord) []time.Time {
	ds := model.Dataset{Records: records}
	return ds.Dates()
}
