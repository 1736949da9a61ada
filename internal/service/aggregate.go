package service

import (
	"maps"
	"slices"
	"time"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// Aggregate reduces rows into a single snapshot using model.MetricPolicies:
// summed metrics add every row, averaged metrics take the arithmetic mean.
//
// Zero rows produce an all-zero snapshot; means never divide by zero.
func Aggregate(rows []model.MetricRecord) model.MetricSnapshot {
	snap := model.MetricSnapshot{Rows: len(rows)}
	if len(rows) == 0 {
		return snap
	}

	for _, m := range model.Metrics {
		total := 0.0
		for _, r := range rows {
			total += r.Value(m)
		}
		if m.Policy().Reduction == model.ReductionMean {
			total /= float64(len(rows))
		}
		snap.Set(m, total)
	}
	return snap
}

// KeyFunc extracts a grouping key from a record.
type KeyFunc func(model.MetricRecord) string

// ByPortfolioManager groups records by portfolio manager.
func ByPortfolioManager(r model.MetricRecord) string { return r.PortfolioManager }

// ByAgency groups records by agency.
func ByAgency(r model.MetricRecord) string { return r.Agency }

// ByDate groups records by their month date in YYYY-MM-DD form.
func ByDate(r model.MetricRecord) string { return r.Date.Format("2006-01-02") }

// AggregateBy groups rows by key and reduces each group with the same policy as Aggregate.
func AggregateBy(rows []model.MetricRecord, key KeyFunc) map[string]model.MetricSnapshot {
	groups := make(map[string][]model.MetricRecord)
	for _, r := range rows {
		k := key(r)
		groups[k] = append(groups[k], r)
	}

	out := make(map[string]model.MetricSnapshot, len(groups))
	for k, g := range groups {
		out[k] = Aggregate(g)
	}
	return out
}

// SortedKeys returns the keys of a grouped aggregation in ascending order.
func SortedKeys(groups map[string]model.MetricSnapshot) []string {
	return slices.Sorted(maps.Keys(groups))
}

// SeriesByDate reduces metric m per date, in ascending date order.
func SeriesByDate(rows []model.MetricRecord, m model.Metric) []model.TrendPoint {
	groups := make(map[time.Time][]model.MetricRecord)
	for _, r := range rows {
		groups[r.Date] = append(groups[r.Date], r)
	}

	dates := slices.SortedFunc(maps.Keys(groups), time.Time.Compare)
	points := make([]model.TrendPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, model.TrendPoint{Date: d, Value: Aggregate(groups[d]).Value(m)})
	}
	return points
}
