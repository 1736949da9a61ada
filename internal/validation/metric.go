package validation

import (
	"fmt"
	"math"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// arrearsTolerance is the relative tolerance allowed between total arrears and the bucket sum.
const arrearsTolerance = 1e-6

// ValidateMetric checks that name is a known metric.
func ValidateMetric(name string) (model.Metric, error) {
	m := model.Metric(name)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownMetric, name)
	}
	return m, nil
}

// ValidateMetricRecord checks the dataset invariants of a single record.
// Each violated invariant is reported under its own field.
func ValidateMetricRecord(r model.MetricRecord) error {
	errors := make(map[string]string)

	if r.PortfolioManager == "" {
		errors["portfolio_manager"] = "portfolio manager is required"
	}
	if r.Agency == "" {
		errors["agency"] = "agency is required"
	}
	if r.Date.IsZero() {
		errors["date"] = "date is required"
	}

	if r.Properties != r.Leases+r.Vacancies {
		errors["properties"] = fmt.Sprintf("properties (%d) must equal leases (%d) plus vacancies (%d)",
			r.Properties, r.Leases, r.Vacancies)
	}

	buckets := r.Arrears0To30 + r.Arrears31To60 + r.Arrears61To90 + r.Arrears90Plus
	if math.Abs(r.TotalArrears-buckets) > arrearsTolerance*math.Max(1, math.Abs(r.TotalArrears)) {
		errors["total_arrears"] = fmt.Sprintf("total arrears %.2f does not match bucket sum %.2f", r.TotalArrears, buckets)
	}

	wantOccupancy := 0.0
	if r.Properties > 0 {
		wantOccupancy = float64(r.Leases) / float64(r.Properties) * 100
	}
	if math.Abs(r.OccupancyRate-wantOccupancy) > 1e-9 {
		errors["occupancy_rate"] = fmt.Sprintf("occupancy rate %.4f does not match %.4f", r.OccupancyRate, wantOccupancy)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
