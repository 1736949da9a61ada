package service

import "github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"

// PercentChange returns the relative change from previous to current in percent.
//
// When previous is zero the result is 0 regardless of current, so a metric
// that starts from nothing reports as flat.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// PointChange returns the percentage-point difference between two values that
// are already percentages (e.g. arrears ratio).
func PointChange(current, previous float64) float64 {
	return current - previous
}

// VacancyRate is vacancies as a percentage of properties.
func VacancyRate(vacancies, properties float64) float64 {
	return ratio(vacancies, properties) * 100
}

// OccupancyRate is occupied properties as a percentage of properties.
func OccupancyRate(occupied, properties float64) float64 {
	return ratio(occupied, properties) * 100
}

// ArrearsPercentage is arrears as a percentage of rent roll.
func ArrearsPercentage(arrears, rentRoll float64) float64 {
	return ratio(arrears, rentRoll) * 100
}

// AvgFeePerTenancy is total fees divided by the number of leases.
func AvgFeePerTenancy(totalFees, leases float64) float64 {
	return ratio(totalFees, leases)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// GrowthRate is the mean of consecutive percent changes across values.
// Steps from a zero value are skipped. Fewer than two usable steps yield 0.
func GrowthRate(values []float64) float64 {
	total := 0.0
	steps := 0
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		total += (values[i] - values[i-1]) / values[i-1] * 100
		steps++
	}
	if steps == 0 {
		return 0
	}
	return total / float64(steps)
}

// Favourability classifies a delta for display. For inverse metrics a
// decrease is good. The delta value itself is never changed.
func Favourability(delta float64, inverse bool) model.Favourability {
	switch {
	case delta == 0:
		return model.FavourabilityNeutral
	case (delta > 0) != inverse:
		return model.FavourabilityPositive
	default:
		return model.FavourabilityNegative
	}
}
