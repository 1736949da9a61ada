package service

import (
	"fmt"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/format"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// KPI card sections, in the order the dashboard shows them.
const (
	SectionPortfolio     = "portfolio"
	SectionFinancial     = "financial"
	SectionArrears       = "arrears"
	SectionCriticalDates = "critical_dates"
	SectionDiary         = "diary"
)

// cardSpec describes how one KPI card derives its value from a snapshot.
type cardSpec struct {
	key       string
	section   string
	label     func(model.MetricSnapshot) string
	value     func(model.MetricSnapshot) float64
	kind      model.MetricKind
	deltaKind model.DeltaKind
	inverse   bool
	display   func(float64) string
}

func static(label string) func(model.MetricSnapshot) string {
	return func(model.MetricSnapshot) string { return label }
}

func metricValue(m model.Metric) func(model.MetricSnapshot) float64 {
	return func(s model.MetricSnapshot) float64 { return s.Value(m) }
}

// metricCard builds a percent-delta card that follows the metric's policy.
func metricCard(key, section, label string, m model.Metric) cardSpec {
	p := m.Policy()
	return cardSpec{
		key:       key,
		section:   section,
		label:     static(label),
		value:     metricValue(m),
		kind:      p.Kind,
		deltaKind: model.DeltaPercent,
		inverse:   p.Inverse,
	}
}

// projection scales a yearly count down to one month and applies a growth factor.
func projection(m model.Metric, factor float64) func(model.MetricSnapshot) float64 {
	return func(s model.MetricSnapshot) float64 {
		return float64(int(s.Value(m) / 12 * factor))
	}
}

var kpiCards = []cardSpec{
	metricCard("total_landlords", SectionPortfolio, "Total Landlords", model.MetricLandlords),
	metricCard("total_properties", SectionPortfolio, "Total Properties", model.MetricProperties),
	{
		key:     "active_leases",
		section: SectionPortfolio,
		label: func(s model.MetricSnapshot) string {
			return fmt.Sprintf("Active Leases (%.1f%% occupied)", OccupancyRate(s.Leases, s.Properties))
		},
		value:     metricValue(model.MetricLeases),
		kind:      model.KindCount,
		deltaKind: model.DeltaPercent,
	},
	{
		key:     "vacancies",
		section: SectionPortfolio,
		label: func(s model.MetricSnapshot) string {
			return fmt.Sprintf("Vacancies (%.1f%%)", VacancyRate(s.Vacancies, s.Properties))
		},
		value:     metricValue(model.MetricVacancies),
		kind:      model.KindCount,
		deltaKind: model.DeltaPercent,
		inverse:   true,
	},
	metricCard("avg_occupancy_rate", SectionPortfolio, "Avg Occupancy Rate", model.MetricOccupancyRate),

	metricCard("total_rent_roll", SectionFinancial, "Total Rent Roll", model.MetricRentRoll),
	metricCard("total_arrears", SectionFinancial, "Total Arrears", model.MetricTotalArrears),
	{
		key:     "arrears_ratio",
		section: SectionFinancial,
		label:   static("Arrears Ratio"),
		value: func(s model.MetricSnapshot) float64 {
			return ArrearsPercentage(s.TotalArrears, s.RentRoll)
		},
		kind:      model.KindRate,
		deltaKind: model.DeltaPoint,
		inverse:   true,
	},
	metricCard("total_revenue", SectionFinancial, "Total Revenue", model.MetricTotalRevenue),
	metricCard("management_fees", SectionFinancial, "Management Fees", model.MetricManagementFees),
	metricCard("leasing_fees", SectionFinancial, "Leasing Fees", model.MetricLeasingFees),
	metricCard("avg_fee_per_tenancy", SectionFinancial, "Avg Fee per Tenancy", model.MetricAvgFeePerTenancy),

	metricCard("arrears_0_30", SectionArrears, "0-30 Days", model.MetricArrears0To30),
	metricCard("arrears_31_60", SectionArrears, "31-60 Days", model.MetricArrears31To60),
	metricCard("arrears_90_plus", SectionArrears, "90+ Days", model.MetricArrears90Plus),

	metricCard("rent_reviews", SectionCriticalDates, "Rent Reviews", model.MetricRentReviewsUpcoming),
	metricCard("lease_expiries", SectionCriticalDates, "Lease Expiries", model.MetricLeaseExpiriesUpcoming),
	{
		key:       "next_month_reviews",
		section:   SectionCriticalDates,
		label:     static("Next Month Reviews"),
		value:     projection(model.MetricRentReviewsUpcoming, 1.2),
		kind:      model.KindCount,
		deltaKind: model.DeltaPercent,
	},
	{
		key:       "next_month_expiries",
		section:   SectionCriticalDates,
		label:     static("Next Month Expiries"),
		value:     projection(model.MetricLeaseExpiriesUpcoming, 1.1),
		kind:      model.KindCount,
		deltaKind: model.DeltaPercent,
	},

	metricCard("overdue_items", SectionDiary, "Overdue Items", model.MetricOverdueDiaryItems),
	metricCard("completed_items", SectionDiary, "Completed Items", model.MetricCompletedDiaryItems),
	{
		key:     "completion_rate",
		section: SectionDiary,
		label:   static("Completion Rate"),
		value: func(s model.MetricSnapshot) float64 {
			return ratio(s.CompletedDiaryItems, s.CompletedDiaryItems+s.OverdueDiaryItems) * 100
		},
		kind:      model.KindRate,
		deltaKind: model.DeltaPoint,
	},
	{
		key:     "avg_overdue_per_pm",
		section: SectionDiary,
		label:   static("Avg per PM"),
		value: func(s model.MetricSnapshot) float64 {
			return roundTo(ratio(s.OverdueDiaryItems, float64(s.Rows)), 1)
		},
		kind:      model.KindCount,
		deltaKind: model.DeltaPercent,
		inverse:   true,
		display:   func(v float64) string { return format.Number(v, 1) },
	},
}

// BuildCards renders the KPI card set for current against base.
// Pass current as base to get zero deltas.
func BuildCards(current, base model.MetricSnapshot) []model.KPICard {
	cards := make([]model.KPICard, 0, len(kpiCards))
	for _, spec := range kpiCards {
		cur := spec.value(current)
		prev := spec.value(base)

		delta := PercentChange(cur, prev)
		if spec.deltaKind == model.DeltaPoint {
			delta = PointChange(cur, prev)
		}
		delta = roundTo(delta, 1)

		display := format.Value(spec.kind, cur)
		if spec.display != nil {
			display = spec.display(cur)
		}

		cards = append(cards, model.KPICard{
			Key:             spec.key,
			Label:           spec.label(current),
			Section:         spec.section,
			Value:           round(cur),
			Display:         display,
			ComparisonValue: round(prev),
			Delta:           delta,
			DeltaKind:       spec.deltaKind,
			DeltaDisplay:    format.Delta(delta, spec.deltaKind),
			Inverse:         spec.inverse,
			Favourability:   Favourability(delta, spec.inverse),
		})
	}
	return cards
}
