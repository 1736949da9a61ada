package model

import (
	"slices"
	"time"
)

// MetricRecord is one observation for a single portfolio manager in a single month.
// Date is always the first day of the month at UTC midnight.
type MetricRecord struct {
	Date             time.Time `json:"date"`
	Agency           string    `json:"agency"`
	PortfolioManager string    `json:"portfolio_manager"`

	Landlords  int `json:"landlords"`
	Properties int `json:"properties"`
	Leases     int `json:"leases"`
	Vacancies  int `json:"vacancies"`

	OccupancyRate float64 `json:"occupancy_rate"`

	ManagementFees float64 `json:"management_fees"`
	LeasingFees    float64 `json:"leasing_fees"`
	OtherFees      float64 `json:"other_fees"`
	TotalRevenue   float64 `json:"total_revenue"`
	RentRoll       float64 `json:"rent_roll"`

	TotalArrears  float64 `json:"total_arrears"`
	Arrears0To30  float64 `json:"arrears_0_30"`
	Arrears31To60 float64 `json:"arrears_31_60"`
	Arrears61To90 float64 `json:"arrears_61_90"`
	Arrears90Plus float64 `json:"arrears_90_plus"`

	AvgFeePerTenancy float64 `json:"avg_fee_per_tenancy"`

	RentReviewsUpcoming   int `json:"rent_reviews_upcoming"`
	LeaseExpiriesUpcoming int `json:"lease_expiries_upcoming"`
	OverdueDiaryItems     int `json:"overdue_diary_items"`
	CompletedDiaryItems   int `json:"completed_diary_items"`
}

// Value returns the numeric value of metric m for this record.
// Unknown metrics return 0.
func (r MetricRecord) Value(m Metric) float64 {
	switch m {
	case MetricLandlords:
		return float64(r.Landlords)
	case MetricProperties:
		return float64(r.Properties)
	case MetricLeases:
		return float64(r.Leases)
	case MetricVacancies:
		return float64(r.Vacancies)
	case MetricOccupancyRate:
		return r.OccupancyRate
	case MetricManagementFees:
		return r.ManagementFees
	case MetricLeasingFees:
		return r.LeasingFees
	case MetricOtherFees:
		return r.OtherFees
	case MetricTotalRevenue:
		return r.TotalRevenue
	case MetricRentRoll:
		return r.RentRoll
	case MetricTotalArrears:
		return r.TotalArrears
	case MetricArrears0To30:
		return r.Arrears0To30
	case MetricArrears31To60:
		return r.Arrears31To60
	case MetricArrears61To90:
		return r.Arrears61To90
	case MetricArrears90Plus:
		return r.Arrears90Plus
	case MetricAvgFeePerTenancy:
		return r.AvgFeePerTenancy
	case MetricRentReviewsUpcoming:
		return float64(r.RentReviewsUpcoming)
	case MetricLeaseExpiriesUpcoming:
		return float64(r.LeaseExpiriesUpcoming)
	case MetricOverdueDiaryItems:
		return float64(r.OverdueDiaryItems)
	case MetricCompletedDiaryItems:
		return float64(r.CompletedDiaryItems)
	}
	return 0
}

// Metric names a numeric column of MetricRecord.
type Metric string

// Metric identifiers. The string values double as JSON keys and URL parameters.
const (
	MetricLandlords             Metric = "landlords"
	MetricProperties            Metric = "properties"
	MetricLeases                Metric = "leases"
	MetricVacancies             Metric = "vacancies"
	MetricOccupancyRate         Metric = "occupancy_rate"
	MetricManagementFees        Metric = "management_fees"
	MetricLeasingFees           Metric = "leasing_fees"
	MetricOtherFees             Metric = "other_fees"
	MetricTotalRevenue          Metric = "total_revenue"
	MetricRentRoll              Metric = "rent_roll"
	MetricTotalArrears          Metric = "total_arrears"
	MetricArrears0To30          Metric = "arrears_0_30"
	MetricArrears31To60         Metric = "arrears_31_60"
	MetricArrears61To90         Metric = "arrears_61_90"
	MetricArrears90Plus         Metric = "arrears_90_plus"
	MetricAvgFeePerTenancy      Metric = "avg_fee_per_tenancy"
	MetricRentReviewsUpcoming   Metric = "rent_reviews_upcoming"
	MetricLeaseExpiriesUpcoming Metric = "lease_expiries_upcoming"
	MetricOverdueDiaryItems     Metric = "overdue_diary_items"
	MetricCompletedDiaryItems   Metric = "completed_diary_items"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{
	MetricLandlords,
	MetricProperties,
	MetricLeases,
	MetricVacancies,
	MetricOccupancyRate,
	MetricManagementFees,
	MetricLeasingFees,
	MetricOtherFees,
	MetricTotalRevenue,
	MetricRentRoll,
	MetricTotalArrears,
	MetricArrears0To30,
	MetricArrears31To60,
	MetricArrears61To90,
	MetricArrears90Plus,
	MetricAvgFeePerTenancy,
	MetricRentReviewsUpcoming,
	MetricLeaseExpiriesUpcoming,
	MetricOverdueDiaryItems,
	MetricCompletedDiaryItems,
}

// Reduction is how a metric collapses across several rows.
type Reduction int

const (
	// ReductionSum adds the values of every row.
	ReductionSum Reduction = iota
	// ReductionMean averages the values of every row.
	ReductionMean
)

func (r Reduction) String() string {
	if r == ReductionMean {
		return "mean"
	}
	return "sum"
}

// MetricKind controls how a metric value is displayed.
type MetricKind string

const (
	KindCount    MetricKind = "count"
	KindCurrency MetricKind = "currency"
	KindRate     MetricKind = "rate"
)

// MetricPolicy describes the reduction, display kind and direction of a metric.
// Inverse metrics are "bad" metrics where a decrease is favourable.
type MetricPolicy struct {
	Label     string
	Reduction Reduction
	Kind      MetricKind
	Inverse   bool
}

// MetricPolicies is the fixed reduction table used by every aggregation.
var MetricPolicies = map[Metric]MetricPolicy{
	MetricLandlords:             {Label: "Landlords", Reduction: ReductionSum, Kind: KindCount},
	MetricProperties:            {Label: "Properties", Reduction: ReductionSum, Kind: KindCount},
	MetricLeases:                {Label: "Leases", Reduction: ReductionSum, Kind: KindCount},
	MetricVacancies:             {Label: "Vacancies", Reduction: ReductionSum, Kind: KindCount, Inverse: true},
	MetricOccupancyRate:         {Label: "Occupancy Rate", Reduction: ReductionMean, Kind: KindRate},
	MetricManagementFees:        {Label: "Management Fees", Reduction: ReductionSum, Kind: KindCurrency},
	MetricLeasingFees:           {Label: "Leasing Fees", Reduction: ReductionSum, Kind: KindCurrency},
	MetricOtherFees:             {Label: "Other Fees", Reduction: ReductionSum, Kind: KindCurrency},
	MetricTotalRevenue:          {Label: "Total Revenue", Reduction: ReductionSum, Kind: KindCurrency},
	MetricRentRoll:              {Label: "Rent Roll", Reduction: ReductionSum, Kind: KindCurrency},
	MetricTotalArrears:          {Label: "Total Arrears", Reduction: ReductionSum, Kind: KindCurrency, Inverse: true},
	MetricArrears0To30:          {Label: "0-30 Days", Reduction: ReductionSum, Kind: KindCurrency, Inverse: true},
	MetricArrears31To60:         {Label: "31-60 Days", Reduction: ReductionSum, Kind: KindCurrency, Inverse: true},
	MetricArrears61To90:         {Label: "61-90 Days", Reduction: ReductionSum, Kind: KindCurrency, Inverse: true},
	MetricArrears90Plus:         {Label: "90+ Days", Reduction: ReductionSum, Kind: KindCurrency, Inverse: true},
	MetricAvgFeePerTenancy:      {Label: "Avg Fee per Tenancy", Reduction: ReductionMean, Kind: KindCurrency},
	MetricRentReviewsUpcoming:   {Label: "Rent Reviews", Reduction: ReductionSum, Kind: KindCount},
	MetricLeaseExpiriesUpcoming: {Label: "Lease Expiries", Reduction: ReductionSum, Kind: KindCount},
	MetricOverdueDiaryItems:     {Label: "Overdue Items", Reduction: ReductionSum, Kind: KindCount, Inverse: true},
	MetricCompletedDiaryItems:   {Label: "Completed Items", Reduction: ReductionSum, Kind: KindCount},
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	_, ok := MetricPolicies[m]
	return ok
}

// Policy returns the policy for m. Unknown metrics get a zero policy (sum, no label).
func (m Metric) Policy() MetricPolicy {
	return MetricPolicies[m]
}

// MetricSnapshot holds one reduced value per metric for a set of rows.
// Rows is the number of records that were reduced into the snapshot.
type MetricSnapshot struct {
	Rows int `json:"rows"`

	Landlords  float64 `json:"landlords"`
	Properties float64 `json:"properties"`
	Leases     float64 `json:"leases"`
	Vacancies  float64 `json:"vacancies"`

	OccupancyRate float64 `json:"occupancy_rate"`

	ManagementFees float64 `json:"management_fees"`
	LeasingFees    float64 `json:"leasing_fees"`
	OtherFees      float64 `json:"other_fees"`
	TotalRevenue   float64 `json:"total_revenue"`
	RentRoll       float64 `json:"rent_roll"`

	TotalArrears  float64 `json:"total_arrears"`
	Arrears0To30  float64 `json:"arrears_0_30"`
	Arrears31To60 float64 `json:"arrears_31_60"`
	Arrears61To90 float64 `json:"arrears_61_90"`
	Arrears90Plus float64 `json:"arrears_90_plus"`

	AvgFeePerTenancy float64 `json:"avg_fee_per_tenancy"`

	RentReviewsUpcoming   float64 `json:"rent_reviews_upcoming"`
	LeaseExpiriesUpcoming float64 `json:"lease_expiries_upcoming"`
	OverdueDiaryItems     float64 `json:"overdue_diary_items"`
	CompletedDiaryItems   float64 `json:"completed_diary_items"`
}

// Value returns the snapshot value for metric m.
func (s MetricSnapshot) Value(m Metric) float64 {
	if p := s.field(m); p != nil {
		return *p
	}
	return 0
}

// Set stores v as the value for metric m. Unknown metrics are ignored.
func (s *MetricSnapshot) Set(m Metric, v float64) {
	if p := s.field(m); p != nil {
		*p = v
	}
}

func (s *MetricSnapshot) field(m Metric) *float64 {
	switch m {
	case MetricLandlords:
		return &s.Landlords
	case MetricProperties:
		return &s.Properties
	case MetricLeases:
		return &s.Leases
	case MetricVacancies:
		return &s.Vacancies
	case MetricOccupancyRate:
		return &s.OccupancyRate
	case MetricManagementFees:
		return &s.ManagementFees
	case MetricLeasingFees:
		return &s.LeasingFees
	case MetricOtherFees:
		return &s.OtherFees
	case MetricTotalRevenue:
		return &s.TotalRevenue
	case MetricRentRoll:
		return &s.RentRoll
	case MetricTotalArrears:
		return &s.TotalArrears
	case MetricArrears0To30:
		return &s.Arrears0To30
	case MetricArrears31To60:
		return &s.Arrears31To60
	case MetricArrears61To90:
		return &s.Arrears61To90
	case MetricArrears90Plus:
		return &s.Arrears90Plus
	case MetricAvgFeePerTenancy:
		return &s.AvgFeePerTenancy
	case MetricRentReviewsUpcoming:
		return &s.RentReviewsUpcoming
	case MetricLeaseExpiriesUpcoming:
		return &s.LeaseExpiriesUpcoming
	case MetricOverdueDiaryItems:
		return &s.OverdueDiaryItems
	case MetricCompletedDiaryItems:
		return &s.CompletedDiaryItems
	}
	return nil
}

// Dataset is an immutable set of metric records produced by one generation run.
// Version changes every time the records are regenerated.
type Dataset struct {
	Version     string         `json:"version"`
	GeneratedAt time.Time      `json:"generated_at"`
	Seed        uint64         `json:"seed"`
	Months      int            `json:"months"`
	Records     []MetricRecord `json:"-"`
}

// Dates returns the distinct record dates in ascending order.
func (d *Dataset) Dates() []time.Time {
	seen := make(map[time.Time]struct{}, len(d.Records))
	dates := make([]time.Time, 0)
	for _, r := range d.Records {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, r.Date)
	}
	slices.SortFunc(dates, time.Time.Compare)
	return dates
}

// Span returns the earliest and latest record dates. ok is false for an empty dataset.
func (d *Dataset) Span() (minDate, maxDate time.Time, ok bool) {
	if len(d.Records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	minDate, maxDate = d.Records[0].Date, d.Records[0].Date
	for _, r := range d.Records[1:] {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}
	return minDate, maxDate, true
}
